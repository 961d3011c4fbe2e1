// Package client talks to a nightreader parsing server.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/metcalfc/nightreader/internal/document"
)

// UploadPath is the server endpoint documents are posted to.
const UploadPath = "/upload"

// UploadError is a non-success response from the parsing server. Message
// is the server's "error" field and is empty when the body carried none.
type UploadError struct {
	StatusCode int
	Message    string
}

func (e *UploadError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("upload failed with status %d", e.StatusCode)
	}
	return fmt.Sprintf("upload failed with status %d: %s", e.StatusCode, e.Message)
}

// UserMessage returns the server's message, if any.
func (e *UploadError) UserMessage() string { return e.Message }

// Config configures a Client.
type Config struct {
	// BaseURL of the parsing server, e.g. http://127.0.0.1:5000.
	BaseURL string

	// HTTPClient defaults to http.DefaultClient.
	HTTPClient *http.Client

	Logger *slog.Logger
}

func (c *Config) defaults() {
	if c.HTTPClient == nil {
		c.HTTPClient = http.DefaultClient
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
	c.BaseURL = strings.TrimRight(c.BaseURL, "/")
}

// Client uploads documents to a parsing server.
type Client struct {
	cfg Config
}

// New creates a Client.
func New(cfg Config) *Client {
	cfg.defaults()
	return &Client{cfg: cfg}
}

type uploadResponse struct {
	Chapters []document.Chapter `json:"chapters"`
	Error    string             `json:"error"`
}

// Parse posts r as the multipart field "file" named name and returns the
// chapters the server found.
func (c *Client) Parse(ctx context.Context, name string, r io.Reader) ([]document.Chapter, error) {
	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)

	go func() {
		part, err := mw.CreateFormFile("file", name)
		if err == nil {
			_, err = io.Copy(part, r)
		}
		if err == nil {
			err = mw.Close()
		}
		pw.CloseWithError(err)
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+UploadPath, pr)
	if err != nil {
		pr.Close()
		return nil, fmt.Errorf("build upload request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Accept", "application/json")

	c.cfg.Logger.Debug("posting document", "url", req.URL.String(), "name", name)

	resp, err := c.cfg.HTTPClient.Do(req)
	if err != nil {
		pr.Close()
		return nil, fmt.Errorf("upload %s: %w", name, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read upload response: %w", err)
	}

	var out uploadResponse
	decodeErr := json.Unmarshal(body, &out)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// A malformed error body still yields an UploadError so the caller
		// falls back to its generic message.
		return nil, &UploadError{StatusCode: resp.StatusCode, Message: strings.TrimSpace(out.Error)}
	}
	if decodeErr != nil {
		return nil, fmt.Errorf("decode upload response: %w", decodeErr)
	}
	if out.Chapters == nil {
		return nil, errors.New("upload response has no chapters")
	}

	c.cfg.Logger.Debug("document parsed by server", "name", name, "chapters", len(out.Chapters))
	return out.Chapters, nil
}
