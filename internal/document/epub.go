package document

import (
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/taylorskalyo/goreader/epub"
	"golang.org/x/net/html"
)

// EPUBFormat implements Format for EPUB files. Each spine document with
// text becomes one chapter.
type EPUBFormat struct{}

func init() {
	Register(&EPUBFormat{})
}

func (f *EPUBFormat) Name() string         { return "EPUB" }
func (f *EPUBFormat) Extensions() []string { return []string{".epub"} }

func (f *EPUBFormat) Chapters(filename string) ([]Chapter, error) {
	rc, err := epub.OpenReader(filename)
	if err != nil {
		return nil, parseError("Failed to parse the EPUB file", err)
	}
	defer rc.Close()

	if len(rc.Rootfiles) == 0 {
		return nil, parseError("Failed to parse the EPUB file", fmt.Errorf("no rootfiles found in epub"))
	}

	book := rc.Rootfiles[0]
	tocByHref := buildTOCHrefMap(filename, book)

	var chapters []Chapter
	for _, ref := range book.Spine.Itemrefs {
		if ref.Item == nil {
			continue
		}
		r, err := ref.Item.Open()
		if err != nil {
			continue
		}
		data, err := io.ReadAll(r)
		r.Close()
		if err != nil {
			continue
		}

		text := CleanText(extractTextFromHTML(string(data)))
		if strings.TrimSpace(text) == "" {
			continue
		}
		chapters = append(chapters, Chapter{
			Title:   epubTitle(ref.Item.HREF, tocByHref),
			Content: text,
		})
	}

	if len(chapters) == 0 {
		return nil, parseError("Could not extract chapters from the EPUB file", ErrNoText)
	}
	return chapters, nil
}

// epubTitle prefers the NCX label for href and falls back to the document's
// base name without extension.
func epubTitle(href string, tocByHref map[string]string) string {
	if href != "" {
		if t, ok := tocByHref[href]; ok && t != "" {
			return t
		}
		if t, ok := tocByHref[path.Base(href)]; ok && t != "" {
			return t
		}
	}
	base := path.Base(href)
	title := strings.TrimSuffix(base, path.Ext(base))
	if title == "" || title == "." || title == "/" {
		return "EPUB Chapter"
	}
	return title
}

// extractTextFromHTML returns the text nodes of s, one per line. Script and
// style bodies are skipped.
func extractTextFromHTML(s string) string {
	doc, err := html.Parse(strings.NewReader(s))
	if err != nil {
		return ""
	}

	var lines []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && (n.Data == "script" || n.Data == "style" || n.Data == "head") {
			return
		}
		if n.Type == html.TextNode {
			if t := strings.TrimSpace(n.Data); t != "" {
				lines = append(lines, t)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return strings.Join(lines, "\n")
}
