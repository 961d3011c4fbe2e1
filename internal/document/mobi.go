package document

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"os"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/text/encoding/charmap"
)

// MOBIFormat implements Format for unencrypted PalmDOC-compressed MOBI files.
type MOBIFormat struct{}

func init() {
	Register(&MOBIFormat{})
}

func (f *MOBIFormat) Name() string         { return "MOBI" }
func (f *MOBIFormat) Extensions() []string { return []string{".mobi"} }

const (
	palmHeaderLen   = 78
	compressionNone = 1
	compressionLZ77 = 2
	encodingCP1252  = 1252
)

var errMOBIHeader = errors.New("malformed mobi header")

func (f *MOBIFormat) Chapters(filename string) ([]Chapter, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, parseError("Failed to parse the MOBI file", err)
	}
	raw, err := mobiHTML(data)
	if err != nil {
		return nil, parseError("Failed to parse the MOBI file", err)
	}
	chapters, text, headings := splitHTMLHeadings(raw, "MOBI Chapter")
	if len(chapters) == 0 || headings == 0 {
		return SplitChapters(text, "MOBI Chapter"), nil
	}
	return chapters, nil
}

// mobiHTML returns the decompressed markup stored in the text records.
func mobiHTML(data []byte) (string, error) {
	if len(data) < palmHeaderLen {
		return "", errMOBIHeader
	}
	numRecords := int(binary.BigEndian.Uint16(data[76:78]))
	if numRecords == 0 || len(data) < palmHeaderLen+8*numRecords {
		return "", errMOBIHeader
	}
	offsets := make([]int, numRecords+1)
	for i := 0; i < numRecords; i++ {
		offsets[i] = int(binary.BigEndian.Uint32(data[palmHeaderLen+8*i:]))
	}
	offsets[numRecords] = len(data)
	record := func(i int) ([]byte, error) {
		start, end := offsets[i], offsets[i+1]
		if start < 0 || end > len(data) || start > end {
			return nil, fmt.Errorf("record %d out of range", i)
		}
		return data[start:end], nil
	}

	rec0, err := record(0)
	if err != nil || len(rec0) < 16 {
		return "", errMOBIHeader
	}
	compression := binary.BigEndian.Uint16(rec0[0:2])
	textLength := int(binary.BigEndian.Uint32(rec0[4:8]))
	textRecords := int(binary.BigEndian.Uint16(rec0[8:10]))
	if binary.BigEndian.Uint16(rec0[12:14]) != 0 {
		return "", errors.New("encrypted mobi files are not supported")
	}
	if compression != compressionNone && compression != compressionLZ77 {
		return "", fmt.Errorf("unsupported mobi compression %d", compression)
	}

	var encoding uint32 = encodingCP1252
	var extraFlags uint16
	if len(rec0) >= 32 && string(rec0[16:20]) == "MOBI" {
		headerLen := int(binary.BigEndian.Uint32(rec0[20:24]))
		encoding = binary.BigEndian.Uint32(rec0[28:32])
		if headerLen >= 0xE4 && len(rec0) >= 0xF4 {
			extraFlags = binary.BigEndian.Uint16(rec0[0xF2:0xF4])
		}
	}

	var out bytes.Buffer
	for i := 1; i <= textRecords && i < numRecords; i++ {
		rec, err := record(i)
		if err != nil {
			return "", err
		}
		rec = rec[:len(rec)-trailingSize(rec, extraFlags)]
		if compression == compressionLZ77 {
			rec = palmDOCDecompress(rec)
		}
		out.Write(rec)
	}
	text := out.Bytes()
	if textLength > 0 && textLength < len(text) {
		text = text[:textLength]
	}

	if encoding == encodingCP1252 {
		decoded, err := charmap.Windows1252.NewDecoder().Bytes(text)
		if err != nil {
			return "", fmt.Errorf("decode cp1252: %w", err)
		}
		text = decoded
	}
	return strings.ToValidUTF8(string(text), ""), nil
}

// trailingSize returns the number of trailing bytes the extra record data
// flags say are appended to a text record.
func trailingSize(rec []byte, flags uint16) int {
	size := 0
	for f := flags >> 1; f != 0; f >>= 1 {
		if f&1 == 1 {
			size += trailingEntrySize(rec, len(rec)-size)
		}
	}
	if flags&1 == 1 && len(rec)-size > 0 {
		size += int(rec[len(rec)-size-1]&0x3) + 1
	}
	return min(size, len(rec))
}

// trailingEntrySize decodes the backward variable-width length ending at end.
func trailingEntrySize(rec []byte, end int) int {
	result, shift := 0, 0
	for end > 0 {
		v := rec[end-1]
		result |= int(v&0x7F) << shift
		shift += 7
		end--
		if v&0x80 != 0 || shift >= 28 {
			break
		}
	}
	return result
}

// palmDOCDecompress expands PalmDOC LZ77 compressed bytes.
func palmDOCDecompress(in []byte) []byte {
	out := make([]byte, 0, len(in)*2)
	for i := 0; i < len(in); i++ {
		c := in[i]
		switch {
		case c >= 0x01 && c <= 0x08:
			end := min(i+1+int(c), len(in))
			out = append(out, in[i+1:end]...)
			i = end - 1
		case c < 0x80:
			out = append(out, c)
		case c >= 0xC0:
			out = append(out, ' ', c^0x80)
		default:
			if i+1 >= len(in) {
				return out
			}
			pair := int(c)<<8 | int(in[i+1])
			i++
			dist := (pair >> 3) & 0x7FF
			length := (pair & 0x7) + 3
			if dist == 0 || dist > len(out) {
				continue
			}
			start := len(out) - dist
			for j := 0; j < length; j++ {
				out = append(out, out[start+j])
			}
		}
	}
	return out
}

var headingTags = map[string]bool{"h1": true, "h2": true, "h3": true}

var blockTags = map[string]bool{
	"p": true, "div": true, "br": true, "li": true, "blockquote": true,
	"h4": true, "h5": true, "h6": true, "tr": true,
}

// splitHTMLHeadings cuts markup into chapters at h1-h3 headings. It also
// returns the full text for the plain-text fallback and the number of
// headings seen.
func splitHTMLHeadings(markup, defaultTitle string) ([]Chapter, string, int) {
	doc, err := html.Parse(strings.NewReader(markup))
	if err != nil {
		return nil, "", 0
	}

	var chapters []Chapter
	var all, line strings.Builder
	var content []string
	title := defaultTitle
	headings := 0

	endLine := func() {
		if t := strings.TrimSpace(CleanText(line.String())); t != "" {
			content = append(content, t)
			all.WriteString(t)
			all.WriteByte('\n')
		}
		line.Reset()
	}
	flush := func() {
		endLine()
		if len(content) > 0 {
			chapters = append(chapters, Chapter{Title: title, Content: strings.Join(content, "\n")})
		}
		content = nil
	}

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch {
			case n.Data == "script" || n.Data == "style":
				return
			case headingTags[n.Data]:
				flush()
				headings++
				title = strings.TrimSpace(CleanText(nodeText(n)))
				if title == "" {
					title = defaultTitle
				}
				all.WriteString(title)
				all.WriteByte('\n')
				return
			}
		}
		if n.Type == html.TextNode {
			line.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
		if n.Type == html.ElementNode && blockTags[n.Data] {
			endLine()
		}
	}
	walk(doc)
	flush()

	return chapters, all.String(), headings
}

func nodeText(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
			sb.WriteByte(' ')
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.Join(strings.Fields(sb.String()), " ")
}
