package document

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildMOBI lays out a PalmDB with a PalmDOC header record followed by the
// given text records.
func buildMOBI(compression uint16, textLen int, records ...[]byte) []byte {
	numRecords := len(records) + 1
	header := make([]byte, palmHeaderLen)
	copy(header[60:], "BOOKMOBI")
	binary.BigEndian.PutUint16(header[76:], uint16(numRecords))

	rec0 := make([]byte, 16)
	binary.BigEndian.PutUint16(rec0[0:], compression)
	binary.BigEndian.PutUint32(rec0[4:], uint32(textLen))
	binary.BigEndian.PutUint16(rec0[8:], uint16(len(records)))
	binary.BigEndian.PutUint16(rec0[10:], 4096)

	all := append([][]byte{rec0}, records...)
	list := make([]byte, 8*numRecords)
	offset := palmHeaderLen + len(list)
	for i, r := range all {
		binary.BigEndian.PutUint32(list[8*i:], uint32(offset))
		offset += len(r)
	}

	out := append(header, list...)
	for _, r := range all {
		out = append(out, r...)
	}
	return out
}

func TestMOBIChapters(t *testing.T) {
	markup := "<html><body><h1>Chapter 1</h1><p>Hello</p><h2>Chapter 2</h2><p>World</p><p>Again</p></body></html>"
	path := filepath.Join(t.TempDir(), "book.mobi")
	require.NoError(t, os.WriteFile(path, buildMOBI(compressionNone, len(markup), []byte(markup)), 0644))

	got, err := (&MOBIFormat{}).Chapters(path)
	require.NoError(t, err)

	assert.Equal(t, []Chapter{
		{Title: "Chapter 1", Content: "Hello"},
		{Title: "Chapter 2", Content: "World\nAgain"},
	}, got)
}

func TestMOBIChaptersWithoutHeadings(t *testing.T) {
	markup := "<p>only a little text</p>"
	path := filepath.Join(t.TempDir(), "book.mobi")
	require.NoError(t, os.WriteFile(path, buildMOBI(compressionNone, len(markup), []byte(markup)), 0644))

	got, err := (&MOBIFormat{}).Chapters(path)
	require.NoError(t, err)

	assert.Equal(t, []Chapter{{Title: "MOBI Chapter", Content: "only a little text"}}, got)
}

func TestMOBISingleHeadingKeepsTitle(t *testing.T) {
	markup := "<h1>Prologue</h1><p>Hello</p><p>World</p>"
	path := filepath.Join(t.TempDir(), "book.mobi")
	require.NoError(t, os.WriteFile(path, buildMOBI(compressionNone, len(markup), []byte(markup)), 0644))

	got, err := (&MOBIFormat{}).Chapters(path)
	require.NoError(t, err)

	assert.Equal(t, []Chapter{{Title: "Prologue", Content: "Hello\nWorld"}}, got)
}

func TestMOBIRejectsShortFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "book.mobi")
	require.NoError(t, os.WriteFile(path, []byte("tiny"), 0644))

	_, err := (&MOBIFormat{}).Chapters(path)

	var pe *ParseError
	require.ErrorAs(t, err, &pe)
	assert.ErrorIs(t, err, errMOBIHeader)
}

func TestPalmDOCDecompress(t *testing.T) {
	tests := []struct {
		name     string
		input    []byte
		expected string
	}{
		{"literals", []byte("abc"), "abc"},
		{"escaped run", []byte{0x02, 0xE9, 0x80}, "\xe9\x80"},
		{"space pair", []byte{'a', 0xC1}, "a A"},
		{"back reference", []byte{'a', 'b', 0x80, 0x10}, "ababa"},
		{"truncated pair", []byte{'a', 0x80}, "a"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, string(palmDOCDecompress(tt.input)))
		})
	}
}

func TestTrailingSize(t *testing.T) {
	assert.Equal(t, 0, trailingSize([]byte("hello"), 0))
	// multibyte flag: low two bits of the last byte plus one
	assert.Equal(t, 2, trailingSize([]byte{'h', 'i', 0x01}, 1))
	// one trailing entry whose size byte says 3 bytes in total
	assert.Equal(t, 3, trailingSize([]byte{'h', 'i', 'x', 'y', 0x83}, 2))
}
