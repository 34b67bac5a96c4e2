// Package encoding detects and converts the character encoding of text files.
// Documents are always edited as UTF-8; the original encoding is kept so a
// file can be written back the way it was found.
package encoding

import (
	"bytes"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/saintfish/chardet"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/encoding/korean"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Encoding describes one supported character encoding.
type Encoding struct {
	ID      string            // Stable identifier, e.g. "utf-16-le"
	Name    string            // Shown in the status bar
	Aliases []string          // Charset names reported by chardet
	codec   encoding.Encoding // nil for the UTF-8 variants
	bom     []byte
}

// String returns the display name.
func (e *Encoding) String() string {
	if e == nil {
		return "UTF-8"
	}
	return e.Name
}

// IsUTF8 reports whether the encoding needs no transcoding.
func (e *Encoding) IsUTF8() bool {
	return e == nil || e.codec == nil
}

var (
	UTF8    = &Encoding{ID: "utf-8", Name: "UTF-8", Aliases: []string{"utf8"}}
	UTF8BOM = &Encoding{ID: "utf-8-bom", Name: "UTF-8 BOM", bom: []byte{0xEF, 0xBB, 0xBF}}
	UTF16LE = &Encoding{ID: "utf-16-le", Name: "UTF-16 LE", Aliases: []string{"UTF-16LE"},
		codec: unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM), bom: []byte{0xFF, 0xFE}}
	UTF16BE = &Encoding{ID: "utf-16-be", Name: "UTF-16 BE", Aliases: []string{"UTF-16BE"},
		codec: unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM), bom: []byte{0xFE, 0xFF}}
	Latin1 = &Encoding{ID: "iso-8859-1", Name: "ISO-8859-1", Aliases: []string{"latin1"}, codec: charmap.ISO8859_1}
)

// all lists every supported encoding. BOM-carrying entries come first so
// Detect can match prefixes in order.
var all = []*Encoding{
	UTF8BOM,
	UTF16LE,
	UTF16BE,
	UTF8,
	Latin1,
	{ID: "iso-8859-15", Name: "ISO-8859-15", Aliases: []string{"latin9"}, codec: charmap.ISO8859_15},
	{ID: "windows-1252", Name: "Windows-1252", Aliases: []string{"CP1252"}, codec: charmap.Windows1252},
	{ID: "shift-jis", Name: "Shift-JIS", Aliases: []string{"Shift_JIS", "SJIS"}, codec: japanese.ShiftJIS},
	{ID: "euc-jp", Name: "EUC-JP", codec: japanese.EUCJP},
	{ID: "gbk", Name: "GBK", Aliases: []string{"GB2312"}, codec: simplifiedchinese.GBK},
	{ID: "gb18030", Name: "GB18030", codec: simplifiedchinese.GB18030},
	{ID: "euc-kr", Name: "EUC-KR", codec: korean.EUCKR},
}

// All returns the supported encodings.
func All() []*Encoding {
	return all
}

// Lookup finds an encoding by ID, display name or chardet alias.
func Lookup(name string) *Encoding {
	for _, enc := range all {
		if strings.EqualFold(enc.ID, name) || strings.EqualFold(enc.Name, name) {
			return enc
		}
		for _, alias := range enc.Aliases {
			if strings.EqualFold(alias, name) {
				return enc
			}
		}
	}
	return nil
}

// Result is the outcome of Detect.
type Result struct {
	Encoding   *Encoding
	Confidence int // 0-100
}

// Detect guesses the encoding of data. A byte order mark wins, then valid
// UTF-8, then chardet. Anything chardet cannot map falls back to Latin-1,
// which decodes every byte sequence.
func Detect(data []byte) Result {
	for _, enc := range all {
		if enc.bom != nil && bytes.HasPrefix(data, enc.bom) {
			return Result{Encoding: enc, Confidence: 100}
		}
	}
	if utf8.Valid(data) {
		return Result{Encoding: UTF8, Confidence: 100}
	}

	best, err := chardet.NewTextDetector().DetectBest(data)
	if err != nil || best == nil {
		return Result{Encoding: Latin1, Confidence: 50}
	}
	if enc := Lookup(best.Charset); enc != nil {
		return Result{Encoding: enc, Confidence: best.Confidence}
	}
	return Result{Encoding: Latin1, Confidence: best.Confidence / 2}
}

// Decode converts data in enc to UTF-8, dropping any byte order mark.
func Decode(data []byte, enc *Encoding) (string, error) {
	if enc == nil {
		enc = UTF8
	}
	data = bytes.TrimPrefix(data, enc.bom)
	if enc.codec == nil {
		return string(data), nil
	}
	out, _, err := transform.Bytes(enc.codec.NewDecoder(), data)
	if err != nil {
		return "", fmt.Errorf("decode %s: %w", enc.Name, err)
	}
	return string(out), nil
}

// Encode converts UTF-8 text to enc, restoring its byte order mark.
func Encode(text string, enc *Encoding) ([]byte, error) {
	if enc == nil {
		enc = UTF8
	}
	var buf bytes.Buffer
	buf.Write(enc.bom)
	if enc.codec == nil {
		buf.WriteString(text)
		return buf.Bytes(), nil
	}
	out, _, err := transform.Bytes(enc.codec.NewEncoder(), []byte(text))
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", enc.Name, err)
	}
	buf.Write(out)
	return buf.Bytes(), nil
}

// LineEnding is the newline convention of a file.
type LineEnding string

const (
	LF   LineEnding = "\n"
	CRLF LineEnding = "\r\n"
)

// String returns the status bar label.
func (l LineEnding) String() string {
	if l == CRLF {
		return "CRLF"
	}
	return "LF"
}

// DetectLineEnding reports CRLF when most line breaks in text are CRLF.
func DetectLineEnding(text string) LineEnding {
	total := strings.Count(text, "\n")
	if total == 0 {
		return LF
	}
	if crlf := strings.Count(text, "\r\n"); crlf*2 > total {
		return CRLF
	}
	return LF
}

// NormalizeNewlines converts CRLF and lone CR to LF.
func NormalizeNewlines(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	return strings.ReplaceAll(text, "\r", "\n")
}

// ApplyLineEnding converts LF text to the given line ending.
func ApplyLineEnding(text string, le LineEnding) string {
	if le != CRLF {
		return text
	}
	return strings.ReplaceAll(text, "\n", "\r\n")
}
