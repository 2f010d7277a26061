package encoding

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/saintfish/chardet"
	xenc "golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Charset names the encoding a file was decoded from.
type Charset string

const (
	UTF8        Charset = "UTF-8"
	UTF16LE     Charset = "UTF-16LE"
	UTF16BE     Charset = "UTF-16BE"
	Windows1252 Charset = "windows-1252"
	ISO88599    Charset = "ISO-8859-9"
)

var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}
)

var decoders = map[Charset]xenc.Encoding{
	UTF16LE:     unicode.UTF16(unicode.LittleEndian, unicode.UseBOM),
	UTF16BE:     unicode.UTF16(unicode.BigEndian, unicode.UseBOM),
	Windows1252: charmap.Windows1252,
	ISO88599:    charmap.ISO8859_9,
}

// Detect guesses the charset of a file from its first bytes. Spreadsheet
// exports from Excel and Tally are usually UTF-8 with a BOM, UTF-16 or
// windows-1252, which is also the fallback.
func Detect(buf []byte) Charset {
	switch {
	case bytes.HasPrefix(buf, bomUTF8):
		return UTF8
	case bytes.HasPrefix(buf, bomUTF16LE):
		return UTF16LE
	case bytes.HasPrefix(buf, bomUTF16BE):
		return UTF16BE
	case utf8.Valid(buf):
		return UTF8
	}

	result, err := chardet.NewTextDetector().DetectBest(buf)
	if err == nil {
		switch result.Charset {
		case "UTF-8":
			return UTF8
		case "UTF-16LE":
			return UTF16LE
		case "UTF-16BE":
			return UTF16BE
		case "ISO-8859-9":
			return ISO88599
		}
	}

	return Windows1252
}

// NewUTF8Reader returns a reader that decodes r to UTF-8 along with the
// charset it detected. A UTF-8 BOM is stripped.
func NewUTF8Reader(r io.Reader) (io.Reader, Charset, error) {
	br := bufio.NewReader(r)

	buf, err := br.Peek(4096)
	if err != nil && err != io.EOF {
		return nil, "", fmt.Errorf("peek: %w", err)
	}

	charset := Detect(buf)

	if charset == UTF8 {
		if bytes.HasPrefix(buf, bomUTF8) {
			_, _ = br.Discard(len(bomUTF8))
		}

		return br, charset, nil
	}

	return transform.NewReader(br, decoders[charset].NewDecoder()), charset, nil
}
