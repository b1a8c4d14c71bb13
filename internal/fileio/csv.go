package fileio

import (
	"bufio"
	"encoding/csv"
	"errors"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/saintfish/chardet"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// readCSV detects the text encoding from the first bytes and decodes to UTF-8
// before parsing. Windows-1252/ISO-8859-1 exports from spreadsheet tools are
// common for supplier price lists.
func readCSV(r io.Reader, headerRow int) ([]Record, error) {
	br := bufio.NewReader(r)
	peek, _ := br.Peek(4096)

	var dec io.Reader = br
	if e := detectEncoding(peek); e != nil {
		dec = transform.NewReader(br, e.NewDecoder())
	}

	cr := csv.NewReader(dec)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	var rows [][]string
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		rows = append(rows, rec)
	}
	return toRecords(rows, headerRow), nil
}

func detectEncoding(peek []byte) encoding.Encoding {
	if len(peek) == 0 {
		return nil
	}
	if validUTF8Prefix(peek) {
		return nil
	}
	det, err := chardet.NewTextDetector().DetectBest(peek)
	if err != nil || det == nil {
		return nil
	}
	switch strings.ToLower(det.Charset) {
	case "windows-1252":
		return charmap.Windows1252
	case "iso-8859-1":
		return charmap.ISO8859_1
	case "windows-1251":
		return charmap.Windows1251
	case "utf-16le":
		return unicode.UTF16(unicode.LittleEndian, unicode.UseBOM)
	case "utf-16be":
		return unicode.UTF16(unicode.BigEndian, unicode.UseBOM)
	default:
		return nil
	}
}

// validUTF8Prefix reports whether peek is UTF-8, tolerating a rune cut off
// at the end of the buffer.
func validUTF8Prefix(peek []byte) bool {
	for cut := 0; cut < utf8.UTFMax && cut < len(peek); cut++ {
		if utf8.Valid(peek[:len(peek)-cut]) {
			return true
		}
	}
	return false
}
