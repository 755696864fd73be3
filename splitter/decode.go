package splitter

import (
	"bufio"
	"errors"
	"io"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// detectEncoding reports EncodingUTF8 if every line of r is valid UTF-8 and
// EncodingLatin1 otherwise. Lines are split at '\n', which never occurs inside
// a multi-byte UTF-8 sequence.
func detectEncoding(r io.Reader) (string, error) {
	br := bufio.NewReader(r)
	for {
		line, err := br.ReadBytes('\n')
		if !utf8.Valid(line) {
			return EncodingLatin1, nil
		}
		if errors.Is(err, io.EOF) {
			return EncodingUTF8, nil
		}
		if err != nil {
			return "", err
		}
	}
}

// decodingReader returns a reader producing UTF-8 text for the given source encoding.
func decodingReader(r io.Reader, encoding string) io.Reader {
	if encoding == EncodingLatin1 {
		return charmap.ISO8859_1.NewDecoder().Reader(r)
	}
	return r
}

// decodeContent returns raw as UTF-8 text, decoding it as ISO-8859-1 if it is not valid UTF-8.
func decodeContent(raw []byte) (string, string, error) {
	if utf8.Valid(raw) {
		return string(raw), EncodingUTF8, nil
	}
	decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(raw)
	if err != nil {
		return "", "", err
	}
	return string(decoded), EncodingLatin1, nil
}
