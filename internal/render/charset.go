package render

import (
	"fmt"
	"strings"

	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/transform"
)

// DecodeText converts source bytes read with the configured charset into a
// UTF-8 string. An empty charset means the file is already UTF-8.
func DecodeText(data []byte, charset string) (string, error) {
	switch strings.ToLower(charset) {
	case "", "utf-8", "utf8":
		return string(data), nil
	}

	enc, err := ianaindex.IANA.Encoding(charset)
	if err != nil || enc == nil {
		return "", fmt.Errorf("unsupported charset %q", charset)
	}

	decoded, _, err := transform.Bytes(enc.NewDecoder(), data)
	if err != nil {
		return "", fmt.Errorf("failed to decode source as %s: %w", charset, err)
	}
	return string(decoded), nil
}
