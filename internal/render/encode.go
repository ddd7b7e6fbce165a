package render

import (
	"bytes"
	"compress/flate"
	"fmt"
)

// encodeAlphabet is the base64 variant PlantUML servers expect in URLs.
const encodeAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz-_"

// EncodeSource compresses diagram text with raw deflate and encodes it with
// the PlantUML URL alphabet, producing the path component a render server
// consumes.
func EncodeSource(source string) (string, error) {
	var buf bytes.Buffer
	w, err := flate.NewWriter(&buf, flate.BestCompression)
	if err != nil {
		return "", fmt.Errorf("failed to initialize compressor: %w", err)
	}
	if _, err := w.Write([]byte(source)); err != nil {
		return "", fmt.Errorf("failed to compress diagram source: %w", err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("failed to compress diagram source: %w", err)
	}
	return encode64(buf.Bytes()), nil
}

// encode64 packs bytes three at a time into four characters of the PlantUML
// alphabet, zero-padding the final group.
func encode64(data []byte) string {
	var out bytes.Buffer
	for i := 0; i < len(data); i += 3 {
		var b0, b1, b2 byte
		b0 = data[i]
		if i+1 < len(data) {
			b1 = data[i+1]
		}
		if i+2 < len(data) {
			b2 = data[i+2]
		}
		out.WriteByte(encodeAlphabet[b0>>2])
		out.WriteByte(encodeAlphabet[(b0&0x3)<<4|b1>>4])
		out.WriteByte(encodeAlphabet[(b1&0xF)<<2|b2>>6])
		out.WriteByte(encodeAlphabet[b2&0x3F])
	}
	return out.String()
}
