// internal/payload/codec.go
package payload

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"unicode"

	"github.com/tamzrod/trdp-sim/internal/config"
)

// ErrResolution wraps every failure to turn a payload spec into bytes.
var ErrResolution = errors.New("payload resolution failed")

// Resolve decodes a payload spec into a fresh byte buffer.
// Pure function: no state, no caching.
func Resolve(p config.PayloadConfig) ([]byte, error) {
	switch p.Format {
	case config.PayloadHex, "":
		return FromHex(p.Value)
	case config.PayloadText:
		return []byte(p.Value), nil
	case config.PayloadFile:
		data, err := os.ReadFile(p.Value)
		if err != nil {
			return nil, fmt.Errorf("%w: unable to open payload file %s: %v", ErrResolution, p.Value, err)
		}
		return data, nil
	default:
		return nil, fmt.Errorf("%w: unsupported payload format %q", ErrResolution, p.Format)
	}
}

// FromHex decodes a hex string. Whitespace is ignored, case is not significant.
func FromHex(s string) ([]byte, error) {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if unicode.IsSpace(r) {
			continue
		}
		b.WriteRune(r)
	}
	clean := b.String()

	if len(clean)%2 != 0 {
		return nil, fmt.Errorf("%w: hex payload must contain an even number of characters", ErrResolution)
	}

	out := make([]byte, 0, len(clean)/2)
	for i := 0; i < len(clean); i += 2 {
		hi, ok := nibble(clean[i])
		if !ok {
			return nil, fmt.Errorf("%w: invalid hex character %q", ErrResolution, clean[i])
		}
		lo, ok := nibble(clean[i+1])
		if !ok {
			return nil, fmt.Errorf("%w: invalid hex character %q", ErrResolution, clean[i+1])
		}
		out = append(out, hi<<4|lo)
	}
	return out, nil
}

// ToHex renders bytes as space separated lowercase pairs ("0a 0b").
func ToHex(data []byte) string {
	const digits = "0123456789abcdef"
	var b strings.Builder
	b.Grow(len(data) * 3)
	for i, v := range data {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteByte(digits[v>>4])
		b.WriteByte(digits[v&0x0F])
	}
	return b.String()
}

func nibble(c byte) (byte, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	default:
		return 0, false
	}
}
