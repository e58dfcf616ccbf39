// internal/payload/codec_test.go
package payload

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/tamzrod/trdp-sim/internal/config"
)

func TestResolve_HexIgnoresWhitespaceAndCase(t *testing.T) {
	got, err := Resolve(config.PayloadConfig{Format: config.PayloadHex, Value: "0A 0b\n0C\t0d"})
	if err != nil {
		t.Fatalf("Resolve err=%v", err)
	}
	want := []byte{0x0A, 0x0B, 0x0C, 0x0D}
	if !bytes.Equal(got, want) {
		t.Fatalf("got=%v want=%v", got, want)
	}
}

func TestResolve_HexInvalid(t *testing.T) {
	for _, v := range []string{"0G", "ABC", "zz"} {
		_, err := Resolve(config.PayloadConfig{Format: config.PayloadHex, Value: v})
		if !errors.Is(err, ErrResolution) {
			t.Fatalf("value %q: expected ErrResolution, got %v", v, err)
		}
	}
}

func TestResolve_HexEmpty(t *testing.T) {
	got, err := Resolve(config.PayloadConfig{Format: config.PayloadHex})
	if err != nil {
		t.Fatalf("Resolve err=%v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected empty payload, got %v", got)
	}
}

func TestResolve_Text(t *testing.T) {
	got, err := Resolve(config.PayloadConfig{Format: config.PayloadText, Value: "hi there"})
	if err != nil {
		t.Fatalf("Resolve err=%v", err)
	}
	if string(got) != "hi there" {
		t.Fatalf("got=%q", got)
	}
}

func TestResolve_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "blob.bin")
	if err := os.WriteFile(path, []byte{1, 2, 3}, 0o644); err != nil {
		t.Fatal(err)
	}

	got, err := Resolve(config.PayloadConfig{Format: config.PayloadFile, Value: path})
	if err != nil {
		t.Fatalf("Resolve err=%v", err)
	}
	if !bytes.Equal(got, []byte{1, 2, 3}) {
		t.Fatalf("got=%v", got)
	}

	_, err = Resolve(config.PayloadConfig{Format: config.PayloadFile, Value: path + ".missing"})
	if !errors.Is(err, ErrResolution) {
		t.Fatalf("expected ErrResolution, got %v", err)
	}
}

func TestResolve_UnknownFormat(t *testing.T) {
	_, err := Resolve(config.PayloadConfig{Format: "base64", Value: "AA=="})
	if !errors.Is(err, ErrResolution) {
		t.Fatalf("expected ErrResolution, got %v", err)
	}
}

func TestToHex(t *testing.T) {
	if got := ToHex([]byte{0x0A, 0xFF, 0x00}); got != "0a ff 00" {
		t.Fatalf("got=%q", got)
	}
	if got := ToHex(nil); got != "" {
		t.Fatalf("got=%q", got)
	}
}
