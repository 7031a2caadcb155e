package form

import (
	"encoding/base64"
	"errors"
	"testing"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

func dataURI(mime string, data []byte) string {
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data)
}

func TestDecodeDataURI(t *testing.T) {
	file, err := DecodeDataURI(dataURI("image/png", pngHeader))
	if err != nil {
		t.Fatalf("DecodeDataURI() error = %v", err)
	}
	if file.MimeType != "image/png" {
		t.Errorf("MimeType = %q, want image/png", file.MimeType)
	}
	if file.Suffix != ".png" {
		t.Errorf("Suffix = %q, want .png", file.Suffix)
	}
	if file.Size != int64(len(pngHeader)) {
		t.Errorf("Size = %d, want %d", file.Size, len(pngHeader))
	}
}

func TestDecodeDataURISniffsContent(t *testing.T) {
	// Declared as jpeg, sniffed as png.
	file, err := DecodeDataURI(dataURI("image/jpeg", pngHeader))
	if err != nil {
		t.Fatalf("DecodeDataURI() error = %v", err)
	}
	if file.MimeType != "image/png" {
		t.Errorf("MimeType = %q, want image/png", file.MimeType)
	}
}

func TestDecodeDataURIErrors(t *testing.T) {
	tests := []struct {
		name string
		uri  string
		want error
	}{
		{"no comma", "data:image/png;base64", ErrMalformedImage},
		{"not a data uri", "http://example.com/a.png", ErrMalformedImage},
		{"not base64", "data:image/png,plain", ErrMalformedImage},
		{"bad payload", "data:image/png;base64,!!!", ErrMalformedImage},
		{"empty payload", "data:image/png;base64,", ErrMalformedImage},
		{"text content", dataURI("image/png", []byte("just some text")), ErrUnsupportedMimeType},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := DecodeDataURI(tt.uri); !errors.Is(err, tt.want) {
				t.Errorf("DecodeDataURI() error = %v, want %v", err, tt.want)
			}
		})
	}
}
