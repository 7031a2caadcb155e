// Package form decodes images submitted with recipe payloads.
package form

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

const MaxImageSize = 10 << 20 // 10 MB

var mimeTypeSuffix = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
	"image/gif":  ".gif",
}

var (
	ErrUnsupportedMimeType = errors.New("unsupported mime type")
	ErrMalformedImage      = errors.New("image must be a base64 data URI")
	ErrImageTooLarge       = errors.New("image is too large")
)

type File struct {
	Size     int64
	Data     []byte
	Suffix   string
	MimeType string
}

// DecodeDataURI decodes an image given as "data:<mime>;base64,<payload>".
// The declared type is ignored; the type is sniffed from the content.
func DecodeDataURI(uri string) (*File, error) {
	header, payload, ok := strings.Cut(uri, ",")
	if !ok || !strings.HasPrefix(header, "data:") || !strings.HasSuffix(header, ";base64") {
		return nil, ErrMalformedImage
	}
	if base64.StdEncoding.DecodedLen(len(payload)) > MaxImageSize {
		return nil, ErrImageTooLarge
	}

	data, err := base64.StdEncoding.DecodeString(strings.TrimSpace(payload))
	if err != nil {
		return nil, errors.Join(ErrMalformedImage, err)
	}
	return readImage(data)
}

func readImage(data []byte) (*File, error) {
	if len(data) == 0 {
		return nil, ErrMalformedImage
	}

	contentType := mimetype.Detect(data).String()
	suffix, ok := mimeTypeSuffix[contentType]
	if !ok {
		return nil, fmt.Errorf("mime type %q: %w", contentType, ErrUnsupportedMimeType)
	}

	return &File{
		Size:     int64(len(data)),
		MimeType: contentType,
		Suffix:   suffix,
		Data:     data,
	}, nil
}
