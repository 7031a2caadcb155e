package filestore

import (
	"context"
	"fmt"
	"strings"

	"github.com/matt-dz/foodgram/internal/fileserver"
)

// Local keeps blobs on disk and serves them below a URL prefix of the
// API host.
type Local struct {
	urlPrefix string
	host      string
	fs        *fileserver.FileServer
}

var _ Store = (*Local)(nil)

func NewLocal(baseDirectory, urlPrefix, host string) *Local {
	if urlPrefix == "" {
		urlPrefix = DefaultURLPrefix
	}
	return &Local{
		urlPrefix: "/" + strings.Trim(urlPrefix, "/"),
		host:      strings.TrimRight(host, "/"),
		fs:        fileserver.New(baseDirectory),
	}
}

func (l *Local) WriteRecipeImage(_ context.Context, suffix string, data []byte) (string, error) {
	key := NewRecipeImageKey(suffix)
	if _, _, err := l.fs.Write(key, data); err != nil {
		return "", fmt.Errorf("writing recipe image: %w", err)
	}
	return key, nil
}

func (l *Local) Delete(_ context.Context, key string) error {
	return l.fs.Delete(key)
}

func (l *Local) FileURL(key string) string {
	if key == "" {
		return ""
	}
	return joinURL(l.host+l.urlPrefix, key)
}

// URLPrefix is the path the files are served under.
func (l *Local) URLPrefix() string {
	return l.urlPrefix
}

// FileServer exposes the disk store so the API can serve it.
func (l *Local) FileServer() *fileserver.FileServer {
	return l.fs
}
