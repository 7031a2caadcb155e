// Package fileserver stores uploaded files on local disk.
package fileserver

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

const (
	directoryPerms = 0o755
	filePerms      = 0o644
)

var ErrInvalidPath = errors.New("path escapes the base directory")

type FileServer struct {
	baseDir string
}

func New(baseDir string) *FileServer {
	return &FileServer{
		baseDir: filepath.Clean(baseDir),
	}
}

func (f *FileServer) BaseDirectory() string {
	return f.baseDir
}

// resolve maps a slash separated relative path onto the base directory.
func (f *FileServer) resolve(path string) (string, error) {
	rel := filepath.Clean(filepath.FromSlash(strings.TrimLeft(path, "/")))
	if rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%q: %w", path, ErrInvalidPath)
	}
	return filepath.Join(f.baseDir, rel), nil
}

// Write stores data at path relative to the base directory, creating
// parent directories as needed.
func (f *FileServer) Write(path string, data []byte) (fullpath string, n int, err error) {
	fullpath, err = f.resolve(path)
	if err != nil {
		return "", 0, err
	}
	if err := os.MkdirAll(filepath.Dir(fullpath), directoryPerms); err != nil {
		return "", 0, fmt.Errorf("creating parent directories: %w", err)
	}

	file, err := os.OpenFile(fullpath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, filePerms)
	if err != nil {
		return "", 0, fmt.Errorf("creating file: %w", err)
	}
	defer func() { _ = file.Close() }()

	n, err = file.Write(data)
	if err != nil {
		return "", 0, fmt.Errorf("writing file: %w", err)
	}

	return fullpath, n, nil
}

// Delete removes the file at path. Missing files are not an error.
func (f *FileServer) Delete(path string) error {
	fullpath, err := f.resolve(path)
	if err != nil {
		return err
	}
	if err := os.Remove(fullpath); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("removing file: %w", err)
	}
	return nil
}

func (f *FileServer) Exists(path string) (bool, error) {
	fullpath, err := f.resolve(path)
	if err != nil {
		return false, err
	}
	info, err := os.Stat(fullpath)
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return !info.IsDir(), nil
}

// Handler serves the stored files below urlPrefix. Directory listings
// are not served.
func (f *FileServer) Handler(urlPrefix string) http.Handler {
	files := http.FileServer(http.Dir(f.baseDir))
	return http.StripPrefix(strings.TrimRight(urlPrefix, "/"), http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/") {
			http.NotFound(w, r)
			return
		}
		files.ServeHTTP(w, r)
	}))
}
