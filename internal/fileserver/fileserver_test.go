package fileserver

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

func TestWrite(t *testing.T) {
	baseDir := t.TempDir()
	fs := New(baseDir)
	data := []byte("image bytes")

	fullpath, n, err := fs.Write("recipes/images/a.png", data)
	if err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if n != len(data) {
		t.Errorf("Write() n = %d, want %d", n, len(data))
	}
	if want := filepath.Join(baseDir, "recipes", "images", "a.png"); fullpath != want {
		t.Errorf("Write() fullpath = %q, want %q", fullpath, want)
	}

	got, err := os.ReadFile(fullpath)
	if err != nil {
		t.Fatalf("reading written file: %v", err)
	}
	if string(got) != string(data) {
		t.Errorf("file content = %q, want %q", got, data)
	}
}

func TestWriteOverwrites(t *testing.T) {
	fs := New(t.TempDir())
	if _, _, err := fs.Write("a.txt", []byte("a much longer first value")); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	fullpath, _, err := fs.Write("a.txt", []byte("short"))
	if err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	got, _ := os.ReadFile(fullpath)
	if string(got) != "short" {
		t.Errorf("file content = %q, want %q", got, "short")
	}
}

func TestRejectsEscapingPaths(t *testing.T) {
	fs := New(t.TempDir())
	for _, path := range []string{"../outside.txt", "a/../../outside.txt", "", ".."} {
		t.Run(path, func(t *testing.T) {
			if _, _, err := fs.Write(path, []byte("x")); !errors.Is(err, ErrInvalidPath) {
				t.Errorf("Write(%q) error = %v, want ErrInvalidPath", path, err)
			}
			if err := fs.Delete(path); !errors.Is(err, ErrInvalidPath) {
				t.Errorf("Delete(%q) error = %v, want ErrInvalidPath", path, err)
			}
		})
	}
}

func TestDeleteAndExists(t *testing.T) {
	fs := New(t.TempDir())
	if _, _, err := fs.Write("dir/file.jpg", []byte("x")); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	exists, err := fs.Exists("dir/file.jpg")
	if err != nil || !exists {
		t.Fatalf("Exists() = %v, %v; want true, nil", exists, err)
	}

	if err := fs.Delete("dir/file.jpg"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	exists, err = fs.Exists("dir/file.jpg")
	if err != nil || exists {
		t.Errorf("Exists() after delete = %v, %v; want false, nil", exists, err)
	}

	if err := fs.Delete("dir/file.jpg"); err != nil {
		t.Errorf("Delete() of missing file error = %v, want nil", err)
	}
}

func TestHandler(t *testing.T) {
	fs := New(t.TempDir())
	if _, _, err := fs.Write("recipes/images/a.txt", []byte("hello")); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	server := httptest.NewServer(fs.Handler("/media/"))
	defer server.Close()

	resp, err := http.Get(server.URL + "/media/recipes/images/a.txt")
	if err != nil {
		t.Fatalf("GET error = %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusOK || string(body) != "hello" {
		t.Errorf("GET file = %d %q, want 200 %q", resp.StatusCode, body, "hello")
	}

	resp, err = http.Get(server.URL + "/media/recipes/")
	if err != nil {
		t.Fatalf("GET error = %v", err)
	}
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("GET directory = %d, want 404", resp.StatusCode)
	}
}
