package storage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rshop/shopbot/config"
)

func newTestPhotos(t *testing.T) *Photos {
	t.Helper()
	p, err := NewPhotos(config.StorageConfig{
		Dir:       t.TempDir(),
		URLPrefix: "/static",
	})
	if err != nil {
		t.Fatalf("NewPhotos: %v", err)
	}
	return p
}

func TestPhotosSaveAndRemove(t *testing.T) {
	p := newTestPhotos(t)

	url, err := p.Save(strings.NewReader("jpeg-bytes"), "abc123.jpg")
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if url != "/static/abc123.jpg" {
		t.Fatalf("url = %q", url)
	}

	data, err := os.ReadFile(filepath.Join(p.Dir(), "abc123.jpg"))
	if err != nil {
		t.Fatalf("read saved file: %v", err)
	}
	if string(data) != "jpeg-bytes" {
		t.Fatalf("saved contents = %q", data)
	}

	if err := p.Remove(url); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if _, err := os.Stat(filepath.Join(p.Dir(), "abc123.jpg")); !os.IsNotExist(err) {
		t.Fatal("file still exists after Remove")
	}
}

func TestPhotosRemoveMissingFile(t *testing.T) {
	p := newTestPhotos(t)
	if err := p.Remove("/static/never-existed.jpg"); err != nil {
		t.Fatalf("Remove of missing file: %v", err)
	}
}

func TestPhotosSaveStripsPath(t *testing.T) {
	p := newTestPhotos(t)

	url, err := p.Save(strings.NewReader("x"), "../../etc/evil.jpg")
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if url != "/static/evil.jpg" {
		t.Fatalf("url = %q", url)
	}
	if _, err := os.Stat(filepath.Join(p.Dir(), "evil.jpg")); err != nil {
		t.Fatalf("file not stored inside dir: %v", err)
	}
}

func TestPhotosSaveRejectsEmptyName(t *testing.T) {
	p := newTestPhotos(t)
	if _, err := p.Save(strings.NewReader("x"), ""); err == nil {
		t.Fatal("expected error for empty name")
	}
}

func TestExt(t *testing.T) {
	cases := []struct{ in, want string }{
		{"photo.PNG", ".png"},
		{"photo.jpeg", ".jpeg"},
		{"photo", ".jpg"},
		{"weird.tarball-extension-way-too-long", ".jpg"},
	}
	for _, c := range cases {
		if got := Ext(c.in); got != c.want {
			t.Errorf("Ext(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}
