package studio

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// PictureStore accepts a coach profile picture and returns the public URL
// it will be served from.
type PictureStore interface {
	Save(filename string, content io.Reader) (string, error)
}

// DiskPictureStore writes pictures under a local directory served as
// static files.
type DiskPictureStore struct {
	Dir     string
	BaseURL string
}

func NewDiskPictureStore(dir, baseURL string) *DiskPictureStore {
	return &DiskPictureStore{Dir: dir, BaseURL: strings.TrimRight(baseURL, "/")}
}

func (s *DiskPictureStore) Save(filename string, content io.Reader) (string, error) {
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return "", err
	}

	// Prefix with a timestamp so re-uploads never clobber each other.
	name := fmt.Sprintf("%d_%s", time.Now().UnixNano(), filepath.Base(filename))
	path := filepath.Join(s.Dir, name)

	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	if _, err := io.Copy(f, content); err != nil {
		os.Remove(path)
		return "", err
	}

	return s.BaseURL + "/" + name, nil
}
