package upload

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"
)

// DiskSource opens files from the local filesystem.
type DiskSource struct {
	// Dir, when set, is the base for relative paths.
	Dir string
}

// Open opens path and fills in name, size and content type.
// The type comes from the extension, then from sniffing the first 512 bytes.
func (s DiskSource) Open(_ context.Context, path string) (*File, error) {
	if s.Dir != "" && !filepath.IsAbs(path) {
		path = filepath.Join(s.Dir, path)
	}

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, err
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	if info.IsDir() {
		f.Close()
		return nil, fmt.Errorf("%w: %s is a directory", ErrNotFound, path)
	}

	br := bufio.NewReader(f)
	contentType := mime.TypeByExtension(filepath.Ext(path))
	if contentType == "" {
		head, _ := br.Peek(512)
		contentType = http.DetectContentType(head)
	}

	return &File{
		Filename:    filepath.Base(path),
		ContentType: contentType,
		Size:        info.Size(),
		Path:        path,
		Reader:      &bufferedFile{Reader: br, file: f},
	}, nil
}

// bufferedFile reads through the sniffing buffer and closes the file.
type bufferedFile struct {
	io.Reader
	file *os.File
}

func (b *bufferedFile) Close() error {
	return b.file.Close()
}
