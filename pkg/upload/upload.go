package upload

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/textproto"
	"strings"
)

// ErrNotFound is returned when a referenced file doesn't exist.
var ErrNotFound = errors.New("upload: file not found")

// ErrUnsupportedScheme is returned for references no source handles.
var ErrUnsupportedScheme = errors.New("upload: unsupported reference scheme")

// DefaultContentType is sent for parts whose type is unknown.
const DefaultContentType = "application/octet-stream"

// File represents one selected file.
type File struct {
	// Filename is the display name sent in the part's Content-Disposition.
	Filename string

	// ContentType is the MIME type of the file. Empty means unknown.
	ContentType string

	// Size is the file size in bytes, or -1 when unknown.
	Size int64

	// Path is the local filesystem path (for DiskSource).
	Path string

	// URL is the remote location (for S3Source).
	URL string

	// Reader provides access to the file contents. It is consumed and closed
	// by Encode.
	Reader io.ReadCloser
}

// Close closes the file reader if open.
func (f *File) Close() error {
	if f.Reader != nil {
		return f.Reader.Close()
	}
	return nil
}

// NewFile builds a File over in-memory content.
func NewFile(filename, contentType string, content []byte) *File {
	return &File{
		Filename:    filename,
		ContentType: contentType,
		Size:        int64(len(content)),
		Reader:      io.NopCloser(bytes.NewReader(content)),
	}
}

// Form is an encoded multipart body.
type Form struct {
	// Body holds the encoded parts and the closing boundary.
	Body *bytes.Buffer

	// ContentType is the multipart/form-data header value with boundary.
	ContentType string

	// Parts is the number of file parts written.
	Parts int
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func escapeQuotes(s string) string {
	return quoteEscaper.Replace(s)
}

// Encode writes every file under field into a multipart body.
// All readers are closed, including those after a failing one.
func Encode(field string, files []*File) (*Form, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	form := &Form{Body: &buf, ContentType: w.FormDataContentType()}

	var firstErr error
	for _, f := range files {
		if firstErr != nil {
			f.Close()
			continue
		}
		if err := writePart(w, field, f); err != nil {
			firstErr = fmt.Errorf("upload: encode %q: %w", f.Filename, err)
			continue
		}
		form.Parts++
	}
	if firstErr != nil {
		return nil, firstErr
	}

	if err := w.Close(); err != nil {
		return nil, err
	}
	return form, nil
}

func writePart(w *multipart.Writer, field string, f *File) error {
	defer f.Close()

	contentType := f.ContentType
	if contentType == "" {
		contentType = DefaultContentType
	}

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition",
		fmt.Sprintf(`form-data; name="%s"; filename="%s"`, escapeQuotes(field), escapeQuotes(f.Filename)))
	h.Set("Content-Type", contentType)

	part, err := w.CreatePart(h)
	if err != nil {
		return err
	}
	if f.Reader == nil {
		return nil
	}
	_, err = io.Copy(part, f.Reader)
	return err
}
