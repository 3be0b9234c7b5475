package upload_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/vango-dev/dropzone/pkg/upload"
)

type stubSource struct {
	opened []string
	fail   map[string]error
}

func (s *stubSource) Open(_ context.Context, ref string) (*upload.File, error) {
	if err := s.fail[ref]; err != nil {
		return nil, err
	}
	s.opened = append(s.opened, ref)
	return upload.NewFile(filepath.Base(ref), "", []byte(ref)), nil
}

func TestResolver_Dispatch(t *testing.T) {
	disk := &stubSource{}
	s3 := &stubSource{}
	r := upload.NewResolver(disk, s3)

	files, err := r.Resolve(context.Background(), []string{"a.txt", "s3://bucket/b.png", "file:///tmp/c.pdf"})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if len(files) != 3 {
		t.Fatalf("got %d files, want 3", len(files))
	}

	wantNames := []string{"a.txt", "b.png", "c.pdf"}
	for i, f := range files {
		if f.Filename != wantNames[i] {
			t.Errorf("file %d = %q, want %q", i, f.Filename, wantNames[i])
		}
	}
	if len(disk.opened) != 2 || disk.opened[1] != "/tmp/c.pdf" {
		t.Errorf("disk opened %v", disk.opened)
	}
	if len(s3.opened) != 1 || s3.opened[0] != "s3://bucket/b.png" {
		t.Errorf("s3 opened %v", s3.opened)
	}
}

func TestResolver_UnsupportedScheme(t *testing.T) {
	r := upload.NewResolver(&stubSource{}, nil)

	_, err := r.Open(context.Background(), "s3://bucket/key")
	if !errors.Is(err, upload.ErrUnsupportedScheme) {
		t.Fatalf("error = %v, want ErrUnsupportedScheme", err)
	}

	_, err = r.Open(context.Background(), "gs://bucket/key")
	if !errors.Is(err, upload.ErrUnsupportedScheme) {
		t.Fatalf("error = %v, want ErrUnsupportedScheme", err)
	}
}

func TestResolver_Handle(t *testing.T) {
	gs := &stubSource{}
	r := upload.NewResolver(nil, nil)
	r.Handle("gs", gs)

	if _, err := r.Open(context.Background(), "gs://bucket/key"); err != nil {
		t.Fatalf("Open: %v", err)
	}
	if len(gs.opened) != 1 {
		t.Errorf("gs opened %v", gs.opened)
	}
}

func TestResolver_StopsOnFirstError(t *testing.T) {
	boom := errors.New("boom")
	disk := &stubSource{fail: map[string]error{"bad.txt": boom}}
	r := upload.NewResolver(disk, nil)

	_, err := r.Resolve(context.Background(), []string{"ok.txt", "bad.txt", "never.txt"})
	if !errors.Is(err, boom) {
		t.Fatalf("error = %v, want boom", err)
	}
	if len(disk.opened) != 1 {
		t.Errorf("opened %v, want only ok.txt", disk.opened)
	}
}

func TestResolver_RealDisk(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "real.txt")
	if err := os.WriteFile(path, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	r := upload.NewResolver(upload.DiskSource{}, nil)
	files, err := r.Resolve(context.Background(), []string{path})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	defer files[0].Close()
	if files[0].Filename != "real.txt" {
		t.Errorf("Filename = %q", files[0].Filename)
	}
}
