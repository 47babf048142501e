package pdfkiwi

import (
	"errors"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
)

func TestToFile(t *testing.T) {
	fs := afero.NewMemMapFs()

	save, err := ToFile("my-file.txt", WithFs(fs))
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if err := save([]byte("abc")); err != nil {
		t.Fatalf("unexpected error: %s", err)
	}

	abs, _ := filepath.Abs("my-file.txt")
	data, err := afero.ReadFile(fs, abs)
	if err != nil {
		t.Fatalf("expected %s to be written: %s", abs, err)
	}
	if string(data) != "abc" {
		t.Errorf("expected content abc, got %q", data)
	}
}

func TestToFileAddsExtension(t *testing.T) {
	fs := afero.NewMemMapFs()

	save, err := ToFile("report", WithFs(fs))
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if err := save([]byte("abc")); err != nil {
		t.Fatalf("unexpected error: %s", err)
	}

	abs, _ := filepath.Abs("report.pdf")
	data, err := afero.ReadFile(fs, abs)
	if err != nil {
		t.Fatalf("expected %s to be written: %s", abs, err)
	}
	if string(data) != "abc" {
		t.Errorf("expected content abc, got %q", data)
	}

	if ok, _ := afero.Exists(fs, filepath.Join(filepath.Dir(abs), "report")); ok {
		t.Errorf("expected no file without extension")
	}
}

func TestToFileOnDisk(t *testing.T) {
	dir := t.TempDir()

	save, err := ToFile(filepath.Join(dir, "out"))
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if err := save([]byte("%PDF-1.4")); err != nil {
		t.Fatalf("unexpected error: %s", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "out.pdf"))
	if err != nil || string(data) != "%PDF-1.4" {
		t.Errorf("unexpected file content: %q, %v", data, err)
	}

	save, err = ToFile(filepath.Join(dir, "unknown", "path", "test-file"))
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if err := save([]byte("abc")); err == nil {
		t.Errorf("expected an error for a missing directory")
	}
}

func TestToFileUnwritable(t *testing.T) {
	save, err := ToFile("test-file", WithFs(afero.NewReadOnlyFs(afero.NewMemMapFs())))
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if err := save([]byte("abc")); err == nil {
		t.Errorf("expected an error on a read-only file system")
	}
}

func TestToFileNoName(t *testing.T) {
	if _, err := ToFile(""); !errors.Is(err, ErrNoFileName) {
		t.Errorf("expected ErrNoFileName, got %v", err)
	}
}

func TestToHTTPDownload(t *testing.T) {
	w := httptest.NewRecorder()

	send, err := ToHTTPDownload(w, "my-file.pdf")
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if err := send([]byte("abc")); err != nil {
		t.Fatalf("unexpected error: %s", err)
	}

	headers := map[string]string{
		"Content-Type":        "application/pdf",
		"Cache-Control":       "max-age=0",
		"Accept-Ranges":       "none",
		"Content-Disposition": `attachment; filename="my-file.pdf"`,
	}
	for k, v := range headers {
		if got := w.Header().Get(k); got != v {
			t.Errorf("%s: expected %q, got %q", k, v, got)
		}
	}
	if w.Body.String() != "abc" {
		t.Errorf("expected body abc, got %q", w.Body.String())
	}
}

func TestToHTTPDownloadFileName(t *testing.T) {
	cases := map[string]string{
		"my-file.pdf":                `attachment; filename="my-file.pdf"`,
		`wéir(d)-."filename.pdf`:     `attachment; filename="w%C3%A9ir(d)-.%22filename.pdf"`,
		"file":                       `attachment; filename="file.pdf"`,
		"0":                          `attachment; filename="0.pdf"`,
		"quarterly report 2024.html": `attachment; filename="quarterly%20report%202024.html"`,
	}

	for name, want := range cases {
		w := httptest.NewRecorder()

		send, err := ToHTTPDownload(w, name)
		if err != nil {
			t.Fatalf("%s: unexpected error: %s", name, err)
		}
		if err := send([]byte("abc")); err != nil {
			t.Fatalf("%s: unexpected error: %s", name, err)
		}

		if got := w.Header().Get("Content-Disposition"); got != want {
			t.Errorf("%s: expected %q, got %q", name, want, got)
		}
	}
}

func TestToHTTPDownloadInvalidArgs(t *testing.T) {
	if _, err := ToHTTPDownload(httptest.NewRecorder(), ""); !errors.Is(err, ErrNoFileName) {
		t.Errorf("expected ErrNoFileName, got %v", err)
	}
	if _, err := ToHTTPDownload(nil, "test"); !errors.Is(err, ErrNoResponseWriter) {
		t.Errorf("expected ErrNoResponseWriter, got %v", err)
	}

	var rec *httptest.ResponseRecorder
	if _, err := ToHTTPDownload(rec, "test"); !errors.Is(err, ErrNoResponseWriter) {
		t.Errorf("expected ErrNoResponseWriter for a nil recorder, got %v", err)
	}
}
