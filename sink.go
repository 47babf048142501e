package pdfkiwi

import (
	"fmt"
	"net/http"
	"path"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/spf13/afero"
)

const defaultExtension = ".pdf"

type fileConfig struct {
	fs afero.Fs
}

// FileOption configures [ToFile].
type FileOption func(*fileConfig)

// WithFs writes through fs instead of the operating system file system.
func WithFs(fs afero.Fs) FileOption {
	return func(c *fileConfig) {
		if fs != nil {
			c.fs = fs
		}
	}
}

// ToFile returns a function writing the PDF to name. The name is made
// absolute and gets a .pdf extension when it has none.
func ToFile(name string, opts ...FileOption) (func([]byte) error, error) {
	if name == "" {
		return nil, ErrNoFileName
	}

	cfg := fileConfig{fs: afero.NewOsFs()}
	for _, o := range opts {
		o(&cfg)
	}

	filePath, err := filepath.Abs(name)
	if err != nil {
		return nil, fmt.Errorf("pdfkiwi: resolving path: %w", err)
	}
	if filepath.Ext(filePath) == "" {
		filePath += defaultExtension
	}

	return func(data []byte) error {
		if err := afero.WriteFile(cfg.fs, filePath, data, 0o644); err != nil {
			return fmt.Errorf("pdfkiwi: saving %s: %w", filePath, err)
		}
		return nil
	}, nil
}

// ToHTTPDownload returns a function sending the PDF as an attachment named
// fileName. The name is percent-encoded and gets a .pdf extension when it has none.
// A nil w, including a nil pointer wrapped in the interface, is rejected.
func ToHTTPDownload(w http.ResponseWriter, fileName string) (func([]byte) error, error) {
	if isNil(w) {
		return nil, ErrNoResponseWriter
	}
	if fileName == "" {
		return nil, ErrNoFileName
	}

	name := encodeURIComponent(fileName)
	if path.Ext(name) == "" {
		name += defaultExtension
	}

	return func(data []byte) error {
		h := w.Header()
		h.Set("Content-Type", "application/pdf")
		h.Set("Cache-Control", "max-age=0")
		h.Set("Accept-Ranges", "none")
		h.Set("Content-Disposition", `attachment; filename="`+name+`"`)

		_, err := w.Write(data)
		return err
	}, nil
}

// encodeURIComponent escapes everything except A-Z a-z 0-9 - _ . ! ~ * ' ( ).
func encodeURIComponent(s string) string {
	const hex = "0123456789ABCDEF"

	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' ||
			strings.IndexByte("-_.!~*'()", c) >= 0 {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(hex[c>>4])
		b.WriteByte(hex[c&0x0f])
	}
	return b.String()
}

func isNil(w http.ResponseWriter) bool {
	if w == nil {
		return true
	}

	switch v := reflect.ValueOf(w); v.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Func, reflect.Chan, reflect.Slice, reflect.Interface:
		return v.IsNil()
	}
	return false
}
