// Package archive packs a FileSet into a zip download.
package archive

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/klauspost/compress/flate"

	"screenshop/internal/model"
)

// FileName is the suggested download name.
const FileName = "screenshop-output.zip"

// ContentType of the produced archive.
const ContentType = "application/zip"

var (
	ErrUnsafePath    = errors.New("unsafe archive path")
	ErrDuplicatePath = errors.New("duplicate archive path")
)

// modTime is fixed so identical FileSets produce identical archives.
var modTime = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

// Build writes files as a deflated zip, one entry per file, in order.
func Build(w io.Writer, files model.FileSet) error {
	seen := make(map[string]struct{}, len(files))
	for _, f := range files {
		if !model.ValidPath(f.Path) {
			return fmt.Errorf("%w: %q", ErrUnsafePath, f.Path)
		}
		if _, ok := seen[f.Path]; ok {
			return fmt.Errorf("%w: %q", ErrDuplicatePath, f.Path)
		}
		seen[f.Path] = struct{}{}
	}

	zw := zip.NewWriter(w)
	zw.RegisterCompressor(zip.Deflate, func(out io.Writer) (io.WriteCloser, error) {
		return flate.NewWriter(out, flate.DefaultCompression)
	})
	for _, f := range files {
		hdr := &zip.FileHeader{Name: f.Path, Method: zip.Deflate, Modified: modTime}
		hdr.SetMode(0o644)
		ew, err := zw.CreateHeader(hdr)
		if err != nil {
			return fmt.Errorf("create entry %s: %w", f.Path, err)
		}
		if _, err := io.WriteString(ew, f.Content); err != nil {
			return fmt.Errorf("write entry %s: %w", f.Path, err)
		}
	}
	return zw.Close()
}

// Bytes is Build into memory.
func Bytes(files model.FileSet) ([]byte, error) {
	var buf bytes.Buffer
	if err := Build(&buf, files); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Extract reads an archive produced by Build back into a FileSet.
func Extract(b []byte) (model.FileSet, error) {
	zr, err := zip.NewReader(bytes.NewReader(b), int64(len(b)))
	if err != nil {
		return nil, fmt.Errorf("open archive: %w", err)
	}
	zr.RegisterDecompressor(zip.Deflate, func(r io.Reader) io.ReadCloser {
		return flate.NewReader(r)
	})
	out := make(model.FileSet, 0, len(zr.File))
	for _, zf := range zr.File {
		if !model.ValidPath(zf.Name) {
			return nil, fmt.Errorf("%w: %q", ErrUnsafePath, zf.Name)
		}
		rc, err := zf.Open()
		if err != nil {
			return nil, fmt.Errorf("open entry %s: %w", zf.Name, err)
		}
		body, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, fmt.Errorf("read entry %s: %w", zf.Name, err)
		}
		out = append(out, model.GeneratedFile{Path: zf.Name, Content: string(body)})
	}
	return out, nil
}
