package extension

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zip"

	"github.com/flykit-labs/flykit/internal/userdata"
)

// Unpack extracts every entry of archive into dest, creating dest if
// needed. Any failure matches ErrCorruptArchive; cleaning up dest is the
// caller's job.
func Unpack(archive, dest string) error {
	r, err := zip.OpenReader(archive)
	if err != nil {
		return fmt.Errorf("%w: opening %s: %w", ErrCorruptArchive, archive, err)
	}
	defer r.Close()

	if err := os.MkdirAll(dest, userdata.DirPermNormal); err != nil {
		return fmt.Errorf("%w: creating %s: %w", ErrCorruptArchive, dest, err)
	}

	for _, f := range r.File {
		if err := extractEntry(f, dest); err != nil {
			return fmt.Errorf("%w: %s: %w", ErrCorruptArchive, f.Name, err)
		}
	}
	return nil
}

func extractEntry(f *zip.File, dest string) error {
	target := filepath.Join(dest, filepath.FromSlash(f.Name))
	if !within(dest, target) {
		return fmt.Errorf("entry escapes the extraction folder")
	}

	mode := f.Mode()
	switch {
	case mode.IsDir():
		return os.MkdirAll(target, userdata.DirPermNormal)
	case mode&os.ModeSymlink != 0:
		// Links could point outside the extension folder.
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(target), userdata.DirPermNormal); err != nil {
		return err
	}
	rc, err := f.Open()
	if err != nil {
		return err
	}
	defer rc.Close()

	out, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, userdata.FilePermNormal)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, rc); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

// within reports whether target is dir or lies below it.
func within(dir, target string) bool {
	rel, err := filepath.Rel(dir, target)
	if err != nil || filepath.IsAbs(rel) {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
