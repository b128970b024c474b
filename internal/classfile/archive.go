package classfile

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"jdisasm/internal/logging"
)

// maxEntrySize rejects archive entries that cannot be a real class file.
const maxEntrySize = 64 * 1024 * 1024

// ErrNoClasses is returned for archives without a single loadable class.
var ErrNoClasses = errors.New("no class files found")

// LoadPath loads a .class file or every class inside a .jar, .war or .zip.
func LoadPath(path string) ([]*Class, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jar", ".war", ".zip":
		return LoadArchive(path)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	c, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}
	c.Origin = path
	return []*Class{c}, nil
}

// LoadArchive loads every .class entry of a zip based archive, sorted by
// entry name. Entries that fail to parse are skipped with a warning.
func LoadArchive(path string) ([]*Class, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read archive: %w", err)
	}
	classes, err := ReadArchive(data)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}
	return classes, nil
}

// ReadArchive is LoadArchive for an in-memory archive.
func ReadArchive(data []byte) ([]*Class, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("failed to open archive: %w", err)
	}

	lg := logging.NewLogger()
	defer lg.Close()

	var classes []*Class
	skipped := 0
	for _, f := range zr.File {
		if f.FileInfo().IsDir() || !strings.HasSuffix(f.Name, ".class") {
			continue
		}
		if f.UncompressedSize64 > maxEntrySize {
			lg.Warn("skipping oversized entry", "entry", f.Name, "size", f.UncompressedSize64)
			skipped++
			continue
		}
		c, err := readEntry(f)
		if err != nil {
			lg.Warn("skipping entry", "entry", f.Name, "error", err)
			skipped++
			continue
		}
		c.Origin = f.Name
		classes = append(classes, c)
	}
	if len(classes) == 0 {
		return nil, fmt.Errorf("%w (%d skipped)", ErrNoClasses, skipped)
	}

	sort.Slice(classes, func(i, j int) bool { return classes[i].Origin < classes[j].Origin })
	lg.Debug("loaded archive", "classes", len(classes), "skipped", skipped)
	return classes, nil
}

func readEntry(f *zip.File) (*Class, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return Load(io.LimitReader(rc, maxEntrySize))
}
