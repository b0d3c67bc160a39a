package parser

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

// maxLineSize bounds a single line of input. XPM rows hold one character per
// frame, so they can be far longer than bufio's default.
const maxLineSize = 64 * 1024 * 1024

type readCloser struct {
	io.Reader
	close func() error
}

func (r readCloser) Close() error {
	return r.close()
}

// Open opens a GROMACS text file for reading. Files ending in .gz or .zst are
// decompressed on the fly.
func Open(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	switch strings.ToLower(compressionExt(path)) {
	case ".gz":
		zr, err := gzip.NewReader(f)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to read gzip header of %s: %w", path, err)
		}
		return readCloser{zr, func() error {
			zr.Close()
			return f.Close()
		}}, nil
	case ".zst":
		zr, err := zstd.NewReader(f)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to open zstd stream of %s: %w", path, err)
		}
		return readCloser{zr, func() error {
			zr.Close()
			return f.Close()
		}}, nil
	}
	return f, nil
}

// TrimExt returns the base name of path without its compression suffix and
// file extension ("runs/wt.xvg.gz" -> "wt").
func TrimExt(path string) string {
	base := path
	if i := strings.LastIndexAny(base, `/\`); i >= 0 {
		base = base[i+1:]
	}
	base = strings.TrimSuffix(base, compressionExt(base))
	if i := strings.LastIndex(base, "."); i > 0 {
		base = base[:i]
	}
	return base
}

func compressionExt(path string) string {
	lower := strings.ToLower(path)
	for _, ext := range []string{".gz", ".zst"} {
		if strings.HasSuffix(lower, ext) {
			return path[len(path)-len(ext):]
		}
	}
	return ""
}

func newScanner(r io.Reader) *bufio.Scanner {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	return sc
}

// load opens path and hands it to parse, closing the file afterwards.
func load[T any](path string, parse func(io.Reader) (T, error)) (T, error) {
	var zero T
	rc, err := Open(path)
	if err != nil {
		return zero, err
	}
	defer rc.Close()
	v, err := parse(rc)
	if err != nil {
		return zero, fmt.Errorf("%s: %w", path, err)
	}
	return v, nil
}
