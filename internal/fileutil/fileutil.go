package fileutil

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// ErrTooLarge reports a file that exceeds the caller's size limit.
var ErrTooLarge = errors.New("file exceeds size limit")

// ReadFileLimited reads the whole file at path, refusing files larger than
// limit bytes. The size is checked with Stat before any buffer is allocated
// and enforced again while reading, so a file growing underneath the read is
// still bounded. A limit <= 0 disables the check.
func ReadFileLimited(path string, limit int64) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("read %s: is a directory", path)
	}
	if limit <= 0 {
		return io.ReadAll(f)
	}
	if info.Size() > limit {
		return nil, fmt.Errorf("%w: %d bytes > %d", ErrTooLarge, info.Size(), limit)
	}

	data, err := io.ReadAll(io.LimitReader(f, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > limit {
		return nil, fmt.Errorf("%w: more than %d bytes", ErrTooLarge, limit)
	}
	return data, nil
}

// HasExtension reports whether path ends with one of exts, compared without
// case. Extensions include the leading dot.
func HasExtension(path string, exts ...string) bool {
	lower := strings.ToLower(path)
	for _, ext := range exts {
		if ext != "" && strings.HasSuffix(lower, strings.ToLower(ext)) {
			return true
		}
	}
	return false
}
