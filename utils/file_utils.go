package utils

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
)

// WriteFileAtomic writes data to a temporary file next to path and renames it
// into place, so path either keeps its old content or holds all of data.
func WriteFileAtomic(path string, data []byte, perm os.FileMode) error {
	tmpPath, err := writeTemp(filepath.Dir(path), filepath.Base(path), data, perm)
	if err != nil {
		return err
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return err
	}
	return nil
}

// WriteFileUnique writes data to dir/stem_N+ext for the smallest N >= 1 that
// is free at the moment of the write and returns that path. The name is
// claimed with a hard link, so a file that appears concurrently is never
// replaced.
func WriteFileUnique(dir, stem, ext string, data []byte, perm os.FileMode) (string, error) {
	tmpPath, err := writeTemp(dir, stem+ext, data, perm)
	if err != nil {
		return "", err
	}
	defer os.Remove(tmpPath)

	for n := 1; ; n++ {
		candidate := filepath.Join(dir, stem+"_"+strconv.Itoa(n)+ext)
		err := os.Link(tmpPath, candidate)
		if err == nil {
			return candidate, nil
		}
		if !errors.Is(err, fs.ErrExist) {
			return "", err
		}
	}
}

// writeTemp leaves a fully synced copy of data in a hidden file under dir.
func writeTemp(dir, base string, data []byte, perm os.FileMode) (string, error) {
	tmp, err := os.CreateTemp(dir, "."+base+".tmp-*")
	if err != nil {
		return "", err
	}
	tmpPath := tmp.Name()

	writeErr := func() error {
		if _, err := tmp.Write(data); err != nil {
			tmp.Close()
			return err
		}
		if err := tmp.Sync(); err != nil {
			tmp.Close()
			return err
		}
		return tmp.Close()
	}()
	if writeErr == nil {
		writeErr = os.Chmod(tmpPath, perm)
	}
	if writeErr != nil {
		_ = os.Remove(tmpPath)
		return "", writeErr
	}
	return tmpPath, nil
}

// UniqueFilename returns dir/stem_N+ext for the smallest N >= 1 that does not
// exist yet. The name is only a suggestion; use WriteFileUnique to claim one.
func UniqueFilename(dir, stem, ext string) string {
	for n := 1; ; n++ {
		candidate := filepath.Join(dir, stem+"_"+strconv.Itoa(n)+ext)
		if _, err := os.Lstat(candidate); os.IsNotExist(err) {
			return candidate
		}
	}
}

func FormatSize(size int64) string {
	switch {
	case size > 1024*1024:
		return fmt.Sprintf("%.1fMB", float64(size)/(1024*1024))
	case size > 1024:
		return fmt.Sprintf("%.1fKB", float64(size)/1024)
	default:
		return fmt.Sprintf("%dB", size)
	}
}
