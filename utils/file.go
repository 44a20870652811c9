package utils

import (
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"time"
)

const tempDir = "temp"

// EnsureTempDir creates the temp spool directory if it doesn't exist
func EnsureTempDir() error {
	return os.MkdirAll(tempDir, os.ModePerm)
}

// TempPath returns the full path for a spool file inside the temp directory
func TempPath(filename string) string {
	return filepath.Join(tempDir, filename)
}

// SaveFile saves the uploaded file to the given destination path
func SaveFile(fileHeader *multipart.FileHeader, destPath string) error {
	dir := filepath.Dir(destPath)
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		return err
	}

	file, err := fileHeader.Open()
	if err != nil {
		return err
	}
	defer file.Close()

	dst, err := os.Create(destPath)
	if err != nil {
		return err
	}
	defer dst.Close()

	_, err = io.Copy(dst, file)
	return err
}

// SweepTempDir removes spool files older than maxAge. Every request cleans
// up after itself; this catches files leaked by crashed requests. Returns
// the number of files removed.
func SweepTempDir(maxAge time.Duration) (int, error) {
	entries, err := os.ReadDir(tempDir)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, err
	}

	removed := 0
	cutoff := time.Now().Add(-maxAge)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.ModTime().Before(cutoff) {
			if err := os.Remove(filepath.Join(tempDir, entry.Name())); err == nil {
				removed++
			}
		}
	}
	return removed, nil
}
