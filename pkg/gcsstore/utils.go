package gcsstore

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// bufferPool provides reusable copy buffers to reduce allocations across
// many small object transfers.
var bufferPool = sync.Pool{
	New: func() interface{} {
		return make([]byte, 1024*1024)
	},
}

// CopyReaderToFilePath streams the reader into the file at targetFilePath,
// creating parent directories if they don't exist. Data is synced to disk
// before returning.
func CopyReaderToFilePath(source io.Reader, targetFilePath string) error {
	if err := os.MkdirAll(filepath.Dir(targetFilePath), 0755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", targetFilePath, err)
	}

	targetFile, err := os.Create(targetFilePath)
	if err != nil {
		return fmt.Errorf("failed to create target file %s: %w", targetFilePath, err)
	}
	defer targetFile.Close()

	buf := bufferPool.Get().([]byte)
	defer bufferPool.Put(buf)

	if _, err = io.CopyBuffer(targetFile, source, buf); err != nil {
		return fmt.Errorf("failed to copy source to target path %s: %w", targetFilePath, err)
	}
	if err := targetFile.Sync(); err != nil {
		return fmt.Errorf("failed to sync file %s: %w", targetFilePath, err)
	}
	return nil
}

// TrimObjectPrefix removes prefix from the front of objectPath if present.
func TrimObjectPrefix(objectPath string, prefix string) string {
	if prefix == "" {
		return objectPath
	}
	return strings.TrimPrefix(objectPath, prefix)
}

// ObjectBaseName returns only the file name from a given object path.
func ObjectBaseName(objectPath string) string {
	if !strings.Contains(objectPath, "/") {
		return objectPath
	}
	parts := strings.Split(objectPath, "/")
	return parts[len(parts)-1]
}
