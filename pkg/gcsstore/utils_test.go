package gcsstore

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCopyReaderToFilePath(t *testing.T) {
	t.Run("creates parent directories", func(t *testing.T) {
		dir := t.TempDir()
		target := filepath.Join(dir, "a", "b", "c", "file.bin")

		err := CopyReaderToFilePath(strings.NewReader("payload"), target)
		require.NoError(t, err)

		data, err := os.ReadFile(target)
		require.NoError(t, err)
		assert.Equal(t, "payload", string(data))
	})

	t.Run("overwrites existing file", func(t *testing.T) {
		dir := t.TempDir()
		target := filepath.Join(dir, "file.bin")
		require.NoError(t, os.WriteFile(target, []byte("old content, longer"), 0644))

		require.NoError(t, CopyReaderToFilePath(strings.NewReader("new"), target))

		data, err := os.ReadFile(target)
		require.NoError(t, err)
		assert.Equal(t, "new", string(data))
	})

	t.Run("empty reader writes empty file", func(t *testing.T) {
		dir := t.TempDir()
		target := filepath.Join(dir, "empty")

		require.NoError(t, CopyReaderToFilePath(strings.NewReader(""), target))

		info, err := os.Stat(target)
		require.NoError(t, err)
		assert.Zero(t, info.Size())
	})
}

func TestTrimObjectPrefix(t *testing.T) {
	tests := []struct {
		name       string
		objectPath string
		prefix     string
		expected   string
	}{
		{"strips prefix", "WCM/run/variant/000001/file", "WCM/run/", "variant/000001/file"},
		{"no match", "variant/000001/file", "WCM/run/", "variant/000001/file"},
		{"empty prefix", "variant/file", "", "variant/file"},
		{"whole string", "WCM/run/", "WCM/run/", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, TrimObjectPrefix(tt.objectPath, tt.prefix))
		})
	}
}

func TestObjectBaseName(t *testing.T) {
	assert.Equal(t, "file.txt", ObjectBaseName("a/b/file.txt"))
	assert.Equal(t, "file.txt", ObjectBaseName("file.txt"))
	assert.Equal(t, "", ObjectBaseName("a/b/"))
}

func TestConfig(t *testing.T) {
	t.Run("validate requires bucket", func(t *testing.T) {
		c := &Config{}
		assert.Error(t, c.Validate())

		c.Bucket = "sim-output"
		assert.NoError(t, c.Validate())
	})

	t.Run("with nil logger", func(t *testing.T) {
		_, err := NewConfig(WithLogger(nil))
		assert.Error(t, err)
	})
}
