package xrotate

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLumberjack_Validation(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		opts     []Option
		wantErr  error
	}{
		{"empty filename", "", nil, ErrEmptyFilename},
		{"zero max size", "a.log", []Option{WithMaxSizeMB(0)}, ErrInvalidMaxSize},
		{"negative max size", "a.log", []Option{WithMaxSizeMB(-1)}, ErrInvalidMaxSize},
		{"negative backups", "a.log", []Option{WithMaxBackups(-1)}, ErrInvalidMaxBackups},
		{"negative age", "a.log", []Option{WithMaxAgeDays(-1)}, ErrInvalidMaxAge},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewLumberjack(tt.filename, tt.opts...)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestLumberjack_WriteReadBack(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.log")
	r, err := NewLumberjack(path)
	require.NoError(t, err)
	defer r.Close()

	line := []byte("pool started workers=4\n")
	n, err := r.Write(line)
	require.NoError(t, err)
	assert.Equal(t, len(line), n)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, line, data)
}

func TestLumberjack_Rotate(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rot.log")
	r, err := NewLumberjack(path, WithMaxSizeMB(1), WithMaxBackups(2))
	require.NoError(t, err)
	defer r.Close()

	_, err = r.Write([]byte("before rotate\n"))
	require.NoError(t, err)
	require.NoError(t, r.Rotate())
	_, err = r.Write([]byte("after rotate\n"))
	require.NoError(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, len(entries), 2, "轮转后应有当前文件和至少一个备份")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "after rotate\n", string(data))
}

func TestLumberjack_LazyCreate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lazy.log")
	r, err := NewLumberjack(path)
	require.NoError(t, err)
	defer r.Close()

	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr), "构造不应创建文件")
}
