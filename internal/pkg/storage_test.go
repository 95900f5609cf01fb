package pkg

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorage_PutAndRemove(t *testing.T) {
	dir := t.TempDir()
	s, err := NewLocalStorage(dir, "http://localhost:3000/uploads/")
	require.NoError(t, err)

	obj, err := s.Put(context.Background(), "Photo.PNG", strings.NewReader("data"), 4, "image/png")
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(obj.Key, ".png"))
	assert.Equal(t, "http://localhost:3000/uploads/"+obj.Key, obj.URL)

	b, err := os.ReadFile(filepath.Join(dir, obj.Key))
	require.NoError(t, err)
	assert.Equal(t, "data", string(b))

	require.NoError(t, s.Remove(context.Background(), obj.Key))
	_, err = os.Stat(filepath.Join(dir, obj.Key))
	assert.True(t, os.IsNotExist(err))
	// 重复删除不报错
	assert.NoError(t, s.Remove(context.Background(), obj.Key))
}
