package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLocalServiceSaveAndDelete(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	svc := NewLocalService(root)
	ctx := context.Background()

	url, err := svc.SaveImage(ctx, ProfileImageDir, "avatar.png", strings.NewReader("fake png bytes"))
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(url, ProfileImageDir+"/"))

	data, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(url)))
	require.NoError(t, err)
	require.Equal(t, "fake png bytes", string(data))

	require.NoError(t, svc.Delete(ctx, url))
	_, err = os.Stat(filepath.Join(root, filepath.FromSlash(url)))
	require.True(t, os.IsNotExist(err))

	// deleting again, or deleting nothing, is not an error
	require.NoError(t, svc.Delete(ctx, url))
	require.NoError(t, svc.Delete(ctx, ""))
}

func TestLocalServiceUniqueURLs(t *testing.T) {
	t.Parallel()

	svc := NewLocalService(t.TempDir())
	ctx := context.Background()

	first, err := svc.SaveImage(ctx, ReviewImageDir, "shot.jpg", strings.NewReader("one"))
	require.NoError(t, err)
	second, err := svc.SaveImage(ctx, ReviewImageDir, "shot.jpg", strings.NewReader("two"))
	require.NoError(t, err)

	require.NotEqual(t, first, second)
}
