package storage

import (
	"path"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValidateImageExtension(t *testing.T) {
	t.Parallel()

	for _, filename := range []string{"poster.jpg", "poster.JPEG", "cat.png", "anim.gif", "weird.name.PNG"} {
		ext, err := ValidateImageExtension(filename)
		require.NoError(t, err, filename)
		require.NotEmpty(t, ext)
		require.Equal(t, strings.ToLower(ext), ext)
	}

	for _, filename := range []string{"script.sh", "archive.tar.gz", "noext", "trailing.", ""} {
		_, err := ValidateImageExtension(filename)
		require.ErrorIs(t, err, ErrBadExtension, filename)
	}
}

func TestUniqueFilename(t *testing.T) {
	t.Parallel()

	first := uniqueFilename("poster.jpg")
	second := uniqueFilename("poster.jpg")

	require.NotEqual(t, first, second)
	require.Equal(t, ".jpg", path.Ext(first))
	require.True(t, strings.HasPrefix(first, "poster_"))
}
