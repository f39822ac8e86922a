package image

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateUpload(t *testing.T) {
	testCases := []struct {
		name     string
		size     int64
		fileName string
		wantErr  bool
	}{
		{name: "valid jpeg", size: 1024, fileName: "photo.jpg", wantErr: false},
		{name: "valid webp", size: 1024, fileName: "photo.webp", wantErr: false},
		{name: "uppercase extension accepted", size: 1024, fileName: "photo.PNG", wantErr: false},
		{name: "mixed case extension accepted", size: 1024, fileName: "photo.JpEg", wantErr: false},
		{name: "max size exactly", size: MaxFileSize, fileName: "big.gif", wantErr: false},
		{name: "empty file", size: 0, fileName: "photo.jpg", wantErr: true},
		{name: "over size limit", size: MaxFileSize + 1, fileName: "big.png", wantErr: true},
		{name: "eleven megabytes", size: 11 << 20, fileName: "big.png", wantErr: true},
		{name: "disallowed bmp", size: 1024, fileName: "image.bmp", wantErr: true},
		{name: "disallowed bmp mixed case", size: 1024, fileName: "image.Bmp", wantErr: true},
		{name: "executable", size: 1024, fileName: "virus.exe", wantErr: true},
		{name: "no extension", size: 1024, fileName: "noext", wantErr: true},
		{name: "trailing dot only", size: 1024, fileName: "photo.", wantErr: true},
		{name: "overlong filename", size: 1024, fileName: strings.Repeat("a", 300) + ".jpg", wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateUpload(tc.size, tc.fileName)
			if tc.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidInput)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestNewStorageKey(t *testing.T) {
	key := NewStorageKey("photo.JPG")

	assert.True(t, strings.HasSuffix(key, ".jpg"), "extension must be lower-cased, got %q", key)
	assert.NotContains(t, key, "/")
	assert.NotContains(t, key, "\\")
	assert.NotContains(t, key, "photo", "key must not derive from the original name")
	assert.LessOrEqual(t, len(key), 255)
}

func TestNewStorageKeyUnique(t *testing.T) {
	seen := make(map[string]struct{}, 10000)
	for i := 0; i < 10000; i++ {
		key := NewStorageKey("photo.png")
		_, dup := seen[key]
		require.False(t, dup, "duplicate key %q after %d generations", key, i)
		seen[key] = struct{}{}
	}
}
