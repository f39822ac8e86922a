package image

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// MaxFileSize is the upload size ceiling.
const MaxFileSize = 10 << 20 // 10 MiB

// maxNameLen caps the declared filename length.
const maxNameLen = 255

// allowedExtensions is the set of accepted image file extensions, lower-cased.
var allowedExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

// ValidateUpload checks the declared stream length and filename against the
// upload policy. It is pure: no I/O happens before it passes. All failures
// wrap ErrInvalidInput.
func ValidateUpload(size int64, name string) error {
	if size == 0 {
		return fmt.Errorf("%w: file is empty", ErrInvalidInput)
	}
	if size > MaxFileSize {
		return fmt.Errorf("%w: file exceeds %d MB limit", ErrInvalidInput, MaxFileSize/1024/1024)
	}
	if len(name) > maxNameLen {
		return fmt.Errorf("%w: filename exceeds %d characters", ErrInvalidInput, maxNameLen)
	}

	ext := strings.ToLower(filepath.Ext(name))
	if !allowedExtensions[ext] {
		return fmt.Errorf("%w: only JPG, JPEG, PNG, GIF and WEBP files are allowed", ErrInvalidInput)
	}
	return nil
}

// NewStorageKey returns a fresh storage key for a validated filename:
// a random UUID plus the lower-cased extension. The key is never derived
// from the original name, so repeated uploads of the same file and
// path-traversal attempts in the name cannot collide or escape the store.
func NewStorageKey(name string) string {
	return uuid.New().String() + strings.ToLower(filepath.Ext(name))
}
