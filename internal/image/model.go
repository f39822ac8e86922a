// Package image manages uploaded images: metadata persistence and the
// upload/delete orchestration over a storage backend.
package image

import "time"

// Image is the metadata record of an uploaded image. The bytes themselves
// live in a storage backend, addressed by StorageKey.
type Image struct {
	ID           int64     `json:"id"`
	StorageKey   string    `json:"storageKey"`
	OriginalName string    `json:"originalName"`
	ContentType  string    `json:"contentType"`
	SizeBytes    int64     `json:"sizeBytes"`
	StorageURL   string    `json:"storageUrl"`
	UploadedAt   time.Time `json:"uploadedAt"`
	Description  *string   `json:"description,omitempty"`
}

// Draft holds the attributes of an image whose bytes have already been
// written to the backend, ready for metadata insertion. ID and UploadedAt
// are assigned by the store.
type Draft struct {
	StorageKey   string
	OriginalName string
	ContentType  string
	SizeBytes    int64
	StorageURL   string
	Description  *string
}
