package entity

import "time"

// Blob is the metadata of an uploaded file. The bytes live in an object store
// under ObjectKey.
type Blob struct {
	ID        string
	OwnerID   string
	Filename  string
	MimeType  string
	Field     DocKey
	Size      int64
	ObjectKey string
	CreatedAt time.Time
}
