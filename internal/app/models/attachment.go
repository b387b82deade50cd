package models

import "time"

type Attachment struct {
	ObjectName   string     `json:"object_name"`
	OriginalName string     `json:"original_name"`
	ContentType  string     `json:"content_type"`
	Size         int64      `json:"size"`
	UploadedAt   *time.Time `json:"uploaded_at,omitempty"`
}

// StoredFile describes a downloadable object such as the original billing
// XML of a batch.
type StoredFile struct {
	Name        string
	ContentType string
	Size        int64
}
