package models

import "time"

// Resource is a shared study file as listed by the backend.
type Resource struct {
	ID            int64
	Title         string
	Description   string
	Category      string
	FileName      string
	FileSize      int64
	DownloadCount int64
	UploaderID    int64
	Uploader      string
	CreatedAt     time.Time
}
