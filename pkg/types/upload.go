package types

import "time"

// Upload describes a certificate file and where its bytes live in S3.
// The URL is a presigned link that expires; it is not stable across calls.
type Upload struct {
	ID           string    `db:"id" json:"id"`
	OriginalName string    `db:"original_name" json:"originalName"`
	StoredName   string    `db:"stored_name" json:"storedName"`
	URL          string    `db:"url" json:"url"`
	MimeType     string    `db:"mime_type" json:"mimeType"`
	SizeBytes    int64     `db:"size_bytes" json:"size"`
	UploadedAt   time.Time `db:"uploaded_at" json:"uploadDate"`
	UploadedBy   string    `db:"uploaded_by" json:"uploadedBy"`
	Description  string    `db:"description" json:"description"`
	IsDeleted    bool      `db:"is_deleted" json:"isDeleted"`
}

// CertificateFile is the validated upload payload handed to the uploads
// service after it crosses the transport boundary.
type CertificateFile struct {
	OriginalName string
	MimeType     string
	Size         int64
	Data         []byte
}
