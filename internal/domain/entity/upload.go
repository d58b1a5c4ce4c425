package entity

import "time"

// Upload is the latest document a workgroup submitted for a submission component.
type Upload struct {
	ID         int        `json:"id"`
	DocumentID string     `json:"document_id"`
	URL        string     `json:"url"`
	Filename   string     `json:"filename"`
	MimeType   string     `json:"mime_type"`
	UploadedBy int        `json:"uploaded_by"`
	Modified   *time.Time `json:"modified,omitempty"`
}
