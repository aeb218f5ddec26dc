package store

import "time"

type BatchStatus string

const (
	BatchProcessing BatchStatus = "processing"
	BatchReady      BatchStatus = "ready"
	BatchFailed     BatchStatus = "failed"
)

// Batch is one upload request. Only the latest batch is served.
type Batch struct {
	ID        string      `json:"id"` // UUID
	Status    BatchStatus `json:"status"`
	CreatedAt time.Time   `json:"created_at"`
}

type Document struct {
	ID         string    `json:"id"` // UUID
	BatchID    string    `json:"batch_id"`
	Position   int       `json:"position"`
	Filename   string    `json:"filename"`
	Size       int64     `json:"size"`
	UploadedAt time.Time `json:"uploaded_at"`
}

// NewDocument is an uploaded file before it is stored.
type NewDocument struct {
	Filename string
	Content  []byte
}
