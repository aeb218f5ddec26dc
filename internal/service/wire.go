package service

import "gwi.com/dalal-chat/internal/chat"

// Endpoint paths, relative to the service base URL. The trailing slashes are
// part of the contract.
const (
	StatusPath = "/status/"
	UploadPath = "/upload-pdfs/"
	QueryPath  = "/query/"

	// UploadField is the multipart field repeated once per file.
	UploadField = "files"
)

type StatusResponse = chat.BotStatus

// UploadResponse is the body returned after an upload. Files is a pointer so
// a body without the field can be told apart from an empty list.
type UploadResponse struct {
	Message string    `json:"message,omitempty"`
	Files   *[]string `json:"files"`
}

type QueryRequest struct {
	Query string `json:"query"`
}

type QueryResponse = chat.Reply
