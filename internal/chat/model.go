// Package chat holds the client-side chat model: the transcript, the pending
// PDF selection, the service readiness snapshot, and the reducer that moves
// the state between them.
package chat

type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// SourceDocument marks an answer derived from the uploaded PDFs. Any other
// source value is treated as general knowledge.
const SourceDocument = "document"

// Message is one transcript entry. Source is empty when the service did not
// report one.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
	Source  string `json:"source,omitempty"`
}

// PendingFile is a local file selected for upload.
type PendingFile struct {
	Name        string
	Path        string
	ContentType string
	Size        int64
}

// BotStatus is the readiness snapshot returned by the status endpoint.
type BotStatus struct {
	Ready          bool     `json:"ready"`
	ProcessedFiles []string `json:"processed_files"`
}

// Reply is the decoded body of a query response. A non-empty Error means the
// service refused the query.
type Reply struct {
	Answer string `json:"answer"`
	Source string `json:"source"`
	Error  string `json:"error"`
}

// State is the whole client state for one view. Values are never modified in
// place; Reduce returns a fresh State.
type State struct {
	Pending    []PendingFile
	Messages   []Message
	Status     BotStatus
	Input      string
	Uploading  bool
	Processing bool

	// Version grows with every change a session applies. Reduce leaves it
	// alone.
	Version uint64
}

// NewState returns the initial state, seeded with a system greeting when one
// is given.
func NewState(greeting string) State {
	s := State{Status: BotStatus{ProcessedFiles: []string{}}}
	if greeting != "" {
		s.Messages = []Message{{Role: RoleSystem, Content: greeting}}
	}
	return s
}
