package chat

import (
	"fmt"
	"strings"
)

// Event is anything Reduce knows how to apply.
type Event interface {
	isEvent()
}

type StatusPolled struct{ Status BotStatus }

type FilesSelected struct{ Files []PendingFile }

type InputChanged struct{ Text string }

type UploadStarted struct{}

// UploadFinished carries the file names the service accepted, or the error
// that ended the upload.
type UploadFinished struct {
	Files []string
	Err   error
}

type QuerySubmitted struct{ Text string }

type QuerySettled struct {
	Reply Reply
	Err   error
}

func (StatusPolled) isEvent()   {}
func (FilesSelected) isEvent()  {}
func (InputChanged) isEvent()   {}
func (UploadStarted) isEvent()  {}
func (UploadFinished) isEvent() {}
func (QuerySubmitted) isEvent() {}
func (QuerySettled) isEvent()   {}

// Reduce applies ev to s and returns the resulting state. s is not modified.
func Reduce(s State, ev Event) State {
	switch e := ev.(type) {
	case StatusPolled:
		s.Status = BotStatus{
			Ready:          e.Status.Ready,
			ProcessedFiles: append([]string{}, e.Status.ProcessedFiles...),
		}

	case FilesSelected:
		if pdfs := FilterPDFs(e.Files); len(pdfs) > 0 {
			s.Pending = pdfs
		}

	case InputChanged:
		s.Input = e.Text

	case UploadStarted:
		s.Uploading = true

	case UploadFinished:
		if e.Err != nil {
			s.Messages = appendMessage(s.Messages, Message{Role: RoleSystem, Content: UploadFailedText})
		} else {
			s.Messages = appendMessage(s.Messages, Message{
				Role:    RoleSystem,
				Content: fmt.Sprintf("Processing PDFs: %s", strings.Join(e.Files, ", ")),
			})
		}
		s.Pending = nil
		s.Uploading = false

	case QuerySubmitted:
		s.Messages = appendMessage(s.Messages, Message{Role: RoleUser, Content: e.Text})
		s.Processing = true

	case QuerySettled:
		switch {
		case e.Err != nil:
			s.Messages = appendMessage(s.Messages, Message{Role: RoleSystem, Content: QueryFailedText})
		case e.Reply.Error != "":
			s.Messages = appendMessage(s.Messages, Message{Role: RoleSystem, Content: e.Reply.Error})
		default:
			s.Messages = appendMessage(s.Messages, Message{
				Role:    RoleAssistant,
				Content: e.Reply.Answer,
				Source:  e.Reply.Source,
			})
		}
		s.Processing = false
		s.Input = ""
	}
	return s
}

// appendMessage copies before appending so earlier snapshots keep their
// backing array.
func appendMessage(msgs []Message, m Message) []Message {
	out := make([]Message, len(msgs), len(msgs)+1)
	copy(out, msgs)
	return append(out, m)
}

// CanUpload reports whether an upload may start.
func CanUpload(s State) bool {
	return len(s.Pending) > 0 && !s.Uploading
}

// CanSubmit reports whether the current input may be sent as a query.
func CanSubmit(s State) bool {
	return strings.TrimSpace(s.Input) != "" && InputEnabled(s)
}

// InputEnabled reports whether the query input accepts text.
func InputEnabled(s State) bool {
	return s.Status.Ready && !s.Processing
}
