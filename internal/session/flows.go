package session

import (
	"context"

	"go.uber.org/zap"
	"gwi.com/dalal-chat/internal/chat"
)

// SetInput replaces the query input text.
func (s *Session) SetInput(text string) {
	s.apply(chat.InputChanged{Text: text})
}

// SelectFiles resolves paths, keeps the PDFs and makes them the pending
// selection. It returns the number of PDFs selected; zero leaves the
// previous selection untouched.
func (s *Session) SelectFiles(paths []string) int {
	files, errs := chat.Resolve(paths)
	for _, err := range errs {
		s.logger.Debug("Skipping unreadable selection", zap.Error(err))
	}

	pdfs := chat.FilterPDFs(files)
	if len(pdfs) == 0 {
		return 0
	}

	names := make([]string, len(pdfs))
	for i, f := range pdfs {
		names[i] = f.Name
	}
	s.logger.Info("Files selected", zap.Strings("files", names))

	s.apply(chat.FilesSelected{Files: pdfs})
	return len(pdfs)
}

// SelectText is SelectFiles for pasted or typed text holding one or more
// paths.
func (s *Session) SelectText(text string) int {
	return s.SelectFiles(chat.SplitPaths(text))
}

// Upload sends the pending files. It reports false, doing nothing, when
// there is nothing to upload or an upload is already in flight.
func (s *Session) Upload() bool {
	s.mu.Lock()
	if s.closed || !chat.CanUpload(s.state) {
		s.mu.Unlock()
		return false
	}
	files := s.state.Pending
	s.dispatch(chat.UploadStarted{})
	s.mu.Unlock()

	s.run(func(ctx context.Context) {
		names, err := s.backend.Upload(ctx, files)
		if err != nil {
			s.logger.Error("Error uploading files", zap.Error(err))
		}
		s.apply(chat.UploadFinished{Files: names, Err: err})
	})
	return true
}

// Submit sends the current input as a query. It reports false, doing
// nothing, when the input is blank, the service is not ready, or a query is
// already in flight.
func (s *Session) Submit() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.submitLocked(s.state)
}

// Ask sets the input and submits it. A refused query leaves the input as it
// was.
func (s *Session) Ask(query string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	candidate := chat.Reduce(s.state, chat.InputChanged{Text: query})
	if s.closed || !chat.CanSubmit(candidate) {
		return false
	}
	s.dispatch(chat.InputChanged{Text: query})
	return s.submitLocked(s.state)
}

// submitLocked starts the query flow for state.Input. Callers must hold s.mu.
func (s *Session) submitLocked(state chat.State) bool {
	if s.closed || !chat.CanSubmit(state) {
		return false
	}
	query := state.Input
	s.dispatch(chat.QuerySubmitted{Text: query})

	s.run(func(ctx context.Context) {
		reply, err := s.backend.Query(ctx, query)
		if err != nil {
			s.logger.Error("Error sending message", zap.Error(err))
		} else if reply.Error != "" {
			s.logger.Info("Service refused query", zap.String("error", reply.Error))
		}
		s.apply(chat.QuerySettled{Reply: reply, Err: err})
	})
	return true
}
