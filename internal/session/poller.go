package session

import (
	"context"
	"time"

	"go.uber.org/zap"
	"gwi.com/dalal-chat/internal/chat"
)

func (s *Session) pollLoop(ctx context.Context) {
	s.RefreshStatus(ctx)

	ticker := time.NewTicker(s.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.RefreshStatus(ctx)
		}
	}
}

// RefreshStatus performs one status request. On failure the previous
// snapshot is kept; the poller only logs the returned error.
func (s *Session) RefreshStatus(ctx context.Context) error {
	reqCtx, cancel := context.WithTimeout(ctx, s.pollInterval)
	defer cancel()

	status, err := s.backend.Status(reqCtx)
	if err != nil {
		if ctx.Err() == nil {
			s.logger.Warn("Failed to check status", zap.Error(err))
		}
		return err
	}

	s.apply(chat.StatusPolled{Status: status})
	return nil
}
