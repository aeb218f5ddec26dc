package session

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gwi.com/dalal-chat/internal/chat"
)

type fakeBackend struct {
	mu          sync.Mutex
	status      chat.BotStatus
	statusErr   error
	statusCalls atomic.Int32

	uploadNames []string
	uploadErr   error
	uploaded    [][]chat.PendingFile

	reply    chat.Reply
	queryErr error
	queries  []string

	// gate, when set, holds Upload and Query until it is closed.
	gate chan struct{}
}

func (f *fakeBackend) Status(ctx context.Context) (chat.BotStatus, error) {
	f.statusCalls.Add(1)
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.status, f.statusErr
}

func (f *fakeBackend) Upload(ctx context.Context, files []chat.PendingFile) ([]string, error) {
	f.wait(ctx)
	f.mu.Lock()
	defer f.mu.Unlock()
	f.uploaded = append(f.uploaded, files)
	return f.uploadNames, f.uploadErr
}

func (f *fakeBackend) Query(ctx context.Context, query string) (chat.Reply, error) {
	f.wait(ctx)
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queries = append(f.queries, query)
	return f.reply, f.queryErr
}

func (f *fakeBackend) wait(ctx context.Context) {
	if f.gate == nil {
		return
	}
	select {
	case <-f.gate:
	case <-ctx.Done():
	}
}

func (f *fakeBackend) setStatus(status chat.BotStatus, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.status, f.statusErr = status, err
}

func (f *fakeBackend) queryCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.queries)
}

func newReadySession(t *testing.T, backend *fakeBackend, opts ...Option) *Session {
	t.Helper()
	backend.setStatus(chat.BotStatus{Ready: true, ProcessedFiles: []string{"a.pdf"}}, nil)
	s := New(backend, opts...)
	s.RefreshStatus(context.Background())
	t.Cleanup(func() { s.Close() })
	return s
}

func writeFiles(t *testing.T, names ...string) []string {
	t.Helper()
	dir := t.TempDir()
	var paths []string
	for _, name := range names {
		p := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(p, []byte("%PDF-1.4"), 0o644))
		paths = append(paths, p)
	}
	return paths
}

func TestPollerPollsImmediatelyAndRepeats(t *testing.T) {
	backend := &fakeBackend{}
	backend.setStatus(chat.BotStatus{Ready: true, ProcessedFiles: []string{"a.pdf", "b.pdf"}}, nil)

	s := New(backend, WithPollInterval(10*time.Millisecond))
	s.Start(context.Background())

	require.Eventually(t, func() bool { return s.State().Status.Ready }, time.Second, 5*time.Millisecond)
	assert.Equal(t, []string{"a.pdf", "b.pdf"}, s.State().Status.ProcessedFiles)
	assert.True(t, chat.InputEnabled(s.State()))

	require.Eventually(t, func() bool { return backend.statusCalls.Load() >= 3 }, time.Second, 5*time.Millisecond)

	require.NoError(t, s.Close())
	calls := backend.statusCalls.Load()
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, calls, backend.statusCalls.Load(), "no polls after Close")
}

func TestPollerStopsWithStartContext(t *testing.T) {
	backend := &fakeBackend{}
	s := New(backend, WithPollInterval(5*time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	s.Start(ctx)
	require.Eventually(t, func() bool { return backend.statusCalls.Load() >= 1 }, time.Second, time.Millisecond)
	cancel()

	done := make(chan struct{})
	go func() {
		s.Close()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Close did not return")
	}
}

func TestStatusFailureKeepsPreviousSnapshot(t *testing.T) {
	backend := &fakeBackend{}
	s := newReadySession(t, backend)
	before := s.State()

	backend.setStatus(chat.BotStatus{}, errors.New("connection refused"))
	assert.Error(t, s.RefreshStatus(context.Background()))

	assert.Equal(t, before, s.State())
}

func TestSelectFilesKeepsPDFs(t *testing.T) {
	dir := t.TempDir()
	report := filepath.Join(dir, "report.pdf")
	notes := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(report, []byte("%PDF"), 0o644))
	require.NoError(t, os.WriteFile(notes, []byte("x"), 0o644))

	s := New(&fakeBackend{})
	defer s.Close()

	assert.Equal(t, 1, s.SelectFiles([]string{report, notes}))
	pending := s.State().Pending
	require.Len(t, pending, 1)
	assert.Equal(t, "report.pdf", pending[0].Name)

	assert.Equal(t, 0, s.SelectFiles([]string{notes}))
	assert.Len(t, s.State().Pending, 1, "a selection without PDFs changes nothing")
}

func TestSelectTextHandlesPastedPaths(t *testing.T) {
	paths := writeFiles(t, "my report.pdf", "b.pdf")
	s := New(&fakeBackend{})
	defer s.Close()

	n := s.SelectText(`'` + paths[0] + `' ` + paths[1])
	assert.Equal(t, 2, n)
}

func TestUploadSuccess(t *testing.T) {
	backend := &fakeBackend{uploadNames: []string{"a.pdf", "b.pdf"}}
	s := New(backend)
	defer s.Close()

	s.SelectFiles(writeFiles(t, "a.pdf", "b.pdf"))
	require.True(t, s.Upload())
	s.Wait()

	state := s.State()
	require.Len(t, state.Messages, 1)
	assert.Equal(t, "Processing PDFs: a.pdf, b.pdf", state.Messages[0].Content)
	assert.Empty(t, state.Pending)
	assert.False(t, state.Uploading)
	require.Len(t, backend.uploaded, 1)
	assert.Len(t, backend.uploaded[0], 2)
}

func TestUploadFailure(t *testing.T) {
	backend := &fakeBackend{uploadErr: errors.New("boom")}
	s := New(backend)
	defer s.Close()

	s.SelectFiles(writeFiles(t, "a.pdf"))
	require.True(t, s.Upload())
	s.Wait()

	state := s.State()
	require.Len(t, state.Messages, 1)
	assert.Equal(t, chat.UploadFailedText, state.Messages[0].Content)
	assert.Empty(t, state.Pending)
	assert.False(t, state.Uploading)
}

func TestUploadWithoutPendingIsNoop(t *testing.T) {
	backend := &fakeBackend{}
	s := New(backend)
	defer s.Close()

	assert.False(t, s.Upload())
	s.Wait()
	assert.Empty(t, backend.uploaded)
	assert.Empty(t, s.State().Messages)
}

func TestSecondUploadWhileInFlightIsRejected(t *testing.T) {
	backend := &fakeBackend{uploadNames: []string{"a.pdf"}, gate: make(chan struct{})}
	s := New(backend)
	defer s.Close()

	s.SelectFiles(writeFiles(t, "a.pdf"))
	require.True(t, s.Upload())
	assert.True(t, s.State().Uploading)

	s.SelectFiles(writeFiles(t, "b.pdf"))
	assert.False(t, s.Upload())

	close(backend.gate)
	s.Wait()
	assert.Len(t, backend.uploaded, 1)
	assert.Empty(t, s.State().Pending, "pending is cleared when the upload settles")
}

func TestAskAnswered(t *testing.T) {
	backend := &fakeBackend{reply: chat.Reply{Answer: "Friday", Source: "document"}}
	s := newReadySession(t, backend)

	require.True(t, s.Ask("What is the deadline?"))
	s.Wait()

	msgs := s.State().Messages
	require.Len(t, msgs, 2)
	assert.Equal(t, chat.Message{Role: chat.RoleUser, Content: "What is the deadline?"}, msgs[0])
	assert.Equal(t, chat.Message{Role: chat.RoleAssistant, Content: "Friday", Source: "document"}, msgs[1])
	assert.False(t, s.State().Processing)
	assert.Empty(t, s.State().Input)
	assert.Equal(t, []string{"What is the deadline?"}, backend.queries)
}

func TestAskOptimisticAppendBeforeResponse(t *testing.T) {
	backend := &fakeBackend{reply: chat.Reply{Answer: "ok"}, gate: make(chan struct{})}
	s := newReadySession(t, backend)

	require.True(t, s.Ask("hello"))
	state := s.State()
	require.Len(t, state.Messages, 1)
	assert.Equal(t, chat.RoleUser, state.Messages[0].Role)
	assert.True(t, state.Processing)
	assert.Equal(t, "hello", state.Input)

	before := s.State()
	assert.False(t, s.Ask("again"), "a query is already in flight")
	assert.Equal(t, "hello", s.State().Input)
	assert.Equal(t, before.Version, s.State().Version)

	close(backend.gate)
	s.Wait()
	assert.Len(t, s.State().Messages, 2)
	assert.Equal(t, 1, backend.queryCount())
}

func TestAskBlankIsNoop(t *testing.T) {
	backend := &fakeBackend{}
	s := newReadySession(t, backend)

	assert.False(t, s.Ask("   "))
	assert.False(t, s.Ask(""))
	s.SetInput(" \n ")
	assert.False(t, s.Submit())
	s.Wait()

	assert.Empty(t, s.State().Messages)
	assert.Equal(t, 0, backend.queryCount())
}

func TestAskWhileNotReadyIsBlocked(t *testing.T) {
	backend := &fakeBackend{}
	s := New(backend)
	defer s.Close()
	s.RefreshStatus(context.Background())

	assert.False(t, chat.InputEnabled(s.State()))
	assert.False(t, s.Ask("What is the deadline?"))
	s.Wait()

	assert.Empty(t, s.State().Messages)
	assert.Empty(t, s.State().Input)
	assert.Equal(t, 0, backend.queryCount())
}

func TestAskServiceError(t *testing.T) {
	backend := &fakeBackend{reply: chat.Reply{Error: "No PDFs have been processed"}}
	s := newReadySession(t, backend)

	require.True(t, s.Ask("hi"))
	s.Wait()

	msgs := s.State().Messages
	require.Len(t, msgs, 2)
	assert.Equal(t, chat.Message{Role: chat.RoleSystem, Content: "No PDFs have been processed"}, msgs[1])
}

func TestAskTransportError(t *testing.T) {
	backend := &fakeBackend{queryErr: errors.New("connection reset")}
	s := newReadySession(t, backend)

	require.True(t, s.Ask("hi"))
	s.Wait()

	msgs := s.State().Messages
	require.Len(t, msgs, 2)
	assert.Equal(t, chat.QueryFailedText, msgs[1].Content)
	assert.False(t, s.State().Processing)
}

func TestUploadAndQueryRunConcurrently(t *testing.T) {
	backend := &fakeBackend{
		uploadNames: []string{"a.pdf"},
		reply:       chat.Reply{Answer: "yes", Source: "general knowledge"},
		gate:        make(chan struct{}),
	}
	s := newReadySession(t, backend)

	s.SelectFiles(writeFiles(t, "a.pdf"))
	require.True(t, s.Upload())
	require.True(t, s.Ask("question"))

	state := s.State()
	assert.True(t, state.Uploading)
	assert.True(t, state.Processing)

	close(backend.gate)
	s.Wait()
	assert.Len(t, s.State().Messages, 3)
}

func TestGreetingAndUpdates(t *testing.T) {
	s := New(&fakeBackend{}, WithGreeting("hello"))
	defer s.Close()

	require.Len(t, s.State().Messages, 1)

	s.SetInput("a")
	s.SetInput("ab")

	select {
	case snap := <-s.Updates():
		assert.Equal(t, "ab", snap.Input, "only the latest snapshot is kept")
	case <-time.After(time.Second):
		t.Fatal("no update published")
	}
}

func TestCloseCancelsInFlightRequests(t *testing.T) {
	backend := &fakeBackend{queryErr: context.Canceled, gate: make(chan struct{})}
	s := newReadySession(t, backend)

	require.True(t, s.Ask("slow"))
	require.NoError(t, s.Close())

	state := s.State()
	assert.False(t, state.Processing)
	assert.False(t, s.Ask("after close"))
}

func TestVersionGrowsWithEachChange(t *testing.T) {
	s := New(&fakeBackend{})
	defer s.Close()

	v0 := s.State().Version
	s.SetInput("a")
	s.SetInput("ab")
	assert.Equal(t, v0+2, s.State().Version)
	assert.Equal(t, s.State(), <-s.Updates())
}
