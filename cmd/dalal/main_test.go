package main

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gwi.com/dalal-chat/internal/api"
	"gwi.com/dalal-chat/internal/core"
	"gwi.com/dalal-chat/internal/store"
)

func newDevServer(t *testing.T) (*httptest.Server, *core.DocumentService) {
	t.Helper()
	isolate(t)
	db, err := store.NewSQLiteStore(":memory:")
	require.NoError(t, err)
	docs := core.NewDocumentService(db, 0, nil)
	srv := httptest.NewServer(api.NewRouter(api.NewAPIHandler(docs, nil), nil))
	t.Cleanup(func() {
		srv.Close()
		docs.Close()
		db.Close()
	})
	return srv, docs
}

// isolate keeps a developer's .env and log settings out of the test.
func isolate(t *testing.T) {
	t.Helper()
	t.Chdir(t.TempDir())
	t.Setenv("LOG_LEVEL", "error")
	t.Setenv("LOG_FILE", "")
}

func run(t *testing.T, serviceURL string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	out := new(bytes.Buffer)
	cmd.SetOut(out)
	cmd.SetErr(new(bytes.Buffer))
	cmd.SetArgs(append([]string{"--service-url", serviceURL}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestStatusCommand(t *testing.T) {
	srv, _ := newDevServer(t)

	out, err := run(t, srv.URL, "status")
	require.NoError(t, err)
	assert.Contains(t, out, "Processing documents...")
	assert.Contains(t, out, "No files processed")
}

func TestStatusCommandUnreachable(t *testing.T) {
	isolate(t)
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()

	_, err := run(t, srv.URL, "status")
	assert.Error(t, err)
}

func TestUploadThenAsk(t *testing.T) {
	srv, docs := newDevServer(t)

	dir := t.TempDir()
	report := filepath.Join(dir, "report.pdf")
	notes := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(report, []byte("%PDF-1.4"), 0o644))
	require.NoError(t, os.WriteFile(notes, []byte("x"), 0o644))

	out, err := run(t, srv.URL, "ask", "too", "early")
	require.Error(t, err)
	assert.Empty(t, out)

	out, err = run(t, srv.URL, "upload", report, notes)
	require.NoError(t, err)
	assert.Equal(t, "[system] Processing PDFs: report.pdf\n", out)

	docs.Wait()
	out, err = run(t, srv.URL, "status")
	require.NoError(t, err)
	assert.Contains(t, out, "Dalal is ready to assist")
	assert.Contains(t, out, "  report.pdf\n")

	out, err = run(t, srv.URL, "ask", "What", "is", "the", "deadline?")
	require.NoError(t, err)
	assert.Contains(t, out, "What is the deadline?")
	assert.Contains(t, out, "Source: Uploaded PDFs")
}

func TestUploadCommandWithoutPDFs(t *testing.T) {
	srv, _ := newDevServer(t)

	notes := filepath.Join(t.TempDir(), "notes.txt")
	require.NoError(t, os.WriteFile(notes, []byte("x"), 0o644))

	_, err := run(t, srv.URL, "upload", notes)
	assert.Error(t, err)
}
