// Package service is the HTTP client for the document chat service.
package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"
	"gwi.com/dalal-chat/internal/chat"
)

// ErrMalformedResponse is returned when a response body does not have the
// shape the client relies on.
var ErrMalformedResponse = errors.New("malformed response")

type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

func NewClient(baseURL string, timeout time.Duration, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

// Status fetches the readiness snapshot.
func (c *Client) Status(ctx context.Context) (chat.BotStatus, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+StatusPath, nil)
	if err != nil {
		return chat.BotStatus{}, fmt.Errorf("failed to build status request: %w", err)
	}

	var status StatusResponse
	if err := c.do(req, &status); err != nil {
		return chat.BotStatus{}, fmt.Errorf("status request failed: %w", err)
	}
	if status.ProcessedFiles == nil {
		status.ProcessedFiles = []string{}
	}
	return status, nil
}

// Upload sends every file under the repeated "files" field and returns the
// file names the service reports.
func (c *Client) Upload(ctx context.Context, files []chat.PendingFile) ([]string, error) {
	body := new(bytes.Buffer)
	writer := multipart.NewWriter(body)

	for _, f := range files {
		if err := writeFilePart(writer, f); err != nil {
			return nil, fmt.Errorf("failed to attach %s: %w", f.Name, err)
		}
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to finish multipart body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+UploadPath, body)
	if err != nil {
		return nil, fmt.Errorf("failed to build upload request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	var resp UploadResponse
	if err := c.do(req, &resp); err != nil {
		return nil, fmt.Errorf("upload request failed: %w", err)
	}
	if resp.Files == nil {
		return nil, fmt.Errorf("upload response has no files: %w", ErrMalformedResponse)
	}

	c.logger.Info("Uploaded PDFs", zap.Strings("files", *resp.Files), zap.String("message", resp.Message))
	return *resp.Files, nil
}

func writeFilePart(writer *multipart.Writer, f chat.PendingFile) error {
	file, err := os.Open(f.Path)
	if err != nil {
		return err
	}
	defer file.Close()

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, UploadField, f.Name))
	header.Set("Content-Type", chat.PDFContentType)

	part, err := writer.CreatePart(header)
	if err != nil {
		return err
	}
	_, err = io.Copy(part, file)
	return err
}

// Query asks the service a question. A service-reported refusal comes back
// as a Reply with Error set, not as a Go error.
func (c *Client) Query(ctx context.Context, query string) (chat.Reply, error) {
	payload, err := json.Marshal(QueryRequest{Query: query})
	if err != nil {
		return chat.Reply{}, fmt.Errorf("failed to encode query: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+QueryPath, bytes.NewReader(payload))
	if err != nil {
		return chat.Reply{}, fmt.Errorf("failed to build query request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	var reply QueryResponse
	if err := c.do(req, &reply); err != nil {
		return chat.Reply{}, fmt.Errorf("query request failed: %w", err)
	}
	return reply, nil
}

// do sends req and decodes the JSON body into out. The status code is only
// logged: like the browser client, a JSON error body is still decoded and
// judged by its fields.
func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		c.logger.Warn("Service returned error status",
			zap.String("method", req.Method),
			zap.String("path", req.URL.Path),
			zap.Int("status", resp.StatusCode))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode %s response: %w (%w)", req.URL.Path, ErrMalformedResponse, err)
	}
	return nil
}
