package core

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"gwi.com/dalal-chat/internal/chat"
	"gwi.com/dalal-chat/internal/store"
)

const NotProcessedError = "No PDFs have been processed"

var pdfMagic = []byte("%PDF-")

// UploadedFile is one part of an upload request.
type UploadedFile struct {
	Filename string
	Content  []byte
}

// DocumentService is the development stand-in for the document chat service.
// It tracks uploads and readiness but never parses documents or generates
// answers.
type DocumentService struct {
	dbStore    *store.SQLiteStore
	readyDelay time.Duration
	logger     *zap.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewDocumentService(db *store.SQLiteStore, readyDelay time.Duration, logger *zap.Logger) *DocumentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &DocumentService{
		dbStore:    db,
		readyDelay: readyDelay,
		logger:     logger,
		ctx:        ctx,
		cancel:     cancel,
	}
}

// Close stops background processing and waits for it to finish.
func (s *DocumentService) Close() {
	s.cancel()
	s.wg.Wait()
}

// Wait blocks until background processing started so far has finished.
func (s *DocumentService) Wait() {
	s.wg.Wait()
}

// Upload registers a new batch made of the files whose names end in .pdf and
// starts processing it. The accepted names are returned in upload order and
// immediately become the processed file list.
func (s *DocumentService) Upload(files []UploadedFile) ([]string, error) {
	var docs []store.NewDocument
	accepted := []string{}
	for _, f := range files {
		if !strings.HasSuffix(strings.ToLower(f.Filename), ".pdf") {
			s.logger.Debug("Skipping non-PDF upload", zap.String("filename", f.Filename))
			continue
		}
		docs = append(docs, store.NewDocument{Filename: f.Filename, Content: f.Content})
		accepted = append(accepted, f.Filename)
	}

	status := store.BatchProcessing
	if len(docs) == 0 {
		status = store.BatchFailed
	}

	batch, stored, err := s.dbStore.CreateBatch(status, docs)
	if err != nil {
		return nil, fmt.Errorf("failed to register upload: %w", err)
	}

	if status == store.BatchProcessing {
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.process(batch.ID, stored)
		}()
	}

	s.logger.Info("Processing PDF files", zap.String("batch", batch.ID), zap.Strings("files", accepted))
	return accepted, nil
}

// process waits out the configured delay, then accepts the batch when every
// document carries a PDF header.
func (s *DocumentService) process(batchID string, docs []store.Document) {
	select {
	case <-s.ctx.Done():
		return
	case <-time.After(s.readyDelay):
	}

	status := store.BatchReady
	for _, d := range docs {
		head, err := s.dbStore.DocumentHead(d.ID, len(pdfMagic))
		if err != nil || !bytes.Equal(head, pdfMagic) {
			s.logger.Error("Error in processing PDFs", zap.String("batch", batchID), zap.String("filename", d.Filename), zap.Error(err))
			status = store.BatchFailed
			break
		}
	}

	if err := s.dbStore.SetBatchStatus(batchID, status); err != nil {
		s.logger.Error("Failed to record processing result", zap.String("batch", batchID), zap.Error(err))
		return
	}
	if status == store.BatchReady {
		s.logger.Info("PDF processing complete", zap.String("batch", batchID))
	}
}

// Status reports readiness and the processed file list of the latest batch.
// A failed batch reports no files.
func (s *DocumentService) Status() (chat.BotStatus, error) {
	status := chat.BotStatus{ProcessedFiles: []string{}}

	batch, err := s.dbStore.LatestBatch()
	if err != nil {
		return status, err
	}
	if batch == nil || batch.Status == store.BatchFailed {
		return status, nil
	}

	docs, err := s.dbStore.ListDocuments(batch.ID)
	if err != nil {
		return status, err
	}
	for _, d := range docs {
		status.ProcessedFiles = append(status.ProcessedFiles, d.Filename)
	}
	status.Ready = batch.Status == store.BatchReady
	return status, nil
}

// Query refuses until a batch is ready, then acknowledges the question.
func (s *DocumentService) Query(query string) (chat.Reply, []string, error) {
	status, err := s.Status()
	if err != nil {
		return chat.Reply{}, nil, err
	}
	if !status.Ready {
		return chat.Reply{Error: NotProcessedError}, nil, nil
	}

	answer := fmt.Sprintf("This development server does not answer questions. It received %q with %d processed document(s): %s.",
		query, len(status.ProcessedFiles), strings.Join(status.ProcessedFiles, ", "))
	return chat.Reply{Answer: answer, Source: chat.SourceDocument}, status.ProcessedFiles, nil
}
