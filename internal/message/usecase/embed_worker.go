package usecase

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

// EmbedJob represents one message to index in the vector store
type EmbedJob struct {
	MessageID string
	GroupID   string
	Text      string
}

// EmbedWorkerService indexes message embeddings in the background so
// ingestion is never blocked on the vector store
type EmbedWorkerService struct {
	vectorSvc   VectorSearchService
	jobQueue    chan EmbedJob
	workerWg    sync.WaitGroup
	workerCount int
	started     bool
	mu          sync.Mutex
	log         *zap.SugaredLogger
}

// NewEmbedWorkerService creates a new embed worker service
func NewEmbedWorkerService(vectorSvc VectorSearchService, workerCount int, log *zap.SugaredLogger) *EmbedWorkerService {
	if workerCount <= 0 {
		workerCount = 3
	}

	return &EmbedWorkerService{
		vectorSvc:   vectorSvc,
		jobQueue:    make(chan EmbedJob, 500),
		workerCount: workerCount,
		log:         log.Named("embed-worker"),
	}
}

// Start starts the embed workers
func (s *EmbedWorkerService) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return
	}

	for i := 0; i < s.workerCount; i++ {
		s.workerWg.Add(1)
		go s.worker()
	}
	s.started = true
	s.log.Infow("started embed workers", "count", s.workerCount)
}

// Stop stops all workers gracefully
func (s *EmbedWorkerService) Stop() {
	close(s.jobQueue)
	s.workerWg.Wait()
	s.log.Info("all embed workers stopped")
}

func (s *EmbedWorkerService) worker() {
	defer s.workerWg.Done()

	for job := range s.jobQueue {
		s.processJob(job)
	}
}

func (s *EmbedWorkerService) processJob(job EmbedJob) {
	if s.vectorSvc == nil || job.Text == "" {
		return
	}

	err := s.vectorSvc.UpsertMessageEmbedding(context.Background(), job.MessageID, job.GroupID, job.Text)
	if err != nil {
		s.log.Debugw("embedding upsert failed", "message_id", job.MessageID, "error", err)
	}
}

// UpsertMessageEmbedding enqueues one message for indexing. Non-blocking:
// when the queue is full the message is dropped, to be picked up on a later
// re-index rather than stalling ingestion.
func (s *EmbedWorkerService) UpsertMessageEmbedding(ctx context.Context, messageID, groupID, text string) error {
	select {
	case s.jobQueue <- EmbedJob{MessageID: messageID, GroupID: groupID, Text: text}:
	default:
		s.log.Debugw("embed queue full, dropping message", "message_id", messageID)
	}
	return nil
}
