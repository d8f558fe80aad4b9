package kafka

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/pupkingeorgij/proofbot/internal/repository"
	"github.com/pupkingeorgij/proofbot/internal/storage"
)

type PublisherConfig struct {
	PollInterval time.Duration
	BatchSize    int
	MaxAttempts  int
}

// Publisher drains the report outbox table and pushes finalized
// report events to the topic. Failed tasks are retried on later polls
// up to MaxAttempts.
type Publisher struct {
	repo     storage.ReportTaskRepository
	producer Producer
	config   PublisherConfig

	wg       sync.WaitGroup
	shutdown chan struct{}
	stopOnce sync.Once
}

func NewPublisher(repo storage.ReportTaskRepository, producer Producer, config PublisherConfig) *Publisher {
	return &Publisher{
		repo:     repo,
		producer: producer,
		config:   config,
		shutdown: make(chan struct{}),
	}
}

func (p *Publisher) Run(ctx context.Context) {
	zap.S().Info("report publisher started")
	p.wg.Add(1)
	defer p.wg.Done()

	ticker := time.NewTicker(p.config.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := p.processBatch(ctx); err != nil {
				zap.S().Errorf("report publisher failed to process batch: %v", err)
			}
		case <-p.shutdown:
			zap.S().Info("report publisher received shutdown signal")
			return
		case <-ctx.Done():
			zap.S().Info("report publisher context cancelled")
			p.Shutdown()
			return
		}
	}
}

func (p *Publisher) Shutdown() {
	p.stopOnce.Do(func() {
		close(p.shutdown)

		done := make(chan struct{})
		go func() {
			p.wg.Wait()
			close(done)
		}()

		select {
		case <-done:
			zap.S().Info("report publisher shutdown complete")
		case <-time.After(30 * time.Second):
			zap.S().Warn("report publisher shutdown timed out")
		}

		if err := p.producer.Close(); err != nil {
			zap.S().Errorf("failed to close producer: %v", err)
		}
	})
}

func (p *Publisher) processBatch(ctx context.Context) error {
	tasks, err := p.repo.GetProcessable(ctx, p.config.MaxAttempts, p.config.BatchSize)
	if err != nil {
		return err
	}
	if len(tasks) == 0 {
		return nil
	}

	zap.S().Debugf("report publisher: fetched %d tasks", len(tasks))

	for _, task := range tasks {
		select {
		case <-p.shutdown:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if err := p.processTask(ctx, task); err != nil {
			zap.S().Errorf("failed to process report task %s: %v", task.ID, err)
		}
	}
	return nil
}

func (p *Publisher) processTask(ctx context.Context, task *repository.ReportTask) error {
	err := p.producer.SendMessage(ctx, []byte(task.ID.String()), task.Payload)
	if err != nil {
		attempts := task.Attempts + 1
		errMsg := err.Error()
		if attempts >= p.config.MaxAttempts {
			zap.S().Warnf("report task %s reached max attempts (%d)", task.ID, p.config.MaxAttempts)
		}
		if updateErr := p.repo.UpdateStatus(ctx, task.ID, repository.TaskStatusFailed, attempts, &errMsg, nil); updateErr != nil {
			return updateErr
		}
		return err
	}

	now := time.Now().UTC()
	return p.repo.UpdateStatus(ctx, task.ID, repository.TaskStatusDone, task.Attempts, nil, &now)
}
