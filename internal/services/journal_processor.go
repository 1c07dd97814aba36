package services

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/identigo/backend/domain"
	"github.com/identigo/backend/internal/infrastructure/journal"
	"github.com/identigo/backend/repository"
)

// ConnectionHealth abstracts the connection monitor functionality.
type ConnectionHealth interface {
	IsOnline() bool
}

// ProcessorConfig controls how frequently the journal is drained.
type ProcessorConfig struct {
	Interval   time.Duration
	BatchSize  int
	MaxRetries int
}

// JournalProcessor retries compensating deletes that failed during
// registration rollback, so no orphan row outlives a transient store error.
type JournalProcessor struct {
	store   *journal.Store
	monitor ConnectionHealth
	users   repository.UserRepository
	logger  *zap.Logger
	cron    *cron.Cron
	cfg     ProcessorConfig
}

func NewJournalProcessor(
	store *journal.Store,
	monitor ConnectionHealth,
	users repository.UserRepository,
	logger *zap.Logger,
	cfg ProcessorConfig,
) *JournalProcessor {
	if cfg.Interval <= 0 {
		cfg.Interval = 30 * time.Second
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 50
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 5
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	jp := &JournalProcessor{
		store:   store,
		monitor: monitor,
		users:   users,
		logger:  logger,
		cfg:     cfg,
		cron:    cron.New(cron.WithSeconds()),
	}

	schedule := fmt.Sprintf("@every %ds", int(cfg.Interval.Seconds()))
	_, _ = jp.cron.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.Interval)
		defer cancel()
		if err := jp.Drain(ctx); err != nil {
			jp.logger.Error("journal drain failed", zap.Error(err))
		}
	})

	return jp
}

// Start launches the cron scheduler.
func (jp *JournalProcessor) Start() {
	if jp == nil || jp.cron == nil {
		return
	}
	jp.cron.Start()
	jp.logger.Info("journal processor started")
}

// Stop gracefully stops the scheduler.
func (jp *JournalProcessor) Stop(ctx context.Context) {
	if jp == nil || jp.cron == nil {
		return
	}
	stopCtx := jp.cron.Stop()
	select {
	case <-stopCtx.Done():
	case <-ctx.Done():
	}
	jp.logger.Info("journal processor stopped")
}

// Record persists a pending compensating delete.
func (jp *JournalProcessor) Record(entry journal.Entry) error {
	if jp == nil || jp.store == nil {
		return fmt.Errorf("journal processor not configured")
	}
	return jp.store.Enqueue(entry)
}

// Drain retries pending deletes synchronously. A row that is already gone
// counts as success; an entry past the retry budget is dropped loudly.
func (jp *JournalProcessor) Drain(ctx context.Context) error {
	if jp == nil || jp.store == nil {
		return nil
	}
	if jp.monitor != nil && !jp.monitor.IsOnline() {
		jp.logger.Debug("skipping journal drain (store offline)")
		return nil
	}

	entries, err := jp.store.GetBatch(jp.cfg.BatchSize)
	if err != nil {
		return err
	}

	for _, entry := range entries {
		err := jp.users.Delete(ctx, entry.UserID)
		if err != nil && !domain.IsDomainError(err, domain.ErrCodeNotFound) {
			jp.logger.Error("compensating delete retry failed",
				zap.String("user_id", entry.UserID),
				zap.Int("attempts", entry.Attempts+1),
				zap.Error(err))

			entry.Attempts++
			if entry.Attempts >= jp.cfg.MaxRetries {
				jp.logger.Error("dropping journal entry (max retries reached); manual cleanup required",
					zap.String("user_id", entry.UserID),
					zap.String("email", entry.Email))
				_ = jp.store.Remove(entry)
				continue
			}

			if err := jp.store.Remove(entry); err != nil {
				jp.logger.Warn("failed to remove journal entry", zap.Error(err))
			}
			if err := jp.store.Requeue(entry); err != nil {
				jp.logger.Error("failed to requeue journal entry", zap.Error(err))
			}
			continue
		}

		if err := jp.store.Remove(entry); err != nil {
			jp.logger.Warn("failed to purge processed journal entry", zap.Error(err))
		}
	}
	return nil
}

// Size returns the number of pending entries.
func (jp *JournalProcessor) Size() int {
	if jp == nil || jp.store == nil {
		return 0
	}
	size, err := jp.store.Size()
	if err != nil {
		return 0
	}
	return size
}
