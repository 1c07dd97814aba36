package services

import (
	"context"

	"github.com/identigo/backend/domain"
	"github.com/identigo/backend/internal/infrastructure/journal"
	"github.com/identigo/backend/usecase"
)

// JournalBridge adapts the journal processor to the use-case port so the
// registration saga stays storage-agnostic.
type JournalBridge struct {
	processor *JournalProcessor
}

func NewJournalBridge(processor *JournalProcessor) *JournalBridge {
	return &JournalBridge{processor: processor}
}

func (b *JournalBridge) RecordDelete(_ context.Context, user *domain.User) error {
	if b.processor == nil || user == nil {
		return domain.ErrInvalidPayload
	}
	return b.processor.Record(journal.Entry{
		UserID: user.ID,
		Email:  user.Email,
	})
}

var _ usecase.CompensationJournal = (*JournalBridge)(nil)
