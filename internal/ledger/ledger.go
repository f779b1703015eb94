// Package ledger tracks what each user has read. Channels keep one
// timestamp cursor per membership because membership is unbounded; direct
// threads keep a per-message read-by set because their participant count
// is small. The two mechanisms are deliberately not unified.
package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/s21platform/messenger-service/internal/model"
)

type Ledger struct {
	repository DBRepo
}

func New(repo DBRepo) *Ledger {
	return &Ledger{
		repository: repo,
	}
}

// MarkRead advances the user's read state for the thread. For channels the
// membership row is upserted first so marking read also works for users
// who attached lazily.
func (l *Ledger) MarkRead(ctx context.Context, userID uuid.UUID, thread model.ThreadRef) error {
	switch thread.Kind {
	case model.ThreadKindChannel:
		if err := l.repository.AddChannelMember(ctx, thread.ID, userID); err != nil {
			return fmt.Errorf("failed to upsert membership: %w", err)
		}
		return l.repository.SetChannelLastRead(ctx, thread.ID, userID, time.Now())
	case model.ThreadKindDirect:
		return l.repository.MarkDirectRead(ctx, thread.ID, userID)
	}

	return model.ErrUnknownThread
}

func (l *Ledger) Unread(ctx context.Context, userID uuid.UUID, thread model.ThreadRef) (int64, error) {
	switch thread.Kind {
	case model.ThreadKindChannel:
		return l.repository.CountChannelUnread(ctx, thread.ID, userID)
	case model.ThreadKindDirect:
		return l.repository.CountDirectUnread(ctx, thread.ID, userID)
	}

	return 0, model.ErrUnknownThread
}
