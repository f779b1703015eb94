// Package access is the single authorization point for thread attachment
// and posting. The websocket gateway and the REST ingestion path both go
// through the same Authority, so policy cannot diverge between them.
package access

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/s21platform/messenger-service/internal/model"
)

type Authority struct {
	repository DBRepo
}

func New(repo DBRepo) *Authority {
	return &Authority{
		repository: repo,
	}
}

// CanJoin reports whether the user may attach to the thread. For public
// channels the answer is always yes and the membership row is upserted as
// a side effect, so two concurrent callers end up with exactly one row.
func (a *Authority) CanJoin(ctx context.Context, userID uuid.UUID, thread model.ThreadRef) (bool, error) {
	switch thread.Kind {
	case model.ThreadKindChannel:
		channel, err := a.repository.GetChannel(ctx, thread.ID)
		if err != nil {
			return false, err
		}

		if channel.IsPublic {
			if err := a.repository.AddChannelMember(ctx, thread.ID, userID); err != nil {
				return false, fmt.Errorf("failed to upsert membership: %w", err)
			}
			return true, nil
		}

		return a.repository.IsChannelMember(ctx, thread.ID, userID)
	case model.ThreadKindDirect:
		return a.repository.IsDirectParticipant(ctx, thread.ID, userID)
	}

	return false, model.ErrUnknownThread
}

// CanPost layers the read-only rule on top of CanJoin. Read-only channels
// accept messages only from the channel owner or a privileged user.
func (a *Authority) CanPost(ctx context.Context, userID uuid.UUID, thread model.ThreadRef) error {
	ok, err := a.CanJoin(ctx, userID, thread)
	if err != nil {
		return err
	}
	if !ok {
		return model.ErrNotMember
	}

	if thread.Kind != model.ThreadKindChannel {
		return nil
	}

	channel, err := a.repository.GetChannel(ctx, thread.ID)
	if err != nil {
		return err
	}
	if !channel.IsReadOnly {
		return nil
	}

	if channel.OwnerID == userID {
		return nil
	}

	user, err := a.repository.GetUser(ctx, userID)
	if err != nil {
		return err
	}
	if user.IsPrivileged() {
		return nil
	}

	return model.ErrReadOnly
}

// IsPrivileged reports whether the user may perform moderator actions on
// the channel: the platform admin role or channel ownership.
func (a *Authority) IsPrivileged(ctx context.Context, userID uuid.UUID, channel *model.Channel) (bool, error) {
	if channel != nil && channel.OwnerID == userID {
		return true, nil
	}

	user, err := a.repository.GetUser(ctx, userID)
	if err != nil {
		return false, err
	}

	return user.IsPrivileged(), nil
}
