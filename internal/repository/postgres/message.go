package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/s21platform/messenger-service/internal/model"
)

func (r *Repository) SaveMessage(ctx context.Context, message *model.Message) error {
	query, args, err := sq.Insert("messages").
		Columns("id", "channel_id", "direct_thread_id", "sender_id", "type", "content", "reply_to_id", "linked_task_id").
		Values(message.ID, message.ChannelID, message.DirectThreadID, message.SenderID, message.Type, message.Content, message.ReplyToID, message.LinkedTaskID).
		Suffix("RETURNING sent_at, seq").
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build sql query: %v", err)
	}

	row := struct {
		SentAt sql.NullTime `db:"sent_at"`
		Seq    int64        `db:"seq"`
	}{}
	err = r.Chk(ctx).GetContext(ctx, &row, query, args...)
	if err != nil {
		return fmt.Errorf("failed to save message: %v", err)
	}

	message.SentAt = row.SentAt.Time
	message.Seq = row.Seq

	return nil
}

func (r *Repository) GetMessage(ctx context.Context, messageID uuid.UUID) (*model.Message, error) {
	query, args, err := sq.Select(
		"id",
		"channel_id",
		"direct_thread_id",
		"sender_id",
		"type",
		"content",
		"reply_to_id",
		"created_task_id",
		"linked_task_id",
		"sent_at",
		"seq",
	).
		From("messages").
		Where(sq.Eq{"id": messageID}).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build sql query: %v", err)
	}

	var message model.Message
	err = r.Chk(ctx).GetContext(ctx, &message, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.ErrUnknownMessage
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get message: %w", err)
	}

	return &message, nil
}

// DeleteMessage hard-deletes; mentions and read rows go with it by FK.
func (r *Repository) DeleteMessage(ctx context.Context, messageID uuid.UUID) error {
	query, args, err := sq.Delete("messages").
		Where(sq.Eq{"id": messageID}).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build sql query: %v", err)
	}

	_, err = r.Chk(ctx).ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to delete message: %w", err)
	}

	return nil
}

func (r *Repository) GetRecentMessages(ctx context.Context, thread model.ThreadRef, offset string, limit int32) (*model.MessageList, error) {
	queryBuilder := sq.Select(
		"id",
		"channel_id",
		"direct_thread_id",
		"sender_id",
		"type",
		"content",
		"reply_to_id",
		"created_task_id",
		"linked_task_id",
		"sent_at",
		"seq",
	).
		From("messages").
		OrderBy("sent_at DESC", "seq DESC")

	if thread.Kind == model.ThreadKindChannel {
		queryBuilder = queryBuilder.Where(sq.Eq{"channel_id": thread.ID})
	} else {
		queryBuilder = queryBuilder.Where(sq.Eq{"direct_thread_id": thread.ID})
	}

	if offset != "" {
		queryBuilder = queryBuilder.Where(sq.LtOrEq{"sent_at": offset})
	}

	if limit > 0 {
		queryBuilder = queryBuilder.Limit(uint64(limit))
	} else {
		queryBuilder = queryBuilder.Limit(50)
	}

	query, args, err := queryBuilder.PlaceholderFormat(sq.Dollar).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build sql query: %v", err)
	}

	var messages model.MessageList
	err = r.Chk(ctx).SelectContext(ctx, &messages, query, args...)
	if err != nil {
		return nil, err
	}

	return &messages, nil
}

// LinkCreatedTask binds the task to the message only when no task has
// been linked before. The conditional update is what enforces the
// one-message-one-task invariant under concurrent convert calls.
func (r *Repository) LinkCreatedTask(ctx context.Context, messageID, taskID uuid.UUID) (bool, error) {
	query, args, err := sq.Update("messages").
		Set("created_task_id", taskID).
		Where(sq.And{
			sq.Eq{"id": messageID},
			sq.Eq{"created_task_id": nil},
		}).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("failed to build sql query: %v", err)
	}

	result, err := r.Chk(ctx).ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("failed to link created task: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read affected rows: %w", err)
	}

	return affected == 1, nil
}

func (r *Repository) AddMentions(ctx context.Context, messageID uuid.UUID, userIDs []uuid.UUID) error {
	if len(userIDs) == 0 {
		return nil
	}

	queryBuilder := sq.Insert("mentions").
		Columns("message_id", "user_id").
		Suffix("ON CONFLICT (message_id, user_id) DO NOTHING").
		PlaceholderFormat(sq.Dollar)

	for _, userID := range userIDs {
		queryBuilder = queryBuilder.Values(messageID, userID)
	}

	query, args, err := queryBuilder.ToSql()
	if err != nil {
		return fmt.Errorf("failed to build sql query: %v", err)
	}

	_, err = r.Chk(ctx).ExecContext(ctx, query, args...)

	return err
}

func (r *Repository) GetMentionUserIDs(ctx context.Context, messageID uuid.UUID) ([]uuid.UUID, error) {
	query, args, err := sq.Select("user_id").
		From("mentions").
		Where(sq.Eq{"message_id": messageID}).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build sql query: %v", err)
	}

	var userIDs []uuid.UUID
	err = r.Chk(ctx).SelectContext(ctx, &userIDs, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get mentions: %w", err)
	}

	return userIDs, nil
}
