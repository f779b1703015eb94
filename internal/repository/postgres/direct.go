package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
)

// directPairKey canonicalizes a participant set so both orders of the
// same pair map to the same direct_threads row.
func directPairKey(participants []uuid.UUID) string {
	ids := make([]string, len(participants))
	for i, id := range participants {
		ids[i] = id.String()
	}
	sort.Strings(ids)
	return strings.Join(ids, ":")
}

// FindDirectThread looks up the thread for the exact participant set.
// Returns uuid.Nil and false when no such thread exists.
func (r *Repository) FindDirectThread(ctx context.Context, participants []uuid.UUID) (uuid.UUID, bool, error) {
	query, args, err := sq.Select("id").
		From("direct_threads").
		Where(sq.Eq{"pair_key": directPairKey(participants)}).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return uuid.Nil, false, fmt.Errorf("failed to build sql query: %v", err)
	}

	var threadID uuid.UUID
	err = r.Chk(ctx).GetContext(ctx, &threadID, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return uuid.Nil, false, nil
	}
	if err != nil {
		return uuid.Nil, false, fmt.Errorf("failed to find direct thread: %w", err)
	}

	return threadID, true, nil
}

// CreateDirectThread creates the thread for the participant set or
// returns the existing one; two concurrent first contacts for the same
// pair land on a single row through the pair_key conflict.
func (r *Repository) CreateDirectThread(ctx context.Context, participants []uuid.UUID) (uuid.UUID, error) {
	query, args, err := sq.Insert("direct_threads").
		Columns("pair_key").
		Values(directPairKey(participants)).
		Suffix("ON CONFLICT (pair_key) DO UPDATE SET pair_key = EXCLUDED.pair_key RETURNING id").
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to build sql query: %v", err)
	}

	var threadID uuid.UUID
	err = r.Chk(ctx).GetContext(ctx, &threadID, query, args...)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to create direct thread: %w", err)
	}

	queryBuilder := sq.Insert("direct_participants").
		Columns("thread_id", "user_id").
		PlaceholderFormat(sq.Dollar)

	for _, userID := range participants {
		queryBuilder = queryBuilder.Values(threadID, userID)
	}

	query, args, err = queryBuilder.Suffix("ON CONFLICT DO NOTHING").ToSql()
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to build sql query: %v", err)
	}

	_, err = r.Chk(ctx).ExecContext(ctx, query, args...)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to add direct participants: %w", err)
	}

	return threadID, nil
}

func (r *Repository) IsDirectParticipant(ctx context.Context, threadID, userID uuid.UUID) (bool, error) {
	query, args, err := sq.
		Select("COUNT(*) > 0").
		From("direct_participants").
		Where(sq.And{
			sq.Eq{"thread_id": threadID},
			sq.Eq{"user_id": userID},
		}).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("failed to build sql query: %v", err)
	}

	var isParticipant bool
	err = r.Chk(ctx).GetContext(ctx, &isParticipant, query, args...)
	if err != nil {
		return false, fmt.Errorf("failed to check direct participant: %v", err)
	}

	return isParticipant, nil
}

func (r *Repository) TouchDirectActivity(ctx context.Context, threadID uuid.UUID) error {
	query, args, err := sq.Update("direct_threads").
		Set("last_activity_at", sq.Expr("now()")).
		Where(sq.Eq{"id": threadID}).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build sql query: %v", err)
	}

	_, err = r.Chk(ctx).ExecContext(ctx, query, args...)

	return err
}

func (r *Repository) GetUserDirectThreadIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	query, args, err := sq.Select("thread_id").
		From("direct_participants").
		Where(sq.Eq{"user_id": userID}).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build sql query: %v", err)
	}

	var threadIDs []uuid.UUID
	err = r.Chk(ctx).SelectContext(ctx, &threadIDs, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get user direct threads: %w", err)
	}

	return threadIDs, nil
}

// AddMessageRead inserts one user into a message's read-by set. The set
// only ever grows; re-reads are no-ops.
func (r *Repository) AddMessageRead(ctx context.Context, messageID, userID uuid.UUID) error {
	query, args, err := sq.Insert("message_reads").
		Columns("message_id", "user_id").
		Values(messageID, userID).
		Suffix("ON CONFLICT (message_id, user_id) DO NOTHING").
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build sql query: %v", err)
	}

	_, err = r.Chk(ctx).ExecContext(ctx, query, args...)

	return err
}

// MarkDirectRead adds the user to the read-by set of every message in the
// thread with one set-based statement.
func (r *Repository) MarkDirectRead(ctx context.Context, threadID, userID uuid.UUID) error {
	query := `
		INSERT INTO message_reads (message_id, user_id)
		SELECT m.id, $2
		FROM messages m
		WHERE m.direct_thread_id = $1
		ON CONFLICT (message_id, user_id) DO NOTHING`

	_, err := r.Chk(ctx).ExecContext(ctx, query, threadID, userID)
	if err != nil {
		return fmt.Errorf("failed to mark direct thread read: %w", err)
	}

	return nil
}

func (r *Repository) CountDirectUnread(ctx context.Context, threadID, userID uuid.UUID) (int64, error) {
	query := `
		SELECT COUNT(*)
		FROM messages m
		WHERE m.direct_thread_id = $1
		  AND NOT EXISTS (
			SELECT 1 FROM message_reads mr
			WHERE mr.message_id = m.id AND mr.user_id = $2
		  )`

	var unread int64
	err := r.Chk(ctx).GetContext(ctx, &unread, query, threadID, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to count direct unread: %w", err)
	}

	return unread, nil
}

func (r *Repository) GetMessageReaders(ctx context.Context, messageID uuid.UUID) ([]uuid.UUID, error) {
	query, args, err := sq.Select("user_id").
		From("message_reads").
		Where(sq.Eq{"message_id": messageID}).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build sql query: %v", err)
	}

	var userIDs []uuid.UUID
	err = r.Chk(ctx).SelectContext(ctx, &userIDs, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get message readers: %w", err)
	}

	return userIDs, nil
}
