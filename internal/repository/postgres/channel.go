package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/s21platform/messenger-service/internal/model"
)

func (r *Repository) CreateChannel(ctx context.Context, channel *model.Channel) (uuid.UUID, error) {
	query, args, err := sq.Insert("channels").
		Columns("organization_id", "name", "description", "is_public", "is_read_only", "owner_id", "department_id").
		Values(channel.OrganizationID, channel.Name, channel.Description, channel.IsPublic, channel.IsReadOnly, channel.OwnerID, channel.DepartmentID).
		Suffix("RETURNING id").
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to build sql query: %v", err)
	}

	var channelID uuid.UUID
	err = r.Chk(ctx).GetContext(ctx, &channelID, query, args...)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return uuid.Nil, model.ErrChannelNameTaken
		}
		return uuid.Nil, fmt.Errorf("failed to create channel: %w", err)
	}

	return channelID, nil
}

func (r *Repository) GetChannel(ctx context.Context, channelID uuid.UUID) (*model.Channel, error) {
	query, args, err := sq.Select("id", "organization_id", "name", "description", "is_public", "is_read_only", "owner_id", "department_id", "created_at", "last_activity_at").
		From("channels").
		Where(sq.Eq{"id": channelID}).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build sql query: %v", err)
	}

	var channel model.Channel
	err = r.Chk(ctx).GetContext(ctx, &channel, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.ErrUnknownThread
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get channel: %w", err)
	}

	return &channel, nil
}

func (r *Repository) TouchChannelActivity(ctx context.Context, channelID uuid.UUID) error {
	query, args, err := sq.Update("channels").
		Set("last_activity_at", sq.Expr("now()")).
		Where(sq.Eq{"id": channelID}).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build sql query: %v", err)
	}

	_, err = r.Chk(ctx).ExecContext(ctx, query, args...)

	return err
}

// AddChannelMember is the idempotent membership upsert; concurrent callers
// racing on the same (channel, user) pair all succeed with one row.
func (r *Repository) AddChannelMember(ctx context.Context, channelID, userID uuid.UUID) error {
	query, args, err := sq.Insert("channel_members").
		Columns("channel_id", "user_id").
		Values(channelID, userID).
		Suffix("ON CONFLICT (channel_id, user_id) DO NOTHING").
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build sql query: %v", err)
	}

	_, err = r.Chk(ctx).ExecContext(ctx, query, args...)

	return err
}

func (r *Repository) AddChannelMembers(ctx context.Context, channelID uuid.UUID, userIDs []uuid.UUID) error {
	if len(userIDs) == 0 {
		return nil
	}

	queryBuilder := sq.Insert("channel_members").
		Columns("channel_id", "user_id").
		Suffix("ON CONFLICT (channel_id, user_id) DO NOTHING").
		PlaceholderFormat(sq.Dollar)

	for _, userID := range userIDs {
		queryBuilder = queryBuilder.Values(channelID, userID)
	}

	query, args, err := queryBuilder.ToSql()
	if err != nil {
		return fmt.Errorf("failed to build sql query: %v", err)
	}

	_, err = r.Chk(ctx).ExecContext(ctx, query, args...)

	return err
}

func (r *Repository) IsChannelMember(ctx context.Context, channelID, userID uuid.UUID) (bool, error) {
	query, args, err := sq.
		Select("COUNT(*) > 0").
		From("channel_members").
		Where(sq.And{
			sq.Eq{"channel_id": channelID},
			sq.Eq{"user_id": userID},
		}).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("failed to build sql query: %v", err)
	}

	var isMember bool
	err = r.Chk(ctx).GetContext(ctx, &isMember, query, args...)
	if err != nil {
		return false, fmt.Errorf("failed to check channel membership: %v", err)
	}

	return isMember, nil
}

// SetChannelLastRead moves the read cursor forward; GREATEST keeps it
// monotonic under concurrent markers.
func (r *Repository) SetChannelLastRead(ctx context.Context, channelID, userID uuid.UUID, readAt time.Time) error {
	query, args, err := sq.Update("channel_members").
		Set("last_read_at", sq.Expr("GREATEST(COALESCE(last_read_at, '-infinity'::timestamptz), ?)", readAt)).
		Where(sq.And{
			sq.Eq{"channel_id": channelID},
			sq.Eq{"user_id": userID},
		}).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build sql query: %v", err)
	}

	_, err = r.Chk(ctx).ExecContext(ctx, query, args...)

	return err
}

// CountChannelUnread counts messages newer than the member's cursor. A
// user without a membership row sees every message as unread.
func (r *Repository) CountChannelUnread(ctx context.Context, channelID, userID uuid.UUID) (int64, error) {
	query, args, err := sq.Select("COUNT(*)").
		From("messages m").
		Where(sq.Eq{"m.channel_id": channelID}).
		Where(sq.Expr(
			`m.sent_at > COALESCE((SELECT cm.last_read_at FROM channel_members cm WHERE cm.channel_id = m.channel_id AND cm.user_id = ?), '-infinity'::timestamptz)`,
			userID,
		)).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build sql query: %v", err)
	}

	var unread int64
	err = r.Chk(ctx).GetContext(ctx, &unread, query, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to count channel unread: %w", err)
	}

	return unread, nil
}

func (r *Repository) GetUserChannelIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	query, args, err := sq.Select("channel_id").
		From("channel_members").
		Where(sq.Eq{"user_id": userID}).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build sql query: %v", err)
	}

	var channelIDs []uuid.UUID
	err = r.Chk(ctx).SelectContext(ctx, &channelIDs, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get user channels: %w", err)
	}

	return channelIDs, nil
}

// UpsertJoinRequest creates a pending join request for the (channel, user)
// pair, re-opening a rejected one. An approved request is returned as is;
// repeated join attempts never pile up duplicate requests.
func (r *Repository) UpsertJoinRequest(ctx context.Context, channelID, userID uuid.UUID) (*model.ChannelJoinRequest, error) {
	query, args, err := sq.Insert("channel_join_requests").
		Columns("channel_id", "user_id", "status").
		Values(channelID, userID, model.JoinRequestPending).
		Suffix(`ON CONFLICT (channel_id, user_id) DO UPDATE
			SET status = CASE
				WHEN channel_join_requests.status = ? THEN channel_join_requests.status
				ELSE ?
			END
			RETURNING id, channel_id, user_id, status, created_at`,
			model.JoinRequestApproved, model.JoinRequestPending).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build sql query: %v", err)
	}

	var request model.ChannelJoinRequest
	err = r.Chk(ctx).GetContext(ctx, &request, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert join request: %w", err)
	}

	return &request, nil
}

func (r *Repository) GetJoinRequest(ctx context.Context, requestID uuid.UUID) (*model.ChannelJoinRequest, error) {
	query, args, err := sq.Select("id", "channel_id", "user_id", "status", "created_at").
		From("channel_join_requests").
		Where(sq.Eq{"id": requestID}).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build sql query: %v", err)
	}

	var request model.ChannelJoinRequest
	err = r.Chk(ctx).GetContext(ctx, &request, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("join request %s does not exist", requestID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get join request: %w", err)
	}

	return &request, nil
}

func (r *Repository) ResolveJoinRequest(ctx context.Context, requestID uuid.UUID, status string) error {
	query, args, err := sq.Update("channel_join_requests").
		Set("status", status).
		Where(sq.Eq{"id": requestID}).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build sql query: %v", err)
	}

	_, err = r.Chk(ctx).ExecContext(ctx, query, args...)

	return err
}
