package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"github.com/s21platform/messenger-service/internal/config"
	"github.com/s21platform/messenger-service/internal/model"
	"github.com/s21platform/messenger-service/internal/pkg/tx"
)

// Querier is satisfied by both *sqlx.DB and *sqlx.Tx; Chk picks whichever
// the current context carries.
type Querier interface {
	GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

type Repository struct {
	connection *sqlx.DB
}

func New(cfg *config.Config) *Repository {
	conStr := fmt.Sprintf("user=%s password=%s dbname=%s host=%s port=%s sslmode=disable",
		cfg.Postgres.User, cfg.Postgres.Password, cfg.Postgres.Database, cfg.Postgres.Host, cfg.Postgres.Port)

	conn, err := sqlx.Connect("postgres", conStr)
	if err != nil {
		log.Fatal("error connect: ", err)
	}

	return &Repository{
		connection: conn,
	}
}

func (r *Repository) Close() {
	_ = r.connection.Close()
}

func (r *Repository) WithTx(ctx context.Context, cb func(ctx context.Context) error) error {
	transaction, err := r.connection.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	ctx = context.WithValue(ctx, tx.KeyConn, transaction)

	if err := cb(ctx); err != nil {
		if rbErr := transaction.Rollback(); rbErr != nil {
			return fmt.Errorf("failed to rollback transaction: %v, original error: %w", rbErr, err)
		}
		return err
	}

	return transaction.Commit()
}

func (r *Repository) Chk(ctx context.Context) Querier {
	if transaction, ok := ctx.Value(tx.KeyConn).(*sqlx.Tx); ok {
		return transaction
	}
	return r.connection
}

func (r *Repository) UpsertUser(ctx context.Context, userInfo *model.UserParams) error {
	query, args, err := sq.Insert("users").
		Columns("id", "organization_id", "nickname", "email", "avatar_url", "role", "is_active").
		Values(userInfo.ID, userInfo.OrganizationID, userInfo.Nickname, userInfo.Email, userInfo.AvatarURL, userInfo.Role, userInfo.IsActive).
		Suffix(`ON CONFLICT (id) DO UPDATE SET
			nickname = EXCLUDED.nickname,
			email = EXCLUDED.email,
			avatar_url = EXCLUDED.avatar_url,
			role = EXCLUDED.role,
			is_active = EXCLUDED.is_active,
			updated_at = now()`).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build sql query: %v", err)
	}

	_, err = r.Chk(ctx).ExecContext(ctx, query, args...)

	return err
}

func (r *Repository) DeactivateUser(ctx context.Context, userID uuid.UUID) error {
	query, args, err := sq.Update("users").
		Set("is_active", false).
		Set("updated_at", sq.Expr("now()")).
		Where(sq.Eq{"id": userID}).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build sql query: %v", err)
	}

	_, err = r.Chk(ctx).ExecContext(ctx, query, args...)

	return err
}

func (r *Repository) GetUser(ctx context.Context, userID uuid.UUID) (*model.User, error) {
	query, args, err := sq.Select("id", "organization_id", "nickname", "email", "avatar_url", "role", "is_active", "updated_at").
		From("users").
		Where(sq.Eq{"id": userID}).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build sql query: %v", err)
	}

	var user model.User
	err = r.Chk(ctx).GetContext(ctx, &user, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return &user, nil
}

func (r *Repository) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	query, args, err := sq.Select("id", "organization_id", "nickname", "email", "avatar_url", "role", "is_active", "updated_at").
		From("users").
		Where(sq.Eq{"email": email}).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build sql query: %v", err)
	}

	var user model.User
	err = r.Chk(ctx).GetContext(ctx, &user, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}

	return &user, nil
}

func (r *Repository) GetActiveOrgUserIDs(ctx context.Context, organizationID uuid.UUID) ([]uuid.UUID, error) {
	query, args, err := sq.Select("id").
		From("users").
		Where(sq.Eq{
			"organization_id": organizationID,
			"is_active":       true,
		}).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build sql query: %v", err)
	}

	var userIDs []uuid.UUID
	err = r.Chk(ctx).SelectContext(ctx, &userIDs, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get active org users: %w", err)
	}

	return userIDs, nil
}
