//go:generate mockgen -destination=mock_contract_test.go -package=${GOPACKAGE} -source=contract.go
package ingest

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/s21platform/messenger-service/internal/model"
)

type DBRepo interface {
	SaveMessage(ctx context.Context, message *model.Message) error
	AddChannelMember(ctx context.Context, channelID, userID uuid.UUID) error
	SetChannelLastRead(ctx context.Context, channelID, userID uuid.UUID, readAt time.Time) error
	AddMessageRead(ctx context.Context, messageID, userID uuid.UUID) error
	TouchChannelActivity(ctx context.Context, channelID uuid.UUID) error
	TouchDirectActivity(ctx context.Context, threadID uuid.UUID) error
	GetUser(ctx context.Context, userID uuid.UUID) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	AddMentions(ctx context.Context, messageID uuid.UUID, userIDs []uuid.UUID) error
}

type Access interface {
	CanPost(ctx context.Context, userID uuid.UUID, thread model.ThreadRef) error
}

type Publisher interface {
	Publish(ctx context.Context, group string, payload []byte) error
}

type Logger interface {
	Info(msg string)
	Warn(msg string)
	Error(msg string)
}
