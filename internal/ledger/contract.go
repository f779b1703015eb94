//go:generate mockgen -destination=mock_contract_test.go -package=${GOPACKAGE} -source=contract.go
package ledger

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type DBRepo interface {
	AddChannelMember(ctx context.Context, channelID, userID uuid.UUID) error
	SetChannelLastRead(ctx context.Context, channelID, userID uuid.UUID, readAt time.Time) error
	CountChannelUnread(ctx context.Context, channelID, userID uuid.UUID) (int64, error)
	MarkDirectRead(ctx context.Context, threadID, userID uuid.UUID) error
	CountDirectUnread(ctx context.Context, threadID, userID uuid.UUID) (int64, error)
}
