//go:generate mockgen -destination=mock_contract_test.go -package=${GOPACKAGE} -source=contract.go
package access

import (
	"context"

	"github.com/google/uuid"

	"github.com/s21platform/messenger-service/internal/model"
)

type DBRepo interface {
	GetChannel(ctx context.Context, channelID uuid.UUID) (*model.Channel, error)
	AddChannelMember(ctx context.Context, channelID, userID uuid.UUID) error
	IsChannelMember(ctx context.Context, channelID, userID uuid.UUID) (bool, error)
	IsDirectParticipant(ctx context.Context, threadID, userID uuid.UUID) (bool, error)
	GetUser(ctx context.Context, userID uuid.UUID) (*model.User, error)
}
