//go:generate mockgen -destination=mock_contract_test.go -package=${GOPACKAGE} -source=contract.go
package rest

import (
	"context"

	"github.com/google/uuid"

	"github.com/s21platform/messenger-service/internal/advisor"
	"github.com/s21platform/messenger-service/internal/api"
	"github.com/s21platform/messenger-service/internal/ingest"
	"github.com/s21platform/messenger-service/internal/model"
)

type DBRepo interface {
	CreateChannel(ctx context.Context, channel *model.Channel) (uuid.UUID, error)
	GetChannel(ctx context.Context, channelID uuid.UUID) (*model.Channel, error)
	AddChannelMember(ctx context.Context, channelID, userID uuid.UUID) error
	AddChannelMembers(ctx context.Context, channelID uuid.UUID, userIDs []uuid.UUID) error
	GetUserChannelIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error)
	UpsertJoinRequest(ctx context.Context, channelID, userID uuid.UUID) (*model.ChannelJoinRequest, error)
	GetJoinRequest(ctx context.Context, requestID uuid.UUID) (*model.ChannelJoinRequest, error)
	ResolveJoinRequest(ctx context.Context, requestID uuid.UUID, status string) error

	FindDirectThread(ctx context.Context, participants []uuid.UUID) (uuid.UUID, bool, error)
	CreateDirectThread(ctx context.Context, participants []uuid.UUID) (uuid.UUID, error)
	GetUserDirectThreadIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error)

	GetMessage(ctx context.Context, messageID uuid.UUID) (*model.Message, error)
	DeleteMessage(ctx context.Context, messageID uuid.UUID) error
	GetRecentMessages(ctx context.Context, thread model.ThreadRef, offset string, limit int32) (*model.MessageList, error)
	GetMessageReaders(ctx context.Context, messageID uuid.UUID) ([]uuid.UUID, error)

	GetUser(ctx context.Context, userID uuid.UUID) (*model.User, error)
	GetActiveOrgUserIDs(ctx context.Context, organizationID uuid.UUID) ([]uuid.UUID, error)
	UpsertUser(ctx context.Context, userInfo *model.UserParams) error

	WithTx(ctx context.Context, cb func(ctx context.Context) error) error
}

type UserClient interface {
	GetUserInfoByUUID(ctx context.Context, userID uuid.UUID) (*model.UserParams, error)
}

type Validator interface {
	ValidateCreateChannel(req *api.CreateChannelRequest) error
	ValidateSendMessage(req *api.SendMessageRequest) error
	ValidateConvertMessage(req *api.ConvertMessageRequest) error
}

type JWTGenerator interface {
	GenerateConnectToken(userID string) (string, int64, error)
}

type Access interface {
	CanJoin(ctx context.Context, userID uuid.UUID, thread model.ThreadRef) (bool, error)
	IsPrivileged(ctx context.Context, userID uuid.UUID, channel *model.Channel) (bool, error)
}

type Ledger interface {
	MarkRead(ctx context.Context, userID uuid.UUID, thread model.ThreadRef) error
	Unread(ctx context.Context, userID uuid.UUID, thread model.ThreadRef) (int64, error)
}

type Ingestor interface {
	Send(ctx context.Context, thread model.ThreadRef, senderID uuid.UUID, in ingest.SendInput) (*model.Message, error)
	SendSystem(ctx context.Context, thread model.ThreadRef, senderID uuid.UUID, in ingest.SendInput) (*model.Message, error)
}

type Advisor interface {
	Convert(ctx context.Context, messageID, actorID uuid.UUID, overrides advisor.Overrides) (*model.Task, error)
}
