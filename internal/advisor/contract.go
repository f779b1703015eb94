//go:generate mockgen -destination=mock_contract_test.go -package=${GOPACKAGE} -source=contract.go
package advisor

import (
	"context"

	"github.com/google/uuid"

	"github.com/s21platform/messenger-service/internal/ingest"
	"github.com/s21platform/messenger-service/internal/model"
)

type DBRepo interface {
	GetMessage(ctx context.Context, messageID uuid.UUID) (*model.Message, error)
	GetChannel(ctx context.Context, channelID uuid.UUID) (*model.Channel, error)
	GetMentionUserIDs(ctx context.Context, messageID uuid.UUID) ([]uuid.UUID, error)
	LinkCreatedTask(ctx context.Context, messageID, taskID uuid.UUID) (bool, error)
}

type TaskClient interface {
	CreateTask(ctx context.Context, params *model.TaskParams) (uuid.UUID, error)
}

type UserClient interface {
	GetDepartmentLead(ctx context.Context, departmentID uuid.UUID) (uuid.UUID, error)
}

type Ingestor interface {
	SendSystem(ctx context.Context, thread model.ThreadRef, senderID uuid.UUID, in ingest.SendInput) (*model.Message, error)
}

type Publisher interface {
	Publish(ctx context.Context, group string, payload []byte) error
}

type Logger interface {
	Info(msg string)
	Warn(msg string)
	Error(msg string)
}
