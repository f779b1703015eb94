//go:generate mockgen -destination=mock_contract_test.go -package=${GOPACKAGE} -source=contract.go
package ws

import (
	"context"

	"github.com/google/uuid"

	"github.com/s21platform/messenger-service/internal/broker"
	"github.com/s21platform/messenger-service/internal/model"
)

type IdentityResolver interface {
	Resolve(token string) model.Identity
}

type Access interface {
	CanJoin(ctx context.Context, userID uuid.UUID, thread model.ThreadRef) (bool, error)
}

type Broker interface {
	Subscribe(group string, sub broker.Subscriber)
	Unsubscribe(group string, sub broker.Subscriber)
}
