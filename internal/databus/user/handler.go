// Package user consumes organization directory events and mirrors them
// into the local users projection.
package user

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	logger_lib "github.com/s21platform/logger-lib"

	"github.com/s21platform/messenger-service/internal/config"
	"github.com/s21platform/messenger-service/internal/model"
)

// UserEvent is the directory topic payload.
type UserEvent struct {
	User model.UserParams `json:"user"`
}

type Handler struct {
	repository DBRepo
}

func New(repo DBRepo) *Handler {
	return &Handler{repository: repo}
}

// Handler processes one directory event. Malformed payloads are logged and
// skipped so the consumer keeps its offset moving.
func (h *Handler) Handler(ctx context.Context, in []byte) {
	logger := logger_lib.FromContext(ctx, config.KeyLogger)
	logger.AddFuncName("Handler")

	var event UserEvent
	if err := json.Unmarshal(in, &event); err != nil {
		logger.Error(fmt.Sprintf("failed to unmarshal user event: %v", err))
		return
	}

	if event.User.ID == uuid.Nil {
		logger.Error("user event without user id")
		return
	}

	if !event.User.IsActive {
		if err := h.repository.DeactivateUser(ctx, event.User.ID); err != nil {
			logger.Error(fmt.Sprintf("failed to deactivate user %s: %v", event.User.ID, err))
		}
		return
	}

	if err := h.repository.UpsertUser(ctx, &event.User); err != nil {
		logger.Error(fmt.Sprintf("failed to upsert user %s: %v", event.User.ID, err))
	}
}
