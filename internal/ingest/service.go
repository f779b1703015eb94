// Package ingest persists new messages and fans them out. Persistence is
// the correctness boundary: the broker publish is a best-effort
// notification on top of it and can never fail a send.
package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"github.com/s21platform/messenger-service/internal/model"
	"github.com/s21platform/messenger-service/internal/pkg/tx"
)

var mentionPattern = regexp.MustCompile(`@([\w.+-]+@[\w-]+(?:\.[\w-]+)+)`)

type SendInput struct {
	Content      string
	Type         string
	ReplyTo      *uuid.UUID
	LinkedTaskID *uuid.UUID
}

type Service struct {
	repository DBRepo
	access     Access
	publisher  Publisher
	logger     Logger
}

func New(repo DBRepo, access Access, publisher Publisher, logger Logger) *Service {
	return &Service{
		repository: repo,
		access:     access,
		publisher:  publisher,
		logger:     logger,
	}
}

// Send runs the full ingestion pipeline for a user-authored message: the
// same access check the gateway uses, persistence with the sender marked
// as having read their own message, an idempotent membership upsert, the
// thread activity touch, mention extraction and finally the broadcast.
func (s *Service) Send(ctx context.Context, thread model.ThreadRef, senderID uuid.UUID, in SendInput) (*model.Message, error) {
	if err := s.access.CanPost(ctx, senderID, thread); err != nil {
		return nil, err
	}

	return s.persistAndPublish(ctx, thread, senderID, in)
}

// SendSystem ingests a service-originated message (channel welcome, task
// announce) without the posting gate; the caller has already decided the
// message belongs in the thread.
func (s *Service) SendSystem(ctx context.Context, thread model.ThreadRef, senderID uuid.UUID, in SendInput) (*model.Message, error) {
	if in.Type == "" {
		in.Type = model.SystemMessageType
	}
	return s.persistAndPublish(ctx, thread, senderID, in)
}

func (s *Service) persistAndPublish(ctx context.Context, thread model.ThreadRef, senderID uuid.UUID, in SendInput) (*model.Message, error) {
	content := strings.TrimSpace(in.Content)
	if content == "" {
		return nil, model.ErrEmptyContent
	}

	messageType := in.Type
	if messageType == "" {
		messageType = model.TextMessageType
	}

	message := &model.Message{
		ID:           uuid.New(),
		SenderID:     senderID,
		Type:         messageType,
		Content:      content,
		ReplyToID:    in.ReplyTo,
		LinkedTaskID: in.LinkedTaskID,
	}
	if thread.Kind == model.ThreadKindChannel {
		channelID := thread.ID
		message.ChannelID = &channelID
	} else {
		threadID := thread.ID
		message.DirectThreadID = &threadID
	}

	err := tx.TxExecute(ctx, func(ctx context.Context) error {
		if err := s.repository.SaveMessage(ctx, message); err != nil {
			return err
		}

		if thread.Kind == model.ThreadKindChannel {
			// A sender may post without an explicit prior join; the
			// upsert keeps the membership invariant intact either way.
			if err := s.repository.AddChannelMember(ctx, thread.ID, senderID); err != nil {
				return fmt.Errorf("failed to upsert sender membership: %w", err)
			}
			// The cursor must come from the same clock as sent_at, so the
			// sender's own message never counts as unread.
			if err := s.repository.SetChannelLastRead(ctx, thread.ID, senderID, message.SentAt); err != nil {
				return fmt.Errorf("failed to mark sender read: %w", err)
			}
			if err := s.repository.TouchChannelActivity(ctx, thread.ID); err != nil {
				return fmt.Errorf("failed to touch channel activity: %w", err)
			}
		} else {
			if err := s.repository.AddMessageRead(ctx, message.ID, senderID); err != nil {
				return fmt.Errorf("failed to mark sender read: %w", err)
			}
			if err := s.repository.TouchDirectActivity(ctx, thread.ID); err != nil {
				return fmt.Errorf("failed to touch thread activity: %w", err)
			}
		}

		return s.saveMentions(ctx, message)
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, thread, message)

	return message, nil
}

func (s *Service) saveMentions(ctx context.Context, message *model.Message) error {
	var userIDs []uuid.UUID
	for _, match := range mentionPattern.FindAllStringSubmatch(message.Content, -1) {
		user, err := s.repository.GetUserByEmail(ctx, match[1])
		if err != nil {
			// Unresolvable mentions are plain text, not an error.
			continue
		}
		userIDs = append(userIDs, user.ID)
	}

	return s.repository.AddMentions(ctx, message.ID, userIDs)
}

// publish serializes the broadcast payload and hands it to the broker. A
// failure here is logged and swallowed: the message is already durable
// and live delivery degrades to pull.
func (s *Service) publish(ctx context.Context, thread model.ThreadRef, message *model.Message) {
	sender, err := s.repository.GetUser(ctx, message.SenderID)
	if err != nil {
		s.logWarn(fmt.Sprintf("failed to load sender %s for broadcast: %v", message.SenderID, err))
		return
	}

	payload, err := json.Marshal(model.NewMessageEvent(message, sender))
	if err != nil {
		s.logWarn(fmt.Sprintf("failed to marshal broadcast payload: %v", err))
		return
	}

	if err := s.publisher.Publish(ctx, thread.GroupID(), payload); err != nil {
		s.logWarn(fmt.Sprintf("failed to publish message %s to %s: %v", message.ID, thread.GroupID(), err))
	}
}

func (s *Service) logWarn(msg string) {
	if s.logger != nil {
		s.logger.Warn(msg)
	}
}
