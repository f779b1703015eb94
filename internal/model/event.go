package model

import (
	"time"

	"github.com/google/uuid"
)

const (
	EventTypeStatus       = "status"
	EventTypeMessage      = "message"
	EventTypeTaskCreated  = "task_created"
	EventTypeTaskAssigned = "task_assigned"
)

type EventSender struct {
	ID     uuid.UUID `json:"id"`
	Name   string    `json:"name"`
	Avatar string    `json:"avatar"`
}

// MessageEvent is the broadcast payload relayed to subscribed connections.
type MessageEvent struct {
	Type               string      `json:"type"`
	ID                 uuid.UUID   `json:"id"`
	Content            string      `json:"content"`
	Sender             EventSender `json:"sender"`
	CreatedAt          string      `json:"created_at"`
	CreatedAtTimestamp int64       `json:"created_at_timestamp"`
	ReplyTo            *uuid.UUID  `json:"reply_to"`
}

// StatusEvent is the first frame sent on a freshly accepted connection.
type StatusEvent struct {
	Type  string `json:"type"`
	State string `json:"state"`
}

// TaskEvent announces a conversion result, either to the thread group
// (task_created) or to the assignee's personal group (task_assigned).
type TaskEvent struct {
	Type      string    `json:"type"`
	TaskID    uuid.UUID `json:"task_id"`
	MessageID uuid.UUID `json:"message_id"`
	Title     string    `json:"title"`
	Group     string    `json:"group,omitempty"`
}

func NewMessageEvent(m *Message, sender *User) MessageEvent {
	return MessageEvent{
		Type:               EventTypeMessage,
		ID:                 m.ID,
		Content:            m.Content,
		Sender:             EventSender{ID: sender.ID, Name: sender.Nickname, Avatar: sender.AvatarURL},
		CreatedAt:          m.SentAt.UTC().Format(time.RFC3339),
		CreatedAtTimestamp: m.SentAt.Unix(),
		ReplyTo:            m.ReplyToID,
	}
}
