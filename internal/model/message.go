package model

import (
	"time"

	"github.com/google/uuid"
)

const (
	TextMessageType   = "text"
	SystemMessageType = "system"
	// TaskMessageType marks the system message posted when a message is
	// converted into a task.
	TaskMessageType = "task"
)

type MessageList []Message

// Message belongs to exactly one thread: ChannelID xor DirectThreadID is
// set, never both, never neither. Seq breaks ordering ties between
// messages with the same SentAt.
type Message struct {
	ID             uuid.UUID  `db:"id"`
	ChannelID      *uuid.UUID `db:"channel_id"`
	DirectThreadID *uuid.UUID `db:"direct_thread_id"`
	SenderID       uuid.UUID  `db:"sender_id"`
	Type           string     `db:"type"`
	Content        string     `db:"content"`
	ReplyToID      *uuid.UUID `db:"reply_to_id"`
	CreatedTaskID  *uuid.UUID `db:"created_task_id"`
	LinkedTaskID   *uuid.UUID `db:"linked_task_id"`
	SentAt         time.Time  `db:"sent_at"`
	Seq            int64      `db:"seq"`
}

func (m *Message) Thread() ThreadRef {
	if m.ChannelID != nil {
		return ThreadRef{Kind: ThreadKindChannel, ID: *m.ChannelID}
	}
	return ThreadRef{Kind: ThreadKindDirect, ID: *m.DirectThreadID}
}

type Mention struct {
	MessageID uuid.UUID `db:"message_id"`
	UserID    uuid.UUID `db:"user_id"`
}
