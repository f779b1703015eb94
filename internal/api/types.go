// Package api holds the REST request and response contracts.
package api

import "time"

type Error struct {
	Error string `json:"error"`
}

type CreateChannelRequest struct {
	Name         string  `json:"name"`
	Description  string  `json:"description,omitempty"`
	Public       bool    `json:"public"`
	ReadOnly     bool    `json:"read_only"`
	DepartmentID *string `json:"department_id,omitempty"`
}

type CreateChannelResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type JoinChannelResponse struct {
	// Status is "member" when the join took effect immediately and
	// "pending" when a join request was created or reused.
	Status        string  `json:"status"`
	JoinRequestID *string `json:"join_request_id,omitempty"`
}

type ApproveJoinRequestResponse struct {
	Status string `json:"status"`
}

type StartDirectResponse struct {
	ThreadID string `json:"thread_id"`
}

type SendMessageRequest struct {
	Content     string  `json:"content"`
	MessageType string  `json:"message_type"`
	ReplyTo     *string `json:"reply_to,omitempty"`
}

type SendMessageResponse struct {
	MessageID string `json:"message_id"`
	SentAt    string `json:"sent_at"`
}

type Message struct {
	ID            string  `json:"id"`
	SenderID      string  `json:"sender_id"`
	Type          string  `json:"type"`
	Content       string  `json:"content"`
	ReplyTo       *string `json:"reply_to,omitempty"`
	SentAt        string  `json:"sent_at"`
	CreatedTaskID *string `json:"created_task_id,omitempty"`
}

type GetMessagesResponse struct {
	Messages []Message `json:"messages"`
}

type MarkReadResponse struct {
	Status string `json:"status"`
}

type UnreadEntry struct {
	ThreadKind string `json:"thread_kind"`
	ThreadID   string `json:"thread_id"`
	Unread     int64  `json:"unread"`
}

type GetUnreadResponse struct {
	Threads []UnreadEntry `json:"threads"`
}

type GetMessageReadersResponse struct {
	Readers []string `json:"readers"`
}

type ConvertMessageRequest struct {
	Title      *string    `json:"title,omitempty"`
	Priority   *string    `json:"priority,omitempty"`
	DueDate    *time.Time `json:"due_date,omitempty"`
	AssigneeID *string    `json:"assignee_id,omitempty"`
}

type ConvertMessageResponse struct {
	TaskID string `json:"task_id"`
	// AlreadyConverted is true when the message had been converted
	// before this call; TaskID then points at the existing task.
	AlreadyConverted bool `json:"already_converted"`
}

type GetConnectTokenResponse struct {
	Token     string `json:"token"`
	ExpiresAt int64  `json:"expires_at"`
}
