package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

type ThreadKind string

const (
	ThreadKindChannel ThreadKind = "channel"
	ThreadKindDirect  ThreadKind = "dm"
)

func ParseThreadKind(s string) (ThreadKind, error) {
	switch ThreadKind(s) {
	case ThreadKindChannel:
		return ThreadKindChannel, nil
	case ThreadKindDirect:
		return ThreadKindDirect, nil
	}
	return "", fmt.Errorf("unknown thread kind %q", s)
}

// ThreadRef identifies one conversation without loading it. The gateway
// process and the ingestion path both derive the broadcast group from it,
// so the mapping must stay a pure function of kind and id.
type ThreadRef struct {
	Kind ThreadKind
	ID   uuid.UUID
}

func (t ThreadRef) GroupID() string {
	return fmt.Sprintf("%s:%s", t.Kind, t.ID)
}

// UserGroupID is the personal notification group for a user.
func UserGroupID(userID uuid.UUID) string {
	return fmt.Sprintf("user:%s", userID)
}

type Channel struct {
	ID             uuid.UUID  `db:"id"`
	OrganizationID uuid.UUID  `db:"organization_id"`
	Name           string     `db:"name"`
	Description    string     `db:"description"`
	IsPublic       bool       `db:"is_public"`
	IsReadOnly     bool       `db:"is_read_only"`
	OwnerID        uuid.UUID  `db:"owner_id"`
	DepartmentID   *uuid.UUID `db:"department_id"`
	CreatedAt      time.Time  `db:"created_at"`
	LastActivityAt time.Time  `db:"last_activity_at"`
}

func (c *Channel) Ref() ThreadRef {
	return ThreadRef{Kind: ThreadKindChannel, ID: c.ID}
}

// DirectThread is a conversation between an exact participant set. A set
// is looked up and reused, never duplicated.
type DirectThread struct {
	ID             uuid.UUID `db:"id"`
	CreatedAt      time.Time `db:"created_at"`
	LastActivityAt time.Time `db:"last_activity_at"`

	Participants []uuid.UUID
}

func (d *DirectThread) Ref() ThreadRef {
	return ThreadRef{Kind: ThreadKindDirect, ID: d.ID}
}

type ChannelMember struct {
	ChannelID  uuid.UUID  `db:"channel_id"`
	UserID     uuid.UUID  `db:"user_id"`
	LastReadAt *time.Time `db:"last_read_at"`
	CreatedAt  time.Time  `db:"created_at"`
}

const (
	JoinRequestPending  = "pending"
	JoinRequestApproved = "approved"
	JoinRequestRejected = "rejected"
)

type ChannelJoinRequest struct {
	ID        uuid.UUID `db:"id"`
	ChannelID uuid.UUID `db:"channel_id"`
	UserID    uuid.UUID `db:"user_id"`
	Status    string    `db:"status"`
	CreatedAt time.Time `db:"created_at"`
}
