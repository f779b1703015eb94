package model

import "errors"

var (
	ErrUnknownThread    = errors.New("thread does not exist")
	ErrUnknownMessage   = errors.New("message does not exist")
	ErrNotMember        = errors.New("user is not a member of this thread")
	ErrNotPrivileged    = errors.New("operation requires a privileged user")
	ErrReadOnly         = errors.New("channel is read-only")
	ErrEmptyContent     = errors.New("content cannot be empty")
	ErrChannelNameTaken = errors.New("channel name is already taken")
	ErrAlreadyConverted = errors.New("message is already converted to a task")
)
