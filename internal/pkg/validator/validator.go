package validator

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/s21platform/messenger-service/internal/api"
	"github.com/s21platform/messenger-service/internal/model"
)

const maxContentLength = 2000

var (
	channelNamePattern = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)
	separatorRuns      = regexp.MustCompile(`[\s_]+`)
	dashRuns           = regexp.MustCompile(`-{2,}`)
)

type Validator struct{}

func New() *Validator {
	return &Validator{}
}

// NormalizeChannelName lowercases a channel name and collapses runs of
// spaces and separators into single dashes.
func NormalizeChannelName(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	name = separatorRuns.ReplaceAllString(name, "-")
	name = dashRuns.ReplaceAllString(name, "-")
	return strings.Trim(name, "-")
}

func (v *Validator) ValidateCreateChannel(req *api.CreateChannelRequest) error {
	name := NormalizeChannelName(req.Name)
	if name == "" {
		return fmt.Errorf("channel name is required")
	}

	if len(name) > 80 {
		return fmt.Errorf("channel name exceeds maximum length of 80 characters")
	}

	if !channelNamePattern.MatchString(name) {
		return fmt.Errorf("channel name '%s' contains unsupported characters", name)
	}

	return nil
}

func (v *Validator) ValidateSendMessage(req *api.SendMessageRequest) error {
	if strings.TrimSpace(req.Content) == "" {
		return model.ErrEmptyContent
	}

	if len([]rune(req.Content)) > maxContentLength {
		return fmt.Errorf("content exceeds maximum length of %d characters", maxContentLength)
	}

	if req.MessageType == "" {
		return nil
	}

	if req.MessageType != model.TextMessageType {
		return fmt.Errorf("message type '%s' is not supported", req.MessageType)
	}

	return nil
}

func (v *Validator) ValidateConvertMessage(req *api.ConvertMessageRequest) error {
	if req.Priority == nil {
		return nil
	}

	switch *req.Priority {
	case model.PriorityUrgent, model.PriorityHigh, model.PriorityNormal, model.PriorityLow:
		return nil
	}

	return fmt.Errorf("priority '%s' is not supported", *req.Priority)
}
