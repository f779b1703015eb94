package advisor

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/s21platform/messenger-service/internal/ingest"
	"github.com/s21platform/messenger-service/internal/model"
)

type Overrides struct {
	Title      *string
	Priority   *string
	DueDate    *time.Time
	AssigneeID *uuid.UUID
}

type Service struct {
	repository DBRepo
	taskClient TaskClient
	userClient UserClient
	ingestor   Ingestor
	publisher  Publisher
	logger     Logger
}

func New(repo DBRepo, taskClient TaskClient, userClient UserClient, ingestor Ingestor, publisher Publisher, logger Logger) *Service {
	return &Service{
		repository: repo,
		taskClient: taskClient,
		userClient: userClient,
		ingestor:   ingestor,
		publisher:  publisher,
		logger:     logger,
	}
}

// Suggest builds the full suggestion bag for a message: text heuristics
// plus assignee candidates from mentions and, for department-linked
// channels, the department lead.
func (s *Service) Suggest(ctx context.Context, message *model.Message) (*model.TaskSuggestion, error) {
	suggestion := &model.TaskSuggestion{
		Title:    SuggestTitle(message.Content),
		Priority: SuggestPriority(message.Content),
		DueDate:  SuggestDueDate(message.Content, time.Now()),
		Keywords: SuggestKeywords(message.Content),
	}

	mentioned, err := s.repository.GetMentionUserIDs(ctx, message.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get mentions: %w", err)
	}
	for _, userID := range mentioned {
		suggestion.Assignees = append(suggestion.Assignees, model.AssigneeSuggestion{
			UserID:     userID,
			Reason:     model.AssigneeReasonMentioned,
			Confidence: model.ConfidenceHigh,
		})
	}

	if message.ChannelID != nil {
		channel, err := s.repository.GetChannel(ctx, *message.ChannelID)
		if err != nil {
			return nil, err
		}
		if channel.DepartmentID != nil {
			leadID, err := s.userClient.GetDepartmentLead(ctx, *channel.DepartmentID)
			if err != nil {
				s.logWarn(fmt.Sprintf("failed to get department lead for %s: %v", *channel.DepartmentID, err))
			} else if leadID != uuid.Nil {
				suggestion.Assignees = append(suggestion.Assignees, model.AssigneeSuggestion{
					UserID:     leadID,
					Reason:     model.AssigneeReasonDepartmentLead,
					Confidence: model.ConfidenceMedium,
				})
			}
		}
	}

	return suggestion, nil
}

// Convert turns a message into exactly one tracked task. A message that
// is already converted returns the existing task reference together with
// model.ErrAlreadyConverted, so a repeat call is idempotent from the
// caller's perspective and never creates a second task.
func (s *Service) Convert(ctx context.Context, messageID uuid.UUID, actorID uuid.UUID, overrides Overrides) (*model.Task, error) {
	message, err := s.repository.GetMessage(ctx, messageID)
	if err != nil {
		return nil, err
	}

	if message.CreatedTaskID != nil {
		return &model.Task{ID: *message.CreatedTaskID}, model.ErrAlreadyConverted
	}

	suggestion, err := s.Suggest(ctx, message)
	if err != nil {
		return nil, err
	}

	params := s.buildParams(message, suggestion, actorID, overrides)

	taskID, err := s.taskClient.CreateTask(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	linked, err := s.repository.LinkCreatedTask(ctx, messageID, taskID)
	if err != nil {
		return nil, err
	}
	if !linked {
		// Lost the race against a concurrent convert; the task created
		// above stays unlinked and the winner's reference is returned.
		s.logWarn(fmt.Sprintf("message %s converted concurrently, task %s left unlinked", messageID, taskID))
		current, err := s.repository.GetMessage(ctx, messageID)
		if err != nil {
			return nil, err
		}
		return &model.Task{ID: *current.CreatedTaskID}, model.ErrAlreadyConverted
	}

	task := &model.Task{
		ID:         taskID,
		Title:      params.Title,
		Priority:   params.Priority,
		DueDate:    params.DueDate,
		AssigneeID: params.AssigneeID,
	}

	s.announce(ctx, message, task, actorID)

	return task, nil
}

func (s *Service) buildParams(message *model.Message, suggestion *model.TaskSuggestion, actorID uuid.UUID, overrides Overrides) *model.TaskParams {
	params := &model.TaskParams{
		Title:       suggestion.Title,
		Description: message.Content,
		Priority:    suggestion.Priority,
		DueDate:     suggestion.DueDate,
		CreatorID:   actorID,
		Keywords:    suggestion.Keywords,
	}

	if len(suggestion.Assignees) > 0 {
		assigneeID := suggestion.Assignees[0].UserID
		params.AssigneeID = &assigneeID
	}

	if overrides.Title != nil {
		params.Title = *overrides.Title
	}
	if overrides.Priority != nil {
		params.Priority = *overrides.Priority
	}
	if overrides.DueDate != nil {
		params.DueDate = overrides.DueDate
	}
	if overrides.AssigneeID != nil {
		params.AssigneeID = overrides.AssigneeID
	}

	return params
}

// announce posts the system message every thread participant sees and
// sends the assignee a distinct personal event. Both are best-effort: the
// task and its link are already durable.
func (s *Service) announce(ctx context.Context, message *model.Message, task *model.Task, actorID uuid.UUID) {
	thread := message.Thread()

	taskID := task.ID
	_, err := s.ingestor.SendSystem(ctx, thread, actorID, ingest.SendInput{
		Content:      fmt.Sprintf("Task created: %s", task.Title),
		Type:         model.TaskMessageType,
		LinkedTaskID: &taskID,
	})
	if err != nil {
		s.logWarn(fmt.Sprintf("failed to post task announce for %s: %v", task.ID, err))
	}

	if task.AssigneeID == nil {
		return
	}

	payload, err := json.Marshal(model.TaskEvent{
		Type:      model.EventTypeTaskAssigned,
		TaskID:    task.ID,
		MessageID: message.ID,
		Title:     task.Title,
		Group:     thread.GroupID(),
	})
	if err != nil {
		s.logWarn(fmt.Sprintf("failed to marshal task event: %v", err))
		return
	}

	if err := s.publisher.Publish(ctx, model.UserGroupID(*task.AssigneeID), payload); err != nil {
		s.logWarn(fmt.Sprintf("failed to notify assignee %s: %v", *task.AssigneeID, err))
	}
}

func (s *Service) logWarn(msg string) {
	if s.logger != nil {
		s.logger.Warn(msg)
	}
}
