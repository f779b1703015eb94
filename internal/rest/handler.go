package rest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	logger_lib "github.com/s21platform/logger-lib"

	"github.com/s21platform/messenger-service/internal/advisor"
	"github.com/s21platform/messenger-service/internal/api"
	"github.com/s21platform/messenger-service/internal/config"
	"github.com/s21platform/messenger-service/internal/ingest"
	"github.com/s21platform/messenger-service/internal/model"
	"github.com/s21platform/messenger-service/internal/pkg/tx"
	"github.com/s21platform/messenger-service/internal/pkg/validator"
)

const defaultMessageLimit = int32(20)

type Handler struct {
	repository   DBRepo
	userClient   UserClient
	validator    Validator
	jwtGenerator JWTGenerator
	access       Access
	ledger       Ledger
	ingestor     Ingestor
	advisor      Advisor
}

func New(
	repo DBRepo,
	userClient UserClient,
	vldtr Validator,
	jwtGenerator JWTGenerator,
	access Access,
	ledger Ledger,
	ingestor Ingestor,
	advisor Advisor,
) *Handler {
	return &Handler{
		repository:   repo,
		userClient:   userClient,
		validator:    vldtr,
		jwtGenerator: jwtGenerator,
		access:       access,
		ledger:       ledger,
		ingestor:     ingestor,
		advisor:      advisor,
	}
}

func (h *Handler) CreateChannel(w http.ResponseWriter, r *http.Request) {
	logger := logger_lib.FromContext(r.Context(), config.KeyLogger)
	logger.AddFuncName("CreateChannel")

	var req api.CreateChannelRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Error(fmt.Sprintf("failed to decode request: %v", err))
		h.writeError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	creatorID, ok := h.requesterID(w, r, logger)
	if !ok {
		return
	}

	if err := h.validator.ValidateCreateChannel(&req); err != nil {
		logger.Error(fmt.Sprintf("channel validation failed: %v", err))
		h.writeError(w, fmt.Sprintf("channel validation failed: %v", err), http.StatusBadRequest)
		return
	}

	var departmentID *uuid.UUID
	if req.DepartmentID != nil && *req.DepartmentID != "" {
		parsed, err := uuid.Parse(*req.DepartmentID)
		if err != nil {
			logger.Error(fmt.Sprintf("invalid department id: %v", err))
			h.writeError(w, "invalid department id", http.StatusBadRequest)
			return
		}
		departmentID = &parsed
	}

	creator, err := h.repository.GetUser(r.Context(), creatorID)
	if err != nil {
		logger.Error(fmt.Sprintf("failed to get creator: %v", err))
		h.writeError(w, "failed to get creator", http.StatusInternalServerError)
		return
	}

	channel := &model.Channel{
		OrganizationID: creator.OrganizationID,
		Name:           validator.NormalizeChannelName(req.Name),
		Description:    req.Description,
		IsPublic:       req.Public,
		IsReadOnly:     req.ReadOnly,
		OwnerID:        creatorID,
		DepartmentID:   departmentID,
	}

	err = tx.TxExecute(r.Context(), func(ctx context.Context) error {
		channelID, err := h.repository.CreateChannel(ctx, channel)
		if err != nil {
			return err
		}
		channel.ID = channelID

		if err := h.repository.AddChannelMember(ctx, channelID, creatorID); err != nil {
			return fmt.Errorf("failed to add owner membership: %w", err)
		}

		if channel.IsPublic {
			memberIDs, err := h.repository.GetActiveOrgUserIDs(ctx, creator.OrganizationID)
			if err != nil {
				return fmt.Errorf("failed to list organization users: %w", err)
			}
			if err := h.repository.AddChannelMembers(ctx, channelID, memberIDs); err != nil {
				return fmt.Errorf("failed to add organization members: %w", err)
			}
		}

		return nil
	})

	if errors.Is(err, model.ErrChannelNameTaken) {
		logger.Error(fmt.Sprintf("channel name %q is taken", channel.Name))
		h.writeError(w, "channel name is already taken", http.StatusConflict)
		return
	}
	if err != nil {
		logger.Error(fmt.Sprintf("failed to create channel: %v", err))
		h.writeError(w, "failed to create channel", http.StatusInternalServerError)
		return
	}

	_, err = h.ingestor.SendSystem(r.Context(), channel.Ref(), creatorID, ingest.SendInput{
		Content: fmt.Sprintf("Welcome to #%s", channel.Name),
	})
	if err != nil {
		logger.Warn(fmt.Sprintf("failed to post welcome message: %v", err))
	}

	h.writeJSON(w, api.CreateChannelResponse{
		ID:   channel.ID.String(),
		Name: channel.Name,
	}, http.StatusOK)
}

// JoinChannel adds the requester to a public channel immediately and files
// a pending join request for a private one.
func (h *Handler) JoinChannel(w http.ResponseWriter, r *http.Request) {
	logger := logger_lib.FromContext(r.Context(), config.KeyLogger)
	logger.AddFuncName("JoinChannel")

	userID, ok := h.requesterID(w, r, logger)
	if !ok {
		return
	}

	channelID, err := uuid.Parse(chi.URLParam(r, "channelID"))
	if err != nil {
		logger.Error(fmt.Sprintf("invalid channel id: %v", err))
		h.writeError(w, "invalid channel id", http.StatusBadRequest)
		return
	}

	channel, err := h.repository.GetChannel(r.Context(), channelID)
	if errors.Is(err, model.ErrUnknownThread) {
		h.writeError(w, "channel does not exist", http.StatusNotFound)
		return
	}
	if err != nil {
		logger.Error(fmt.Sprintf("failed to get channel: %v", err))
		h.writeError(w, "failed to get channel", http.StatusInternalServerError)
		return
	}

	if channel.IsPublic {
		if err := h.repository.AddChannelMember(r.Context(), channelID, userID); err != nil {
			logger.Error(fmt.Sprintf("failed to add member: %v", err))
			h.writeError(w, "failed to join channel", http.StatusInternalServerError)
			return
		}
		h.writeJSON(w, api.JoinChannelResponse{Status: "member"}, http.StatusOK)
		return
	}

	request, err := h.repository.UpsertJoinRequest(r.Context(), channelID, userID)
	if err != nil {
		logger.Error(fmt.Sprintf("failed to upsert join request: %v", err))
		h.writeError(w, "failed to file join request", http.StatusInternalServerError)
		return
	}

	// An already approved request means the user is a member; everything
	// else is pending now, including a re-opened rejection.
	if request.Status == model.JoinRequestApproved {
		h.writeJSON(w, api.JoinChannelResponse{Status: "member"}, http.StatusOK)
		return
	}

	requestID := request.ID.String()
	h.writeJSON(w, api.JoinChannelResponse{
		Status:        "pending",
		JoinRequestID: &requestID,
	}, http.StatusOK)
}

func (h *Handler) ApproveJoinRequest(w http.ResponseWriter, r *http.Request) {
	logger := logger_lib.FromContext(r.Context(), config.KeyLogger)
	logger.AddFuncName("ApproveJoinRequest")

	actorID, ok := h.requesterID(w, r, logger)
	if !ok {
		return
	}

	requestID, err := uuid.Parse(chi.URLParam(r, "requestID"))
	if err != nil {
		logger.Error(fmt.Sprintf("invalid request id: %v", err))
		h.writeError(w, "invalid request id", http.StatusBadRequest)
		return
	}

	request, err := h.repository.GetJoinRequest(r.Context(), requestID)
	if err != nil {
		logger.Error(fmt.Sprintf("failed to get join request: %v", err))
		h.writeError(w, "join request does not exist", http.StatusNotFound)
		return
	}

	if request.Status != model.JoinRequestPending {
		h.writeError(w, "join request is not pending", http.StatusConflict)
		return
	}

	channel, err := h.repository.GetChannel(r.Context(), request.ChannelID)
	if err != nil {
		logger.Error(fmt.Sprintf("failed to get channel: %v", err))
		h.writeError(w, "failed to get channel", http.StatusInternalServerError)
		return
	}

	privileged, err := h.access.IsPrivileged(r.Context(), actorID, channel)
	if err != nil {
		logger.Error(fmt.Sprintf("failed to check privileges: %v", err))
		h.writeError(w, "failed to check privileges", http.StatusInternalServerError)
		return
	}
	if !privileged {
		logger.Error(fmt.Sprintf("user %s is not privileged for channel %s", actorID, channel.ID))
		h.writeError(w, "approving join requests requires a privileged user", http.StatusForbidden)
		return
	}

	err = tx.TxExecute(r.Context(), func(ctx context.Context) error {
		if err := h.repository.ResolveJoinRequest(ctx, requestID, model.JoinRequestApproved); err != nil {
			return fmt.Errorf("failed to resolve join request: %w", err)
		}
		if err := h.repository.AddChannelMember(ctx, request.ChannelID, request.UserID); err != nil {
			return fmt.Errorf("failed to add member: %w", err)
		}
		return nil
	})
	if err != nil {
		logger.Error(fmt.Sprintf("failed to approve join request: %v", err))
		h.writeError(w, "failed to approve join request", http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, api.ApproveJoinRequestResponse{Status: model.JoinRequestApproved}, http.StatusOK)
}

// StartDirect resolves the direct thread between the requester and the
// target user, creating it on first use. The same pair always resolves to
// the same thread regardless of who asks.
func (h *Handler) StartDirect(w http.ResponseWriter, r *http.Request) {
	logger := logger_lib.FromContext(r.Context(), config.KeyLogger)
	logger.AddFuncName("StartDirect")

	requesterID, ok := h.requesterID(w, r, logger)
	if !ok {
		return
	}

	targetID, err := uuid.Parse(chi.URLParam(r, "userID"))
	if err != nil {
		logger.Error(fmt.Sprintf("invalid user id: %v", err))
		h.writeError(w, "invalid user id", http.StatusBadRequest)
		return
	}

	if targetID == requesterID {
		h.writeError(w, "cannot start a direct thread with yourself", http.StatusBadRequest)
		return
	}

	target, err := h.userClient.GetUserInfoByUUID(r.Context(), targetID)
	if err != nil {
		logger.Error(fmt.Sprintf("failed to get target user %s: %v", targetID, err))
		h.writeError(w, "user does not exist", http.StatusNotFound)
		return
	}

	if err := h.repository.UpsertUser(r.Context(), target); err != nil {
		logger.Error(fmt.Sprintf("failed to upsert target user: %v", err))
		h.writeError(w, "failed to start direct thread", http.StatusInternalServerError)
		return
	}

	participants := []uuid.UUID{requesterID, targetID}

	threadID, found, err := h.repository.FindDirectThread(r.Context(), participants)
	if err != nil {
		logger.Error(fmt.Sprintf("failed to find direct thread: %v", err))
		h.writeError(w, "failed to start direct thread", http.StatusInternalServerError)
		return
	}

	if !found {
		threadID, err = h.repository.CreateDirectThread(r.Context(), participants)
		if err != nil {
			logger.Error(fmt.Sprintf("failed to create direct thread: %v", err))
			h.writeError(w, "failed to start direct thread", http.StatusInternalServerError)
			return
		}
	}

	h.writeJSON(w, api.StartDirectResponse{ThreadID: threadID.String()}, http.StatusOK)
}

func (h *Handler) SendMessage(w http.ResponseWriter, r *http.Request) {
	logger := logger_lib.FromContext(r.Context(), config.KeyLogger)
	logger.AddFuncName("SendMessage")

	var req api.SendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Error(fmt.Sprintf("failed to decode request: %v", err))
		h.writeError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	senderID, ok := h.requesterID(w, r, logger)
	if !ok {
		return
	}

	thread, ok := h.threadRef(w, r, logger)
	if !ok {
		return
	}

	if err := h.validator.ValidateSendMessage(&req); err != nil {
		logger.Error(fmt.Sprintf("message validation failed: %v", err))
		h.writeError(w, fmt.Sprintf("message validation failed: %v", err), http.StatusBadRequest)
		return
	}

	in := ingest.SendInput{
		Content: req.Content,
		Type:    req.MessageType,
	}
	if req.ReplyTo != nil && *req.ReplyTo != "" {
		replyTo, err := uuid.Parse(*req.ReplyTo)
		if err != nil {
			logger.Error(fmt.Sprintf("invalid reply_to id: %v", err))
			h.writeError(w, "invalid reply_to id", http.StatusBadRequest)
			return
		}
		in.ReplyTo = &replyTo
	}

	message, err := h.ingestor.Send(r.Context(), thread, senderID, in)
	if err != nil {
		logger.Error(fmt.Sprintf("failed to send message: %v", err))
		h.writeError(w, "failed to send message", h.statusForError(err))
		return
	}

	h.writeJSON(w, api.SendMessageResponse{
		MessageID: message.ID.String(),
		SentAt:    message.SentAt.Format(time.RFC3339),
	}, http.StatusOK)
}

func (h *Handler) GetMessages(w http.ResponseWriter, r *http.Request) {
	logger := logger_lib.FromContext(r.Context(), config.KeyLogger)
	logger.AddFuncName("GetMessages")

	userID, ok := h.requesterID(w, r, logger)
	if !ok {
		return
	}

	thread, ok := h.threadRef(w, r, logger)
	if !ok {
		return
	}

	if !h.requireMembership(w, r, logger, userID, thread) {
		return
	}

	offset := r.URL.Query().Get("offset")

	limit := defaultMessageLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 32)
		if err != nil || parsed < 1 {
			h.writeError(w, "invalid limit", http.StatusBadRequest)
			return
		}
		limit = int32(parsed)
	}

	messages, err := h.repository.GetRecentMessages(r.Context(), thread, offset, limit)
	if err != nil {
		logger.Error(fmt.Sprintf("failed to fetch messages: %v", err))
		h.writeError(w, "failed to fetch messages", http.StatusInternalServerError)
		return
	}

	apiMessages := make([]api.Message, len(*messages))
	for i, msg := range *messages {
		var replyTo *string
		if msg.ReplyToID != nil {
			id := msg.ReplyToID.String()
			replyTo = &id
		}

		var createdTaskID *string
		if msg.CreatedTaskID != nil {
			id := msg.CreatedTaskID.String()
			createdTaskID = &id
		}

		apiMessages[i] = api.Message{
			ID:            msg.ID.String(),
			SenderID:      msg.SenderID.String(),
			Type:          msg.Type,
			Content:       msg.Content,
			ReplyTo:       replyTo,
			SentAt:        msg.SentAt.Format(time.RFC3339),
			CreatedTaskID: createdTaskID,
		}
	}

	h.writeJSON(w, api.GetMessagesResponse{Messages: apiMessages}, http.StatusOK)
}

func (h *Handler) MarkRead(w http.ResponseWriter, r *http.Request) {
	logger := logger_lib.FromContext(r.Context(), config.KeyLogger)
	logger.AddFuncName("MarkRead")

	userID, ok := h.requesterID(w, r, logger)
	if !ok {
		return
	}

	thread, ok := h.threadRef(w, r, logger)
	if !ok {
		return
	}

	if !h.requireMembership(w, r, logger, userID, thread) {
		return
	}

	if err := h.ledger.MarkRead(r.Context(), userID, thread); err != nil {
		logger.Error(fmt.Sprintf("failed to mark thread read: %v", err))
		h.writeError(w, "failed to mark thread read", http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, api.MarkReadResponse{Status: "ok"}, http.StatusOK)
}

func (h *Handler) GetUnread(w http.ResponseWriter, r *http.Request) {
	logger := logger_lib.FromContext(r.Context(), config.KeyLogger)
	logger.AddFuncName("GetUnread")

	userID, ok := h.requesterID(w, r, logger)
	if !ok {
		return
	}

	channelIDs, err := h.repository.GetUserChannelIDs(r.Context(), userID)
	if err != nil {
		logger.Error(fmt.Sprintf("failed to get user channels: %v", err))
		h.writeError(w, "failed to get unread counts", http.StatusInternalServerError)
		return
	}

	directIDs, err := h.repository.GetUserDirectThreadIDs(r.Context(), userID)
	if err != nil {
		logger.Error(fmt.Sprintf("failed to get user direct threads: %v", err))
		h.writeError(w, "failed to get unread counts", http.StatusInternalServerError)
		return
	}

	threads := make([]model.ThreadRef, 0, len(channelIDs)+len(directIDs))
	for _, id := range channelIDs {
		threads = append(threads, model.ThreadRef{Kind: model.ThreadKindChannel, ID: id})
	}
	for _, id := range directIDs {
		threads = append(threads, model.ThreadRef{Kind: model.ThreadKindDirect, ID: id})
	}

	entries := make([]api.UnreadEntry, 0, len(threads))
	for _, thread := range threads {
		unread, err := h.ledger.Unread(r.Context(), userID, thread)
		if err != nil {
			logger.Error(fmt.Sprintf("failed to count unread for %s: %v", thread.GroupID(), err))
			h.writeError(w, "failed to get unread counts", http.StatusInternalServerError)
			return
		}
		entries = append(entries, api.UnreadEntry{
			ThreadKind: string(thread.Kind),
			ThreadID:   thread.ID.String(),
			Unread:     unread,
		})
	}

	h.writeJSON(w, api.GetUnreadResponse{Threads: entries}, http.StatusOK)
}

// GetMessageReaders lists the users who have read a message. Only thread
// members can ask.
func (h *Handler) GetMessageReaders(w http.ResponseWriter, r *http.Request) {
	logger := logger_lib.FromContext(r.Context(), config.KeyLogger)
	logger.AddFuncName("GetMessageReaders")

	userID, ok := h.requesterID(w, r, logger)
	if !ok {
		return
	}

	messageID, err := uuid.Parse(chi.URLParam(r, "messageID"))
	if err != nil {
		logger.Error(fmt.Sprintf("invalid message id: %v", err))
		h.writeError(w, "invalid message id", http.StatusBadRequest)
		return
	}

	message, err := h.repository.GetMessage(r.Context(), messageID)
	if errors.Is(err, model.ErrUnknownMessage) {
		h.writeError(w, "message does not exist", http.StatusNotFound)
		return
	}
	if err != nil {
		logger.Error(fmt.Sprintf("failed to get message: %v", err))
		h.writeError(w, "failed to get message", http.StatusInternalServerError)
		return
	}

	if !h.requireMembership(w, r, logger, userID, message.Thread()) {
		return
	}

	readerIDs, err := h.repository.GetMessageReaders(r.Context(), messageID)
	if err != nil {
		logger.Error(fmt.Sprintf("failed to get message readers: %v", err))
		h.writeError(w, "failed to get message readers", http.StatusInternalServerError)
		return
	}

	readers := make([]string, len(readerIDs))
	for i, id := range readerIDs {
		readers[i] = id.String()
	}

	h.writeJSON(w, api.GetMessageReadersResponse{Readers: readers}, http.StatusOK)
}

// DeleteMessage removes a message. The sender may always delete their own
// message; anyone else needs channel privileges.
func (h *Handler) DeleteMessage(w http.ResponseWriter, r *http.Request) {
	logger := logger_lib.FromContext(r.Context(), config.KeyLogger)
	logger.AddFuncName("DeleteMessage")

	actorID, ok := h.requesterID(w, r, logger)
	if !ok {
		return
	}

	messageID, err := uuid.Parse(chi.URLParam(r, "messageID"))
	if err != nil {
		logger.Error(fmt.Sprintf("invalid message id: %v", err))
		h.writeError(w, "invalid message id", http.StatusBadRequest)
		return
	}

	message, err := h.repository.GetMessage(r.Context(), messageID)
	if errors.Is(err, model.ErrUnknownMessage) {
		h.writeError(w, "message does not exist", http.StatusNotFound)
		return
	}
	if err != nil {
		logger.Error(fmt.Sprintf("failed to get message: %v", err))
		h.writeError(w, "failed to get message", http.StatusInternalServerError)
		return
	}

	if message.SenderID != actorID {
		if message.ChannelID == nil {
			h.writeError(w, "only the sender can delete a direct message", http.StatusForbidden)
			return
		}

		channel, err := h.repository.GetChannel(r.Context(), *message.ChannelID)
		if err != nil {
			logger.Error(fmt.Sprintf("failed to get channel: %v", err))
			h.writeError(w, "failed to get channel", http.StatusInternalServerError)
			return
		}

		privileged, err := h.access.IsPrivileged(r.Context(), actorID, channel)
		if err != nil {
			logger.Error(fmt.Sprintf("failed to check privileges: %v", err))
			h.writeError(w, "failed to check privileges", http.StatusInternalServerError)
			return
		}
		if !privileged {
			logger.Error(fmt.Sprintf("user %s cannot delete message %s", actorID, messageID))
			h.writeError(w, "deleting another user's message requires privileges", http.StatusForbidden)
			return
		}
	}

	if err := h.repository.DeleteMessage(r.Context(), messageID); err != nil {
		logger.Error(fmt.Sprintf("failed to delete message: %v", err))
		h.writeError(w, "failed to delete message", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) ConvertMessage(w http.ResponseWriter, r *http.Request) {
	logger := logger_lib.FromContext(r.Context(), config.KeyLogger)
	logger.AddFuncName("ConvertMessage")

	actorID, ok := h.requesterID(w, r, logger)
	if !ok {
		return
	}

	messageID, err := uuid.Parse(chi.URLParam(r, "messageID"))
	if err != nil {
		logger.Error(fmt.Sprintf("invalid message id: %v", err))
		h.writeError(w, "invalid message id", http.StatusBadRequest)
		return
	}

	var req api.ConvertMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		logger.Error(fmt.Sprintf("failed to decode request: %v", err))
		h.writeError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.validator.ValidateConvertMessage(&req); err != nil {
		logger.Error(fmt.Sprintf("convert validation failed: %v", err))
		h.writeError(w, fmt.Sprintf("convert validation failed: %v", err), http.StatusBadRequest)
		return
	}

	overrides := advisor.Overrides{
		Title:    req.Title,
		Priority: req.Priority,
		DueDate:  req.DueDate,
	}
	if req.AssigneeID != nil && *req.AssigneeID != "" {
		assigneeID, err := uuid.Parse(*req.AssigneeID)
		if err != nil {
			logger.Error(fmt.Sprintf("invalid assignee id: %v", err))
			h.writeError(w, "invalid assignee id", http.StatusBadRequest)
			return
		}
		overrides.AssigneeID = &assigneeID
	}

	task, err := h.advisor.Convert(r.Context(), messageID, actorID, overrides)
	if errors.Is(err, model.ErrAlreadyConverted) {
		h.writeJSON(w, api.ConvertMessageResponse{
			TaskID:           task.ID.String(),
			AlreadyConverted: true,
		}, http.StatusConflict)
		return
	}
	if errors.Is(err, model.ErrUnknownMessage) {
		h.writeError(w, "message does not exist", http.StatusNotFound)
		return
	}
	if err != nil {
		logger.Error(fmt.Sprintf("failed to convert message: %v", err))
		h.writeError(w, "failed to convert message", http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, api.ConvertMessageResponse{TaskID: task.ID.String()}, http.StatusOK)
}

func (h *Handler) GetConnectToken(w http.ResponseWriter, r *http.Request) {
	logger := logger_lib.FromContext(r.Context(), config.KeyLogger)
	logger.AddFuncName("GetConnectToken")

	userUUID, ok := r.Context().Value(config.KeyUUID).(string)
	if !ok {
		logger.Error("failed to get user UUID")
		h.writeError(w, "failed to get user UUID", http.StatusInternalServerError)
		return
	}

	token, expiresAt, err := h.jwtGenerator.GenerateConnectToken(userUUID)
	if err != nil {
		logger.Error(fmt.Sprintf("failed to generate connect token: %v", err))
		h.writeError(w, "failed to generate connect token", http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, api.GetConnectTokenResponse{
		Token:     token,
		ExpiresAt: expiresAt,
	}, http.StatusOK)
}

// ----------------------------- helpers -----------------------------

func (h *Handler) requesterID(w http.ResponseWriter, r *http.Request, logger logger_lib.LoggerInterface) (uuid.UUID, bool) {
	userUUID, ok := r.Context().Value(config.KeyUUID).(string)
	if !ok {
		logger.Error("failed to get user UUID")
		h.writeError(w, "failed to get user UUID", http.StatusInternalServerError)
		return uuid.Nil, false
	}

	userID, err := uuid.Parse(userUUID)
	if err != nil {
		logger.Error(fmt.Sprintf("malformed user UUID: %v", err))
		h.writeError(w, "malformed user UUID", http.StatusInternalServerError)
		return uuid.Nil, false
	}

	return userID, true
}

func (h *Handler) threadRef(w http.ResponseWriter, r *http.Request, logger logger_lib.LoggerInterface) (model.ThreadRef, bool) {
	kind, err := model.ParseThreadKind(chi.URLParam(r, "kind"))
	if err != nil {
		logger.Error(fmt.Sprintf("invalid thread kind: %v", err))
		h.writeError(w, "invalid thread kind", http.StatusBadRequest)
		return model.ThreadRef{}, false
	}

	threadID, err := uuid.Parse(chi.URLParam(r, "threadID"))
	if err != nil {
		logger.Error(fmt.Sprintf("invalid thread id: %v", err))
		h.writeError(w, "invalid thread id", http.StatusBadRequest)
		return model.ThreadRef{}, false
	}

	return model.ThreadRef{Kind: kind, ID: threadID}, true
}

func (h *Handler) requireMembership(w http.ResponseWriter, r *http.Request, logger logger_lib.LoggerInterface, userID uuid.UUID, thread model.ThreadRef) bool {
	allowed, err := h.access.CanJoin(r.Context(), userID, thread)
	if errors.Is(err, model.ErrUnknownThread) {
		h.writeError(w, "thread does not exist", http.StatusNotFound)
		return false
	}
	if err != nil {
		logger.Error(fmt.Sprintf("failed to check thread access: %v", err))
		h.writeError(w, "failed to check thread access", http.StatusInternalServerError)
		return false
	}
	if !allowed {
		logger.Error(fmt.Sprintf("user %s has no access to %s", userID, thread.GroupID()))
		h.writeError(w, "user has no access to this thread", http.StatusForbidden)
		return false
	}
	return true
}

func (h *Handler) statusForError(err error) int {
	switch {
	case errors.Is(err, model.ErrUnknownThread), errors.Is(err, model.ErrUnknownMessage):
		return http.StatusNotFound
	case errors.Is(err, model.ErrNotMember), errors.Is(err, model.ErrReadOnly), errors.Is(err, model.ErrNotPrivileged):
		return http.StatusForbidden
	case errors.Is(err, model.ErrEmptyContent):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func (h *Handler) writeJSON(w http.ResponseWriter, data interface{}, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(api.Error{Error: message})
}
