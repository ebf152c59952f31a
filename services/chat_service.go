package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/salillakra/e-summit26-sub001/models"
	"github.com/salillakra/e-summit26-sub001/repositories"
)

const (
	chatMessageMaxLength = 500
	chatHistoryLimit     = 50
)

type ChatService interface {
	// PostMessage persists a chat message for the event's room and returns
	// the stored row.
	PostMessage(ctx context.Context, eventID, userID int, body string) (*models.Message, error)

	// GetHistory returns the most recent messages for an event in
	// chronological order.
	GetHistory(ctx context.Context, eventID int) ([]*models.Message, error)
}

type chatService struct {
	messageRepo repositories.MessageRepository
	userRepo    repositories.UserRepository
}

func NewChatService(messageRepo repositories.MessageRepository, userRepo repositories.UserRepository) ChatService {
	return &chatService{
		messageRepo: messageRepo,
		userRepo:    userRepo,
	}
}

func (s *chatService) PostMessage(ctx context.Context, eventID, userID int, body string) (*models.Message, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, ErrMessageBodyEmpty
	}
	if len(body) > chatMessageMaxLength {
		// Back up to a rune boundary so the cut never splits a character.
		cut := chatMessageMaxLength
		for cut > 0 && !utf8.RuneStart(body[cut]) {
			cut--
		}
		body = body[:cut]
	}

	msg := &models.Message{
		EventID: eventID,
		UserID:  userID,
		Body:    body,
	}
	if err := s.messageRepo.Create(ctx, msg); err != nil {
		switch {
		case errors.Is(err, repositories.ErrMessageEventInvalid):
			return nil, ErrEventNotFound
		case errors.Is(err, repositories.ErrMessageUserInvalid):
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to store chat message: %w", err)
	}

	sender, err := s.userRepo.GetByID(ctx, userID)
	if err == nil {
		sender.PasswordHash = ""
		msg.Sender = sender
	}
	return msg, nil
}

func (s *chatService) GetHistory(ctx context.Context, eventID int) ([]*models.Message, error) {
	messages, err := s.messageRepo.ListRecentByEvent(ctx, eventID, chatHistoryLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to load chat history for event %d: %w", eventID, err)
	}
	for _, msg := range messages {
		if msg.Sender != nil {
			msg.Sender.PasswordHash = ""
		}
	}
	return messages, nil
}
