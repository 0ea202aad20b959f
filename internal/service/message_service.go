package service

import (
	"context"

	"warbler/internal/models"
	"warbler/internal/repository"
	"warbler/internal/validation"
)

// TimelineLimit caps how many messages the home timeline shows.
const TimelineLimit = 100

type MessageService struct {
	messageRepo repository.MessageRepository
	followRepo  repository.FollowRepository
}

func NewMessageService(messageRepo repository.MessageRepository, followRepo repository.FollowRepository) *MessageService {
	return &MessageService{messageRepo: messageRepo, followRepo: followRepo}
}

// Post validates and stores a new message for the user.
func (s *MessageService) Post(ctx context.Context, userID uint, text string) (*models.Message, error) {
	if err := validation.ValidateMessageText(text); err != nil {
		return nil, err
	}
	message := &models.Message{Text: text, UserID: userID}
	if err := s.messageRepo.Create(ctx, message); err != nil {
		return nil, err
	}
	return message, nil
}

func (s *MessageService) GetMessage(ctx context.Context, id uint) (*models.Message, error) {
	return s.messageRepo.GetByID(ctx, id)
}

// Delete removes a message. Only the author may delete it; anyone else gets
// UNAUTHORIZED and the message stays.
func (s *MessageService) Delete(ctx context.Context, messageID, requesterID uint) error {
	message, err := s.messageRepo.GetByID(ctx, messageID)
	if err != nil {
		return err
	}
	if message.UserID != requesterID {
		return models.NewUnauthorizedError("Access unauthorized.")
	}
	return s.messageRepo.Delete(ctx, messageID)
}

func (s *MessageService) ListByUser(ctx context.Context, userID uint) ([]models.Message, error) {
	return s.messageRepo.ListByUser(ctx, userID)
}

// Timeline returns the newest messages from the users the given user
// follows, plus their own, newest first, capped at TimelineLimit.
func (s *MessageService) Timeline(ctx context.Context, userID uint) ([]models.Message, error) {
	ids, err := s.followRepo.FollowingIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	ids = append(ids, userID)
	return s.messageRepo.Timeline(ctx, ids, TimelineLimit)
}
