package service

import (
	"context"
	"strings"
	"testing"

	"warbler/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMessageService_Post(t *testing.T) {
	var created *models.Message
	repo := noopMessageRepo()
	repo.createFn = func(_ context.Context, message *models.Message) error {
		created = message
		return nil
	}
	svc := NewMessageService(repo, noopFollowRepo())

	message, err := svc.Post(context.Background(), 1, "hello world")
	require.NoError(t, err)
	require.NotNil(t, created)
	assert.Equal(t, "hello world", message.Text)
	assert.Equal(t, uint(1), message.UserID)
}

func TestMessageService_Post_RejectsBadText(t *testing.T) {
	svc := NewMessageService(noopMessageRepo(), noopFollowRepo())
	ctx := context.Background()

	tests := []struct {
		name string
		text string
	}{
		{"empty", ""},
		{"whitespace only", "   "},
		{"over 140 chars", strings.Repeat("x", 141)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Post(ctx, 1, tt.text)
			require.Error(t, err)
			assert.True(t, models.IsCode(err, "VALIDATION_ERROR"))
		})
	}
}

func TestMessageService_Delete_OwnershipEnforced(t *testing.T) {
	deleted := false
	repo := noopMessageRepo()
	repo.getByIDFn = func(context.Context, uint) (*models.Message, error) {
		return &models.Message{ID: 5, UserID: 1}, nil
	}
	repo.deleteFn = func(context.Context, uint) error {
		deleted = true
		return nil
	}
	svc := NewMessageService(repo, noopFollowRepo())
	ctx := context.Background()

	err := svc.Delete(ctx, 5, 2)
	require.Error(t, err)
	assert.True(t, models.IsCode(err, "UNAUTHORIZED"))
	assert.False(t, deleted)

	require.NoError(t, svc.Delete(ctx, 5, 1))
	assert.True(t, deleted)
}

func TestMessageService_Delete_NotFound(t *testing.T) {
	repo := noopMessageRepo()
	repo.getByIDFn = func(_ context.Context, id uint) (*models.Message, error) {
		return nil, models.NewNotFoundError("Message", id)
	}
	svc := NewMessageService(repo, noopFollowRepo())

	err := svc.Delete(context.Background(), 99, 1)
	require.Error(t, err)
	assert.True(t, models.IsCode(err, "NOT_FOUND"))
}

func TestMessageService_Timeline_IncludesSelf(t *testing.T) {
	var gotIDs []uint
	var gotLimit int
	messageRepo := noopMessageRepo()
	messageRepo.timelineFn = func(_ context.Context, userIDs []uint, limit int) ([]models.Message, error) {
		gotIDs = userIDs
		gotLimit = limit
		return []models.Message{{ID: 1}}, nil
	}
	followRepo := noopFollowRepo()
	followRepo.followingIDsFn = func(context.Context, uint) ([]uint, error) {
		return []uint{2, 3}, nil
	}
	svc := NewMessageService(messageRepo, followRepo)

	messages, err := svc.Timeline(context.Background(), 1)
	require.NoError(t, err)
	assert.Len(t, messages, 1)
	assert.ElementsMatch(t, []uint{1, 2, 3}, gotIDs)
	assert.Equal(t, TimelineLimit, gotLimit)
}

func TestMessageService_Timeline_NoFollows(t *testing.T) {
	var gotIDs []uint
	messageRepo := noopMessageRepo()
	messageRepo.timelineFn = func(_ context.Context, userIDs []uint, limit int) ([]models.Message, error) {
		gotIDs = userIDs
		return nil, nil
	}
	svc := NewMessageService(messageRepo, noopFollowRepo())

	// A user following nobody still sees their own messages.
	_, err := svc.Timeline(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, []uint{7}, gotIDs)
}
