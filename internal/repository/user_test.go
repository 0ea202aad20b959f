package repository

import (
	"context"
	"testing"

	"warbler/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserRepository_CreateAndGet(t *testing.T) {
	t.Parallel()
	db := setupTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	user := &models.User{Username: "alice", Email: "alice@example.com", Password: "hash"}
	require.NoError(t, repo.Create(ctx, user))
	assert.NotZero(t, user.ID)
	assert.Equal(t, models.DefaultImageURL, user.ImageURL)
	assert.Equal(t, models.DefaultHeaderImageURL, user.HeaderImageURL)

	got, err := repo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", got.Username)

	byName, err := repo.GetByUsername(ctx, "alice")
	require.NoError(t, err)
	require.NotNil(t, byName)
	assert.Equal(t, user.ID, byName.ID)

	byEmail, err := repo.GetByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	require.NotNil(t, byEmail)

	missing, err := repo.GetByUsername(ctx, "nobody")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestUserRepository_Create_DuplicateUsername(t *testing.T) {
	t.Parallel()
	db := setupTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &models.User{
		Username: "alice", Email: "alice@example.com", Password: "hash",
	}))

	err := repo.Create(ctx, &models.User{
		Username: "alice", Email: "other@example.com", Password: "hash",
	})
	require.Error(t, err)
	assert.True(t, models.IsCode(err, "CONFLICT"), "want CONFLICT, got %v", err)

	var count int64
	db.Model(&models.User{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestUserRepository_GetByID_NotFound(t *testing.T) {
	t.Parallel()
	db := setupTestDB(t)
	repo := NewUserRepository(db)

	_, err := repo.GetByID(context.Background(), 999)
	require.Error(t, err)
	assert.True(t, models.IsCode(err, "NOT_FOUND"))
}

func TestUserRepository_Search(t *testing.T) {
	t.Parallel()
	db := setupTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	createTestUser(t, db, "alice")
	createTestUser(t, db, "alicia")
	createTestUser(t, db, "bob")

	users, err := repo.Search(ctx, "alic", 50, 0)
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "alice", users[0].Username)
	assert.Equal(t, "alicia", users[1].Username)

	all, err := repo.List(ctx, 50, 0)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestUserRepository_Delete_Cascades(t *testing.T) {
	t.Parallel()
	db := setupTestDB(t)
	users := NewUserRepository(db)
	ctx := context.Background()

	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")

	aliceMsg := createTestMessage(t, db, alice.ID, "from alice")
	bobMsg := createTestMessage(t, db, bob.ID, "from bob")

	// bob follows alice, alice follows bob
	require.NoError(t, db.Create(&models.Follow{FollowerID: bob.ID, FollowedID: alice.ID}).Error)
	require.NoError(t, db.Create(&models.Follow{FollowerID: alice.ID, FollowedID: bob.ID}).Error)
	// alice likes bob's message, bob likes alice's message
	require.NoError(t, db.Create(&models.Like{UserID: alice.ID, MessageID: bobMsg.ID}).Error)
	require.NoError(t, db.Create(&models.Like{UserID: bob.ID, MessageID: aliceMsg.ID}).Error)

	require.NoError(t, users.Delete(ctx, alice.ID))

	_, err := users.GetByID(ctx, alice.ID)
	assert.True(t, models.IsCode(err, "NOT_FOUND"))

	var msgCount int64
	db.Model(&models.Message{}).Where("user_id = ?", alice.ID).Count(&msgCount)
	assert.Zero(t, msgCount, "alice's messages should be gone")

	var followCount int64
	db.Model(&models.Follow{}).
		Where("follower_id = ? OR followed_id = ?", alice.ID, alice.ID).
		Count(&followCount)
	assert.Zero(t, followCount, "alice's follow edges should be gone")

	var likeCount int64
	db.Model(&models.Like{}).Count(&likeCount)
	assert.Zero(t, likeCount, "likes by alice and on alice's messages should be gone")

	// bob and his message survive
	_, err = users.GetByID(ctx, bob.ID)
	assert.NoError(t, err)
	var bobMsgCount int64
	db.Model(&models.Message{}).Where("user_id = ?", bob.ID).Count(&bobMsgCount)
	assert.Equal(t, int64(1), bobMsgCount)
}
