package repository

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn: db,
	}), &gorm.Config{})
	require.NoError(t, err)

	return gormDB, mock
}

func TestMessageRepository_Timeline_SQL(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewMessageRepository(db)
	ctx := context.Background()

	// main query
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "messages" WHERE user_id IN ($1,$2) AND "messages"."deleted_at" IS NULL ORDER BY created_at DESC LIMIT $3`)).
		WithArgs(1, 2, 100).
		WillReturnRows(sqlmock.NewRows([]string{"id", "text", "user_id"}).
			AddRow(7, "newest", 1).
			AddRow(3, "older", 2))

	// preload authors - GORM preloads after main query
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "users" WHERE "users"."id" IN ($1,$2) AND "users"."deleted_at" IS NULL`)).
		WithArgs(1, 2).
		WillReturnRows(sqlmock.NewRows([]string{"id", "username"}).
			AddRow(1, "alice").
			AddRow(2, "bob"))

	messages, err := repo.Timeline(ctx, []uint{1, 2}, 100)
	assert.NoError(t, err)
	require.Len(t, messages, 2)
	assert.Equal(t, "newest", messages[0].Text)
	assert.Equal(t, "alice", messages[0].User.Username)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMessageRepository_Timeline_EmptyAuthorSet(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewMessageRepository(db)

	// No authors means no query at all.
	messages, err := repo.Timeline(context.Background(), nil, 100)
	assert.NoError(t, err)
	assert.Empty(t, messages)
	assert.NoError(t, mock.ExpectationsWereMet())
}
