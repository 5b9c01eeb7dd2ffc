package adapters

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"stockmarket_backend/internal/feature/users/usecase"
)

// malformedIDs are identifiers that are not valid 24-hex ObjectIDs.
// コレクションをnilにすることで、識別子の検証がストア呼び出しより
// 前に行われることを検証する（ストアに到達すればpanicする）。
var malformedIDs = []struct {
	name string
	id   string
}{
	{"empty", ""},
	{"not hex at all", "not-an-object-id"},
	{"too short", "deadbeef"},
	{"right length but non-hex", "zzzzzzzzzzzzzzzzzzzzzzzz"},
	{"too long", "deadbeefdeadbeefdeadbeef00"},
}

func TestNewUserMongo(t *testing.T) {
	repo := NewUserMongo(nil)

	assert.NotNil(t, repo, "repository is nil")
}

func TestUserMongo_FindByID_MalformedID(t *testing.T) {
	repo := NewUserMongo(nil)

	for _, tt := range malformedIDs {
		t.Run(tt.name, func(t *testing.T) {
			found, err := repo.FindByID(context.Background(), tt.id)

			assert.Nil(t, found, "user should be nil")
			assert.ErrorIs(t, err, usecase.ErrInvalidID, "should return ErrInvalidID")
		})
	}
}

func TestUserMongo_SetFields_MalformedID(t *testing.T) {
	repo := NewUserMongo(nil)

	for _, tt := range malformedIDs {
		t.Run(tt.name, func(t *testing.T) {
			modified, acknowledged, err := repo.SetFields(context.Background(), tt.id, map[string]any{"FirstName": "Taro"})

			assert.Zero(t, modified, "modified count should be zero")
			assert.False(t, acknowledged, "acknowledged should be false")
			assert.ErrorIs(t, err, usecase.ErrInvalidID, "should return ErrInvalidID")
		})
	}
}

func TestUserMongo_Delete_MalformedID(t *testing.T) {
	repo := NewUserMongo(nil)

	for _, tt := range malformedIDs {
		t.Run(tt.name, func(t *testing.T) {
			deleted, acknowledged, err := repo.Delete(context.Background(), tt.id)

			assert.Zero(t, deleted, "deleted count should be zero")
			assert.False(t, acknowledged, "acknowledged should be false")
			assert.ErrorIs(t, err, usecase.ErrInvalidID, "should return ErrInvalidID")
		})
	}
}

func TestUserMongo_TouchLastLogin_MalformedID(t *testing.T) {
	repo := NewUserMongo(nil)

	for _, tt := range malformedIDs {
		t.Run(tt.name, func(t *testing.T) {
			err := repo.TouchLastLogin(context.Background(), tt.id, time.Now().UTC())

			assert.ErrorIs(t, err, usecase.ErrInvalidID, "should return ErrInvalidID")
		})
	}
}
