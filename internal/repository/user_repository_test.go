package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/harshaaa-5/aivy-1/internal/models"
)

func TestUserCreateNormalizesEmail(t *testing.T) {
	repo := NewUserRepository(newTestDB(t))

	u := &models.User{Name: "Asha", Email: "  Asha@Test.DEV "}
	require.NoError(t, repo.Create(u))
	assert.NotEqual(t, uuid.Nil, u.ID)

	found, err := repo.FindByEmail("asha@test.dev")
	require.NoError(t, err)
	assert.Equal(t, u.ID, found.ID)

	// Lookup normalizes too.
	found, err = repo.FindByEmail(" ASHA@test.dev")
	require.NoError(t, err)
	assert.Equal(t, u.ID, found.ID)
}

func TestUserDuplicateEmailFails(t *testing.T) {
	repo := NewUserRepository(newTestDB(t))

	require.NoError(t, repo.Create(&models.User{Name: "A", Email: "same@test.dev"}))
	err := repo.Create(&models.User{Name: "B", Email: "same@test.dev"})
	assert.Error(t, err)
}

func TestUserFindByIDNotFound(t *testing.T) {
	repo := NewUserRepository(newTestDB(t))

	_, err := repo.FindByID(uuid.New())
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestUserUpdateProfilePartial(t *testing.T) {
	repo := NewUserRepository(newTestDB(t))

	u := &models.User{Name: "Before", Email: "p@test.dev", Avatar: "old.png"}
	require.NoError(t, repo.Create(u))

	require.NoError(t, repo.UpdateProfile(u.ID, map[string]interface{}{"name": "After"}))

	found, err := repo.FindByID(u.ID)
	require.NoError(t, err)
	assert.Equal(t, "After", found.Name)
	assert.Equal(t, "old.png", found.Avatar, "untouched fields survive a partial update")
}

func TestUserListOrdersByPoints(t *testing.T) {
	repo := NewUserRepository(newTestDB(t))

	require.NoError(t, repo.Create(&models.User{Name: "low", Email: "low@test.dev", TotalPoints: 10}))
	require.NoError(t, repo.Create(&models.User{Name: "high", Email: "high@test.dev", TotalPoints: 300}))
	require.NoError(t, repo.Create(&models.User{Name: "mid", Email: "mid@test.dev", TotalPoints: 50}))

	list, err := repo.List(2)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "high", list[0].Name)
	assert.Equal(t, "mid", list[1].Name)
}

func TestUserStatusRoundTrip(t *testing.T) {
	repo := NewUserRepository(newTestDB(t))

	u := &models.User{Name: "S", Email: "s@test.dev"}
	require.NoError(t, repo.Create(u))

	at := time.Now()
	require.NoError(t, repo.SetOnline(context.Background(), u.ID, at))

	found, err := repo.FindByID(u.ID)
	require.NoError(t, err)
	assert.True(t, found.IsOnline)

	require.NoError(t, repo.SetOffline(context.Background(), u.ID, at.Add(time.Minute)))

	found, err = repo.FindByID(u.ID)
	require.NoError(t, err)
	assert.False(t, found.IsOnline)
}

func TestUserStatusForUnknownUserIsNoRowsNoError(t *testing.T) {
	repo := NewUserRepository(newTestDB(t))

	// Updates touching zero rows are not an error; the hub treats the write
	// as best-effort either way.
	assert.NoError(t, repo.SetOnline(context.Background(), uuid.New(), time.Now()))
}
