package repository

import (
	"testing"
	"time"

	"hibro/internal/domain"
	"hibro/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.TravelPost{},
		&models.BuddyRequest{},
		&models.Favorite{},
		&models.Notification{},
	))
	return db
}

func newPost(creatorID uint, destination string) *models.TravelPost {
	return &models.TravelPost{
		CreatorID:   creatorID,
		Destination: destination,
		StartDate:   time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC),
		EndDate:     time.Date(2026, 10, 5, 0, 0, 0, 0, time.UTC),
	}
}

func TestPostCreateValidation(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPostRepository(db)

	t.Run("empty destination", func(t *testing.T) {
		p := newPost(1, "   ")
		assert.ErrorIs(t, repo.Create(p), domain.ErrValidation)
	})

	t.Run("end before start", func(t *testing.T) {
		p := newPost(1, "Lisbon")
		p.EndDate = p.StartDate.Add(-24 * time.Hour)
		assert.ErrorIs(t, repo.Create(p), domain.ErrValidation)
	})

	t.Run("new post starts unmatched", func(t *testing.T) {
		p := newPost(1, "Lisbon")
		p.BuddyFound = true // caller input must not leak into matching state
		buddy := uint(7)
		p.BuddyID = &buddy
		require.NoError(t, repo.Create(p))

		got, err := repo.GetByID(p.ID)
		require.NoError(t, err)
		assert.False(t, got.BuddyFound)
		assert.Nil(t, got.BuddyID)
	})
}

func TestPostGetMissing(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPostRepository(db)
	_, err := repo.GetByID(42)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestPostList(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPostRepository(db)

	a := newPost(1, "Mount Kenya")
	b := newPost(2, "Lake Como")
	c := newPost(2, "Mont Blanc")
	for _, p := range []*models.TravelPost{a, b, c} {
		require.NoError(t, repo.Create(p))
	}
	// Mark one matched directly; List only filters, it never mutates.
	buddy := uint(9)
	require.NoError(t, db.Model(a).Updates(map[string]interface{}{"buddy_found": true, "buddy_id": buddy}).Error)

	t.Run("no filter returns everything", func(t *testing.T) {
		list, err := repo.List(PostFilter{}, 20, 0)
		require.NoError(t, err)
		assert.Len(t, list, 3)
	})

	t.Run("matched filter", func(t *testing.T) {
		matched := true
		list, err := repo.List(PostFilter{Matched: &matched}, 20, 0)
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, a.ID, list[0].ID)

		matched = false
		list, err = repo.List(PostFilter{Matched: &matched}, 20, 0)
		require.NoError(t, err)
		assert.Len(t, list, 2)
	})

	t.Run("destination substring is case-insensitive", func(t *testing.T) {
		list, err := repo.List(PostFilter{Destination: "mont"}, 20, 0)
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, "Mont Blanc", list[0].Destination)

		list, err = repo.List(PostFilter{Destination: "LAKE"}, 20, 0)
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, "Lake Como", list[0].Destination)
	})

	t.Run("creator filter", func(t *testing.T) {
		list, err := repo.List(PostFilter{CreatorID: 2}, 20, 0)
		require.NoError(t, err)
		assert.Len(t, list, 2)
	})
}

func TestFavoriteUniqueness(t *testing.T) {
	db := setupTestDB(t)
	favs := NewFavoriteRepository(db)
	posts := NewPostRepository(db)

	p := newPost(1, "Zion")
	require.NoError(t, posts.Create(p))

	require.NoError(t, favs.Add(2, p.ID))
	err := favs.Add(2, p.ID)
	assert.ErrorIs(t, err, domain.ErrConflict)

	ok, err := favs.IsFavorite(2, p.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, favs.Remove(2, p.ID))
	ok, err = favs.IsFavorite(2, p.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	t.Run("re-add after remove", func(t *testing.T) {
		require.NoError(t, favs.Add(2, p.ID))
		ok, err := favs.IsFavorite(2, p.ID)
		require.NoError(t, err)
		assert.True(t, ok)
	})
}
