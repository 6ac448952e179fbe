package repository

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"productposts/internal/database"
	"productposts/internal/models"
)

func openTestDB(t *testing.T) *database.Database {
	t.Helper()
	db, err := database.New("sqlite://" + filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestPostRepository_CreateGetDelete(t *testing.T) {
	ctx := context.Background()
	repo := NewPostRepository(openTestDB(t).DB)

	post := &models.Post{Type: models.PostTypeProduct, Status: models.PostStatusPublish, Title: "Widget", Content: "A widget."}
	require.NoError(t, repo.Create(ctx, post))
	require.NotEmpty(t, post.ID)

	require.NoError(t, repo.AddMeta(ctx, post.ID, models.MetaRegularPrice, "19.99"))
	require.NoError(t, repo.AddMeta(ctx, post.ID, models.MetaOfferPrice, "14.99"))

	got, err := repo.Get(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, "Widget", got.Title)
	assert.Equal(t, map[string]string{
		models.MetaRegularPrice: "19.99",
		models.MetaOfferPrice:   "14.99",
	}, got.MetaMap())

	require.NoError(t, repo.Delete(ctx, post.ID))
	_, err = repo.Get(ctx, post.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, post.ID), ErrNotFound)
}

func TestPostRepository_List(t *testing.T) {
	ctx := context.Background()
	repo := NewPostRepository(openTestDB(t).DB)

	for _, title := range []string{"Red Widget", "Blue Widget", "Gadget"} {
		require.NoError(t, repo.Create(ctx, &models.Post{Type: models.PostTypeProduct, Status: models.PostStatusPublish, Title: title}))
	}
	require.NoError(t, repo.Create(ctx, &models.Post{Type: "page", Status: models.PostStatusPublish, Title: "About widgets"}))

	posts, total, err := repo.List(ctx, ListFilter{Type: models.PostTypeProduct, Search: "widget"})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Len(t, posts, 2)

	posts, total, err = repo.List(ctx, ListFilter{Type: models.PostTypeProduct, Limit: 1})
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	assert.Len(t, posts, 1)
}

func TestPostRepository_TransactionRollsBack(t *testing.T) {
	ctx := context.Background()
	repo := NewPostRepository(openTestDB(t).DB)
	boom := errors.New("boom")

	var id string
	err := repo.Transaction(ctx, func(tx PostRepository) error {
		post := &models.Post{Type: models.PostTypeProduct, Status: models.PostStatusPublish, Title: "Widget"}
		if err := tx.Create(ctx, post); err != nil {
			return err
		}
		id = post.ID
		if err := tx.AddMeta(ctx, post.ID, models.MetaRegularPrice, "1"); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)
	require.NotEmpty(t, id)

	_, err = repo.Get(ctx, id)
	assert.ErrorIs(t, err, ErrNotFound)
	_, total, err := repo.List(ctx, ListFilter{})
	require.NoError(t, err)
	assert.Zero(t, total)
}

func TestSettingRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewSettingRepository(openTestDB(t).DB)

	v, err := repo.GetValue(ctx, models.SettingAPIKey)
	require.NoError(t, err)
	assert.Empty(t, v)

	require.NoError(t, repo.SetValue(ctx, models.SettingAPIKey, "first-token"))
	require.NoError(t, repo.SetValue(ctx, models.SettingAPIKey, "second-token"))

	v, err = repo.GetValue(ctx, models.SettingAPIKey)
	require.NoError(t, err)
	assert.Equal(t, "second-token", v)

	require.NoError(t, repo.Delete(ctx, models.SettingAPIKey))
	v, err = repo.GetValue(ctx, models.SettingAPIKey)
	require.NoError(t, err)
	assert.Empty(t, v)
}

func TestEnsureValue(t *testing.T) {
	ctx := context.Background()
	repo := NewSettingRepository(openTestDB(t).DB)

	wrote, err := EnsureValue(ctx, repo, models.SettingAPIKey, "")
	require.NoError(t, err)
	assert.False(t, wrote)

	wrote, err = EnsureValue(ctx, repo, models.SettingAPIKey, "env-token")
	require.NoError(t, err)
	assert.True(t, wrote)

	wrote, err = EnsureValue(ctx, repo, models.SettingAPIKey, "other-token")
	require.NoError(t, err)
	assert.False(t, wrote)

	v, err := repo.GetValue(ctx, models.SettingAPIKey)
	require.NoError(t, err)
	assert.Equal(t, "env-token", v)
}
