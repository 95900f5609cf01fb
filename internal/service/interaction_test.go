package service

import (
	"context"
	"testing"

	"Blog_Backend/internal/model"
	"Blog_Backend/internal/repository/mysql"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newInteractionService(db *gorm.DB, events EventPublisher) *InteractionService {
	return NewInteractionService(InteractionDeps{
		Users:     &mysql.UserRepository{DB: db},
		Articles:  &mysql.ArticleRepository{DB: db},
		Follows:   &mysql.FollowRepository{DB: db},
		Likes:     &mysql.LikeRepository{DB: db},
		Favorites: &mysql.FavoriteRepository{DB: db},
		Events:    events,
	}, newTestLogger())
}

func TestInteractionService_FollowCreatesNotifications(t *testing.T) {
	db := newTestDB(t)
	alice := createUser(t, db, "alice", 0)
	bob := createUser(t, db, "bob", 0)
	pub := &capturePublisher{}
	svc := newInteractionService(db, pub)
	notifications := NewNotificationService(&mysql.NotificationRepository{DB: db}, nil, newTestLogger())
	ctx := context.Background()

	state, err := svc.ToggleFollow(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	assert.True(t, state)
	state, err = svc.ToggleFollow(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	assert.False(t, state)

	events := pub.Events()
	require.Len(t, events, 2)
	for _, evt := range events {
		_, err = notifications.Create(ctx, evt)
		require.NoError(t, err)
	}

	var list []model.Notification
	require.NoError(t, db.Order("id ASC").Find(&list).Error)
	require.Len(t, list, 2)
	for i, want := range []bool{true, false} {
		assert.Equal(t, model.NotifyFollow, list[i].Type)
		assert.Equal(t, alice.ID, list[i].SenderID)
		assert.Equal(t, bob.ID, list[i].ReceiverID)
		assert.Equal(t, want, list[i].IsStart)
		assert.False(t, list[i].Read)
	}
}

func TestInteractionService_SelfInteractionIsSilent(t *testing.T) {
	db := newTestDB(t)
	alice := createUser(t, db, "alice", 0)
	article := &model.Article{Title: "mine", Status: model.StatusPublished, AuthorID: alice.ID}
	require.NoError(t, db.Create(article).Error)
	pub := &capturePublisher{}
	svc := newInteractionService(db, pub)
	ctx := context.Background()

	liked, err := svc.ToggleLike(ctx, alice.ID, article.ID)
	require.NoError(t, err)
	assert.True(t, liked)
	fav, err := svc.ToggleFavorite(ctx, alice.ID, article.ID)
	require.NoError(t, err)
	assert.True(t, fav)
	assert.Empty(t, pub.Events())

	st, err := svc.Status(ctx, alice.ID, article.ID)
	require.NoError(t, err)
	assert.Equal(t, model.InteractionStatus{IsLiked: true, IsFavorited: true}, st)
}

func TestInteractionService_Errors(t *testing.T) {
	db := newTestDB(t)
	alice := createUser(t, db, "alice", 0)
	svc := newInteractionService(db, &capturePublisher{})
	ctx := context.Background()

	_, err := svc.ToggleFollow(ctx, alice.ID+100, alice.ID)
	assert.ErrorIs(t, err, ErrInvalidSession)
	_, err = svc.ToggleFollow(ctx, alice.ID, alice.ID+100)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = svc.ToggleLike(ctx, alice.ID, 42)
	assert.ErrorIs(t, err, ErrNotFound)
}
