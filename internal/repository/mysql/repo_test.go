package mysql

import (
	"context"
	"testing"

	"Blog_Backend/internal/model"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), Config())
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, AutoMigrate(db))
	return db
}

func seedUsers(t *testing.T, db *gorm.DB, names ...string) []model.User {
	t.Helper()
	users := make([]model.User, 0, len(names))
	for _, n := range names {
		u := model.User{Account: n, Username: n, Password: "x"}
		require.NoError(t, db.Create(&u).Error)
		users = append(users, u)
	}
	return users
}

func outboxEvents(t *testing.T, db *gorm.DB) []string {
	t.Helper()
	var list []model.SocialOutbox
	require.NoError(t, db.Order("id ASC").Find(&list).Error)
	events := make([]string, 0, len(list))
	for _, ob := range list {
		events = append(events, ob.EventType)
	}
	return events
}

func TestFollowRepository_ToggleRoundTrip(t *testing.T) {
	db := newTestDB(t)
	users := seedUsers(t, db, "a", "b")
	repo := &FollowRepository{DB: db}
	ctx := context.Background()

	got, err := repo.Toggle(ctx, users[0].ID, users[1].ID)
	require.NoError(t, err)
	assert.Equal(t, Toggle{State: true, Changed: true}, got)

	ok, err := repo.IsFollowing(ctx, users[0].ID, users[1].ID)
	require.NoError(t, err)
	assert.True(t, ok)

	followers, total, err := repo.ListFollowers(ctx, users[1].ID, 0, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, followers, 1)
	assert.Equal(t, "a", followers[0].Username)

	got, err = repo.Toggle(ctx, users[0].ID, users[1].ID)
	require.NoError(t, err)
	assert.Equal(t, Toggle{State: false, Changed: true}, got)

	n, err := repo.CountFollowers(ctx, users[1].ID)
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Equal(t, []string{"follow", "unfollow"}, outboxEvents(t, db))
}

func TestLikeRepository_Toggle(t *testing.T) {
	db := newTestDB(t)
	users := seedUsers(t, db, "a", "b")
	article := model.Article{Title: "t", Status: model.StatusPublished, AuthorID: users[1].ID}
	require.NoError(t, db.Create(&article).Error)
	repo := &LikeRepository{DB: db}
	ctx := context.Background()

	got, err := repo.Toggle(ctx, users[0].ID, article.ID, users[1].ID)
	require.NoError(t, err)
	assert.True(t, got.State)

	liked, total, err := repo.LikedArticles(ctx, users[0].ID, 0, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, liked, 1)
	assert.Equal(t, article.ID, liked[0].ID)

	n, err := repo.CountByArticle(ctx, article.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	got, err = repo.Toggle(ctx, users[0].ID, article.ID, users[1].ID)
	require.NoError(t, err)
	assert.False(t, got.State)
	ok, err := repo.IsLiked(ctx, users[0].ID, article.ID)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestFavoriteRepository_NoDuplicate(t *testing.T) {
	db := newTestDB(t)
	users := seedUsers(t, db, "a", "b")
	article := model.Article{Title: "t", Status: model.StatusPublished, AuthorID: users[1].ID}
	require.NoError(t, db.Create(&article).Error)
	repo := &FavoriteRepository{DB: db}
	ctx := context.Background()

	_, err := repo.Toggle(ctx, users[0].ID, article.ID, users[1].ID)
	require.NoError(t, err)

	// 直接插入重复记录会被唯一索引拒绝
	err = translate("dup", db.Create(&model.Favorite{UserID: users[0].ID, ArticleID: article.ID}).Error)
	assert.ErrorIs(t, err, ErrDuplicateEntry)

	list, total, err := repo.FavoriteArticles(ctx, users[0].ID, 0, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, list, 1)
	assert.Equal(t, "t", list[0].Title)
}

func TestNotificationRepository_UnreadIgnoresReadFilter(t *testing.T) {
	db := newTestDB(t)
	users := seedUsers(t, db, "a", "b")
	repo := &NotificationRepository{DB: db}
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		require.NoError(t, repo.Create(ctx, &model.Notification{
			Type: model.NotifyFollow, SenderID: users[0].ID, ReceiverID: users[1].ID, IsStart: true,
		}))
	}
	page, err := repo.Page(ctx, users[1].ID, nil, 0, 10)
	require.NoError(t, err)
	require.Len(t, page.Items, 3)
	require.NoError(t, repo.MarkRead(ctx, page.Items[0].ID, users[1].ID, true))

	read := true
	page, err = repo.Page(ctx, users[1].ID, &read, 0, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 1, page.Total)
	assert.EqualValues(t, 2, page.UnreadCount)
	require.NotNil(t, page.Items[0].Sender)
	assert.Equal(t, "a", page.Items[0].Sender.Username)
}

func TestNotificationRepository_MarkReadOwnership(t *testing.T) {
	db := newTestDB(t)
	users := seedUsers(t, db, "a", "b")
	repo := &NotificationRepository{DB: db}
	ctx := context.Background()

	n := &model.Notification{Type: model.NotifyLike, SenderID: users[0].ID, ReceiverID: users[1].ID, IsStart: true}
	require.NoError(t, repo.Create(ctx, n))

	assert.ErrorIs(t, repo.MarkRead(ctx, n.ID, users[0].ID, true), ErrNotFound)
	require.NoError(t, repo.MarkRead(ctx, n.ID, users[1].ID, true))
	// 重复标记同一状态仍视为成功
	require.NoError(t, repo.MarkRead(ctx, n.ID, users[1].ID, true))

	changed, err := repo.MarkAllRead(ctx, users[1].ID)
	require.NoError(t, err)
	assert.Zero(t, changed)
}

func TestMenuRepository_DeleteTree(t *testing.T) {
	db := newTestDB(t)
	repo := &MenuRepository{DB: db}
	ctx := context.Background()

	root := &model.Menu{Name: "root", Type: model.MenuTypeMenu}
	require.NoError(t, repo.Create(ctx, root))
	child := &model.Menu{Name: "child", Type: model.MenuTypeMenu, ParentID: &root.ID}
	require.NoError(t, repo.Create(ctx, child))
	leaf := &model.Menu{Name: "leaf", Type: model.MenuTypeButton, Code: "x", ParentID: &child.ID}
	require.NoError(t, repo.Create(ctx, leaf))
	other := &model.Menu{Name: "other", Type: model.MenuTypeMenu}
	require.NoError(t, repo.Create(ctx, other))
	require.NoError(t, db.Create(&model.RoleMenu{RoleID: 1, MenuID: leaf.ID}).Error)

	n, err := repo.DeleteTree(ctx, root.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	all, err := repo.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "other", all[0].Name)

	var links int64
	require.NoError(t, db.Model(&model.RoleMenu{}).Count(&links).Error)
	assert.Zero(t, links)

	_, err = repo.DeleteTree(ctx, root.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestVisitRepository_Increment(t *testing.T) {
	db := newTestDB(t)
	repo := &VisitRepository{DB: db}
	ctx := context.Background()

	require.NoError(t, repo.Increment(ctx, "2024-01-01"))
	require.NoError(t, repo.Increment(ctx, "2024-01-01"))
	require.NoError(t, repo.Increment(ctx, "2024-01-02"))

	n, err := repo.Count(ctx, "2024-01-01")
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)
	n, err = repo.Count(ctx, "2023-12-31")
	require.NoError(t, err)
	assert.Zero(t, n)
	total, err := repo.Total(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
}

func TestUserRepository_DeleteMissing(t *testing.T) {
	db := newTestDB(t)
	users := seedUsers(t, db, "a")
	repo := &UserRepository{DB: db}
	ctx := context.Background()

	assert.ErrorIs(t, repo.Delete(ctx, users[0].ID+100), ErrNotFound)
	require.NoError(t, repo.Delete(ctx, users[0].ID))
	ok, err := repo.Exists(ctx, users[0].ID)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestUserRepository_DeleteOwnedContent(t *testing.T) {
	db := newTestDB(t)
	users := seedUsers(t, db, "a", "b")
	repo := &UserRepository{DB: db}
	ctx := context.Background()

	article := model.Article{Title: "t", Status: model.StatusPublished, AuthorID: users[0].ID}
	require.NoError(t, db.Create(&article).Error)
	require.NoError(t, db.Create(&model.Notification{Type: model.NotifyFollow, SenderID: users[0].ID, ReceiverID: users[1].ID, IsStart: true}).Error)
	require.NoError(t, db.Create(&model.Notification{Type: model.NotifyFollow, SenderID: users[1].ID, ReceiverID: users[0].ID, IsStart: true}).Error)

	assert.ErrorIs(t, repo.Delete(ctx, users[0].ID), ErrInUse)
	ok, err := repo.Exists(ctx, users[0].ID)
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, (&ArticleRepository{DB: db}).Delete(ctx, article.ID))
	img := model.Image{OriginalName: "a.png", Path: "/uploads/a.png", ObjectKey: "a.png", Size: 1, UserID: users[0].ID}
	require.NoError(t, db.Create(&img).Error)
	assert.ErrorIs(t, repo.Delete(ctx, users[0].ID), ErrInUse)

	require.NoError(t, db.Delete(&img).Error)
	require.NoError(t, repo.Delete(ctx, users[0].ID))

	var left int64
	require.NoError(t, db.Model(&model.Notification{}).
		Where("sender_id = ? OR receiver_id = ?", users[0].ID, users[0].ID).Count(&left).Error)
	assert.Zero(t, left)
	ok, err = repo.Exists(ctx, users[0].ID)
	require.NoError(t, err)
	assert.False(t, ok)
}
