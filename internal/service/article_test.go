package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"Blog_Backend/internal/model"
	"Blog_Backend/internal/pkg"
	"Blog_Backend/internal/repository/mysql"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from, to model.ArticleStatus
		want     bool
	}{
		{model.StatusDraft, model.StatusPendingReview, true},
		{model.StatusPendingReview, model.StatusDraft, true},
		{model.StatusRejected, model.StatusPendingReview, true},
		{model.StatusPublished, model.StatusPublished, false},
		{model.StatusDraft, model.StatusDraft, false},
		{model.StatusDraft, model.StatusPublished, false},
		{model.StatusPendingReview, model.StatusPublished, false},
		{model.StatusPublished, model.StatusDraft, false},
		{model.StatusRejected, model.StatusDraft, false},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, CanTransition(c.from, c.to), "%s -> %s", c.from, c.to)
	}
}

func TestGroupByDate(t *testing.T) {
	day := func(d, h int) time.Time { return time.Date(2024, 3, d, h, 0, 0, 0, time.UTC) }
	var list []model.Article
	// 已按创建时间倒序
	for d := 10; d >= 3; d-- {
		for h := 5; h >= 0; h-- {
			list = append(list, model.Article{ID: uint64(d*10 + h), CreatedAt: day(d, h)})
		}
	}

	got := groupByDate(list, 5, 4)
	require.Len(t, got, 5)
	assert.Equal(t, "2024-03-10", got[0].Date)
	assert.Equal(t, "2024-03-06", got[4].Date)
	for _, g := range got {
		assert.Len(t, g.Posts, 4)
	}
	assert.EqualValues(t, 105, got[0].Posts[0].ID)

	assert.Empty(t, groupByDate(nil, 5, 4))
}

func newArticleService(db *gorm.DB) *ArticleService {
	return NewArticleService(ArticleDeps{
		Articles:  &mysql.ArticleRepository{DB: db},
		Comments:  &mysql.CommentRepository{DB: db},
		Likes:     &mysql.LikeRepository{DB: db},
		Favorites: &mysql.FavoriteRepository{DB: db},
		Follows:   &mysql.FollowRepository{DB: db},
	}, newTestLogger())
}

func TestArticleService_UpdateTransitions(t *testing.T) {
	db := newTestDB(t)
	author := createUser(t, db, "author", 0)
	other := createUser(t, db, "other", 0)
	svc := newArticleService(db)
	ctx := context.Background()

	a := &model.Article{Title: "draft", Status: model.StatusDraft, AuthorID: author.ID}
	require.NoError(t, db.Create(a).Error)

	pending := model.StatusPendingReview
	published := model.StatusPublished
	_, err := svc.Update(ctx, other.ID, a.ID, ArticleUpdate{Status: &pending})
	assert.ErrorIs(t, err, ErrNotAuthor)

	_, err = svc.Update(ctx, author.ID, a.ID, ArticleUpdate{Status: &published})
	assert.ErrorIs(t, err, ErrInvalidTransition)

	got, err := svc.Update(ctx, author.ID, a.ID, ArticleUpdate{Status: &pending})
	require.NoError(t, err)
	assert.Equal(t, model.StatusPendingReview, got.Status)

	_, err = svc.Update(ctx, author.ID, a.ID+100, ArticleUpdate{Status: &pending})
	assert.ErrorIs(t, err, ErrNotFound)

	// 已发布的文章带上原状态同样拒绝，不带状态只改内容
	pub := &model.Article{Title: "pub", Status: model.StatusPublished, AuthorID: author.ID}
	require.NoError(t, db.Create(pub).Error)
	_, err = svc.Update(ctx, author.ID, pub.ID, ArticleUpdate{Status: &published})
	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.ErrorIs(t, err, ErrForbidden)

	title := "renamed"
	got, err = svc.Update(ctx, author.ID, pub.ID, ArticleUpdate{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, "renamed", got.Title)
	assert.Equal(t, model.StatusPublished, got.Status)
}

func TestArticleService_Visibility(t *testing.T) {
	db := newTestDB(t)
	author := createUser(t, db, "author", 0)
	other := createUser(t, db, "other", 0)
	svc := newArticleService(db)
	ctx := context.Background()

	for _, a := range []*model.Article{
		{Title: "go tips", Status: model.StatusPublished, Tags: []string{"go"}, AuthorID: author.ID},
		{Title: "go draft", Status: model.StatusDraft, Tags: []string{"go"}, AuthorID: author.ID},
		{Title: "go review", Status: model.StatusPendingReview, AuthorID: author.ID},
		{Title: "rust notes", Status: model.StatusPublished, Tags: []string{"rust"}, AuthorID: other.ID},
	} {
		require.NoError(t, db.Create(a).Error)
	}

	res, err := svc.ListByUser(ctx, 0, author.ID, true, pkg.PageQuery{})
	require.NoError(t, err)
	assert.EqualValues(t, 1, res.Total)

	res, err = svc.ListByUser(ctx, other.ID, author.ID, true, pkg.PageQuery{})
	require.NoError(t, err)
	assert.EqualValues(t, 1, res.Total)

	res, err = svc.ListByUser(ctx, author.ID, author.ID, false, pkg.PageQuery{})
	require.NoError(t, err)
	assert.EqualValues(t, 1, res.Total)

	res, err = svc.ListByUser(ctx, author.ID, author.ID, true, pkg.PageQuery{})
	require.NoError(t, err)
	assert.EqualValues(t, 3, res.Total)

	res, err = svc.PublicSearch(ctx, "go", "", pkg.PageQuery{})
	require.NoError(t, err)
	require.Len(t, res.Records, 1)
	assert.Equal(t, "go tips", res.Records[0].Title)

	res, err = svc.PublicSearch(ctx, "", "rust", pkg.PageQuery{})
	require.NoError(t, err)
	require.Len(t, res.Records, 1)
	assert.Equal(t, "rust notes", res.Records[0].Title)

	_, err = svc.PublicSearch(ctx, "", "", pkg.PageQuery{Limit: 1000})
	assert.ErrorIs(t, err, ErrBadRequest)
}

func TestArticleService_Detail(t *testing.T) {
	db := newTestDB(t)
	author := createUser(t, db, "author", 0)
	reader := createUser(t, db, "reader", 0)
	svc := newArticleService(db)
	ctx := context.Background()

	a := &model.Article{Title: "t", Status: model.StatusPublished, AuthorID: author.ID, ViewCount: 6}
	require.NoError(t, db.Create(a).Error)
	require.NoError(t, db.Create(&model.ArticleLike{UserID: reader.ID, ArticleID: a.ID}).Error)
	require.NoError(t, db.Create(&model.Favorite{UserID: reader.ID, ArticleID: a.ID}).Error)
	require.NoError(t, db.Create(&model.Comment{Content: "hi", AuthorID: reader.ID, ArticleID: a.ID}).Error)
	require.NoError(t, db.Create(&model.Follow{FollowerID: reader.ID, FollowingID: author.ID}).Error)

	d, err := svc.Detail(ctx, a.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 7, d.ViewCount)
	assert.EqualValues(t, 1, d.LikeCount)
	assert.EqualValues(t, 1, d.FavoritesCount)
	assert.EqualValues(t, 1, d.CommentCount)
	assert.EqualValues(t, 1, d.AuthorFollowersCount)

	raw, err := json.Marshal(d)
	require.NoError(t, err)
	var body map[string]any
	require.NoError(t, json.Unmarshal(raw, &body))
	assert.EqualValues(t, 7, body["viewCount"])
	assert.EqualValues(t, 1, body["likesCount"])
	assert.EqualValues(t, 1, body["authorFollowers"])

	d, err = svc.Detail(ctx, a.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 8, d.ViewCount)

	_, err = svc.Detail(ctx, a.ID+100)
	assert.ErrorIs(t, err, ErrNotFound)
}
