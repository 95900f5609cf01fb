package service

import (
	"context"
	"testing"

	"Blog_Backend/internal/model"
	"Blog_Backend/internal/pkg"
	"Blog_Backend/internal/repository/mysql"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newCommentService(db *gorm.DB) *CommentService {
	return NewCommentService(
		&mysql.CommentRepository{DB: db},
		&mysql.ArticleRepository{DB: db},
		&mysql.CommentWebRepository{DB: db},
	)
}

func TestCommentService_AuthorOnlyDelete(t *testing.T) {
	db := newTestDB(t)
	author := createUser(t, db, "author", 0)
	reader := createUser(t, db, "reader", 0)
	svc := newCommentService(db)
	ctx := context.Background()

	a := &model.Article{Title: "t", Status: model.StatusPublished, AuthorID: author.ID}
	require.NoError(t, db.Create(a).Error)

	_, err := svc.Create(ctx, reader.ID, a.ID, "  ")
	assert.ErrorIs(t, err, ErrBadRequest)
	_, err = svc.Create(ctx, reader.ID, a.ID+100, "hi")
	assert.ErrorIs(t, err, ErrNotFound)

	cm, err := svc.Create(ctx, reader.ID, a.ID, "hi")
	require.NoError(t, err)

	// 文章作者也不能删除别人的评论
	assert.ErrorIs(t, svc.Delete(ctx, author.ID, cm.ID), ErrNotAuthor)
	require.NoError(t, svc.Delete(ctx, reader.ID, cm.ID))
	assert.ErrorIs(t, svc.Delete(ctx, reader.ID, cm.ID), ErrNotFound)

	list, err := svc.ListByArticle(ctx, a.ID)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestCommentService_GuestReplyTree(t *testing.T) {
	db := newTestDB(t)
	svc := newCommentService(db)
	ctx := context.Background()

	guest := func(name string, parent *model.CommentWeb) *model.CommentWeb {
		in := GuestCommentInput{Username: name, Content: name + " says hi"}
		if parent != nil {
			in.ParentID = &parent.ID
			in.ReplyTo = parent.Username
		}
		c, err := svc.CreateGuest(ctx, in)
		require.NoError(t, err)
		return c
	}
	first := guest("first", nil)
	reply := guest("reply", first)
	nested := guest("nested", reply)
	second := guest("second", nil)

	missing := second.ID + 100
	_, err := svc.CreateGuest(ctx, GuestCommentInput{Username: "x", Content: "y", ParentID: &missing})
	assert.ErrorIs(t, err, ErrNotFound)

	res, err := svc.GuestPage(ctx, pkg.PageQuery{})
	require.NoError(t, err)
	assert.EqualValues(t, 2, res.Total)
	require.Len(t, res.Records, 2)
	assert.Equal(t, second.ID, res.Records[0].ID)
	assert.Empty(t, res.Records[0].Children)

	root := res.Records[1]
	assert.Equal(t, first.ID, root.ID)
	require.Len(t, root.Children, 1)
	assert.Equal(t, reply.ID, root.Children[0].ID)
	assert.Equal(t, "first", root.Children[0].ReplyTo)
	require.Len(t, root.Children[0].Children, 1)
	assert.Equal(t, nested.ID, root.Children[0].Children[0].ID)

	res, err = svc.GuestPage(ctx, pkg.PageQuery{Page: 2, Limit: 1})
	require.NoError(t, err)
	require.Len(t, res.Records, 1)
	assert.Equal(t, first.ID, res.Records[0].ID)
	assert.EqualValues(t, 2, res.TotalPages)
}
