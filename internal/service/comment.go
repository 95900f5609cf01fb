package service

import (
	"context"
	"strings"

	"Blog_Backend/internal/model"
	"Blog_Backend/internal/pkg"
	"Blog_Backend/internal/repository/mysql"
)

// maxReplyDepth 楼中楼最多展开的层数
const maxReplyDepth = 8

type CommentService struct {
	comments *mysql.CommentRepository
	articles *mysql.ArticleRepository
	guests   *mysql.CommentWebRepository
}

func NewCommentService(comments *mysql.CommentRepository, articles *mysql.ArticleRepository, guests *mysql.CommentWebRepository) *CommentService {
	return &CommentService{comments: comments, articles: articles, guests: guests}
}

func (s *CommentService) Create(ctx context.Context, authorID, articleID uint64, content string) (*model.Comment, error) {
	if strings.TrimSpace(content) == "" {
		return nil, badRequest("评论内容不能为空")
	}
	if _, err := s.articles.FindByID(ctx, articleID); err != nil {
		return nil, mapRepoError(err, "文章")
	}
	c := &model.Comment{Content: content, AuthorID: authorID, ArticleID: articleID}
	if err := s.comments.Create(ctx, c); err != nil {
		return nil, mapRepoError(err, "评论")
	}
	return c, nil
}

func (s *CommentService) List(ctx context.Context) ([]model.Comment, error) {
	return s.comments.List(ctx)
}

func (s *CommentService) ListByArticle(ctx context.Context, articleID uint64) ([]model.Comment, error) {
	return s.comments.ListByArticle(ctx, articleID)
}

// Delete 只有评论作者可以删除
func (s *CommentService) Delete(ctx context.Context, callerID, id uint64) error {
	c, err := s.comments.FindByID(ctx, id)
	if err != nil {
		return mapRepoError(err, "评论")
	}
	if c.AuthorID != callerID {
		return ErrNotAuthor
	}
	return mapRepoError(s.comments.Delete(ctx, id), "评论")
}

type GuestCommentInput struct {
	Username string  `json:"username" binding:"required"`
	QQ       string  `json:"qq"`
	Avatar   string  `json:"avatar"`
	URL      string  `json:"url"`
	Email    string  `json:"email"`
	Content  string  `json:"content" binding:"required"`
	ParentID *uint64 `json:"parentId"`
	ReplyTo  string  `json:"replyTo"`
}

func (s *CommentService) CreateGuest(ctx context.Context, in GuestCommentInput) (*model.CommentWeb, error) {
	if in.ParentID != nil {
		ok, err := s.guests.Exists(ctx, *in.ParentID)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, notFound("父评论")
		}
	}
	c := &model.CommentWeb{
		Username: in.Username,
		QQ:       in.QQ,
		Avatar:   in.Avatar,
		URL:      in.URL,
		Email:    in.Email,
		Content:  in.Content,
		ParentID: in.ParentID,
		ReplyTo:  in.ReplyTo,
	}
	if err := s.guests.Create(ctx, c); err != nil {
		return nil, mapRepoError(err, "评论")
	}
	return c, nil
}

// GuestPage 顶层留言分页，回复按层展开
func (s *CommentService) GuestPage(ctx context.Context, q pkg.PageQuery) (pkg.PageResult[*model.CommentWeb], error) {
	if err := q.Normalize(); err != nil {
		return pkg.PageResult[*model.CommentWeb]{}, badRequest(err.Error())
	}
	roots, total, err := s.guests.ListRoots(ctx, q.Offset(), q.Limit)
	if err != nil {
		return pkg.PageResult[*model.CommentWeb]{}, err
	}
	if err := s.loadReplies(ctx, roots); err != nil {
		return pkg.PageResult[*model.CommentWeb]{}, err
	}
	return pkg.NewPageResult(roots, total, q), nil
}

// loadReplies 逐层查询子节点，visited 防止环
func (s *CommentService) loadReplies(ctx context.Context, roots []*model.CommentWeb) error {
	visited := make(map[uint64]bool, len(roots))
	level := make([]*model.CommentWeb, 0, len(roots))
	for _, r := range roots {
		visited[r.ID] = true
		level = append(level, r)
	}
	for depth := 0; depth < maxReplyDepth && len(level) > 0; depth++ {
		byID := make(map[uint64]*model.CommentWeb, len(level))
		ids := make([]uint64, 0, len(level))
		for _, c := range level {
			byID[c.ID] = c
			ids = append(ids, c.ID)
		}
		children, err := s.guests.ListChildren(ctx, ids)
		if err != nil {
			return err
		}
		next := make([]*model.CommentWeb, 0, len(children))
		for _, child := range children {
			if visited[child.ID] || child.ParentID == nil {
				continue
			}
			parent := byID[*child.ParentID]
			if parent == nil {
				continue
			}
			visited[child.ID] = true
			parent.Children = append(parent.Children, child)
			next = append(next, child)
		}
		level = next
	}
	return nil
}
