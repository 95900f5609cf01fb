package service

import (
	"context"

	"Blog_Backend/internal/model"
	"Blog_Backend/internal/pkg"
	"Blog_Backend/internal/repository/mysql"

	"github.com/sirupsen/logrus"
)

// EventPublisher 互动事件的出口，投递失败不影响互动本身
type EventPublisher interface {
	Publish(evt NotificationEvent) bool
}

type InteractionService struct {
	users     *mysql.UserRepository
	articles  *mysql.ArticleRepository
	follows   *mysql.FollowRepository
	likes     *mysql.LikeRepository
	favorites *mysql.FavoriteRepository
	events    EventPublisher
	log       *logrus.Entry
}

type InteractionDeps struct {
	Users     *mysql.UserRepository
	Articles  *mysql.ArticleRepository
	Follows   *mysql.FollowRepository
	Likes     *mysql.LikeRepository
	Favorites *mysql.FavoriteRepository
	Events    EventPublisher
}

func NewInteractionService(d InteractionDeps, log *logrus.Logger) *InteractionService {
	return &InteractionService{
		users:     d.Users,
		articles:  d.Articles,
		follows:   d.Follows,
		likes:     d.Likes,
		favorites: d.Favorites,
		events:    d.Events,
		log:       log.WithField("component", "interaction"),
	}
}

// requireActor 操作者不存在视为会话异常
func (s *InteractionService) requireActor(ctx context.Context, userID uint64) error {
	ok, err := s.users.Exists(ctx, userID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrInvalidSession
	}
	return nil
}

func (s *InteractionService) emit(evt NotificationEvent) {
	if evt.SenderID == evt.ReceiverID || s.events == nil {
		return
	}
	s.events.Publish(evt)
}

// ToggleFollow 返回切换后是否关注
func (s *InteractionService) ToggleFollow(ctx context.Context, actorID, authorID uint64) (bool, error) {
	if err := s.requireActor(ctx, actorID); err != nil {
		return false, err
	}
	ok, err := s.users.Exists(ctx, authorID)
	if err != nil {
		return false, err
	}
	if !ok {
		return false, notFound("关注用户")
	}
	t, err := s.follows.Toggle(ctx, actorID, authorID)
	if err != nil {
		return false, err
	}
	if t.Changed {
		s.emit(NotificationEvent{Type: model.NotifyFollow, SenderID: actorID, ReceiverID: authorID, IsStart: t.State})
	}
	return t.State, nil
}

func (s *InteractionService) ToggleLike(ctx context.Context, actorID, articleID uint64) (bool, error) {
	if err := s.requireActor(ctx, actorID); err != nil {
		return false, err
	}
	article, err := s.articles.FindByID(ctx, articleID)
	if err != nil {
		return false, mapRepoError(err, "文章")
	}
	t, err := s.likes.Toggle(ctx, actorID, articleID, article.AuthorID)
	if err != nil {
		return false, err
	}
	if t.Changed {
		id := articleID
		s.emit(NotificationEvent{Type: model.NotifyLike, SenderID: actorID, ReceiverID: article.AuthorID, ArticleID: &id, IsStart: t.State})
	}
	return t.State, nil
}

func (s *InteractionService) ToggleFavorite(ctx context.Context, actorID, articleID uint64) (bool, error) {
	if err := s.requireActor(ctx, actorID); err != nil {
		return false, err
	}
	article, err := s.articles.FindByID(ctx, articleID)
	if err != nil {
		return false, mapRepoError(err, "文章")
	}
	t, err := s.favorites.Toggle(ctx, actorID, articleID, article.AuthorID)
	if err != nil {
		return false, err
	}
	if t.Changed {
		id := articleID
		s.emit(NotificationEvent{Type: model.NotifyFavorite, SenderID: actorID, ReceiverID: article.AuthorID, ArticleID: &id, IsStart: t.State})
	}
	return t.State, nil
}

// Status 当前用户与文章的交互状态
func (s *InteractionService) Status(ctx context.Context, userID, articleID uint64) (model.InteractionStatus, error) {
	var st model.InteractionStatus
	article, err := s.articles.FindByID(ctx, articleID)
	if err != nil {
		return st, mapRepoError(err, "文章")
	}
	ok, err := s.users.Exists(ctx, userID)
	if err != nil {
		return st, err
	}
	if !ok {
		return st, notFound("用户")
	}
	if st.IsFollowingAuthor, err = s.follows.IsFollowing(ctx, userID, article.AuthorID); err != nil {
		return st, err
	}
	if st.IsLiked, err = s.likes.IsLiked(ctx, userID, articleID); err != nil {
		return st, err
	}
	if st.IsFavorited, err = s.favorites.IsFavorited(ctx, userID, articleID); err != nil {
		return st, err
	}
	return st, nil
}

func (s *InteractionService) requireUser(ctx context.Context, userID uint64) error {
	ok, err := s.users.Exists(ctx, userID)
	if err != nil {
		return err
	}
	if !ok {
		return notFound("用户")
	}
	return nil
}

func (s *InteractionService) Followings(ctx context.Context, userID uint64, q pkg.PageQuery) (pkg.PageResult[model.User], error) {
	return pageOf[model.User](ctx, s, userID, q, s.follows.ListFollowings)
}

func (s *InteractionService) Followers(ctx context.Context, userID uint64, q pkg.PageQuery) (pkg.PageResult[model.User], error) {
	return pageOf[model.User](ctx, s, userID, q, s.follows.ListFollowers)
}

func (s *InteractionService) LikedArticles(ctx context.Context, userID uint64, q pkg.PageQuery) (pkg.PageResult[model.Article], error) {
	return pageOf[model.Article](ctx, s, userID, q, s.likes.LikedArticles)
}

func (s *InteractionService) FavoriteArticles(ctx context.Context, userID uint64, q pkg.PageQuery) (pkg.PageResult[model.Article], error) {
	return pageOf[model.Article](ctx, s, userID, q, s.favorites.FavoriteArticles)
}

type listFn[T any] func(ctx context.Context, userID uint64, offset, limit int) ([]T, int64, error)

// pageOf 校验分页参数与用户存在后调用列表查询
func pageOf[T any](ctx context.Context, s *InteractionService, userID uint64, q pkg.PageQuery, fn listFn[T]) (pkg.PageResult[T], error) {
	if err := q.Normalize(); err != nil {
		return pkg.PageResult[T]{}, badRequest(err.Error())
	}
	if err := s.requireUser(ctx, userID); err != nil {
		return pkg.PageResult[T]{}, err
	}
	list, total, err := fn(ctx, userID, q.Offset(), q.Limit)
	if err != nil {
		return pkg.PageResult[T]{}, err
	}
	return pkg.NewPageResult(list, total, q), nil
}
