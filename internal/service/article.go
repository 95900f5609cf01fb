package service

import (
	"context"

	"Blog_Backend/internal/model"
	"Blog_Backend/internal/pkg"
	"Blog_Backend/internal/repository/mysql"

	"github.com/sirupsen/logrus"
)

const (
	latestDates      = 5
	latestPerDate    = 4
	latestScanLimit  = 200
	latestDateLayout = "2006-01-02"
)

// allowedTransitions 作者可执行的状态变更
var allowedTransitions = map[model.ArticleStatus][]model.ArticleStatus{
	model.StatusDraft:         {model.StatusPendingReview},
	model.StatusPendingReview: {model.StatusDraft},
	model.StatusRejected:      {model.StatusPendingReview},
}

// CanTransition 只允许表中列出的边，相同状态同样拒绝
func CanTransition(from, to model.ArticleStatus) bool {
	for _, s := range allowedTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

type ArticleService struct {
	articles  *mysql.ArticleRepository
	comments  *mysql.CommentRepository
	likes     *mysql.LikeRepository
	favorites *mysql.FavoriteRepository
	follows   *mysql.FollowRepository
	log       *logrus.Entry
}

type ArticleDeps struct {
	Articles  *mysql.ArticleRepository
	Comments  *mysql.CommentRepository
	Likes     *mysql.LikeRepository
	Favorites *mysql.FavoriteRepository
	Follows   *mysql.FollowRepository
}

func NewArticleService(d ArticleDeps, log *logrus.Logger) *ArticleService {
	return &ArticleService{
		articles:  d.Articles,
		comments:  d.Comments,
		likes:     d.Likes,
		favorites: d.Favorites,
		follows:   d.Follows,
		log:       log.WithField("component", "article"),
	}
}

type ArticleInput struct {
	Title   string              `json:"title" binding:"required"`
	Content string              `json:"content"`
	Tags    []string            `json:"tags"`
	Readme  string              `json:"readme"`
	Banner  string              `json:"banner"`
	Status  model.ArticleStatus `json:"status"`
}

type ArticleUpdate struct {
	Title   *string              `json:"title"`
	Content *string              `json:"content"`
	Tags    []string             `json:"tags"`
	Readme  *string              `json:"readme"`
	Banner  *string              `json:"banner"`
	Status  *model.ArticleStatus `json:"status"`
}

// ArticleStatsSummary 后台统计
type ArticleStatsSummary struct {
	Total      int64                         `json:"total"`
	TotalViews int64                         `json:"totalViews"`
	ByStatus   map[model.ArticleStatus]int64 `json:"byStatus"`
}

func (s *ArticleService) Create(ctx context.Context, authorID uint64, in ArticleInput) (*model.Article, error) {
	status := in.Status
	if status == "" {
		status = model.StatusPublished
	}
	if !status.Valid() {
		return nil, badRequest("无效的文章状态")
	}
	a := &model.Article{
		Title:    in.Title,
		Content:  in.Content,
		Tags:     in.Tags,
		Readme:   in.Readme,
		Banner:   in.Banner,
		Status:   status,
		AuthorID: authorID,
	}
	if a.Tags == nil {
		a.Tags = []string{}
	}
	if err := s.articles.Create(ctx, a); err != nil {
		return nil, mapRepoError(err, "文章")
	}
	s.log.WithFields(logrus.Fields{"article_id": a.ID, "user_id": authorID}).Info("article created")
	return a, nil
}

func (s *ArticleService) page(ctx context.Context, f mysql.ArticleFilter, q pkg.PageQuery) (pkg.PageResult[model.Article], error) {
	if err := q.Normalize(); err != nil {
		return pkg.PageResult[model.Article]{}, badRequest(err.Error())
	}
	list, total, err := s.articles.List(ctx, f, q.Offset(), q.Limit)
	if err != nil {
		return pkg.PageResult[model.Article]{}, err
	}
	return pkg.NewPageResult(list, total, q), nil
}

// Paginate status 为空时不过滤
func (s *ArticleService) Paginate(ctx context.Context, status model.ArticleStatus, q pkg.PageQuery) (pkg.PageResult[model.Article], error) {
	if status != "" && !status.Valid() {
		return pkg.PageResult[model.Article]{}, badRequest("无效的文章状态")
	}
	return s.page(ctx, mysql.ArticleFilter{Status: status}, q)
}

func (s *ArticleService) SearchByTitle(ctx context.Context, title string, q pkg.PageQuery) (pkg.PageResult[model.Article], error) {
	return s.page(ctx, mysql.ArticleFilter{Title: title}, q)
}

// PublicSearch 只返回已发布文章
func (s *ArticleService) PublicSearch(ctx context.Context, title, tag string, q pkg.PageQuery) (pkg.PageResult[model.Article], error) {
	return s.page(ctx, mysql.ArticleFilter{Status: model.StatusPublished, Title: title, Tag: tag}, q)
}

// ListByUser 只有作者本人才能看到未发布的文章
func (s *ArticleService) ListByUser(ctx context.Context, callerID, userID uint64, isLoginUser bool, q pkg.PageQuery) (pkg.PageResult[model.Article], error) {
	f := mysql.ArticleFilter{AuthorID: userID, Status: model.StatusPublished}
	if isLoginUser && callerID != 0 && callerID == userID {
		f.Status = ""
	}
	return s.page(ctx, f, q)
}

func (s *ArticleService) Get(ctx context.Context, id uint64) (*model.Article, error) {
	a, err := s.articles.FindByID(ctx, id)
	if err != nil {
		return nil, mapRepoError(err, "文章")
	}
	return a, nil
}

// Detail 浏览量先自增再读取
func (s *ArticleService) Detail(ctx context.Context, id uint64) (*model.ArticleDetail, error) {
	if err := s.articles.IncrementView(ctx, id); err != nil {
		return nil, mapRepoError(err, "文章")
	}
	a, err := s.articles.FindByID(ctx, id)
	if err != nil {
		return nil, mapRepoError(err, "文章")
	}
	d := &model.ArticleDetail{Article: *a}
	if d.LikeCount, err = s.likes.CountByArticle(ctx, id); err != nil {
		return nil, err
	}
	if d.FavoritesCount, err = s.favorites.CountByArticle(ctx, id); err != nil {
		return nil, err
	}
	if d.CommentCount, err = s.comments.CountByArticle(ctx, id); err != nil {
		return nil, err
	}
	if d.AuthorFollowersCount, err = s.follows.CountFollowers(ctx, a.AuthorID); err != nil {
		return nil, err
	}
	return d, nil
}

// Update 合并更新，仅作者可改，状态只能沿允许的边变更
func (s *ArticleService) Update(ctx context.Context, callerID, id uint64, in ArticleUpdate) (*model.Article, error) {
	a, err := s.articles.FindByID(ctx, id)
	if err != nil {
		return nil, mapRepoError(err, "文章")
	}
	if a.AuthorID != callerID {
		return nil, ErrNotAuthor
	}
	if in.Status != nil {
		if !in.Status.Valid() {
			return nil, badRequest("无效的文章状态")
		}
		if !CanTransition(a.Status, *in.Status) {
			return nil, ErrInvalidTransition
		}
		a.Status = *in.Status
	}
	if in.Title != nil {
		a.Title = *in.Title
	}
	if in.Content != nil {
		a.Content = *in.Content
	}
	if in.Tags != nil {
		a.Tags = in.Tags
	}
	if in.Readme != nil {
		a.Readme = *in.Readme
	}
	if in.Banner != nil {
		a.Banner = *in.Banner
	}
	if err := s.articles.Save(ctx, a); err != nil {
		return nil, mapRepoError(err, "文章")
	}
	return a, nil
}

func (s *ArticleService) Delete(ctx context.Context, callerID, id uint64) error {
	a, err := s.articles.FindByID(ctx, id)
	if err != nil {
		return mapRepoError(err, "文章")
	}
	if a.AuthorID != callerID {
		return ErrNotAuthor
	}
	if err := s.articles.Delete(ctx, id); err != nil {
		return mapRepoError(err, "文章")
	}
	s.log.WithFields(logrus.Fields{"article_id": id, "user_id": callerID}).Info("article deleted")
	return nil
}

// Latest 最近有发布的若干天，每天最多取几篇
func (s *ArticleService) Latest(ctx context.Context) ([]model.DatedArticles, error) {
	list, err := s.articles.Recent(ctx, latestScanLimit)
	if err != nil {
		return nil, err
	}
	return groupByDate(list, latestDates, latestPerDate), nil
}

// groupByDate 输入需按创建时间倒序
func groupByDate(list []model.Article, maxDates, perDate int) []model.DatedArticles {
	out := make([]model.DatedArticles, 0, maxDates)
	for _, a := range list {
		day := a.CreatedAt.Format(latestDateLayout)
		n := len(out)
		if n == 0 || out[n-1].Date != day {
			if n == maxDates {
				break
			}
			out = append(out, model.DatedArticles{Date: day})
			n++
		}
		if len(out[n-1].Posts) < perDate {
			out[n-1].Posts = append(out[n-1].Posts, a)
		}
	}
	return out
}

func (s *ArticleService) Stats(ctx context.Context) (ArticleStatsSummary, error) {
	var sum ArticleStatsSummary
	byStatus, err := s.articles.CountByStatus(ctx)
	if err != nil {
		return sum, err
	}
	sum.ByStatus = byStatus
	for _, n := range byStatus {
		sum.Total += n
	}
	if sum.TotalViews, err = s.articles.SumViews(ctx); err != nil {
		return sum, err
	}
	return sum, nil
}
