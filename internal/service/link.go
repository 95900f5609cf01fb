package service

import (
	"context"
	"time"

	"Blog_Backend/internal/model"
	"Blog_Backend/internal/pkg"
	"Blog_Backend/internal/repository/mysql"

	"github.com/sirupsen/logrus"
)

// Previewer 抓取链接预览
type Previewer func(ctx context.Context, url string) (pkg.LinkPreview, error)

type LinkService struct {
	repo    *mysql.LinkRepository
	preview Previewer
	log     *logrus.Entry
}

func NewLinkService(repo *mysql.LinkRepository, preview Previewer, log *logrus.Logger) *LinkService {
	if preview == nil {
		preview = pkg.FetchPreview
	}
	return &LinkService{repo: repo, preview: preview, log: log.WithField("component", "link")}
}

type LinkInput struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	Banner  string `json:"banner"`
	URL     string `json:"url" binding:"required"`
}

type LinkUpdate struct {
	Title   *string `json:"title"`
	Content *string `json:"content"`
	Banner  *string `json:"banner"`
	URL     *string `json:"url"`
}

// Create 标题、简介、封面缺省时从页面预览补齐，预览失败不影响创建
func (s *LinkService) Create(ctx context.Context, in LinkInput) (*model.Link, error) {
	l := &model.Link{Title: in.Title, Content: in.Content, Banner: in.Banner, URL: in.URL}
	if l.URL != "" && (l.Title == "" || l.Content == "" || l.Banner == "") {
		s.fill(ctx, l)
	}
	if l.Title == "" {
		l.Title = l.URL
	}
	if err := s.repo.Create(ctx, l); err != nil {
		return nil, mapRepoError(err, "友链")
	}
	return l, nil
}

func (s *LinkService) fill(ctx context.Context, l *model.Link) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	p, err := s.preview(ctx, l.URL)
	if err != nil {
		s.log.WithError(err).WithField("url", l.URL).Warn("link preview failed")
		return
	}
	if l.Title == "" {
		l.Title = p.Title
	}
	if l.Content == "" {
		l.Content = p.Description
	}
	if l.Banner == "" {
		l.Banner = p.Image
	}
}

func (s *LinkService) List(ctx context.Context, q pkg.PageQuery) (pkg.PageResult[model.Link], error) {
	if err := q.Normalize(); err != nil {
		return pkg.PageResult[model.Link]{}, badRequest(err.Error())
	}
	list, total, err := s.repo.List(ctx, q.Offset(), q.Limit)
	if err != nil {
		return pkg.PageResult[model.Link]{}, err
	}
	return pkg.NewPageResult(list, total, q), nil
}

func (s *LinkService) Update(ctx context.Context, id uint64, in LinkUpdate) (*model.Link, error) {
	l, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, mapRepoError(err, "友链")
	}
	if in.Title != nil {
		l.Title = *in.Title
	}
	if in.Content != nil {
		l.Content = *in.Content
	}
	if in.Banner != nil {
		l.Banner = *in.Banner
	}
	if in.URL != nil {
		l.URL = *in.URL
	}
	if err := s.repo.Save(ctx, l); err != nil {
		return nil, mapRepoError(err, "友链")
	}
	return l, nil
}

func (s *LinkService) Delete(ctx context.Context, id uint64) error {
	return mapRepoError(s.repo.Delete(ctx, id), "友链")
}
