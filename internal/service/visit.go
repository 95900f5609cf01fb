package service

import (
	"context"
	"time"

	"Blog_Backend/internal/repository/mysql"
)

type VisitSummary struct {
	Total int64 `json:"total"`
	Today int64 `json:"today"`
}

type VisitService struct {
	repo *mysql.VisitRepository
	now  func() time.Time
}

func NewVisitService(repo *mysql.VisitRepository) *VisitService {
	return &VisitService{repo: repo, now: time.Now}
}

func (s *VisitService) today() string {
	return s.now().Format(dayLayout)
}

func (s *VisitService) Hit(ctx context.Context) error {
	return s.repo.Increment(ctx, s.today())
}

func (s *VisitService) Summary(ctx context.Context) (VisitSummary, error) {
	var v VisitSummary
	var err error
	if v.Total, err = s.repo.Total(ctx); err != nil {
		return v, err
	}
	if v.Today, err = s.repo.Count(ctx, s.today()); err != nil {
		return v, err
	}
	return v, nil
}
