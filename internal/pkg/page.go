package pkg

import "errors"

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
)

var ErrInvalidPage = errors.New("page must be >= 1 and limit between 1 and 100")

// PageQuery 通用分页参数
type PageQuery struct {
	Page  int `form:"page" json:"page"`
	Limit int `form:"limit" json:"limit"`
}

// Normalize 缺省值补齐后校验范围
func (q *PageQuery) Normalize() error {
	if q.Page == 0 {
		q.Page = DefaultPage
	}
	if q.Limit == 0 {
		q.Limit = DefaultLimit
	}
	if q.Page < 1 || q.Limit < 1 || q.Limit > MaxLimit {
		return ErrInvalidPage
	}
	return nil
}

func (q PageQuery) Offset() int {
	return (q.Page - 1) * q.Limit
}

type PageResult[T any] struct {
	Records    []T   `json:"records"`
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int64 `json:"totalPages"`
}

func NewPageResult[T any](records []T, total int64, q PageQuery) PageResult[T] {
	if records == nil {
		records = []T{}
	}
	pages := int64(0)
	if q.Limit > 0 {
		pages = (total + int64(q.Limit) - 1) / int64(q.Limit)
	}
	return PageResult[T]{Records: records, Total: total, Page: q.Page, Limit: q.Limit, TotalPages: pages}
}
