package service

import (
	"context"
	"strings"
	"time"

	"Blog_Backend/internal/model"
	"Blog_Backend/internal/pkg"
	"Blog_Backend/internal/repository/mysql"
)

const dayLayout = "2006-01-02"

type DiaryService struct {
	diaries  *mysql.DiaryRepository
	messages *mysql.MessageRepository
}

func NewDiaryService(diaries *mysql.DiaryRepository, messages *mysql.MessageRepository) *DiaryService {
	return &DiaryService{diaries: diaries, messages: messages}
}

func (s *DiaryService) Create(ctx context.Context, username, content string) (*model.Diary, error) {
	if strings.TrimSpace(content) == "" {
		return nil, badRequest("日记内容不能为空")
	}
	d := &model.Diary{Username: username, Content: content}
	if err := s.diaries.Create(ctx, d); err != nil {
		return nil, mapRepoError(err, "日记")
	}
	return d, nil
}

// ByDay date 形如 2006-01-02，按服务器时区划分
func (s *DiaryService) ByDay(ctx context.Context, date string) ([]model.Diary, error) {
	day, err := time.ParseInLocation(dayLayout, date, time.Local)
	if err != nil {
		return nil, badRequest("日期格式应为 YYYY-MM-DD")
	}
	return s.diaries.ListBetween(ctx, day, day.AddDate(0, 0, 1))
}

// MonthDays 某月中有日记的日期及数量
func (s *DiaryService) MonthDays(ctx context.Context, year, month int, username string) ([]model.DiaryDay, error) {
	if month < 1 || month > 12 || year < 1 {
		return nil, badRequest("无效的年月")
	}
	from := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.Local)
	dates, err := s.diaries.Dates(ctx, from, from.AddDate(0, 1, 0), username)
	if err != nil {
		return nil, err
	}
	return countByDay(dates), nil
}

// countByDay 输入按时间升序
func countByDay(dates []time.Time) []model.DiaryDay {
	out := []model.DiaryDay{}
	for _, t := range dates {
		d := t.In(time.Local).Day()
		if n := len(out); n > 0 && out[n-1].Day == d {
			out[n-1].Count++
			continue
		}
		out = append(out, model.DiaryDay{Day: d, Count: 1})
	}
	return out
}

func (s *DiaryService) Delete(ctx context.Context, id uint64) error {
	return mapRepoError(s.diaries.Delete(ctx, id), "日记")
}

// PostMessage 留言时间取服务器时间
func (s *DiaryService) PostMessage(ctx context.Context, username, content string) (*model.Message, error) {
	if strings.TrimSpace(username) == "" || strings.TrimSpace(content) == "" {
		return nil, badRequest("用户名和内容不能为空")
	}
	m := &model.Message{Username: username, Content: content, Date: time.Now()}
	if err := s.messages.Create(ctx, m); err != nil {
		return nil, mapRepoError(err, "留言")
	}
	return m, nil
}

func (s *DiaryService) Messages(ctx context.Context, username string, q pkg.PageQuery) (pkg.PageResult[model.Message], error) {
	if err := q.Normalize(); err != nil {
		return pkg.PageResult[model.Message]{}, badRequest(err.Error())
	}
	list, total, err := s.messages.List(ctx, username, q.Offset(), q.Limit)
	if err != nil {
		return pkg.PageResult[model.Message]{}, err
	}
	return pkg.NewPageResult(list, total, q), nil
}
