package handler

import (
	"Blog_Backend/internal/service"

	"github.com/gin-gonic/gin"
)

type ContentHandler struct {
	diaries *service.DiaryService
	links   *service.LinkService
	dicts   *service.DictService
	visits  *service.VisitService
}

func NewContentHandler(diaries *service.DiaryService, links *service.LinkService, dicts *service.DictService, visits *service.VisitService) *ContentHandler {
	return &ContentHandler{diaries: diaries, links: links, dicts: dicts, visits: visits}
}

type postReq struct {
	Username string `json:"username" binding:"required"`
	Content  string `json:"content" binding:"required"`
}

type monthQuery struct {
	Year     int    `form:"year" binding:"required"`
	Month    int    `form:"month" binding:"required"`
	Username string `form:"username"`
}

func (h *ContentHandler) CreateDiary(c *gin.Context) {
	var req postReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badParams(c, err)
		return
	}
	d, err := h.diaries.Create(c.Request.Context(), req.Username, req.Content)
	if err != nil {
		fail(c, err)
		return
	}
	created(c, d)
}

func (h *ContentHandler) DiariesByDay(c *gin.Context) {
	list, err := h.diaries.ByDay(c.Request.Context(), c.Query("date"))
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, list)
}

func (h *ContentHandler) DiaryMonth(c *gin.Context) {
	var q monthQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badParams(c, err)
		return
	}
	days, err := h.diaries.MonthDays(c.Request.Context(), q.Year, q.Month, q.Username)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, days)
}

func (h *ContentHandler) DeleteDiary(c *gin.Context) {
	id, okID := idParam(c, "id")
	if !okID {
		return
	}
	if err := h.diaries.Delete(c.Request.Context(), id); err != nil {
		fail(c, err)
		return
	}
	noContent(c)
}

func (h *ContentHandler) PostMessage(c *gin.Context) {
	var req postReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badParams(c, err)
		return
	}
	m, err := h.diaries.PostMessage(c.Request.Context(), req.Username, req.Content)
	if err != nil {
		fail(c, err)
		return
	}
	created(c, m)
}

func (h *ContentHandler) Messages(c *gin.Context) {
	q, okQ := pageQuery(c)
	if !okQ {
		return
	}
	res, err := h.diaries.Messages(c.Request.Context(), c.Query("username"), q)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, res)
}

func (h *ContentHandler) CreateLink(c *gin.Context) {
	var req service.LinkInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badParams(c, err)
		return
	}
	l, err := h.links.Create(c.Request.Context(), req)
	if err != nil {
		fail(c, err)
		return
	}
	created(c, l)
}

func (h *ContentHandler) Links(c *gin.Context) {
	q, okQ := pageQuery(c)
	if !okQ {
		return
	}
	res, err := h.links.List(c.Request.Context(), q)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, res)
}

func (h *ContentHandler) UpdateLink(c *gin.Context) {
	id, okID := idParam(c, "id")
	if !okID {
		return
	}
	var req service.LinkUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		badParams(c, err)
		return
	}
	l, err := h.links.Update(c.Request.Context(), id, req)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, l)
}

func (h *ContentHandler) DeleteLink(c *gin.Context) {
	id, okID := idParam(c, "id")
	if !okID {
		return
	}
	if err := h.links.Delete(c.Request.Context(), id); err != nil {
		fail(c, err)
		return
	}
	noContent(c)
}

func (h *ContentHandler) CreateDict(c *gin.Context) {
	var req service.DictInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badParams(c, err)
		return
	}
	d, err := h.dicts.Create(c.Request.Context(), req)
	if err != nil {
		fail(c, err)
		return
	}
	created(c, d)
}

func (h *ContentHandler) Dicts(c *gin.Context) {
	q, okQ := pageQuery(c)
	if !okQ {
		return
	}
	res, err := h.dicts.List(c.Request.Context(), c.Query("name"), q)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, res)
}

func (h *ContentHandler) DictEntries(c *gin.Context) {
	entries, err := h.dicts.Entries(c.Request.Context(), c.Param("type"))
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, entries)
}

func (h *ContentHandler) UpdateDict(c *gin.Context) {
	id, okID := idParam(c, "id")
	if !okID {
		return
	}
	var req service.DictUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		badParams(c, err)
		return
	}
	d, err := h.dicts.Update(c.Request.Context(), id, req)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, d)
}

func (h *ContentHandler) DeleteDict(c *gin.Context) {
	id, okID := idParam(c, "id")
	if !okID {
		return
	}
	if err := h.dicts.Delete(c.Request.Context(), id); err != nil {
		fail(c, err)
		return
	}
	noContent(c)
}

func (h *ContentHandler) Visit(c *gin.Context) {
	if err := h.visits.Hit(c.Request.Context()); err != nil {
		fail(c, err)
		return
	}
	ok(c, nil)
}

func (h *ContentHandler) VisitSummary(c *gin.Context) {
	v, err := h.visits.Summary(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, v)
}
