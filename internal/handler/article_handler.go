package handler

import (
	"Blog_Backend/internal/middleware"
	"Blog_Backend/internal/model"
	"Blog_Backend/internal/service"

	"github.com/gin-gonic/gin"
)

type ArticleHandler struct {
	svc *service.ArticleService
}

func NewArticleHandler(svc *service.ArticleService) *ArticleHandler {
	return &ArticleHandler{svc: svc}
}

func (h *ArticleHandler) Create(c *gin.Context) {
	uid, okUser := currentUser(c)
	if !okUser {
		return
	}
	var req service.ArticleInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badParams(c, err)
		return
	}
	a, err := h.svc.Create(c.Request.Context(), uid, req)
	if err != nil {
		fail(c, err)
		return
	}
	created(c, a)
}

func (h *ArticleHandler) Paginate(c *gin.Context) {
	q, okQ := pageQuery(c)
	if !okQ {
		return
	}
	res, err := h.svc.Paginate(c.Request.Context(), model.ArticleStatus(c.Query("status")), q)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, res)
}

func (h *ArticleHandler) Search(c *gin.Context) {
	q, okQ := pageQuery(c)
	if !okQ {
		return
	}
	res, err := h.svc.SearchByTitle(c.Request.Context(), c.Query("title"), q)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, res)
}

// PublicList 已发布文章，支持标题与标签过滤
func (h *ArticleHandler) PublicList(c *gin.Context) {
	q, okQ := pageQuery(c)
	if !okQ {
		return
	}
	res, err := h.svc.PublicSearch(c.Request.Context(), c.Query("title"), c.Query("tag"), q)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, res)
}

func (h *ArticleHandler) ListByUser(c *gin.Context) {
	userID, okID := idParam(c, "userId")
	if !okID {
		return
	}
	q, okQ := pageQuery(c)
	if !okQ {
		return
	}
	isLoginUser, okB := boolQuery(c, "isLoginUser")
	if !okB {
		return
	}
	caller, _ := middleware.UserID(c)
	res, err := h.svc.ListByUser(c.Request.Context(), caller, userID, isLoginUser != nil && *isLoginUser, q)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, res)
}

func (h *ArticleHandler) Detail(c *gin.Context) {
	id, okID := idParam(c, "id")
	if !okID {
		return
	}
	d, err := h.svc.Detail(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, d)
}

func (h *ArticleHandler) Update(c *gin.Context) {
	uid, okUser := currentUser(c)
	if !okUser {
		return
	}
	id, okID := idParam(c, "id")
	if !okID {
		return
	}
	var req service.ArticleUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		badParams(c, err)
		return
	}
	a, err := h.svc.Update(c.Request.Context(), uid, id, req)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, a)
}

func (h *ArticleHandler) Delete(c *gin.Context) {
	uid, okUser := currentUser(c)
	if !okUser {
		return
	}
	id, okID := idParam(c, "id")
	if !okID {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), uid, id); err != nil {
		fail(c, err)
		return
	}
	noContent(c)
}

func (h *ArticleHandler) Timeline(c *gin.Context) {
	list, err := h.svc.Latest(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, list)
}

func (h *ArticleHandler) Stats(c *gin.Context) {
	s, err := h.svc.Stats(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, s)
}
