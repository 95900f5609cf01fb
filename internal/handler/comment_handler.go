package handler

import (
	"Blog_Backend/internal/service"

	"github.com/gin-gonic/gin"
)

type CommentHandler struct {
	svc *service.CommentService
}

func NewCommentHandler(svc *service.CommentService) *CommentHandler {
	return &CommentHandler{svc: svc}
}

type createCommentReq struct {
	ArticleID uint64 `json:"articleId" binding:"required"`
	Content   string `json:"content" binding:"required"`
}

func (h *CommentHandler) Create(c *gin.Context) {
	uid, okUser := currentUser(c)
	if !okUser {
		return
	}
	var req createCommentReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badParams(c, err)
		return
	}
	cm, err := h.svc.Create(c.Request.Context(), uid, req.ArticleID, req.Content)
	if err != nil {
		fail(c, err)
		return
	}
	created(c, cm)
}

// List 带 articleId 时只返回该文章的评论
func (h *CommentHandler) List(c *gin.Context) {
	if c.Query("articleId") != "" {
		h.ListByArticle(c)
		return
	}
	list, err := h.svc.List(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, list)
}

func (h *CommentHandler) ListByArticle(c *gin.Context) {
	var q struct {
		ArticleID uint64 `form:"articleId" binding:"required"`
	}
	if err := c.ShouldBindQuery(&q); err != nil {
		badParams(c, err)
		return
	}
	list, err := h.svc.ListByArticle(c.Request.Context(), q.ArticleID)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, list)
}

func (h *CommentHandler) Delete(c *gin.Context) {
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

func (h *CommentHandler) CreateGuest(c *gin.Context) {
	var req service.GuestCommentInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badParams(c, err)
		return
	}
	cm, err := h.svc.CreateGuest(c.Request.Context(), req)
	if err != nil {
		fail(c, err)
		return
	}
	created(c, cm)
}

func (h *CommentHandler) GuestPage(c *gin.Context) {
	q, okQ := pageQuery(c)
	if !okQ {
		return
	}
	res, err := h.svc.GuestPage(c.Request.Context(), q)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, res)
}
