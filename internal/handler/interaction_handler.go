package handler

import (
	"context"

	"Blog_Backend/internal/service"

	"github.com/gin-gonic/gin"
)

type InteractionHandler struct {
	svc *service.InteractionService
}

func NewInteractionHandler(svc *service.InteractionService) *InteractionHandler {
	return &InteractionHandler{svc: svc}
}

type followAuthorReq struct {
	AuthorID uint64 `json:"authorId" binding:"required"`
}

type articleTargetReq struct {
	ArticleID uint64 `json:"articleId" binding:"required"`
}

type toggleResp struct {
	Success bool `json:"success"`
	Result  bool `json:"result"`
}

// 操作者一律取自 token
func (h *InteractionHandler) FollowAuthor(c *gin.Context) {
	var req followAuthorReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badParams(c, err)
		return
	}
	h.toggle(c, req.AuthorID, h.svc.ToggleFollow)
}

func (h *InteractionHandler) LikeArticle(c *gin.Context) {
	var req articleTargetReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badParams(c, err)
		return
	}
	h.toggle(c, req.ArticleID, h.svc.ToggleLike)
}

func (h *InteractionHandler) FavoriteArticle(c *gin.Context) {
	var req articleTargetReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badParams(c, err)
		return
	}
	h.toggle(c, req.ArticleID, h.svc.ToggleFavorite)
}

func (h *InteractionHandler) toggle(c *gin.Context, target uint64, fn func(ctx context.Context, actorID, target uint64) (bool, error)) {
	uid, okUser := currentUser(c)
	if !okUser {
		return
	}
	state, err := fn(c.Request.Context(), uid, target)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, toggleResp{Success: true, Result: state})
}

func (h *InteractionHandler) Status(c *gin.Context) {
	uid, okUser := currentUser(c)
	if !okUser {
		return
	}
	articleID, okID := idParam(c, "articleId")
	if !okID {
		return
	}
	st, err := h.svc.Status(c.Request.Context(), uid, articleID)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, st)
}
