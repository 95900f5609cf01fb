package handler

import (
	"Blog_Backend/internal/service"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	svc          *service.UserService
	interactions *service.InteractionService
}

func NewUserHandler(svc *service.UserService, interactions *service.InteractionService) *UserHandler {
	return &UserHandler{svc: svc, interactions: interactions}
}

type updateRoleReq struct {
	RoleID uint64 `json:"roleId" binding:"required"`
}

func (h *UserHandler) Create(c *gin.Context) {
	var req service.CreateUserInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badParams(c, err)
		return
	}
	u, err := h.svc.Create(c.Request.Context(), req)
	if err != nil {
		fail(c, err)
		return
	}
	created(c, u)
}

// Register 自助注册
func (h *UserHandler) Register(c *gin.Context) {
	var req service.CreateUserInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badParams(c, err)
		return
	}
	u, err := h.svc.Register(c.Request.Context(), req)
	if err != nil {
		fail(c, err)
		return
	}
	created(c, u)
}

func (h *UserHandler) List(c *gin.Context) {
	q, okQ := pageQuery(c)
	if !okQ {
		return
	}
	res, err := h.svc.List(c.Request.Context(), q)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, res)
}

func (h *UserHandler) Get(c *gin.Context) {
	id, okID := idParam(c, "id")
	if !okID {
		return
	}
	p, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, p)
}

func (h *UserHandler) Update(c *gin.Context) {
	id, okID := idParam(c, "id")
	if !okID {
		return
	}
	var req service.UpdateUserInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badParams(c, err)
		return
	}
	u, err := h.svc.Update(c.Request.Context(), id, req)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, u)
}

func (h *UserHandler) UpdateRole(c *gin.Context) {
	id, okID := idParam(c, "id")
	if !okID {
		return
	}
	var req updateRoleReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badParams(c, err)
		return
	}
	u, err := h.svc.UpdateRole(c.Request.Context(), id, req.RoleID)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, u)
}

func (h *UserHandler) Delete(c *gin.Context) {
	id, okID := idParam(c, "id")
	if !okID {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		fail(c, err)
		return
	}
	noContent(c)
}

func (h *UserHandler) Stats(c *gin.Context) {
	id, okID := idParam(c, "id")
	if !okID {
		return
	}
	s, err := h.svc.Stats(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, s)
}

func (h *UserHandler) Following(c *gin.Context) {
	id, q, okArgs := idAndPage(c)
	if !okArgs {
		return
	}
	res, err := h.interactions.Followings(c.Request.Context(), id, q)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, res)
}

func (h *UserHandler) Followers(c *gin.Context) {
	id, q, okArgs := idAndPage(c)
	if !okArgs {
		return
	}
	res, err := h.interactions.Followers(c.Request.Context(), id, q)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, res)
}

func (h *UserHandler) LikedArticles(c *gin.Context) {
	id, q, okArgs := idAndPage(c)
	if !okArgs {
		return
	}
	res, err := h.interactions.LikedArticles(c.Request.Context(), id, q)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, res)
}

func (h *UserHandler) FavoriteArticles(c *gin.Context) {
	id, q, okArgs := idAndPage(c)
	if !okArgs {
		return
	}
	res, err := h.interactions.FavoriteArticles(c.Request.Context(), id, q)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, res)
}
