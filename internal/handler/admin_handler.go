package handler

import (
	"Blog_Backend/internal/service"

	"github.com/gin-gonic/gin"
)

type idsReq struct {
	IDs []uint64 `json:"ids"`
}

type RoleHandler struct {
	svc *service.RoleService
}

func NewRoleHandler(svc *service.RoleService) *RoleHandler {
	return &RoleHandler{svc: svc}
}

func (h *RoleHandler) Create(c *gin.Context) {
	var req service.RoleInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badParams(c, err)
		return
	}
	r, err := h.svc.Create(c.Request.Context(), req)
	if err != nil {
		fail(c, err)
		return
	}
	created(c, r)
}

func (h *RoleHandler) List(c *gin.Context) {
	q, okQ := pageQuery(c)
	if !okQ {
		return
	}
	res, err := h.svc.List(c.Request.Context(), c.Query("name"), q)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, res)
}

func (h *RoleHandler) Get(c *gin.Context) {
	id, okID := idParam(c, "id")
	if !okID {
		return
	}
	r, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, r)
}

func (h *RoleHandler) Update(c *gin.Context) {
	id, okID := idParam(c, "id")
	if !okID {
		return
	}
	var req service.RoleUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		badParams(c, err)
		return
	}
	r, err := h.svc.Update(c.Request.Context(), id, req)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, r)
}

func (h *RoleHandler) Delete(c *gin.Context) {
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

func (h *RoleHandler) Users(c *gin.Context) {
	id, q, okArgs := idAndPage(c)
	if !okArgs {
		return
	}
	desc, okB := boolQuery(c, "desc")
	if !okB {
		return
	}
	res, err := h.svc.Users(c.Request.Context(), id, c.Query("orderBy"), desc != nil && *desc, q)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, res)
}

func (h *RoleHandler) Permissions(c *gin.Context) {
	id, okID := idParam(c, "id")
	if !okID {
		return
	}
	list, err := h.svc.Permissions(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, list)
}

func (h *RoleHandler) SetPermissions(c *gin.Context) {
	id, okID := idParam(c, "id")
	if !okID {
		return
	}
	var req idsReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badParams(c, err)
		return
	}
	if err := h.svc.SetPermissions(c.Request.Context(), id, req.IDs); err != nil {
		fail(c, err)
		return
	}
	ok(c, nil)
}

func (h *RoleHandler) MenuIDs(c *gin.Context) {
	id, okID := idParam(c, "id")
	if !okID {
		return
	}
	ids, err := h.svc.MenuIDs(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, ids)
}

func (h *RoleHandler) SetMenus(c *gin.Context) {
	id, okID := idParam(c, "id")
	if !okID {
		return
	}
	var req idsReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badParams(c, err)
		return
	}
	if err := h.svc.SetMenus(c.Request.Context(), id, req.IDs); err != nil {
		fail(c, err)
		return
	}
	ok(c, nil)
}

type PermissionHandler struct {
	svc *service.PermissionService
}

func NewPermissionHandler(svc *service.PermissionService) *PermissionHandler {
	return &PermissionHandler{svc: svc}
}

func (h *PermissionHandler) Create(c *gin.Context) {
	var req service.PermissionInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badParams(c, err)
		return
	}
	p, err := h.svc.Create(c.Request.Context(), req)
	if err != nil {
		fail(c, err)
		return
	}
	created(c, p)
}

func (h *PermissionHandler) List(c *gin.Context) {
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

func (h *PermissionHandler) Get(c *gin.Context) {
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

func (h *PermissionHandler) Update(c *gin.Context) {
	id, okID := idParam(c, "id")
	if !okID {
		return
	}
	var req service.PermissionUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		badParams(c, err)
		return
	}
	p, err := h.svc.Update(c.Request.Context(), id, req)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, p)
}

func (h *PermissionHandler) Delete(c *gin.Context) {
	id, okID := idParam(c, "id")
	if !okID {
		return
	}
	if err := h.svc.DeleteBatch(c.Request.Context(), []uint64{id}); err != nil {
		fail(c, err)
		return
	}
	noContent(c)
}

func (h *PermissionHandler) BatchDelete(c *gin.Context) {
	var req idsReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badParams(c, err)
		return
	}
	if err := h.svc.DeleteBatch(c.Request.Context(), req.IDs); err != nil {
		fail(c, err)
		return
	}
	noContent(c)
}

type MenuHandler struct {
	svc *service.MenuService
}

func NewMenuHandler(svc *service.MenuService) *MenuHandler {
	return &MenuHandler{svc: svc}
}

func (h *MenuHandler) Create(c *gin.Context) {
	var req service.MenuInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badParams(c, err)
		return
	}
	m, err := h.svc.Create(c.Request.Context(), req)
	if err != nil {
		fail(c, err)
		return
	}
	created(c, m)
}

func (h *MenuHandler) Update(c *gin.Context) {
	id, okID := idParam(c, "id")
	if !okID {
		return
	}
	var req service.MenuUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		badParams(c, err)
		return
	}
	m, err := h.svc.Update(c.Request.Context(), id, req)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, m)
}

func (h *MenuHandler) Delete(c *gin.Context) {
	id, okID := idParam(c, "id")
	if !okID {
		return
	}
	n, err := h.svc.Delete(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, gin.H{"deleted": n})
}

func (h *MenuHandler) Page(c *gin.Context) {
	q, okQ := pageQuery(c)
	if !okQ {
		return
	}
	res, err := h.svc.PageTrees(c.Request.Context(), q)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, res)
}

func (h *MenuHandler) Tree(c *gin.Context) {
	tree, err := h.svc.Tree(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, tree)
}

func (h *MenuHandler) Get(c *gin.Context) {
	id, okID := idParam(c, "id")
	if !okID {
		return
	}
	m, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, m)
}

func (h *MenuHandler) UserMenus(c *gin.Context) {
	uid, okUser := currentUser(c)
	if !okUser {
		return
	}
	tree, err := h.svc.UserTree(c.Request.Context(), uid)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, tree)
}

func (h *MenuHandler) UserButtons(c *gin.Context) {
	uid, okUser := currentUser(c)
	if !okUser {
		return
	}
	codes, err := h.svc.UserButtons(c.Request.Context(), uid)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, codes)
}
