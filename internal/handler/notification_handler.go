package handler

import (
	"net/http"

	"Blog_Backend/internal/service"

	"github.com/gin-gonic/gin"
)

type NotificationHandler struct {
	svc *service.NotificationService
}

func NewNotificationHandler(svc *service.NotificationService) *NotificationHandler {
	return &NotificationHandler{svc: svc}
}

type markReadReq struct {
	Read *bool `json:"read"`
}

func (h *NotificationHandler) List(c *gin.Context) {
	uid, okUser := currentUser(c)
	if !okUser {
		return
	}
	h.list(c, uid)
}

// Info 只能查询自己的通知
func (h *NotificationHandler) Info(c *gin.Context) {
	uid, okUser := currentUser(c)
	if !okUser {
		return
	}
	target, okID := idParam(c, "userId")
	if !okID {
		return
	}
	if target != uid {
		abortWith(c, http.StatusForbidden, "只能查看自己的通知")
		return
	}
	h.list(c, uid)
}

func (h *NotificationHandler) list(c *gin.Context, uid uint64) {
	q, okQ := pageQuery(c)
	if !okQ {
		return
	}
	read, okB := boolQuery(c, "read")
	if !okB {
		return
	}
	page, err := h.svc.List(c.Request.Context(), uid, q, read)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, page)
}

func (h *NotificationHandler) MarkRead(c *gin.Context) {
	uid, okUser := currentUser(c)
	if !okUser {
		return
	}
	id, okID := idParam(c, "id")
	if !okID {
		return
	}
	var req markReadReq
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			badParams(c, err)
			return
		}
	}
	read := true
	if req.Read != nil {
		read = *req.Read
	}
	if err := h.svc.MarkAsRead(c.Request.Context(), id, uid, read); err != nil {
		fail(c, err)
		return
	}
	ok(c, gin.H{"id": id, "read": read})
}

func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	uid, okUser := currentUser(c)
	if !okUser {
		return
	}
	n, err := h.svc.MarkAllRead(c.Request.Context(), uid)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, gin.H{"updated": n})
}
