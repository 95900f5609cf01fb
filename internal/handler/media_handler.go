package handler

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"

	"Blog_Backend/internal/service"

	"github.com/gin-gonic/gin"
)

type MediaHandler struct {
	svc      *service.MediaService
	maxBytes int64
}

func NewMediaHandler(svc *service.MediaService, maxBytes int64) *MediaHandler {
	return &MediaHandler{svc: svc, maxBytes: maxBytes}
}

func uploadFile(fh *multipart.FileHeader) service.UploadFile {
	return service.UploadFile{
		Name:        fh.Filename,
		Size:        fh.Size,
		ContentType: fh.Header.Get("Content-Type"),
		Open:        func() (io.ReadCloser, error) { return fh.Open() },
	}
}

// limitBody 整个请求体的上限，单文件大小由服务层校验
func (h *MediaHandler) limitBody(c *gin.Context, files int64) {
	if h.maxBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxBytes*files+1<<20)
	}
}

func tooLarge(err error) bool {
	var mbe *http.MaxBytesError
	return errors.As(err, &mbe)
}

// Upload 单文件上传到 file 字段
func (h *MediaHandler) Upload(c *gin.Context) {
	h.limitBody(c, 1)
	fh, err := c.FormFile("file")
	if err != nil {
		if tooLarge(err) {
			fail(c, service.ErrPayloadTooLarge)
			return
		}
		badParams(c, err)
		return
	}
	url, err := h.svc.Upload(c.Request.Context(), uploadFile(fh))
	if err != nil {
		fail(c, err)
		return
	}
	created(c, gin.H{"fileUrl": url})
}

const maxImagesPerUpload = 10

func (h *MediaHandler) UploadImages(c *gin.Context) {
	uid, okUser := currentUser(c)
	if !okUser {
		return
	}
	h.limitBody(c, maxImagesPerUpload)
	form, err := c.MultipartForm()
	if err != nil {
		if tooLarge(err) {
			fail(c, service.ErrPayloadTooLarge)
			return
		}
		badParams(c, err)
		return
	}
	headers := form.File["files"]
	if len(headers) > maxImagesPerUpload {
		abortWith(c, http.StatusBadRequest, "一次最多上传 10 张图片")
		return
	}
	files := make([]service.UploadFile, 0, len(headers))
	for _, fh := range headers {
		files = append(files, uploadFile(fh))
	}
	images, err := h.svc.UploadImages(c.Request.Context(), uid, files)
	if err != nil {
		fail(c, err)
		return
	}
	created(c, images)
}

func (h *MediaHandler) Images(c *gin.Context) {
	uid, okUser := currentUser(c)
	if !okUser {
		return
	}
	q, okQ := pageQuery(c)
	if !okQ {
		return
	}
	res, err := h.svc.Images(c.Request.Context(), uid, c.Query("name"), q)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, res)
}

func (h *MediaHandler) DeleteImage(c *gin.Context) {
	uid, okUser := currentUser(c)
	if !okUser {
		return
	}
	id, okID := idParam(c, "id")
	if !okID {
		return
	}
	if err := h.svc.DeleteImage(c.Request.Context(), uid, id); err != nil {
		fail(c, err)
		return
	}
	noContent(c)
}
