package importer

import (
	"context"
	"encoding/base64"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"menuchat/internal/core"
)

const maxImageBytes = 8 << 20

// ImageUploader turns an uploaded image into a URL the model can read.
type ImageUploader func(ctx context.Context, file *multipart.FileHeader) (string, error)

type Handler struct {
	service *Service
	upload  ImageUploader
}

// NewHandler falls back to inline data: URLs when upload is nil.
func NewHandler(service *Service, upload ImageUploader) *Handler {
	if upload == nil {
		upload = InlineImage
	}
	return &Handler{service: service, upload: upload}
}

type importRequest struct {
	URL      string `json:"url"`
	Text     string `json:"text"`
	ImageURL string `json:"imageUrl"`
	Replace  bool   `json:"replace"`
}

// --------------------------------------------------
// POST /restaurants/:id/import/menu
// --------------------------------------------------
func (h *Handler) ImportMenu(c *gin.Context) {
	h.handleImport(c, KindMenu)
}

// --------------------------------------------------
// POST /restaurants/:id/import/offers
// --------------------------------------------------
func (h *Handler) ImportOffers(c *gin.Context) {
	h.handleImport(c, KindOffers)
}

// --------------------------------------------------
// POST /restaurants/:id/import/metadata
// --------------------------------------------------
func (h *Handler) ImportMetadata(c *gin.Context) {
	h.handleImport(c, KindMetadata)
}

// --------------------------------------------------
// POST /admin/rescan
// --------------------------------------------------
func (h *Handler) Rescan(c *gin.Context) {
	results := h.service.RescanAll(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{"results": results})
}

func (h *Handler) handleImport(c *gin.Context, kind Kind) {
	req, err := h.bindRequest(c)
	if err != nil {
		_ = c.Error(err)
		c.JSON(core.HTTPStatus(err), gin.H{"error": core.PublicMessage(err)})
		return
	}

	src := Source{URL: req.URL, Text: req.Text, ImageURL: req.ImageURL}
	rec, err := h.service.Import(c.Request.Context(), c.Param("id"), kind, src, req.Replace)
	if err != nil {
		_ = c.Error(err)
		c.JSON(core.HTTPStatus(err), gin.H{"error": core.PublicMessage(err)})
		return
	}

	c.JSON(http.StatusOK, rec)
}

func (h *Handler) bindRequest(c *gin.Context) (importRequest, error) {
	var req importRequest

	if !strings.HasPrefix(c.ContentType(), "multipart/") {
		if err := c.ShouldBindJSON(&req); err != nil {
			return req, core.Validation("invalid request body")
		}
		return req, nil
	}

	req.URL = c.PostForm("url")
	req.Text = c.PostForm("text")
	req.ImageURL = c.PostForm("imageUrl")
	req.Replace, _ = strconv.ParseBool(c.PostForm("replace"))

	file, err := c.FormFile("image")
	if err == http.ErrMissingFile {
		return req, nil
	}
	if err != nil {
		return req, core.Validation("invalid image upload")
	}
	if file.Size > maxImageBytes {
		return req, core.Validation("image too large")
	}

	url, err := h.upload(c.Request.Context(), file)
	if err != nil {
		return req, err
	}
	req.ImageURL = url
	return req, nil
}

// InlineImage encodes an uploaded image as a data: URL.
func InlineImage(_ context.Context, file *multipart.FileHeader) (string, error) {
	f, err := file.Open()
	if err != nil {
		return "", core.Validation("cannot read image upload")
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, maxImageBytes))
	if err != nil {
		return "", core.Validation("cannot read image upload")
	}

	mime := http.DetectContentType(data)
	if !strings.HasPrefix(mime, "image/") {
		return "", core.Validation("upload is not an image")
	}
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data), nil
}
