package restaurant

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"menuchat/internal/core"
	"menuchat/internal/offers"
)

type Handler struct {
	store *Store
	now   func() time.Time
}

func NewHandler(store *Store, now func() time.Time) *Handler {
	return &Handler{store: store, now: now}
}

// --------------------------------------------------
// GET /restaurants
// --------------------------------------------------
func (h *Handler) List(c *gin.Context) {
	c.JSON(http.StatusOK, h.store.List())
}

// --------------------------------------------------
// GET /restaurants/:id
// --------------------------------------------------
func (h *Handler) Get(c *gin.Context) {
	rec, ok := h.store.Get(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "restaurant not found"})
		return
	}
	c.JSON(http.StatusOK, rec)
}

// --------------------------------------------------
// POST /restaurants/:id
// Body: any record fields, plus optional replace / replaceOffers flags.
// --------------------------------------------------
func (h *Handler) Upsert(c *gin.Context) {
	var patch Patch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	rec, err := h.store.Upsert(c.Request.Context(), c.Param("id"), patch)
	if err != nil {
		_ = c.Error(err)
		c.JSON(core.HTTPStatus(err), gin.H{"error": core.PublicMessage(err)})
		return
	}

	c.JSON(http.StatusOK, rec)
}

// --------------------------------------------------
// DELETE /restaurants/:id
// --------------------------------------------------
func (h *Handler) Delete(c *gin.Context) {
	if err := h.store.Delete(c.Request.Context(), c.Param("id")); err != nil {
		_ = c.Error(err)
		c.JSON(core.HTTPStatus(err), gin.H{"error": core.PublicMessage(err)})
		return
	}
	c.Status(http.StatusNoContent)
}

// --------------------------------------------------
// GET /restaurants/:id/offers/active
// --------------------------------------------------
func (h *Handler) ActiveOffers(c *gin.Context) {
	rec, ok := h.store.Get(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "restaurant not found"})
		return
	}
	c.JSON(http.StatusOK, offers.Active(rec.Offers, h.now()))
}
