package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"rentlens/internal/csvexport"
	"rentlens/internal/service"
)

// ListingHandler handles listing management endpoints.
type ListingHandler struct {
	listingService service.ListingService
}

// NewListingHandler creates a new ListingHandler.
func NewListingHandler(listingService service.ListingService) *ListingHandler {
	return &ListingHandler{listingService: listingService}
}

// CreateListingRequest is the request body for submitting a listing.
type CreateListingRequest struct {
	Text string `json:"text" binding:"required"`
}

// Create handles POST /api/v1/listings
func (h *ListingHandler) Create(c *gin.Context) {
	var req CreateListingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	listing, err := h.listingService.Create(c.Request.Context(), &service.CreateListingInput{RawText: req.Text})
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondCreated(c, listing)
}

// List handles GET /api/v1/listings
func (h *ListingHandler) List(c *gin.Context) {
	offset, limit := parsePagination(c)

	listings, total, err := h.listingService.List(c.Request.Context(), offset, limit)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondPaginated(c, listings, PagMeta{Total: total, Offset: offset, Limit: limit})
}

// GetByID handles GET /api/v1/listings/:id
func (h *ListingHandler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid listing id")
		return
	}

	listing, err := h.listingService.GetByID(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, listing)
}

// Delete handles DELETE /api/v1/listings/:id
func (h *ListingHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid listing id")
		return
	}

	if err := h.listingService.Delete(c.Request.Context(), id); err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, gin.H{"deleted": id})
}

// RetryExtract handles POST /api/v1/listings/:id/extract
func (h *ListingHandler) RetryExtract(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid listing id")
		return
	}

	listing, err := h.listingService.RetryExtract(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, listing)
}

// GetValidation handles GET /api/v1/listings/:id/validation
func (h *ListingHandler) GetValidation(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid listing id")
		return
	}

	resp, err := h.listingService.GetValidation(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, resp)
}

// Export handles GET /api/v1/listings/export
func (h *ListingHandler) Export(c *gin.Context) {
	listings, err := h.listingService.ListAll(c.Request.Context())
	if err != nil {
		HandleError(c, err)
		return
	}

	filename := fmt.Sprintf("listings-%s.csv", time.Now().UTC().Format("20060102-150405"))
	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Status(http.StatusOK)

	// Excel needs the BOM to pick UTF-8; it must precede the header row.
	if _, err := c.Writer.Write(csvexport.BOM); err != nil {
		RespondError(c, http.StatusInternalServerError, "EXPORT_FAILED", fmt.Sprintf("writing csv preamble: %v", err))
		return
	}

	w := csvexport.NewWriter(c.Writer)
	if err := w.WriteHeader(); err != nil {
		RespondError(c, http.StatusInternalServerError, "EXPORT_FAILED", fmt.Sprintf("writing csv header: %v", err))
		return
	}
	if err := w.WriteListings(listings); err != nil {
		RespondError(c, http.StatusInternalServerError, "EXPORT_FAILED", fmt.Sprintf("writing csv rows: %v", err))
		return
	}
	w.Flush()
}

// parsePagination extracts offset/limit query params with sane bounds.
func parsePagination(c *gin.Context) (offset, limit int) {
	offset, _ = strconv.Atoi(c.DefaultQuery("offset", "0"))
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", "20"))
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return offset, limit
}
