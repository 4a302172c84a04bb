package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/CioFlingar/Library-Management-API/internal/models"
	"github.com/CioFlingar/Library-Management-API/internal/services"
)

type checkoutRequest struct {
	BookID string `json:"book_id"`
}

type returnRequest struct {
	BorrowID string `json:"borrow_id"`
}

// POST /borrow — create a borrow (checkout) for the caller.
func (h *APIHandler) checkout(c *gin.Context) {
	var req checkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.BookID == "" {
		respondError(c, services.ErrBookIDRequired)
		return
	}
	bookID, err := uuid.Parse(req.BookID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid book id"})
		return
	}

	borrow, err := h.borrowSvc.Checkout(currentIdentity(c).UserID, bookID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, borrow.View(time.Now().UTC()))
}

// POST /return — close one of the caller's active borrows.
func (h *APIHandler) returnBorrow(c *gin.Context) {
	var req returnRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.BorrowID == "" {
		respondError(c, services.ErrBorrowIDRequired)
		return
	}
	borrowID, err := uuid.Parse(req.BorrowID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid borrow id"})
		return
	}

	borrow, err := h.borrowSvc.Return(currentIdentity(c).UserID, borrowID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, borrow.View(time.Now().UTC()))
}

// GET /borrow — list the caller's active borrows, oldest first.
func (h *APIHandler) listBorrows(c *gin.Context) {
	borrows, err := h.borrowSvc.ListActive(currentIdentity(c).UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	now := time.Now().UTC()
	views := make([]models.BorrowView, 0, len(borrows))
	for i := range borrows {
		views = append(views, borrows[i].View(now))
	}
	c.JSON(http.StatusOK, views)
}
