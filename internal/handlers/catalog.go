package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/CioFlingar/Library-Management-API/internal/services"
)

type authorRequest struct {
	Name string `json:"name" binding:"required"`
	Bio  string `json:"bio"`
}

type categoryRequest struct {
	Name string `json:"name" binding:"required"`
}

type bookRequest struct {
	Title           string `json:"title" binding:"required"`
	Description     string `json:"description"`
	AuthorID        string `json:"author_id" binding:"required,uuid"`
	CategoryID      string `json:"category_id" binding:"required,uuid"`
	TotalCopies     *int   `json:"total_copies" binding:"required"`
	AvailableCopies *int   `json:"available_copies"`
}

func (r *bookRequest) toInput() services.BookInput {
	// uuid fields already validated by the binding
	authorID, _ := uuid.Parse(r.AuthorID)
	categoryID, _ := uuid.Parse(r.CategoryID)
	return services.BookInput{
		Title:           r.Title,
		Description:     r.Description,
		AuthorID:        authorID,
		CategoryID:      categoryID,
		TotalCopies:     *r.TotalCopies,
		AvailableCopies: r.AvailableCopies,
	}
}

func pathID(c *gin.Context, what string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + what + " id"})
		return uuid.Nil, false
	}
	return id, true
}

func (h *APIHandler) createAuthor(c *gin.Context) {
	var req authorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	author, err := h.catalogSvc.CreateAuthor(req.Name, req.Bio)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, author)
}

func (h *APIHandler) getAuthor(c *gin.Context) {
	id, ok := pathID(c, "author")
	if !ok {
		return
	}
	author, err := h.catalogSvc.GetAuthor(id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, author)
}

func (h *APIHandler) listAuthors(c *gin.Context) {
	authors, err := h.catalogSvc.ListAuthors()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, authors)
}

func (h *APIHandler) updateAuthor(c *gin.Context) {
	id, ok := pathID(c, "author")
	if !ok {
		return
	}
	var req authorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	author, err := h.catalogSvc.UpdateAuthor(id, req.Name, req.Bio)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, author)
}

func (h *APIHandler) deleteAuthor(c *gin.Context) {
	id, ok := pathID(c, "author")
	if !ok {
		return
	}
	if err := h.catalogSvc.DeleteAuthor(id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *APIHandler) createCategory(c *gin.Context) {
	var req categoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	category, err := h.catalogSvc.CreateCategory(req.Name)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, category)
}

func (h *APIHandler) getCategory(c *gin.Context) {
	id, ok := pathID(c, "category")
	if !ok {
		return
	}
	category, err := h.catalogSvc.GetCategory(id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, category)
}

func (h *APIHandler) listCategories(c *gin.Context) {
	categories, err := h.catalogSvc.ListCategories()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, categories)
}

func (h *APIHandler) updateCategory(c *gin.Context) {
	id, ok := pathID(c, "category")
	if !ok {
		return
	}
	var req categoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	category, err := h.catalogSvc.UpdateCategory(id, req.Name)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, category)
}

func (h *APIHandler) deleteCategory(c *gin.Context) {
	id, ok := pathID(c, "category")
	if !ok {
		return
	}
	if err := h.catalogSvc.DeleteCategory(id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *APIHandler) createBook(c *gin.Context) {
	var req bookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	book, err := h.catalogSvc.CreateBook(req.toInput())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, book)
}

func (h *APIHandler) getBook(c *gin.Context) {
	id, ok := pathID(c, "book")
	if !ok {
		return
	}
	book, err := h.catalogSvc.GetBook(id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, book)
}

// listBooks supports ?search= over author and category names.
func (h *APIHandler) listBooks(c *gin.Context) {
	books, err := h.catalogSvc.ListBooks(c.Query("search"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, books)
}

func (h *APIHandler) updateBook(c *gin.Context) {
	id, ok := pathID(c, "book")
	if !ok {
		return
	}
	var req bookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	book, err := h.catalogSvc.UpdateBook(id, req.toInput())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, book)
}

func (h *APIHandler) deleteBook(c *gin.Context) {
	id, ok := pathID(c, "book")
	if !ok {
		return
	}
	if err := h.catalogSvc.DeleteBook(id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
