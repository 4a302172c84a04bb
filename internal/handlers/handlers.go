package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/CioFlingar/Library-Management-API/internal/logger"
	"github.com/CioFlingar/Library-Management-API/internal/services"
)

type APIHandler struct {
	log        *logger.Logger
	authSvc    services.AuthService
	userSvc    services.UserService
	catalogSvc services.CatalogService
	borrowSvc  services.BorrowService
}

func RegisterRoutes(
	r *gin.Engine,
	log *logger.Logger,
	authSvc services.AuthService,
	userSvc services.UserService,
	catalogSvc services.CatalogService,
	borrowSvc services.BorrowService,
) {
	h := &APIHandler{
		log:        log.With("component", "handlers"),
		authSvc:    authSvc,
		userSvc:    userSvc,
		catalogSvc: catalogSvc,
		borrowSvc:  borrowSvc,
	}

	// Accounts and tokens
	r.POST("/register", h.register)
	r.POST("/login", h.login)
	r.POST("/token/refresh", h.refreshToken)
	r.GET("/users/:id/penalties", h.requireAuth(), h.penaltyPoints)

	// Catalog: reads are open, writes are staff-only
	r.GET("/authors", h.listAuthors)
	r.GET("/authors/:id", h.getAuthor)
	r.POST("/authors", h.requireAuth(), h.requireStaff(), h.createAuthor)
	r.PUT("/authors/:id", h.requireAuth(), h.requireStaff(), h.updateAuthor)
	r.DELETE("/authors/:id", h.requireAuth(), h.requireStaff(), h.deleteAuthor)

	r.GET("/categories", h.listCategories)
	r.GET("/categories/:id", h.getCategory)
	r.POST("/categories", h.requireAuth(), h.requireStaff(), h.createCategory)
	r.PUT("/categories/:id", h.requireAuth(), h.requireStaff(), h.updateCategory)
	r.DELETE("/categories/:id", h.requireAuth(), h.requireStaff(), h.deleteCategory)

	r.GET("/books", h.listBooks)
	r.GET("/books/:id", h.getBook)
	r.POST("/books", h.requireAuth(), h.requireStaff(), h.createBook)
	r.PUT("/books/:id", h.requireAuth(), h.requireStaff(), h.updateBook)
	r.DELETE("/books/:id", h.requireAuth(), h.requireStaff(), h.deleteBook)

	// Borrowing
	r.GET("/borrow", h.requireAuth(), h.listBorrows)
	r.POST("/borrow", h.requireAuth(), h.checkout)
	r.POST("/return", h.requireAuth(), h.returnBorrow)
}

// respondError maps service sentinel errors onto HTTP statuses and surfaces
// their message to the caller. Anything unrecognised is a 500.
func respondError(c *gin.Context, err error) {
	c.JSON(statusFor(err), gin.H{"error": err.Error()})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, services.ErrBookNotFound),
		errors.Is(err, services.ErrBorrowNotFound),
		errors.Is(err, services.ErrAuthorNotFound),
		errors.Is(err, services.ErrCategoryNotFound),
		errors.Is(err, services.ErrUserNotFound):
		return http.StatusNotFound
	case errors.Is(err, services.ErrPermissionDenied):
		return http.StatusForbidden
	case errors.Is(err, services.ErrInvalidCredentials),
		errors.Is(err, services.ErrInvalidToken):
		return http.StatusUnauthorized
	case errors.Is(err, services.ErrBookIDRequired),
		errors.Is(err, services.ErrBorrowIDRequired),
		errors.Is(err, services.ErrBorrowLimitReached),
		errors.Is(err, services.ErrNoCopiesAvailable),
		errors.Is(err, services.ErrInvalidCopyCounts),
		errors.Is(err, services.ErrUsernameTaken):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
