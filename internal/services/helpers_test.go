package services

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/CioFlingar/Library-Management-API/internal/logger"
	"github.com/CioFlingar/Library-Management-API/internal/models"
	"github.com/CioFlingar/Library-Management-API/internal/repositories"
)

// newTestDB opens a fresh in-memory sqlite store. The pool is pinned to a
// single connection because every :memory: connection is its own database.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Author{},
		&models.Category{},
		&models.Book{},
		&models.Borrow{},
	))
	return db
}

type testEnv struct {
	db         *gorm.DB
	userRepo   repositories.UserRepository
	bookRepo   repositories.BookRepository
	borrowRepo repositories.BorrowRepository
	borrowSvc  BorrowService
	catalogSvc CatalogService
	userSvc    UserService
	authSvc    AuthService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := newTestDB(t)
	log := logger.NewNop()

	userRepo := repositories.NewUserRepository(db)
	authorRepo := repositories.NewAuthorRepository(db)
	categoryRepo := repositories.NewCategoryRepository(db)
	bookRepo := repositories.NewBookRepository(db)
	borrowRepo := repositories.NewBorrowRepository(db)

	return &testEnv{
		db:         db,
		userRepo:   userRepo,
		bookRepo:   bookRepo,
		borrowRepo: borrowRepo,
		borrowSvc:  NewBorrowService(db, log, userRepo, bookRepo, borrowRepo),
		catalogSvc: NewCatalogService(db, log, authorRepo, categoryRepo, bookRepo),
		userSvc:    NewUserService(db, log, userRepo),
		authSvc:    NewAuthService(db, log, userRepo, "test-secret", testAccessTTL, testRefreshTTL),
	}
}

func (e *testEnv) seedUser(t *testing.T, username string) *models.User {
	t.Helper()
	user := &models.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "x",
	}
	require.NoError(t, e.userRepo.Create(nil, user))
	return user
}

func (e *testEnv) seedBook(t *testing.T, title string, total, available int) *models.Book {
	t.Helper()

	author := &models.Author{Name: "Author of " + title}
	require.NoError(t, e.db.Create(author).Error)
	category := &models.Category{Name: "Category of " + title}
	require.NoError(t, e.db.Create(category).Error)

	book := &models.Book{
		Title:           title,
		AuthorID:        author.ID,
		CategoryID:      category.ID,
		TotalCopies:     total,
		AvailableCopies: available,
	}
	require.NoError(t, e.bookRepo.Create(nil, book))
	return book
}

func (e *testEnv) bookAvailability(t *testing.T, book *models.Book) int {
	t.Helper()
	fresh, err := e.bookRepo.GetByID(nil, book.ID)
	require.NoError(t, err)
	return fresh.AvailableCopies
}

func (e *testEnv) seedBooks(t *testing.T, n, copies int) []*models.Book {
	t.Helper()
	books := make([]*models.Book, 0, n)
	for i := 0; i < n; i++ {
		books = append(books, e.seedBook(t, fmt.Sprintf("Book %d", i), copies, copies))
	}
	return books
}
