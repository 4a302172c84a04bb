package repositories

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/CioFlingar/Library-Management-API/internal/models"
)

type UserRepository interface {
	Create(db *gorm.DB, user *models.User) error
	GetByID(db *gorm.DB, id uuid.UUID) (*models.User, error)
	GetByUsername(db *gorm.DB, username string) (*models.User, error)
	AddPenaltyPoints(db *gorm.DB, userID uuid.UUID, points int) error
}

type AuthorRepository interface {
	Create(db *gorm.DB, author *models.Author) error
	GetByID(db *gorm.DB, id uuid.UUID) (*models.Author, error)
	List(db *gorm.DB) ([]models.Author, error)
	Update(db *gorm.DB, author *models.Author) error
	Delete(db *gorm.DB, id uuid.UUID) error
}

type CategoryRepository interface {
	Create(db *gorm.DB, category *models.Category) error
	GetByID(db *gorm.DB, id uuid.UUID) (*models.Category, error)
	List(db *gorm.DB) ([]models.Category, error)
	Update(db *gorm.DB, category *models.Category) error
	Delete(db *gorm.DB, id uuid.UUID) error
}

type BookRepository interface {
	Create(db *gorm.DB, book *models.Book) error
	GetByID(db *gorm.DB, id uuid.UUID) (*models.Book, error)
	GetByIDForUpdate(db *gorm.DB, id uuid.UUID) (*models.Book, error)
	List(db *gorm.DB, search string) ([]models.Book, error)
	Update(db *gorm.DB, book *models.Book) error
	Delete(db *gorm.DB, id uuid.UUID) error
	AdjustAvailableCopies(db *gorm.DB, bookID uuid.UUID, delta int) error
}

type BorrowRepository interface {
	Create(db *gorm.DB, borrow *models.Borrow) error
	CountActiveByUser(db *gorm.DB, userID uuid.UUID) (int64, error)
	GetActiveForUpdate(db *gorm.DB, borrowID, userID uuid.UUID) (*models.Borrow, error)
	ListActiveByUser(db *gorm.DB, userID uuid.UUID) ([]models.Borrow, error)
	MarkReturned(db *gorm.DB, borrowID uuid.UUID, returnedAt time.Time) error
}

// concrete implementations

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(db *gorm.DB, user *models.User) error {
	if db == nil {
		db = r.db
	}
	return db.Create(user).Error
}

func (r *userRepository) GetByID(db *gorm.DB, id uuid.UUID) (*models.User, error) {
	if db == nil {
		db = r.db
	}
	var user models.User
	if err := db.First(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) GetByUsername(db *gorm.DB, username string) (*models.User, error) {
	if db == nil {
		db = r.db
	}
	var user models.User
	if err := db.First(&user, "username = ?", username).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) AddPenaltyPoints(db *gorm.DB, userID uuid.UUID, points int) error {
	if db == nil {
		db = r.db
	}
	return db.Model(&models.User{}).
		Where("id = ?", userID).
		UpdateColumn("penalty_points", gorm.Expr("penalty_points + ?", points)).
		Error
}

type authorRepository struct {
	db *gorm.DB
}

func NewAuthorRepository(db *gorm.DB) AuthorRepository {
	return &authorRepository{db: db}
}

func (r *authorRepository) Create(db *gorm.DB, author *models.Author) error {
	if db == nil {
		db = r.db
	}
	return db.Create(author).Error
}

func (r *authorRepository) GetByID(db *gorm.DB, id uuid.UUID) (*models.Author, error) {
	if db == nil {
		db = r.db
	}
	var author models.Author
	if err := db.First(&author, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &author, nil
}

func (r *authorRepository) List(db *gorm.DB) ([]models.Author, error) {
	if db == nil {
		db = r.db
	}
	var authors []models.Author
	if err := db.Order("name").Find(&authors).Error; err != nil {
		return nil, err
	}
	return authors, nil
}

func (r *authorRepository) Update(db *gorm.DB, author *models.Author) error {
	if db == nil {
		db = r.db
	}
	return db.Save(author).Error
}

func (r *authorRepository) Delete(db *gorm.DB, id uuid.UUID) error {
	if db == nil {
		db = r.db
	}
	return db.Delete(&models.Author{}, "id = ?", id).Error
}

type categoryRepository struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) CategoryRepository {
	return &categoryRepository{db: db}
}

func (r *categoryRepository) Create(db *gorm.DB, category *models.Category) error {
	if db == nil {
		db = r.db
	}
	return db.Create(category).Error
}

func (r *categoryRepository) GetByID(db *gorm.DB, id uuid.UUID) (*models.Category, error) {
	if db == nil {
		db = r.db
	}
	var category models.Category
	if err := db.First(&category, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *categoryRepository) List(db *gorm.DB) ([]models.Category, error) {
	if db == nil {
		db = r.db
	}
	var categories []models.Category
	if err := db.Order("name").Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

func (r *categoryRepository) Update(db *gorm.DB, category *models.Category) error {
	if db == nil {
		db = r.db
	}
	return db.Save(category).Error
}

func (r *categoryRepository) Delete(db *gorm.DB, id uuid.UUID) error {
	if db == nil {
		db = r.db
	}
	return db.Delete(&models.Category{}, "id = ?", id).Error
}

type bookRepository struct {
	db *gorm.DB
}

func NewBookRepository(db *gorm.DB) BookRepository {
	return &bookRepository{db: db}
}

func (r *bookRepository) Create(db *gorm.DB, book *models.Book) error {
	if db == nil {
		db = r.db
	}
	return db.Create(book).Error
}

func (r *bookRepository) GetByID(db *gorm.DB, id uuid.UUID) (*models.Book, error) {
	if db == nil {
		db = r.db
	}
	var book models.Book
	err := db.Preload("Author").Preload("Category").
		First(&book, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &book, nil
}

// GetByIDForUpdate locks the book row (SELECT ... FOR UPDATE) for the
// lifetime of the surrounding transaction, serializing concurrent
// checkouts and returns of the same book.
func (r *bookRepository) GetByIDForUpdate(db *gorm.DB, id uuid.UUID) (*models.Book, error) {
	if db == nil {
		db = r.db
	}
	var book models.Book
	err := db.
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&book, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &book, nil
}

// List returns books, optionally filtered by a case-insensitive match on
// the author or category name.
func (r *bookRepository) List(db *gorm.DB, search string) ([]models.Book, error) {
	if db == nil {
		db = r.db
	}
	q := db.Model(&models.Book{}).Preload("Author").Preload("Category")
	if search != "" {
		pattern := "%" + search + "%"
		q = q.
			Joins("JOIN authors ON authors.id = books.author_id").
			Joins("JOIN categories ON categories.id = books.category_id").
			Where("LOWER(authors.name) LIKE LOWER(?) OR LOWER(categories.name) LIKE LOWER(?)", pattern, pattern)
	}
	var books []models.Book
	if err := q.Order("books.title").Find(&books).Error; err != nil {
		return nil, err
	}
	return books, nil
}

func (r *bookRepository) Update(db *gorm.DB, book *models.Book) error {
	if db == nil {
		db = r.db
	}
	return db.Save(book).Error
}

func (r *bookRepository) Delete(db *gorm.DB, id uuid.UUID) error {
	if db == nil {
		db = r.db
	}
	return db.Delete(&models.Book{}, "id = ?", id).Error
}

func (r *bookRepository) AdjustAvailableCopies(db *gorm.DB, bookID uuid.UUID, delta int) error {
	if db == nil {
		db = r.db
	}
	return db.Model(&models.Book{}).
		Where("id = ?", bookID).
		UpdateColumn("available_copies", gorm.Expr("available_copies + ?", delta)).
		Error
}

type borrowRepository struct {
	db *gorm.DB
}

func NewBorrowRepository(db *gorm.DB) BorrowRepository {
	return &borrowRepository{db: db}
}

func (r *borrowRepository) Create(db *gorm.DB, borrow *models.Borrow) error {
	if db == nil {
		db = r.db
	}
	return db.Create(borrow).Error
}

func (r *borrowRepository) CountActiveByUser(db *gorm.DB, userID uuid.UUID) (int64, error) {
	if db == nil {
		db = r.db
	}
	var count int64
	err := db.Model(&models.Borrow{}).
		Where("user_id = ? AND return_date IS NULL", userID).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

// GetActiveForUpdate locks the caller's active borrow row (FOR UPDATE),
// so a concurrent double-return serializes and the loser sees no active row.
func (r *borrowRepository) GetActiveForUpdate(db *gorm.DB, borrowID, userID uuid.UUID) (*models.Borrow, error) {
	if db == nil {
		db = r.db
	}
	var borrow models.Borrow
	err := db.
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ? AND user_id = ? AND return_date IS NULL", borrowID, userID).
		First(&borrow).Error
	if err != nil {
		return nil, err
	}
	return &borrow, nil
}

func (r *borrowRepository) ListActiveByUser(db *gorm.DB, userID uuid.UUID) ([]models.Borrow, error) {
	if db == nil {
		db = r.db
	}
	var borrows []models.Borrow
	err := db.
		Where("user_id = ? AND return_date IS NULL", userID).
		Order("borrow_date ASC").
		Find(&borrows).Error
	if err != nil {
		return nil, err
	}
	return borrows, nil
}

func (r *borrowRepository) MarkReturned(db *gorm.DB, borrowID uuid.UUID, returnedAt time.Time) error {
	if db == nil {
		db = r.db
	}
	return db.Model(&models.Borrow{}).
		Where("id = ? AND return_date IS NULL", borrowID).
		Update("return_date", returnedAt).
		Error
}
