package services

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/CioFlingar/Library-Management-API/internal/logger"
	"github.com/CioFlingar/Library-Management-API/internal/models"
	"github.com/CioFlingar/Library-Management-API/internal/repositories"
)

// BookInput carries the writable fields of a book. AvailableCopies may be
// nil on create, in which case it defaults to TotalCopies.
type BookInput struct {
	Title           string
	Description     string
	AuthorID        uuid.UUID
	CategoryID      uuid.UUID
	TotalCopies     int
	AvailableCopies *int
}

// CatalogService covers the author/category/book CRUD surface. None of it
// touches the borrow ledger; inventory mutation happens only through the
// borrow service.
type CatalogService interface {
	CreateAuthor(name, bio string) (*models.Author, error)
	GetAuthor(id uuid.UUID) (*models.Author, error)
	ListAuthors() ([]models.Author, error)
	UpdateAuthor(id uuid.UUID, name, bio string) (*models.Author, error)
	DeleteAuthor(id uuid.UUID) error

	CreateCategory(name string) (*models.Category, error)
	GetCategory(id uuid.UUID) (*models.Category, error)
	ListCategories() ([]models.Category, error)
	UpdateCategory(id uuid.UUID, name string) (*models.Category, error)
	DeleteCategory(id uuid.UUID) error

	CreateBook(input BookInput) (*models.Book, error)
	GetBook(id uuid.UUID) (*models.Book, error)
	ListBooks(search string) ([]models.Book, error)
	UpdateBook(id uuid.UUID, input BookInput) (*models.Book, error)
	DeleteBook(id uuid.UUID) error
}

type catalogService struct {
	db           *gorm.DB
	log          *logger.Logger
	authorRepo   repositories.AuthorRepository
	categoryRepo repositories.CategoryRepository
	bookRepo     repositories.BookRepository
}

func NewCatalogService(
	db *gorm.DB,
	log *logger.Logger,
	authorRepo repositories.AuthorRepository,
	categoryRepo repositories.CategoryRepository,
	bookRepo repositories.BookRepository,
) CatalogService {
	return &catalogService{
		db:           db,
		log:          log.With("service", "CatalogService"),
		authorRepo:   authorRepo,
		categoryRepo: categoryRepo,
		bookRepo:     bookRepo,
	}
}

func (s *catalogService) CreateAuthor(name, bio string) (*models.Author, error) {
	author := &models.Author{Name: name, Bio: bio}
	if err := s.authorRepo.Create(nil, author); err != nil {
		return nil, err
	}
	s.log.Info("CreateAuthor: author created", "author_id", author.ID, "name", name)
	return author, nil
}

func (s *catalogService) GetAuthor(id uuid.UUID) (*models.Author, error) {
	author, err := s.authorRepo.GetByID(nil, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAuthorNotFound
		}
		return nil, err
	}
	return author, nil
}

func (s *catalogService) ListAuthors() ([]models.Author, error) {
	return s.authorRepo.List(nil)
}

func (s *catalogService) UpdateAuthor(id uuid.UUID, name, bio string) (*models.Author, error) {
	author, err := s.GetAuthor(id)
	if err != nil {
		return nil, err
	}
	author.Name = name
	author.Bio = bio
	if err := s.authorRepo.Update(nil, author); err != nil {
		return nil, err
	}
	return author, nil
}

func (s *catalogService) DeleteAuthor(id uuid.UUID) error {
	if _, err := s.GetAuthor(id); err != nil {
		return err
	}
	return s.authorRepo.Delete(nil, id)
}

func (s *catalogService) CreateCategory(name string) (*models.Category, error) {
	category := &models.Category{Name: name}
	if err := s.categoryRepo.Create(nil, category); err != nil {
		return nil, err
	}
	s.log.Info("CreateCategory: category created", "category_id", category.ID, "name", name)
	return category, nil
}

func (s *catalogService) GetCategory(id uuid.UUID) (*models.Category, error) {
	category, err := s.categoryRepo.GetByID(nil, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}
	return category, nil
}

func (s *catalogService) ListCategories() ([]models.Category, error) {
	return s.categoryRepo.List(nil)
}

func (s *catalogService) UpdateCategory(id uuid.UUID, name string) (*models.Category, error) {
	category, err := s.GetCategory(id)
	if err != nil {
		return nil, err
	}
	category.Name = name
	if err := s.categoryRepo.Update(nil, category); err != nil {
		return nil, err
	}
	return category, nil
}

func (s *catalogService) DeleteCategory(id uuid.UUID) error {
	if _, err := s.GetCategory(id); err != nil {
		return err
	}
	return s.categoryRepo.Delete(nil, id)
}

// CreateBook validates the author and category references and the copy
// counters before inserting. AvailableCopies defaults to TotalCopies.
func (s *catalogService) CreateBook(input BookInput) (*models.Book, error) {
	available := input.TotalCopies
	if input.AvailableCopies != nil {
		available = *input.AvailableCopies
	}
	if err := s.validateBookInput(input, available); err != nil {
		return nil, err
	}

	book := &models.Book{
		Title:           input.Title,
		Description:     input.Description,
		AuthorID:        input.AuthorID,
		CategoryID:      input.CategoryID,
		TotalCopies:     input.TotalCopies,
		AvailableCopies: available,
	}
	if err := s.bookRepo.Create(nil, book); err != nil {
		return nil, err
	}
	s.log.Info("CreateBook: book created",
		"book_id", book.ID, "title", book.Title, "total_copies", book.TotalCopies)
	return book, nil
}

func (s *catalogService) GetBook(id uuid.UUID) (*models.Book, error) {
	book, err := s.bookRepo.GetByID(nil, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookNotFound
		}
		return nil, err
	}
	return book, nil
}

// ListBooks returns the catalog, filtered by a case-insensitive search over
// author and category names when search is non-empty.
func (s *catalogService) ListBooks(search string) ([]models.Book, error) {
	return s.bookRepo.List(nil, search)
}

func (s *catalogService) UpdateBook(id uuid.UUID, input BookInput) (*models.Book, error) {
	book, err := s.GetBook(id)
	if err != nil {
		return nil, err
	}

	available := book.AvailableCopies
	if input.AvailableCopies != nil {
		available = *input.AvailableCopies
	}
	if err := s.validateBookInput(input, available); err != nil {
		return nil, err
	}

	book.Title = input.Title
	book.Description = input.Description
	book.AuthorID = input.AuthorID
	book.CategoryID = input.CategoryID
	book.TotalCopies = input.TotalCopies
	book.AvailableCopies = available
	book.Author = nil
	book.Category = nil
	if err := s.bookRepo.Update(nil, book); err != nil {
		return nil, err
	}
	return book, nil
}

func (s *catalogService) DeleteBook(id uuid.UUID) error {
	if _, err := s.GetBook(id); err != nil {
		return err
	}
	return s.bookRepo.Delete(nil, id)
}

func (s *catalogService) validateBookInput(input BookInput, available int) error {
	if available < 0 || available > input.TotalCopies || input.TotalCopies < 0 {
		return ErrInvalidCopyCounts
	}
	if _, err := s.GetAuthor(input.AuthorID); err != nil {
		return err
	}
	if _, err := s.GetCategory(input.CategoryID); err != nil {
		return err
	}
	return nil
}
