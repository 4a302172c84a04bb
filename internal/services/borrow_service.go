package services

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/CioFlingar/Library-Management-API/internal/logger"
	"github.com/CioFlingar/Library-Management-API/internal/models"
	"github.com/CioFlingar/Library-Management-API/internal/repositories"
)

// MaxActiveBorrows is the borrowing cap: a user may hold at most this many
// active borrows at once.
const MaxActiveBorrows = 3

// BorrowService orchestrates checkout and return against the borrow ledger,
// the book catalog and the user store.
type BorrowService interface {
	Checkout(userID, bookID uuid.UUID) (*models.Borrow, error)
	Return(userID, borrowID uuid.UUID) (*models.Borrow, error)
	ListActive(userID uuid.UUID) ([]models.Borrow, error)
}

type borrowService struct {
	db         *gorm.DB
	log        *logger.Logger
	userRepo   repositories.UserRepository
	bookRepo   repositories.BookRepository
	borrowRepo repositories.BorrowRepository
}

func NewBorrowService(
	db *gorm.DB,
	log *logger.Logger,
	userRepo repositories.UserRepository,
	bookRepo repositories.BookRepository,
	borrowRepo repositories.BorrowRepository,
) BorrowService {
	return &borrowService{
		db:         db,
		log:        log.With("service", "BorrowService"),
		userRepo:   userRepo,
		bookRepo:   bookRepo,
		borrowRepo: borrowRepo,
	}
}

// Checkout implements the transactional checkout flow.
//
// Preconditions, checked in order, each a distinct failure:
//  1. book id present
//  2. the user holds fewer than MaxActiveBorrows active borrows
//  3. the book exists (row locked with SELECT FOR UPDATE)
//  4. at least one copy is available
//
// On success a Borrow is created (due in models.LoanPeriodDays days) and
// available_copies is decremented, both inside one transaction. The row lock
// taken in step 3 is what keeps two concurrent checkouts of the last copy
// from driving the counter negative.
//
// The active-borrow count in step 2 is deliberately read without a lock:
// concurrent requests from the same user can transiently exceed the cap.
// It is a soft limit, unlike the inventory guard.
func (s *borrowService) Checkout(userID, bookID uuid.UUID) (*models.Borrow, error) {
	if bookID == uuid.Nil {
		return nil, ErrBookIDRequired
	}

	var created *models.Borrow

	err := s.db.Transaction(func(tx *gorm.DB) error {
		active, err := s.borrowRepo.CountActiveByUser(tx, userID)
		if err != nil {
			return err
		}
		if active >= MaxActiveBorrows {
			return ErrBorrowLimitReached
		}

		book, err := s.bookRepo.GetByIDForUpdate(tx, bookID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrBookNotFound
			}
			return err
		}

		if book.AvailableCopies < 1 {
			s.log.Info("Checkout: no copies available", "book_id", bookID, "user_id", userID)
			return ErrNoCopiesAvailable
		}

		now := time.Now().UTC()
		borrow := &models.Borrow{
			UserID:     userID,
			BookID:     bookID,
			BorrowDate: now,
			DueDate:    now.AddDate(0, 0, models.LoanPeriodDays),
		}
		if err := s.borrowRepo.Create(tx, borrow); err != nil {
			s.log.Error("Checkout: failed to create borrow record", "err", err)
			return err
		}
		if err := s.bookRepo.AdjustAvailableCopies(tx, bookID, -1); err != nil {
			s.log.Error("Checkout: failed to decrement available copies", "book_id", bookID, "err", err)
			return err
		}

		created = borrow
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("Checkout: borrow created",
		"borrow_id", created.ID, "user_id", userID, "book_id", bookID,
		"due_date", created.DueDate.Format("2006-01-02"))
	return created, nil
}

// Return implements the transactional return flow.
//
// Steps (all in one transaction):
//  1. Lock the caller's active borrow row (FOR UPDATE); a missing row —
//     unknown id, someone else's borrow, or an already-returned one —
//     is a single NotFound failure.
//  2. Set return_date (exactly once; the active-row predicate makes a
//     second return miss in step 1).
//  3. Increment the book's available_copies.
//  4. If the return is days late, add that many penalty points to the user.
func (s *borrowService) Return(userID, borrowID uuid.UUID) (*models.Borrow, error) {
	if borrowID == uuid.Nil {
		return nil, ErrBorrowIDRequired
	}

	var returned *models.Borrow

	err := s.db.Transaction(func(tx *gorm.DB) error {
		borrow, err := s.borrowRepo.GetActiveForUpdate(tx, borrowID, userID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrBorrowNotFound
			}
			return err
		}

		now := time.Now().UTC()
		if err := s.borrowRepo.MarkReturned(tx, borrow.ID, now); err != nil {
			s.log.Error("Return: failed to mark borrow returned", "borrow_id", borrowID, "err", err)
			return err
		}
		borrow.ReturnDate = &now

		if err := s.bookRepo.AdjustAvailableCopies(tx, borrow.BookID, 1); err != nil {
			s.log.Error("Return: failed to increment available copies", "book_id", borrow.BookID, "err", err)
			return err
		}

		if daysLate := borrow.DaysLate(now); daysLate > 0 {
			if err := s.userRepo.AddPenaltyPoints(tx, userID, daysLate); err != nil {
				s.log.Error("Return: failed to add penalty points", "user_id", userID, "err", err)
				return err
			}
			s.log.Info("Return: late return penalised",
				"borrow_id", borrowID, "user_id", userID, "days_late", daysLate)
		}

		returned = borrow
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("Return: borrow closed", "borrow_id", borrowID, "user_id", userID)
	return returned, nil
}

// ListActive returns the user's active borrows ordered by borrow date.
func (s *borrowService) ListActive(userID uuid.UUID) ([]models.Borrow, error) {
	return s.borrowRepo.ListActiveByUser(nil, userID)
}
