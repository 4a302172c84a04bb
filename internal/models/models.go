package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// LoanPeriodDays is the number of days a user may keep a book before it is overdue.
const LoanPeriodDays = 14

type User struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Username      string    `gorm:"size:150;not null;uniqueIndex" json:"username"`
	Email         string    `gorm:"size:255;not null" json:"email"`
	PasswordHash  string    `gorm:"size:255;not null" json:"-"`
	IsStaff       bool      `gorm:"not null;default:false" json:"is_staff"`
	PenaltyPoints int       `gorm:"not null;default:0" json:"penalty_points"`
}

type Author struct {
	ID   uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name string    `gorm:"size:255;not null" json:"name"`
	Bio  string    `gorm:"type:text" json:"bio"`
}

type Category struct {
	ID   uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name string    `gorm:"size:255;not null" json:"name"`
}

// Book carries a denormalized available_copies counter. The invariant
// 0 <= available_copies <= total_copies must hold after every commit;
// the borrow service preserves it by locking the row around every
// decrement/increment pair.
type Book struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Title           string    `gorm:"size:255;not null" json:"title"`
	Description     string    `gorm:"type:text" json:"description"`
	AuthorID        uuid.UUID `gorm:"type:uuid;not null;index" json:"author_id"`
	Author          *Author   `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"author,omitempty"`
	CategoryID      uuid.UUID `gorm:"type:uuid;not null;index" json:"category_id"`
	Category        *Category `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"category,omitempty"`
	TotalCopies     int       `gorm:"not null" json:"total_copies"`
	AvailableCopies int       `gorm:"not null" json:"available_copies"`
}

// Borrow is the historical loan record. A borrow is "active" while
// ReturnDate is nil; returning sets it exactly once and the row is
// never deleted in normal operation.
type Borrow struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	UserID     uuid.UUID  `gorm:"type:uuid;not null;index" json:"user_id"`
	User       *User      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	BookID     uuid.UUID  `gorm:"type:uuid;not null;index" json:"book_id"`
	Book       *Book      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	BorrowDate time.Time  `gorm:"not null" json:"borrow_date"`
	DueDate    time.Time  `gorm:"not null" json:"due_date"`
	ReturnDate *time.Time `json:"return_date"`
}

// IsLate reports whether the borrow was returned after its due date,
// or is still out past it.
func (b *Borrow) IsLate(now time.Time) bool {
	if b.ReturnDate != nil {
		return b.ReturnDate.After(b.DueDate)
	}
	return now.After(b.DueDate)
}

// DaysLate returns the number of whole 24-hour periods between the due
// date and the return date (or now, while the borrow is still open).
// Returns 0 when the borrow is not late.
func (b *Borrow) DaysLate(now time.Time) int {
	ref := now
	if b.ReturnDate != nil {
		ref = *b.ReturnDate
	}
	if !ref.After(b.DueDate) {
		return 0
	}
	return int(ref.Sub(b.DueDate).Hours() / 24)
}

// BorrowView is the API representation of a borrow. The lateness fields
// are derived at render time and never persisted, so they cannot go stale.
type BorrowView struct {
	ID         uuid.UUID  `json:"id"`
	UserID     uuid.UUID  `json:"user_id"`
	BookID     uuid.UUID  `json:"book_id"`
	BorrowDate time.Time  `json:"borrow_date"`
	DueDate    time.Time  `json:"due_date"`
	ReturnDate *time.Time `json:"return_date"`
	IsLate     bool       `json:"is_late"`
	DaysLate   int        `json:"days_late"`
}

// View computes the API representation of the borrow as of the given instant.
func (b *Borrow) View(now time.Time) BorrowView {
	return BorrowView{
		ID:         b.ID,
		UserID:     b.UserID,
		BookID:     b.BookID,
		BorrowDate: b.BorrowDate,
		DueDate:    b.DueDate,
		ReturnDate: b.ReturnDate,
		IsLate:     b.IsLate(now),
		DaysLate:   b.DaysLate(now),
	}
}

// IDs are assigned in BeforeCreate hooks rather than by a DB default so the
// models behave the same against postgres and the sqlite test store.

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

func (a *Author) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

func (c *Category) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

func (b *Book) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

func (b *Borrow) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}
