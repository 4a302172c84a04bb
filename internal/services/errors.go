package services

import "errors"

// Sentinel errors for the whole service layer. Handlers map these onto
// HTTP statuses; the messages are surfaced to callers as-is.
var (
	// ErrBookIDRequired is returned when a checkout request carries no book id.
	ErrBookIDRequired = errors.New("book_id is required")

	// ErrBorrowIDRequired is returned when a return request carries no borrow id.
	ErrBorrowIDRequired = errors.New("borrow_id is required")

	// ErrBorrowLimitReached is returned when the user already has the maximum
	// number of active borrows.
	ErrBorrowLimitReached = errors.New("Borrowing limit reached (max 3 active borrows)")

	// ErrNoCopiesAvailable is returned when every copy of the book is out.
	ErrNoCopiesAvailable = errors.New("No copies available")

	// ErrBookNotFound is returned when the requested book does not exist.
	ErrBookNotFound = errors.New("Book not found")

	// ErrBorrowNotFound is returned when no active borrow with the given id
	// belongs to the caller (including a second return of the same borrow).
	ErrBorrowNotFound = errors.New("Active borrow record not found")

	// ErrAuthorNotFound is returned when the referenced author does not exist.
	ErrAuthorNotFound = errors.New("Author not found")

	// ErrCategoryNotFound is returned when the referenced category does not exist.
	ErrCategoryNotFound = errors.New("Category not found")

	// ErrUserNotFound is returned when the referenced user does not exist.
	ErrUserNotFound = errors.New("User not found")

	// ErrInvalidCopyCounts is returned when available_copies would violate
	// 0 <= available_copies <= total_copies.
	ErrInvalidCopyCounts = errors.New("available_copies must be between 0 and total_copies")

	// ErrUsernameTaken is returned when registering with a username that exists.
	ErrUsernameTaken = errors.New("Username is already in use")

	// ErrInvalidCredentials is returned on login with a bad username or password.
	ErrInvalidCredentials = errors.New("Invalid username or password")

	// ErrInvalidToken is returned for expired, malformed or wrong-type tokens.
	ErrInvalidToken = errors.New("Invalid or expired token")

	// ErrPermissionDenied is returned when the caller may not read the resource.
	ErrPermissionDenied = errors.New("Permission denied")
)
