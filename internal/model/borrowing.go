package model

import "time"

// Status: состояние записи о выдаче.
type Status string

const (
	StatusBorrowed Status = "borrowed"
	StatusReturned Status = "returned"
)

// Borrowing: запись о выдаче. Создаётся в статусе borrowed и один раз переходит в returned.
type Borrowing struct {
	ID       int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	ItemID   int64  `gorm:"not null;index" json:"item_id"`
	ItemName string `json:"item_name"`

	// UserID пустой, если админ записал выдачу на человека без аккаунта.
	UserID       *int64 `gorm:"index" json:"user_id,omitempty"`
	BorrowerName string `json:"borrower_name"`

	Quantity int    `gorm:"not null;check:quantity > 0" json:"quantity"`
	Purpose  string `gorm:"not null" json:"purpose"`

	BorrowDate    time.Time  `gorm:"not null;index" json:"borrow_date"`
	ReturnDate    *time.Time `json:"return_date"`
	ConditionNote *string    `json:"condition_note"`
	Status        Status     `gorm:"not null;size:16;index" json:"status"`
}

// Borrower описывает, кто берёт: аккаунт или просто имя.
type Borrower struct {
	UserID *int64
	Name   string
}

// Valid проверяет, что дата возврата и заметка заданы тогда и только тогда, когда запись закрыта.
func (b *Borrowing) Valid() bool {
	closed := b.ReturnDate != nil && b.ConditionNote != nil
	switch b.Status {
	case StatusBorrowed:
		return b.ReturnDate == nil && b.ConditionNote == nil
	case StatusReturned:
		return closed
	default:
		return false
	}
}

// OwnedBy сообщает, принадлежит ли запись пользователю.
func (b *Borrowing) OwnedBy(userID int64) bool {
	return b.UserID != nil && *b.UserID == userID
}
