package storage

import (
	"context"
	"errors"

	"github.com/imtiaz478/Sellora-full/internal/models"
)

// ErrNotFound indicates a record does not exist or is not visible to the caller.
var ErrNotFound = errors.New("record not found")

// ErrAlreadyExists indicates a uniqueness conflict.
var ErrAlreadyExists = errors.New("record already exists")

// UserStore captures persistence operations needed by the auth service.
type UserStore interface {
	CreateUser(ctx context.Context, user models.User) (models.User, error)
	FindByEmail(ctx context.Context, email string) (models.User, error)
}

// TransactionStore persists transactions. Every operation except create is scoped to ownerID;
// rows owned by another user behave as if they did not exist.
type TransactionStore interface {
	CreateTransaction(ctx context.Context, tx models.Transaction) (models.Transaction, error)
	ListTransactions(ctx context.Context, ownerID int64) ([]models.Transaction, error)
	UpdateTransaction(ctx context.Context, id, ownerID int64, patch models.TransactionPatch) (models.Transaction, error)
	DeleteTransaction(ctx context.Context, id, ownerID int64) error
}

// Store is the full persistence surface the server is built on.
type Store interface {
	UserStore
	TransactionStore
	Close()
}
