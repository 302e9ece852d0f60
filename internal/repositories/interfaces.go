package repositories

import (
	"budget-buddy/internal/models"
)

// TransactionRepositoryInterface defines the contract for ledger storage operations
type TransactionRepositoryInterface interface {
	Create(entry *models.LedgerEntry) error
	GetByID(id uint64) (*models.LedgerEntry, error)
	List(query models.LedgerQuery) ([]models.LedgerEntry, error)
	Update(entry *models.LedgerEntry) error
	Delete(id uint64) error
	Count() (int64, error)
}
