package repositories

import (
	"errors"
	"fmt"
	"strings"

	"budget-buddy/internal/models"

	"gorm.io/gorm"
)

var (
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrNilTransaction      = errors.New("transaction cannot be nil")
)

// orderClauses maps each sort order to a deterministic ORDER BY
var orderClauses = map[models.SortOrder]string{
	models.SortDateDesc:   "date DESC, id DESC",
	models.SortDateAsc:    "date ASC, id ASC",
	models.SortAmountDesc: "amount DESC, id DESC",
	models.SortAmountAsc:  "amount ASC, id ASC",
}

// transactionRepository implements TransactionRepositoryInterface
type transactionRepository struct {
	db *gorm.DB
}

// NewTransactionRepository creates a new transaction repository
func NewTransactionRepository(db *gorm.DB) TransactionRepositoryInterface {
	return &transactionRepository{
		db: db,
	}
}

// Create creates a new ledger entry
func (r *transactionRepository) Create(entry *models.LedgerEntry) error {
	if entry == nil {
		return ErrNilTransaction
	}
	if err := r.db.Create(entry).Error; err != nil {
		return fmt.Errorf("failed to create transaction: %w", err)
	}
	return nil
}

// GetByID retrieves a ledger entry by ID
func (r *transactionRepository) GetByID(id uint64) (*models.LedgerEntry, error) {
	var entry models.LedgerEntry
	if err := r.db.First(&entry, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTransactionNotFound
		}
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}
	return &entry, nil
}

// List retrieves the entries matching every set filter, in the requested order
func (r *transactionRepository) List(query models.LedgerQuery) ([]models.LedgerEntry, error) {
	tx := r.db.Model(&models.LedgerEntry{})

	if query.StartDate != nil {
		tx = tx.Where("date >= ?", *query.StartDate)
	}
	if query.EndDate != nil {
		tx = tx.Where("date <= ?", *query.EndDate)
	}
	if query.Category != "" {
		tx = tx.Where("category_name = ?", query.Category)
	}
	if query.Account != "" {
		tx = tx.Where("account_name = ?", query.Account)
	}
	if query.Description != "" {
		tx = tx.Where("LOWER(description) LIKE ?", "%"+strings.ToLower(query.Description)+"%")
	}
	if query.MinAmount != nil {
		tx = tx.Where("amount >= ?", *query.MinAmount)
	}
	if query.MaxAmount != nil {
		tx = tx.Where("amount <= ?", *query.MaxAmount)
	}

	order, ok := orderClauses[query.Sort]
	if !ok {
		order = orderClauses[models.DefaultSortOrder]
	}
	tx = tx.Order(order)

	if query.Limit > 0 {
		tx = tx.Limit(query.Limit)
	}

	entries := make([]models.LedgerEntry, 0)
	if err := tx.Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	return entries, nil
}

// Update saves every field of an existing entry
func (r *transactionRepository) Update(entry *models.LedgerEntry) error {
	if entry == nil {
		return ErrNilTransaction
	}

	result := r.db.Model(entry).
		Select("date", "description", "category_name", "amount", "account_name", "updated_at").
		Updates(entry)
	if result.Error != nil {
		return fmt.Errorf("failed to update transaction: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrTransactionNotFound
	}
	return nil
}

// Delete removes an entry permanently
func (r *transactionRepository) Delete(id uint64) error {
	result := r.db.Delete(&models.LedgerEntry{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete transaction: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrTransactionNotFound
	}
	return nil
}

// Count returns the number of stored entries
func (r *transactionRepository) Count() (int64, error) {
	var total int64
	if err := r.db.Model(&models.LedgerEntry{}).Count(&total).Error; err != nil {
		return 0, fmt.Errorf("failed to count transactions: %w", err)
	}
	return total, nil
}
