package handlers

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"

	"budget-buddy/internal/dto"
	"budget-buddy/internal/errors"
	"budget-buddy/internal/models"
	"budget-buddy/internal/repositories"
	"budget-buddy/internal/services"
	"budget-buddy/internal/validation"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

const (
	defaultListLimit = 500
	maxListLimit     = 1000
)

// TransactionHandler serves the transactions API the console talks to
type TransactionHandler struct {
	transactionRepo repositories.TransactionRepositoryInterface
	audit           services.AuditLoggerInterface
	categories      []models.Option
	accounts        []models.Option
}

// NewTransactionHandler creates a new transaction handler. Category and account
// options translate submitted selector values into the stored display names.
func NewTransactionHandler(
	transactionRepo repositories.TransactionRepositoryInterface,
	audit services.AuditLoggerInterface,
	categories []models.Option,
	accounts []models.Option,
) *TransactionHandler {
	return &TransactionHandler{
		transactionRepo: transactionRepo,
		audit:           audit,
		categories:      categories,
		accounts:        accounts,
	}
}

// ListTransactions returns the filtered listing as a bare JSON array
//
//	GET /api/transactions?start_date&end_date&category&account&description&min_amount&max_amount&sort
//
// 200 array of records, 400 VALIDATION_003 on an unparsable filter, 500 SYSTEM_001.
func (h *TransactionHandler) ListTransactions(c echo.Context) error {
	query, err := h.parseLedgerQuery(c)
	if err != nil {
		return SendError(c, errors.ValidationInvalidFormat, errors.WithMessage(err.Error()))
	}

	entries, err := h.transactionRepo.List(query)
	if err != nil {
		return SendSystemError(c, err)
	}

	records := make([]dto.TransactionRecord, 0, len(entries))
	for i := range entries {
		records = append(records, dto.NewTransactionRecord(entries[i].ToTransaction()))
	}

	return c.JSON(http.StatusOK, records)
}

// UpdateTransaction replaces the editable fields of one transaction
//
//	POST /api/transactions/update
//
// 200 {success: true}, 400 VALIDATION_001/003, 404 TRANSACTION_001, 500 SYSTEM_001.
func (h *TransactionHandler) UpdateTransaction(c echo.Context) error {
	var req dto.UpdateTransactionRequest
	if err := c.Bind(&req); err != nil {
		return SendError(c, errors.ValidationGeneral, errors.WithMessage("Invalid request body"))
	}
	trimUpdateRequest(&req)

	if err := c.Validate(&req); err != nil {
		fields := validation.FieldErrors(err)
		return SendError(c, errors.ValidationGeneral,
			errors.WithMessage(validation.Summary(fields)),
			errors.WithDetails(fieldDetails(fields)...),
		)
	}

	id, err := parseTransactionID(req.TransactionID)
	if err != nil {
		return SendError(c, errors.ValidationInvalidFormat, errors.WithMessage(err.Error()))
	}

	entry, err := h.transactionRepo.GetByID(id)
	if err != nil {
		if stderrors.Is(err, repositories.ErrTransactionNotFound) {
			h.audit.LogMutationRejected(c.Request().Context(), getTraceID(c), "update", req.TransactionID, "not found")
			return SendError(c, errors.TransactionNotFound)
		}
		return SendSystemError(c, err)
	}
	before := *entry

	// both parse after validation succeeded
	date, _ := time.Parse(models.DateLayout, req.Date)
	amount, _ := decimal.NewFromString(req.Amount)

	entry.Date = date
	entry.Amount = amount
	entry.Description = optionalString(req.Description)
	category := models.ResolveOptionLabel(h.categories, req.Category)
	entry.CategoryName = &category
	entry.AccountName = models.ResolveOptionLabel(h.accounts, req.Account)

	if err := h.transactionRepo.Update(entry); err != nil {
		if stderrors.Is(err, repositories.ErrTransactionNotFound) {
			h.audit.LogMutationRejected(c.Request().Context(), getTraceID(c), "update", req.TransactionID, "not found")
			return SendError(c, errors.TransactionNotFound)
		}
		return SendSystemError(c, err)
	}

	h.audit.LogTransactionUpdated(c.Request().Context(), getTraceID(c), before, *entry)
	return SendMutationSuccess(c, "Transaction updated")
}

// DeleteTransaction permanently removes one transaction
//
//	DELETE /api/transactions/delete/:id
//
// 200 {success: true}, 400 VALIDATION_003, 404 TRANSACTION_001, 500 SYSTEM_001.
func (h *TransactionHandler) DeleteTransaction(c echo.Context) error {
	id, err := parseTransactionID(c.Param("id"))
	if err != nil {
		return SendError(c, errors.ValidationInvalidFormat, errors.WithMessage(err.Error()))
	}

	if err := h.transactionRepo.Delete(id); err != nil {
		if stderrors.Is(err, repositories.ErrTransactionNotFound) {
			h.audit.LogMutationRejected(c.Request().Context(), getTraceID(c), "delete", c.Param("id"), "not found")
			return SendError(c, errors.TransactionNotFound)
		}
		return SendSystemError(c, err)
	}

	h.audit.LogTransactionDeleted(c.Request().Context(), getTraceID(c), id)
	return SendMutationSuccess(c, "Transaction deleted")
}

// parseLedgerQuery reads the listing filters. Absent or blank parameters do not filter.
func (h *TransactionHandler) parseLedgerQuery(c echo.Context) (models.LedgerQuery, error) {
	query := models.LedgerQuery{
		Category:    models.ResolveOptionLabel(h.categories, strings.TrimSpace(c.QueryParam("category"))),
		Account:     models.ResolveOptionLabel(h.accounts, strings.TrimSpace(c.QueryParam("account"))),
		Description: strings.TrimSpace(c.QueryParam("description")),
		Sort:        models.DefaultSortOrder,
		Limit:       getIntParam(c, "limit", defaultListLimit),
	}

	var err error
	if query.StartDate, err = parseDateParam(c, "start_date"); err != nil {
		return query, err
	}
	if query.EndDate, err = parseDateParam(c, "end_date"); err != nil {
		return query, err
	}
	if query.MinAmount, err = parseAmountParam(c, "min_amount"); err != nil {
		return query, err
	}
	if query.MaxAmount, err = parseAmountParam(c, "max_amount"); err != nil {
		return query, err
	}

	if order := strings.TrimSpace(c.QueryParam("sort")); order != "" {
		if err := c.Validate(&dto.ListQuery{Sort: order}); err != nil {
			return query, fmt.Errorf("invalid sort %q: %s", order, validation.Summary(validation.FieldErrors(err)))
		}
		query.Sort = models.SortOrder(order)
	}

	if query.Limit <= 0 || query.Limit > maxListLimit {
		query.Limit = defaultListLimit
	}

	return query, nil
}

func parseDateParam(c echo.Context, name string) (*time.Time, error) {
	raw := strings.TrimSpace(c.QueryParam(name))
	if raw == "" {
		return nil, nil
	}
	parsed, err := time.Parse(models.DateLayout, raw)
	if err != nil {
		return nil, fmt.Errorf("invalid %s %q: expected YYYY-MM-DD", name, raw)
	}
	return &parsed, nil
}

func parseAmountParam(c echo.Context, name string) (*decimal.Decimal, error) {
	raw := strings.TrimSpace(c.QueryParam(name))
	if raw == "" {
		return nil, nil
	}
	parsed, err := decimal.NewFromString(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid %s %q: expected a number", name, raw)
	}
	return &parsed, nil
}

func trimUpdateRequest(req *dto.UpdateTransactionRequest) {
	req.TransactionID = strings.TrimSpace(req.TransactionID)
	req.Amount = strings.TrimSpace(req.Amount)
	req.Description = strings.TrimSpace(req.Description)
	req.Date = strings.TrimSpace(req.Date)
	req.Category = strings.TrimSpace(req.Category)
	req.Account = strings.TrimSpace(req.Account)
}

func fieldDetails(fields map[string]string) []string {
	details := make([]string, 0, len(fields))
	for field, message := range fields {
		details = append(details, fmt.Sprintf("%s: %s", field, message))
	}
	sort.Strings(details)
	return details
}
