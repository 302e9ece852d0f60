package transactions

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"budget-buddy/internal/debounce"
	"budget-buddy/internal/dto"
	apperrors "budget-buddy/internal/errors"
	"budget-buddy/internal/models"
	"budget-buddy/internal/services"
	"budget-buddy/internal/validation"
)

const (
	DefaultDebounceDelay = 400 * time.Millisecond

	loadErrorPrefix       = "Error loading transactions: "
	deleteSuccessMessage  = "Transaction deleted successfully"
	updateNetworkMessage  = "Failed to update transaction due to a network or server error. Please try again."
	deleteNetworkMessage  = "Failed to delete transaction due to a network or server error. Please try again."
	alertPrefix           = "Error: "
	triggerImmediate      = "immediate"
	triggerDebounced      = "debounced"
	triggerClear          = "clear"
	triggerAfterMutation  = "mutation"
	mutationStatusSuccess = "success"
	mutationStatusFailed  = "failed"
)

// Option configures a Controller
type Option func(*Controller)

// WithLogger sets the controller's logger
func WithLogger(logger *slog.Logger) Option {
	return func(c *Controller) {
		c.logger = logger
	}
}

// WithMetrics sets the metrics recorder
func WithMetrics(metrics services.MetricsRecorderInterface) Option {
	return func(c *Controller) {
		c.metrics = metrics
	}
}

// WithDebounceDelay sets the quiet period for free-text and numeric filters
func WithDebounceDelay(delay time.Duration) Option {
	return func(c *Controller) {
		c.debounceDelay = delay
	}
}

// WithBaseContext sets the context used by reloads that fire from debounce timers
func WithBaseContext(ctx context.Context) Option {
	return func(c *Controller) {
		c.baseCtx = ctx
	}
}

// Controller keeps the transaction table in step with the backend and mediates
// edit and delete round trips. Every successful mutation is followed by a full reload.
type Controller struct {
	api           services.TransactionAPIInterface
	views         Bindings
	logger        *slog.Logger
	metrics       services.MetricsRecorderInterface
	debounceDelay time.Duration
	baseCtx       context.Context

	descriptionDebounce *debounce.Debouncer
	amountDebounce      *debounce.Debouncer

	// renderMu serializes table writes so the retained records always match the screen
	renderMu sync.Mutex

	mu              sync.Mutex
	records         map[string]models.Transaction
	pendingDeleteID string
	tableState      TableState
	editState       FormState
	deleteState     FormState
}

// NewController creates a controller bound to views
func NewController(api services.TransactionAPIInterface, views Bindings, opts ...Option) *Controller {
	c := &Controller{
		api:           api,
		views:         views,
		logger:        slog.Default(),
		metrics:       services.NewNoopMetrics(),
		debounceDelay: DefaultDebounceDelay,
		baseCtx:       context.Background(),
		records:       make(map[string]models.Transaction),
		tableState:    TableIdle,
		editState:     FormIdle,
		deleteState:   FormIdle,
	}

	for _, opt := range opts {
		opt(c)
	}

	c.descriptionDebounce = debounce.New(c.debounceDelay, func() { c.debouncedReload("description") })
	c.amountDebounce = debounce.New(c.debounceDelay, func() { c.debouncedReload("amount") })

	return c
}

// Close stops pending debounced reloads
func (c *Controller) Close() {
	c.descriptionDebounce.Stop()
	c.amountDebounce.Stop()
}

// Load fetches the records matching the current filters and renders them
func (c *Controller) Load(ctx context.Context) error {
	table := c.views.Table
	if table == nil {
		err := apperrors.New(apperrors.UIMissingElements)
		c.logger.ErrorContext(ctx, "transaction table view not bound",
			"event_type", "load_aborted",
			"code", err.Code,
		)
		c.alert(alertPrefix + err.Message)
		return err
	}

	c.setTableState(TableLoading)

	table.ShowLoading(true)
	defer table.ShowLoading(false)

	table.Clear()
	table.ShowEmpty(false)

	filters := c.currentFilters(ctx)

	transactions, err := c.api.List(ctx, filters)
	if err != nil {
		c.logger.ErrorContext(ctx, "error loading transactions",
			"event_type", "load_failed",
			"code", apperrors.CodeOf(err),
			"error", err,
		)
		state := loadOutcome(0, err)

		c.renderMu.Lock()
		c.retain(nil)
		table.ShowEmpty(false)
		table.RenderError(loadErrorPrefix + apperrors.MessageOf(err))
		c.setTableState(state)
		c.renderMu.Unlock()

		c.metrics.IncrementCounter("table.load", map[string]string{"state": string(state)})
		return err
	}

	rows := BuildRows(transactions)
	state := loadOutcome(len(rows), nil)

	// an overlapping load may have drawn since this one cleared the table
	c.renderMu.Lock()
	c.retain(transactions)
	table.Clear()
	if len(rows) == 0 {
		table.ShowEmpty(true)
	} else {
		table.ShowEmpty(false)
		table.RenderRows(rows)
	}
	c.setTableState(state)
	c.renderMu.Unlock()

	c.metrics.IncrementCounter("table.load", map[string]string{"state": string(state)})
	c.metrics.RecordGauge("table.rows", float64(len(rows)), nil)

	c.logger.InfoContext(ctx, "transactions rendered",
		"event_type", "load_succeeded",
		"rows", len(rows),
		"filtered", !filters.IsEmpty(),
	)

	return nil
}

// FilterChanged reacts to an edit of one filter control. Discrete controls reload
// immediately; free-text and numeric controls schedule a debounced reload.
func (c *Controller) FilterChanged(ctx context.Context, field models.FilterField) error {
	if field.IsDebounced() {
		if field == models.FilterDescription {
			c.descriptionDebounce.Trigger()
		} else {
			c.amountDebounce.Trigger()
		}
		return nil
	}

	c.metrics.IncrementCounter("filters.reload", map[string]string{"trigger": triggerImmediate})
	return c.Load(ctx)
}

func (c *Controller) debouncedReload(group string) {
	c.metrics.IncrementCounter("filters.reload", map[string]string{"trigger": triggerDebounced})
	c.logger.DebugContext(c.baseCtx, "debounced filter reload", "filters", group)
	_ = c.Load(c.baseCtx)
}

// ClearFilters resets every filter control to its default and reloads
func (c *Controller) ClearFilters(ctx context.Context) error {
	c.descriptionDebounce.Cancel()
	c.amountDebounce.Cancel()

	if c.views.Filters != nil {
		c.views.Filters.Reset(models.DefaultTransactionFilters())
	} else {
		c.logger.WarnContext(ctx, "filter controls not bound, nothing to reset")
	}

	c.metrics.IncrementCounter("filters.reload", map[string]string{"trigger": triggerClear})
	return c.Load(ctx)
}

// BeginEdit opens the edit form populated from the last rendered copy of the record
func (c *Controller) BeginEdit(ctx context.Context, transactionID string) error {
	form := c.views.EditForm
	if form == nil {
		err := apperrors.New(apperrors.UIEditFormBroken)
		c.logger.ErrorContext(ctx, "edit form view not bound", "code", err.Code)
		c.alert(alertPrefix + err.Message)
		return err
	}

	c.mu.Lock()
	record, ok := c.records[transactionID]
	c.mu.Unlock()

	if !ok {
		err := apperrors.New(apperrors.StateRowNotFound)
		c.logger.ErrorContext(ctx, "row for transaction not found",
			"transaction_id", transactionID,
			"code", err.Code,
		)
		c.alert(alertPrefix + err.Message)
		return err
	}

	options := form.Options()
	values := EditForm{
		TransactionID: record.ID,
		Amount:        record.Amount.StringFixed(2),
		Description:   record.EditableDescription(),
		Date:          record.EditableDate(),
	}

	if category, found := models.FindOptionByLabel(options.Categories, record.DisplayCategory()); found {
		values.Category = category.Label
	} else {
		c.logger.WarnContext(ctx, "category not found in edit options",
			"transaction_id", record.ID,
			"category", record.DisplayCategory(),
		)
	}

	if account, found := models.FindOptionByLabel(options.Accounts, record.DisplayAccount()); found {
		values.Account = account.Value
	} else {
		c.logger.WarnContext(ctx, "account not found in edit options",
			"transaction_id", record.ID,
			"account", record.DisplayAccount(),
		)
	}

	c.setEditState(FormOpen)
	form.Open(values)

	return nil
}

// SaveEdit validates and submits the edit form. On success the form closes and the table reloads;
// on failure the form stays open.
func (c *Controller) SaveEdit(ctx context.Context, values EditForm) error {
	form := c.views.EditForm
	if form == nil {
		err := apperrors.New(apperrors.UIEditFormBroken)
		c.logger.ErrorContext(ctx, "edit form view not bound", "code", err.Code)
		c.alert(alertPrefix + err.Message)
		return err
	}

	request := dto.UpdateTransactionRequest{
		TransactionID: strings.TrimSpace(values.TransactionID),
		Amount:        strings.TrimSpace(values.Amount),
		Description:   values.Description,
		Date:          strings.TrimSpace(values.Date),
		Category:      strings.TrimSpace(values.Category),
		Account:       strings.TrimSpace(values.Account),
	}

	if err := validation.GetValidator().Validate(request); err != nil {
		code := apperrors.ValidationInvalidFormat
		message := alertPrefix + validation.Summary(validation.FieldErrors(err))
		if validation.HasTag(err, "required") {
			code = apperrors.ValidationRequiredField
			message = apperrors.GetErrorMessage(code)
		}

		c.logger.WarnContext(ctx, "edit form rejected",
			"transaction_id", request.TransactionID,
			"code", code,
			"error", err,
		)
		c.alert(message)
		return apperrors.Wrap(code, err, message)
	}

	c.setEditState(FormSubmitting)

	if err := c.api.Update(ctx, request); err != nil {
		c.setEditState(FormOpen)
		c.metrics.IncrementCounter("mutation", map[string]string{"operation": "update", "status": mutationStatusFailed})
		c.logger.ErrorContext(ctx, "update failed",
			"transaction_id", request.TransactionID,
			"code", apperrors.CodeOf(err),
			"error", err,
		)
		c.alert(mutationFailureMessage(err, updateNetworkMessage))
		return err
	}

	c.setEditState(FormIdle)
	c.metrics.IncrementCounter("mutation", map[string]string{"operation": "update", "status": mutationStatusSuccess})
	c.logger.InfoContext(ctx, "transaction updated", "transaction_id", request.TransactionID)

	form.Close()
	c.reloadAfterMutation(ctx)

	return nil
}

// CancelEdit closes the edit form without sending anything
func (c *Controller) CancelEdit() {
	c.setEditState(FormIdle)
	if c.views.EditForm != nil {
		c.views.EditForm.Close()
	}
}

// BeginDelete remembers the target and opens the confirmation prompt
func (c *Controller) BeginDelete(ctx context.Context, transactionID string) error {
	confirm := c.views.DeleteConfirm
	if confirm == nil {
		err := apperrors.New(apperrors.UIConfirmBroken)
		c.logger.ErrorContext(ctx, "delete confirmation view not bound", "code", err.Code)
		c.alert(alertPrefix + err.Message)
		return err
	}

	c.mu.Lock()
	c.pendingDeleteID = transactionID
	c.deleteState = FormOpen
	c.mu.Unlock()

	confirm.Open(transactionID)
	return nil
}

// ConfirmDelete deletes the remembered transaction
func (c *Controller) ConfirmDelete(ctx context.Context) error {
	confirm := c.views.DeleteConfirm
	if confirm == nil {
		err := apperrors.New(apperrors.UIConfirmBroken)
		c.logger.ErrorContext(ctx, "delete confirmation view not bound", "code", err.Code)
		c.alert(alertPrefix + err.Message)
		return err
	}

	c.mu.Lock()
	transactionID := c.pendingDeleteID
	if transactionID != "" {
		c.deleteState = FormSubmitting
	}
	c.mu.Unlock()

	if transactionID == "" {
		err := apperrors.New(apperrors.StateNoPendingDelete)
		c.logger.WarnContext(ctx, "confirm delete without a selected transaction", "code", err.Code)
		c.alert(alertPrefix + err.Message)
		return err
	}

	if err := c.api.Delete(ctx, transactionID); err != nil {
		c.setDeleteState(FormOpen)
		c.metrics.IncrementCounter("mutation", map[string]string{"operation": "delete", "status": mutationStatusFailed})
		c.logger.ErrorContext(ctx, "delete failed",
			"transaction_id", transactionID,
			"code", apperrors.CodeOf(err),
			"error", err,
		)
		c.alert(mutationFailureMessage(err, deleteNetworkMessage))
		return err
	}

	c.mu.Lock()
	if c.pendingDeleteID == transactionID {
		c.pendingDeleteID = ""
	}
	c.deleteState = FormIdle
	c.mu.Unlock()

	c.metrics.IncrementCounter("mutation", map[string]string{"operation": "delete", "status": mutationStatusSuccess})
	c.logger.InfoContext(ctx, "transaction deleted", "transaction_id", transactionID)

	confirm.Close()
	c.notify(deleteSuccessMessage)
	c.reloadAfterMutation(ctx)

	return nil
}

// CancelDelete closes the prompt and forgets the target
func (c *Controller) CancelDelete() {
	c.mu.Lock()
	c.pendingDeleteID = ""
	c.deleteState = FormIdle
	c.mu.Unlock()

	if c.views.DeleteConfirm != nil {
		c.views.DeleteConfirm.Close()
	}
}

// TableState returns the state of the most recent load
func (c *Controller) TableState() TableState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.tableState
}

func (c *Controller) EditState() FormState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.editState
}

func (c *Controller) DeleteState() FormState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.deleteState
}

// PendingDeleteID returns the id awaiting delete confirmation, or ""
func (c *Controller) PendingDeleteID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pendingDeleteID
}

// Record returns the last rendered copy of a record
func (c *Controller) Record(transactionID string) (models.Transaction, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	record, ok := c.records[transactionID]
	return record, ok
}

func (c *Controller) reloadAfterMutation(ctx context.Context) {
	c.metrics.IncrementCounter("filters.reload", map[string]string{"trigger": triggerAfterMutation})
	_ = c.Load(ctx)
}

func (c *Controller) currentFilters(ctx context.Context) models.TransactionFilters {
	if c.views.Filters == nil {
		c.logger.WarnContext(ctx, "filter controls not bound, loading without filters")
		return models.TransactionFilters{}
	}
	return c.views.Filters.Values()
}

// retain replaces the record set with the latest successful fetch
func (c *Controller) retain(transactions []models.Transaction) {
	records := make(map[string]models.Transaction, len(transactions))
	for _, txn := range transactions {
		records[txn.ID] = txn
	}

	c.mu.Lock()
	c.records = records
	c.mu.Unlock()
}

func (c *Controller) setTableState(state TableState) {
	c.mu.Lock()
	c.tableState = state
	c.mu.Unlock()
}

func (c *Controller) setEditState(state FormState) {
	c.mu.Lock()
	c.editState = state
	c.mu.Unlock()
}

func (c *Controller) setDeleteState(state FormState) {
	c.mu.Lock()
	c.deleteState = state
	c.mu.Unlock()
}

func (c *Controller) alert(message string) {
	if c.views.Notifier == nil {
		c.logger.Warn("notifier not bound, alert dropped", "message", message)
		return
	}
	c.views.Notifier.Alert(message)
}

func (c *Controller) notify(message string) {
	if c.views.Notifier == nil {
		c.logger.Info("notifier not bound, notice dropped", "message", message)
		return
	}
	c.views.Notifier.Notify(message)
}

// mutationFailureMessage prefers the server's reason; transport and decode
// failures get the generic network message
func mutationFailureMessage(err error, networkMessage string) string {
	if apperrors.IsTransport(err) || apperrors.CodeOf(err) == apperrors.APIMalformedResponse {
		return networkMessage
	}
	return alertPrefix + apperrors.MessageOf(err)
}
