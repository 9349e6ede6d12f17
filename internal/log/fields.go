package log

import (
	"sort"

	"ledger/internal/core"
)

// Common field names for structured logging
const (
	FieldComponent     = "component"
	FieldOperation     = "operation"
	FieldError         = "error"
	FieldErrorType     = "error_type"
	FieldTransactionID = "transaction_id"
	FieldTxnType       = "txn_type"
	FieldAmount        = "amount"
	FieldCategory      = "category"
	FieldAccount       = "account"
	FieldSource        = "source_account"
	FieldTarget        = "target_account"
	FieldBalance       = "balance"
	FieldUserID        = "user_id"
	FieldCount         = "count"
	FieldLimit         = "limit"
	FieldDuration      = "duration_ms"
)

// Components defines standard component names
const (
	ComponentApp       = "app"
	ComponentLedger    = "ledger"
	ComponentAnalytics = "analytics"
	ComponentJournal   = "journal"
	ComponentStorage   = "storage"
	ComponentAMQP      = "amqp"
	ComponentWorker    = "worker"
	ComponentCache     = "cache"
	ComponentBackend   = "backend"
)

// Operations defines standard operation names
const (
	OpCreateAccount = "create_account"
	OpDeposit       = "deposit"
	OpWithdraw      = "withdraw"
	OpTransfer      = "transfer"
	OpPayment       = "payment"
	OpRecord        = "record"
	OpPublish       = "publish"
	OpAcknowledge   = "acknowledge"
	OpRepublish     = "republish"
	OpReport        = "report"
	OpStartup       = "startup"
	OpShutdown      = "shutdown"
)

// ErrorTypes defines standard error type categories
const (
	ErrorTypeValidation    = "validation_error"
	ErrorTypeConfiguration = "configuration_error"
	ErrorTypeDatabase      = "database_error"
	ErrorTypeNetwork       = "network_error"
	ErrorTypeInternal      = "internal_error"
)

// LogFields provides a builder pattern for structured log fields
type LogFields map[string]any

// NewFields creates a new LogFields instance
func NewFields() LogFields {
	return make(LogFields)
}

// WithOperation adds operation field
func (f LogFields) WithOperation(op string) LogFields {
	f[FieldOperation] = op
	return f
}

// WithError adds error field
func (f LogFields) WithError(err error) LogFields {
	if err != nil {
		f[FieldError] = err.Error()
	}
	return f
}

// WithErrorType adds the error category
func (f LogFields) WithErrorType(kind string) LogFields {
	f[FieldErrorType] = kind
	return f
}

// WithAccount adds the account number
func (f LogFields) WithAccount(ref core.AccountRef) LogFields {
	f[FieldAccount] = ref.Number
	return f
}

// WithTransaction adds the fields describing a posted transaction.
// Absent source or target accounts are left out.
func (f LogFields) WithTransaction(txn core.Transaction) LogFields {
	f[FieldTransactionID] = txn.ID.String()
	f[FieldTxnType] = string(txn.Type)
	f[FieldAmount] = txn.Amount.String()
	if txn.Category != "" {
		f[FieldCategory] = string(txn.Category)
	}
	if txn.HasSource() {
		f[FieldSource] = txn.Source.Number
	}
	if txn.HasTarget() {
		f[FieldTarget] = txn.Target.Number
	}
	return f
}

// ToSlice converts LogFields to a slice for slog. Keys are sorted so output is stable.
func (f LogFields) ToSlice() []any {
	keys := make([]string, 0, len(f))
	for k := range f {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	slice := make([]any, 0, len(f)*2)
	for _, k := range keys {
		slice = append(slice, k, f[k])
	}
	return slice
}
