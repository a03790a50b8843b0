package log

// Common field names for structured logging
const (
	FieldComponent  = "component"
	FieldRequestID  = "request_id"
	FieldClientIP   = "client_ip"
	FieldMethod     = "method"
	FieldPath       = "path"
	FieldStatusCode = "status_code"
	FieldDuration   = "duration_ms"
	FieldUserAgent  = "user_agent"
	FieldError      = "error"
	FieldOperation  = "operation"
	FieldUserID     = "user_id"
	FieldItemID     = "item_id"
	FieldStartDate  = "start_date"
	FieldEndDate    = "end_date"
	FieldOffset     = "offset"
	FieldPage       = "page"
	FieldTotal      = "total"
	FieldCount      = "count"
	FieldAttempt    = "attempt"
	FieldBackend    = "backend"
)

const (
	ComponentApp       = "app"
	ComponentHTTP      = "http"
	ComponentAuth      = "auth"
	ComponentCashFlow  = "cashflow"
	ComponentPlanner   = "planner"
	ComponentPlaid     = "plaid"
	ComponentStorage   = "storage"
	ComponentEvents    = "events"
	ComponentRateLimit = "rate_limit"
)

const (
	OpLinkToken     = "link_token"
	OpExchangeToken = "exchange_public_token"
	OpUnlink        = "unlink"
	OpBankAccounts  = "bank_accounts"
	OpHoldings      = "holdings"
	OpCashFlow      = "cash_flow"
	OpFetchPage     = "fetch_page"
	OpPublish       = "publish"
	OpStartup       = "startup"
	OpShutdown      = "shutdown"
)

// LogFields builds a set of structured attributes.
type LogFields map[string]any

func NewFields() LogFields {
	return make(LogFields)
}

func (f LogFields) WithOperation(op string) LogFields {
	f[FieldOperation] = op
	return f
}

func (f LogFields) WithUser(userID string) LogFields {
	f[FieldUserID] = userID
	return f
}

func (f LogFields) WithError(err error) LogFields {
	if err != nil {
		f[FieldError] = err.Error()
	}
	return f
}

func (f LogFields) WithHTTPRequest(method, path, userAgent, clientIP string) LogFields {
	f[FieldMethod] = method
	f[FieldPath] = path
	f[FieldUserAgent] = userAgent
	f[FieldClientIP] = clientIP
	return f
}

func (f LogFields) WithHTTPResponse(statusCode int, durationMs int64) LogFields {
	f[FieldStatusCode] = statusCode
	f[FieldDuration] = durationMs
	return f
}

// ToSlice flattens the fields into slog key/value arguments.
func (f LogFields) ToSlice() []any {
	slice := make([]any, 0, len(f)*2)
	for k, v := range f {
		slice = append(slice, k, v)
	}
	return slice
}
