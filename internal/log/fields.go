package log

// Common field names for structured logging
const (
	FieldComponent   = "component"
	FieldError       = "error"
	FieldOperation   = "operation"
	FieldMonth       = "month"
	FieldCategory    = "category"
	FieldAmountCents = "amount_cents"
	FieldExpenseID   = "expense_id"
	FieldJobID       = "job_id"
	FieldReportPath  = "report_path"
	FieldBackend     = "backend"
	FieldPath        = "path"
	FieldDuration    = "duration_ms"
)

// Components defines standard component names
const (
	ComponentApp     = "app"
	ComponentHTTP    = "http"
	ComponentStore   = "store"
	ComponentAMQP    = "amqp"
	ComponentWorker  = "worker"
	ComponentReport  = "report"
	ComponentSuggest = "suggest"
	ComponentBackend = "backend"
)

// Operations defines standard operation names
const (
	OpCreate   = "create"
	OpRead     = "read"
	OpUpdate   = "update"
	OpDelete   = "delete"
	OpList     = "list"
	OpUpsert   = "upsert"
	OpGenerate = "generate"
	OpPublish  = "publish"
	OpConsume  = "consume"
	OpStartup  = "startup"
	OpShutdown = "shutdown"
)
