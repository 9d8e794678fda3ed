package log

// Common field names for structured logging
const (
	FieldComponent   = "component"
	FieldError       = "error"
	FieldExpenseID   = "id"
	FieldItem        = "item"
	FieldCategory    = "category"
	FieldAmountCents = "amount_cents"
	FieldDate        = "date"
	FieldMirrorRef   = "mirror_ref"
	FieldCount       = "count"
)

// Components defines standard component names
const (
	ComponentApp    = "app"
	ComponentBot    = "bot"
	ComponentWorker = "worker"
)
