package log

// Common field names for structured logging
const (
	FieldComponent  = "component"
	FieldRequestID  = "request_id"
	FieldMethod     = "method"
	FieldPath       = "path"
	FieldDuration   = "duration_ms"
	FieldError      = "error"
	FieldTool       = "tool"
	FieldEvent      = "event"
	FieldExpenseID  = "expense_id"
	FieldCategoryID = "category_id"
	FieldAmount     = "amount"
	FieldStatus     = "status"
)

// Components defines standard component names
const (
	ComponentApp     = "app"
	ComponentHTTP    = "http"
	ComponentStorage = "storage"
	ComponentAMQP    = "amqp"
	ComponentTools   = "tools"
)
