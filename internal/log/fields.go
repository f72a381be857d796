package log

// Common field names for structured logging
const (
	FieldComponent = "component"
	FieldRunID     = "run_id"
	FieldReport    = "report"
	FieldArtifact  = "artifact"
	FieldChatID    = "chat_id"
	FieldMonth     = "month"
	FieldRows      = "rows"
	FieldMonths    = "months"
	FieldDuration  = "duration_ms"
	FieldError     = "error"
	FieldStatus    = "status_code"
	FieldOperation = "operation"
)

// Components defines standard component names
const (
	ComponentApp      = "app"
	ComponentStorage  = "storage"
	ComponentReport   = "report"
	ComponentDelivery = "delivery"
	ComponentService  = "service"
)

// Operations defines standard operation names
const (
	OpRead    = "read"
	OpRender  = "render"
	OpDeliver = "deliver"
	OpCleanup = "cleanup"
)
