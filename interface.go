package ctxlogger

// Backend is the structured logging capability a ContextLogger delegates to.
// Each method receives the event, the already merged fields and the positional
// arguments exactly as the caller passed them. An empty event means no event.
//
// Implementations own formatting, transport and sinks. Any error they return
// is handed back to the caller of the ContextLogger unchanged.
type Backend interface {
	Debug(event string, fields Fields, args ...any) error
	Info(event string, fields Fields, args ...any) error
	Warning(event string, fields Fields, args ...any) error
	Error(event string, fields Fields, args ...any) error
	Critical(event string, fields Fields, args ...any) error

	// Exception receives the error bound under ExcInfoKey in fields.
	Exception(event string, fields Fields, args ...any) error
}
