package ctxlogger

const (
	// ExcInfoKey is the reserved field carrying the error passed to Exception.
	ExcInfoKey = "exc_info"
	// StackInfoKey requests the current goroutine stack when set to true.
	StackInfoKey = "stack_info"

	// Field names written by the zerolog Service.
	EventFieldName     = "event"
	TimestampFieldName = "timestamp"
	ExceptionFieldName = "exception"
	StackFieldName     = "stack"

	emptyString = ""
	defaultName = "app"
)

const (
	errMsgNilConfig      = "Logging config is nil."
	errMsgNilService     = "Logger service is nil."
	errMsgConfigInvalid  = "Logging configuration is invalid."
	errMsgNotInitialized = "Logger service is not initialized."
	errMsgLogDir         = "Failed to create logs directory."
	errMsgLoadConfig     = "Failed to load logging configuration."
	errMsgCloseFile      = "Failed to close the log file."
)
