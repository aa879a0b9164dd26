// Package ctxlogger provides a context-carrying logging facade over a
// structured logging backend.
//
// A ContextLogger accumulates long-lived fields once (request id, component
// name, ...) and merges them into every subsequent log call, so call sites only
// pass what is specific to the event.
//
// Key features
//   - Additive context: AddContext merges with update semantics, last write wins
//   - Context precedence: a context field overrides a call field of the same name
//   - Exception logging: Exception binds the error under ExcInfoKey
//   - Pluggable backends: anything implementing Backend; Service (zerolog) is
//     the default, zap and logrus adapters live in sub-packages
//   - Backend failures are returned to the caller unchanged
//
// Typical usage
//
//	svc := &ctxlogger.Service{Config: &ctxlogger.Config{JSONLogging: true}}
//	if err := svc.Initialize(); err != nil { panic(err) }
//	defer svc.Close()
//
//	log := ctxlogger.New(svc)
//	log.AddContext(ctxlogger.Fields{"request_id": rid})
//	_ = log.Warning("slow request", ctxlogger.Fields{"latency_ms": 200})
//	_ = log.Exception(err, "request failed", nil)
package ctxlogger
