package ctxlogger

import (
	stderrs "errors"
	"reflect"
	"strings"

	smerrors "github.com/Station-Manager/errors"
	"github.com/rs/zerolog"
)

const maxChainDepth = 50

const nilErrorMarker = "<nil>"

// errorChain is the cause history of an error, outermost first.
type errorChain struct {
	messages []string
	ops      []string
}

// root returns the innermost message and operation.
func (c errorChain) root() (msg, op string) {
	if len(c.messages) > 0 {
		msg = c.messages[len(c.messages)-1]
	}
	if len(c.ops) > 0 {
		op = c.ops[len(c.ops)-1]
	}
	return msg, op
}

// history joins the chain into one readable string.
func (c errorChain) history() string {
	return strings.Join(c.messages, " -> ")
}

// buildErrorChain walks the cause chain of err. Station-Manager DetailedError
// causes are preferred over stdlib Unwrap; ops holds "" for links that carry
// no operation. The walk stops at maxChainDepth, on a repeated message or on a
// nil pointer link.
func buildErrorChain(err error) errorChain {
	var chain errorChain
	seen := make(map[string]struct{})

	for depth := 0; err != nil && !isNilPointer(err) && depth < maxChainDepth; depth++ {
		if dErr, ok := smerrors.AsDetailedError(err); ok && dErr != nil {
			chain.messages = append(chain.messages, dErr.Error())
			chain.ops = append(chain.ops, string(dErr.Op()))
			err = dErr.Cause()
			continue
		}

		msg := err.Error()
		if _, dup := seen[msg]; dup {
			break
		}
		seen[msg] = struct{}{}
		chain.messages = append(chain.messages, msg)
		chain.ops = append(chain.ops, emptyString)
		err = stderrs.Unwrap(err)
	}
	return chain
}

// appendError writes err under key plus the chain enrichment fields
// key_chain, key_root, key_history, key_ops and, when known, key_root_op.
// A nil pointer held in err is written as "<nil>" without enrichment.
func appendError(e *zerolog.Event, key string, err error) {
	if err == nil {
		return
	}
	if isNilPointer(err) {
		e.Str(key, nilErrorMarker)
		return
	}
	e.AnErr(key, err)
	chain := buildErrorChain(err)
	if len(chain.messages) == 0 {
		return
	}
	root, rootOp := chain.root()
	e.Strs(key+"_chain", chain.messages)
	e.Str(key+"_root", root)
	e.Str(key+"_history", chain.history())
	e.Strs(key+"_ops", chain.ops)
	if rootOp != emptyString {
		e.Str(key+"_root_op", rootOp)
	}
}

// errorFieldNames lists the fields appendError may write for key.
func errorFieldNames(key string) []string {
	return []string{key, key + "_chain", key + "_root", key + "_history", key + "_ops", key + "_root_op"}
}

// isNilPointer reports whether err is a non-nil interface holding a nil
// pointer, whose Error method would usually dereference it.
func isNilPointer(err error) bool {
	v := reflect.ValueOf(err)
	return v.Kind() == reflect.Pointer && v.IsNil()
}
