// Package rpc is the operation transport: named operations invoked with
// a flat map of arguments, answered with a flat map of results. Every
// response carries an "error" field, empty on success, and the HTTP
// status is always 200 — failures are data, not transport faults.
package rpc

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/dalemusser/recordhub/internal/app/system/faults"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Args is one operation's named arguments. JSON numbers arrive as
// float64; the accessors coerce so handlers can ask for the shape they
// want regardless of how the caller encoded the field.
type Args map[string]any

// Has reports whether the key was present at all.
func (a Args) Has(key string) bool {
	_, ok := a[key]
	return ok
}

// String returns the value as a string. Numeric values are formatted;
// anything else (or a missing key) is "".
func (a Args) String(key string) string {
	switch v := a[key].(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	default:
		return ""
	}
}

// Float returns the value as a float64, parsing string encodings.
func (a Args) Float(key string) (float64, bool) {
	switch v := a[key].(type) {
	case float64:
		return v, true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// Result is one operation's named results.
type Result map[string]any

// Func implements one operation.
type Func func(ctx context.Context, args Args) (Result, error)

// Registry maps operation names to implementations.
type Registry struct {
	log *zap.Logger
	ops map[string]Func
}

func NewRegistry(log *zap.Logger) *Registry {
	return &Registry{log: log, ops: make(map[string]Func)}
}

// Register binds an operation name. Last registration wins.
func (reg *Registry) Register(name string, fn Func) {
	reg.ops[name] = fn
}

// Operations returns the registered operation names. Used by tests.
func (reg *Registry) Operations() []string {
	names := make([]string, 0, len(reg.ops))
	for name := range reg.ops {
		names = append(names, name)
	}
	return names
}

// Serve handles POST /rpc/{op}.
func (reg *Registry) Serve(w http.ResponseWriter, r *http.Request) {
	op := chi.URLParam(r, "op")

	fn, ok := reg.ops[op]
	if !ok {
		reg.log.Warn("unknown operation", zap.String("op", op))
		writeResult(w, Result{"message": "", "error": "Operación desconocida: " + op})
		return
	}

	var args Args
	if r.Body != nil {
		if err := json.NewDecoder(r.Body).Decode(&args); err != nil {
			writeResult(w, Result{"message": "", "error": "Solicitud JSON inválida"})
			return
		}
	}
	if args == nil {
		args = Args{}
	}

	res, err := fn(r.Context(), args)
	if err != nil {
		if faults.KindOf(err) == faults.Internal {
			reg.log.Error("operation failed", zap.String("op", op), zap.Error(err))
		}
		writeResult(w, Result{"message": "", "error": faults.Message(err)})
		return
	}

	if res == nil {
		res = Result{}
	}
	res["error"] = ""
	writeResult(w, res)
}

func writeResult(w http.ResponseWriter, res Result) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(res)
}
