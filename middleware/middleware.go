// Package middleware validates JSON request bodies against a schema before
// the wrapped handler runs.
package middleware

import (
	"context"
	"errors"
	"io"
	"net/http"

	json "github.com/goccy/go-json"

	brannigan "github.com/ido50/Brannigan"
	"github.com/ido50/Brannigan/i18n"
)

// ctxKeyResult is a typed context key for storing a processed Result.
type ctxKeyResult struct{}

// ContextWithResult attaches a Result to the context.
func ContextWithResult(ctx context.Context, res brannigan.Result) context.Context {
	return context.WithValue(ctx, ctxKeyResult{}, res)
}

// ResultFromContext retrieves the Result stored by Process.
func ResultFromContext(ctx context.Context) (brannigan.Result, bool) {
	v, ok := ctx.Value(ctxKeyResult{}).(brannigan.Result)
	return v, ok
}

// Process runs the request body through b's schema before next. Bodies that
// are not JSON objects, or that name an unregistered schema or validator,
// get a 400; bodies with rejected fields get a 422 carrying the reject map;
// clean bodies reach next with the Result in the request context.
func Process(b *brannigan.Brannigan, schema string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		if err != nil {
			http.Error(w, "cannot read request body", http.StatusBadRequest)
			return
		}
		res, err := b.ProcessJSON(schema, body)
		if err != nil {
			if errors.Is(err, brannigan.ErrNotObject) {
				writeJSON(w, http.StatusBadRequest, map[string]any{"error": "request body must be a JSON object"})
				return
			}
			writeJSON(w, http.StatusBadRequest, map[string]any{"error": err.Error()})
			return
		}
		if len(res.Rejects) > 0 {
			writeJSON(w, http.StatusUnprocessableEntity, ErrorPayload(res.Rejects))
			return
		}
		next.ServeHTTP(w, r.WithContext(ContextWithResult(r.Context(), *res)))
	})
}

// ErrorPayload shapes a reject map for JSON responses, pairing each path
// with translated messages.
func ErrorPayload(rejects brannigan.RejectMap) map[string]any {
	messages := make(map[string][]string, len(rejects))
	for _, path := range rejects.Paths() {
		for _, r := range rejects[path] {
			messages[path] = append(messages[path], i18n.RejectMessage(r))
		}
	}
	return map[string]any{"rejects": rejects, "messages": messages}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
