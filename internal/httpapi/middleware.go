package httpapi

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"runtime/debug"
	"time"

	chi "github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"schoolbooks/internal/books"
)

type ctxKey string

const ctxKeyBook ctxKey = "book"
const ctxKeyEntryInput ctxKey = "validatedEntryInput"

// requestLogger logs basic request info at INFO.
func requestLogger(l *slog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()

			reqID := chimw.GetReqID(r.Context())
			l.Info("request started", "req_id", reqID, "method", r.Method, "path", r.URL.Path)

			next.ServeHTTP(ww, r)

			l.Info("request complete",
				"req_id", reqID,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start).String(),
			)
		})
	}
}

// recoverer logs panics as ERROR and returns 500.
func recoverer(l *slog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					reqID := chimw.GetReqID(r.Context())
					l.Error("panic", "req_id", reqID, "err", rec, "stack", string(debug.Stack()))
					w.WriteHeader(http.StatusInternalServerError)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// bookCtx resolves the {book} URL segment into a books.Book and stores it in
// the request context. Unknown book names are 404: the set of books is fixed.
func bookCtx(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, ok := books.ParseBook(chi.URLParam(r, "book"))
		if !ok {
			notFound(w)
			return
		}
		ctx := context.WithValue(r.Context(), ctxKeyBook, b)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func bookFrom(r *http.Request) books.Book {
	b, _ := r.Context().Value(ctxKeyBook).(books.Book)
	return b
}

// validateEntryBody decodes the entry payload, storing the parsed request in
// the request context for the handler to use. Field-level validation stays
// in the service so the error can list every offending field at once.
func (s *Server) validateEntryBody() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !requireJSON(w, r) {
				return
			}
			var req entryRequest
			dec := json.NewDecoder(r.Body)
			dec.DisallowUnknownFields()
			if err := dec.Decode(&req); err != nil {
				toJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON: " + err.Error()})
				return
			}
			ctx := context.WithValue(r.Context(), ctxKeyEntryInput, req)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
