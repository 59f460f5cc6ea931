package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"lessonshop/pkg/logger"
)

// errorResponse is the body of every non-2xx reply.
type errorResponse struct {
	Error string `json:"error"`
}

// createdResponse confirms an order was stored.
type createdResponse struct {
	Message string `json:"message"`
	OrderID string `json:"orderId"`
}

// writeJSON encodes v before touching w, so a value that cannot be encoded
// becomes a 500 instead of a half-written body.
func writeJSON(w http.ResponseWriter, status int, v any) error {
	body, err := json.Marshal(v)
	if err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error":"internal server error"}` + "\n"))
		return fmt.Errorf("encode response: %w", err)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(append(body, '\n')); err != nil {
		return fmt.Errorf("write response: %w", err)
	}
	return nil
}

// respond writes v and logs a failed encode or write. Once the status line
// is out nothing more can be sent to the client.
func respond(ctx context.Context, log *logger.Logger, w http.ResponseWriter, status int, v any) {
	if err := writeJSON(w, status, v); err != nil {
		log.Error(ctx, "write response", "status", status, "error", err)
	}
}

func respondError(ctx context.Context, log *logger.Logger, w http.ResponseWriter, status int, msg string) {
	respond(ctx, log, w, status, errorResponse{Error: msg})
}

func (h *Handlers) reply(ctx context.Context, w http.ResponseWriter, status int, v any) {
	respond(ctx, h.log, w, status, v)
}

func (h *Handlers) replyError(ctx context.Context, w http.ResponseWriter, status int, msg string) {
	respondError(ctx, h.log, w, status, msg)
}

// fault logs err and replies with a generic 500 so store details never
// reach the caller.
func (h *Handlers) fault(ctx context.Context, w http.ResponseWriter, op string, err error, msg string) {
	h.log.Error(ctx, op, "error", err)
	h.replyError(ctx, w, http.StatusInternalServerError, msg)
}
