package httphandler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

const accountsEvent = "accounts"

// StreamAccounts pushes the full account list as a server-sent event on
// connect and again after every change, until the client disconnects or
// CloseStreams is called.
func (h *Handler) StreamAccounts(w http.ResponseWriter, r *http.Request) {
	rc := http.NewResponseController(w)
	// The stream outlives the server's WriteTimeout.
	if err := rc.SetWriteDeadline(time.Time{}); err != nil && !errors.Is(err, http.ErrNotSupported) {
		h.logger.Debug("account stream keeps server write deadline", "error", err)
	}

	changes, cancel := h.accounts.Subscribe()
	defer cancel()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	if err := h.sendAccounts(w, rc); err != nil {
		h.logger.Debug("account stream closed", "error", err)
		return
	}

	for {
		select {
		case <-r.Context().Done():
			return
		case <-h.streamsDone:
			return
		case <-changes:
			if err := h.sendAccounts(w, rc); err != nil {
				h.logger.Debug("account stream closed", "error", err)
				return
			}
		}
	}
}

func (h *Handler) sendAccounts(w http.ResponseWriter, rc *http.ResponseController) error {
	data, err := json.Marshal(toAccountResponses(h.accounts.List()))
	if err != nil {
		return fmt.Errorf("encode accounts event: %w", err)
	}
	if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", accountsEvent, data); err != nil {
		return fmt.Errorf("write accounts event: %w", err)
	}
	if err := rc.Flush(); err != nil {
		return fmt.Errorf("flush accounts event: %w", err)
	}
	return nil
}
