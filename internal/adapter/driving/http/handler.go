package httphandler

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/ericfisherdev/accountdesk/internal/application"
	"github.com/ericfisherdev/accountdesk/internal/domain/model"
)

// Handler is the HTTP driving adapter that serves the REST API.
type Handler struct {
	accounts      *application.AccountStore
	notifications *application.NotificationStore
	logger        *slog.Logger

	streamsDone chan struct{}
	closeOnce   sync.Once
}

// NewHandler creates a Handler with all required dependencies.
func NewHandler(
	accounts *application.AccountStore,
	notifications *application.NotificationStore,
	logger *slog.Logger,
) *Handler {
	return &Handler{
		accounts:      accounts,
		notifications: notifications,
		logger:        logger,
		streamsDone:   make(chan struct{}),
	}
}

// CloseStreams ends every open event stream. http.Server.Shutdown does not
// cancel active requests, so register this with Server.RegisterOnShutdown.
func (h *Handler) CloseStreams() {
	h.closeOnce.Do(func() { close(h.streamsDone) })
}

// NewServeMux creates an http.Handler with all routes registered and wrapped
// with logging, recovery and CSRF middleware.
func NewServeMux(h *Handler, logger *slog.Logger) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/v1/accounts", h.ListAccounts)
	mux.HandleFunc("POST /api/v1/accounts", h.CreateAccount)
	mux.HandleFunc("GET /api/v1/accounts/events", h.StreamAccounts)
	mux.HandleFunc("GET /api/v1/accounts/{id}", h.GetAccount)
	mux.HandleFunc("PUT /api/v1/accounts/{id}", h.UpdateAccount)
	mux.HandleFunc("DELETE /api/v1/accounts/{id}", h.DeleteAccount)
	mux.HandleFunc("POST /api/v1/labels/parse", h.ParseLabels)
	mux.HandleFunc("GET /api/v1/notifications", h.ListNotifications)
	mux.HandleFunc("DELETE /api/v1/notifications/{id}", h.DismissNotification)
	mux.HandleFunc("GET /api/v1/health", h.Health)

	// Recovery innermost so panics are caught before logging.
	wrapped := recoveryMiddleware(logger, mux)
	wrapped = csrfMiddleware(wrapped)
	wrapped = loggingMiddleware(logger, wrapped)

	return wrapped
}

// ListAccounts returns all accounts in display order.
func (h *Handler) ListAccounts(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, toAccountResponses(h.accounts.List()))
}

// GetAccount returns a single account by id.
func (h *Handler) GetAccount(w http.ResponseWriter, r *http.Request) {
	acc, ok := h.accounts.Get(r.PathValue("id"))
	if !ok {
		writeError(w, http.StatusNotFound, "account not found")
		return
	}
	writeJSON(w, http.StatusOK, toAccountResponse(acc))
}

// CreateAccount adds a blank Local account for the form to bind to.
func (h *Handler) CreateAccount(w http.ResponseWriter, r *http.Request) {
	acc, err := h.accounts.Create(r.Context())
	if err != nil {
		h.logger.Error("failed to create account", "error", err)
		h.notifications.Error("Failed to save the new account")
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	h.notifications.Success("Account created")
	writeJSON(w, http.StatusCreated, toAccountResponse(acc))
}

// UpdateAccount replaces the account identified by the path id with the
// request body.
func (h *Handler) UpdateAccount(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var req UpdateAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	accountType := model.AccountType(req.Type)
	if !accountType.Valid() {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid account type %q: expected %s or %s",
			req.Type, model.AccountTypeLDAP, model.AccountTypeLocal))
		return
	}

	applied, err := h.accounts.Update(r.Context(), req.toAccount(id))
	if err != nil {
		h.logger.Error("failed to update account", "id", id, "error", err)
		h.notifications.Error("Failed to save the account")
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if !applied {
		h.notifications.Error("Account no longer exists")
		writeError(w, http.StatusNotFound, "account not found")
		return
	}

	acc, ok := h.accounts.Get(id)
	if !ok {
		// Deleted by a concurrent request between Update and Get.
		writeError(w, http.StatusNotFound, "account not found")
		return
	}

	h.notifications.Success("Account saved")
	writeJSON(w, http.StatusOK, toAccountResponse(acc))
}

// DeleteAccount removes an account. Deleting a missing account succeeds.
func (h *Handler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	if err := h.accounts.Delete(r.Context(), id); err != nil {
		h.logger.Error("failed to delete account", "id", id, "error", err)
		h.notifications.Error("Failed to delete the account")
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	h.notifications.Success("Account deleted")
	w.WriteHeader(http.StatusNoContent)
}

// ParseLabels splits a free-text label field into label items.
func (h *Handler) ParseLabels(w http.ResponseWriter, r *http.Request) {
	var req ParseLabelsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	writeJSON(w, http.StatusOK, toLabelResponses(application.ParseLabels(req.Text)))
}

// ListNotifications returns the queued notifications, oldest first.
func (h *Handler) ListNotifications(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, toNotificationResponses(h.notifications.List()))
}

// DismissNotification removes a notification before it expires.
func (h *Handler) DismissNotification(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid notification id")
		return
	}

	h.notifications.Remove(id)
	w.WriteHeader(http.StatusNoContent)
}

// Health reports whether the accounts slot can be read. An unreadable slot
// answers 503 with storage "error".
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{
		Status:  HealthOK,
		Storage: HealthOK,
		Time:    time.Now().UTC().Format(time.RFC3339),
	}
	status := http.StatusOK

	if err := h.accounts.Ping(r.Context()); err != nil {
		h.logger.Warn("health check: storage unreachable", "error", err)
		resp.Status = HealthDegraded
		resp.Storage = HealthError
		status = http.StatusServiceUnavailable
	}

	writeJSON(w, status, resp)
}
