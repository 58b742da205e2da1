package httphandler

import (
	"encoding/json"
	"net/http"

	"github.com/ericfisherdev/accountdesk/internal/application"
	"github.com/ericfisherdev/accountdesk/internal/domain/model"
)

// writeJSON marshals v to JSON and writes it to the response with the given
// status code. If marshaling fails, a 500 error is written instead.
func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"internal server error"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}

// writeError writes a JSON error response with the given status code and message.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// errorResponse is the standard error response body.
type errorResponse struct {
	Error string `json:"error"`
}

// LabelResponse is the JSON representation of a label.
type LabelResponse struct {
	Text string `json:"text"`
}

// AccountResponse is the JSON representation of an account. Password is null
// for LDAP accounts.
type AccountResponse struct {
	ID         string          `json:"id"`
	Labels     []LabelResponse `json:"labels"`
	LabelsText string          `json:"labels_text"`
	Type       string          `json:"type"`
	Login      string          `json:"login"`
	Password   *string         `json:"password"`
}

// NotificationResponse is the JSON representation of a queued notification.
type NotificationResponse struct {
	ID        int    `json:"id"`
	Message   string `json:"message"`
	Type      string `json:"type"`
	TimeoutMS int64  `json:"timeout_ms"`
}

// Health endpoint status values.
const (
	HealthOK       = "ok"
	HealthDegraded = "degraded"
	HealthError    = "error"
)

// HealthResponse is the JSON body of the health endpoint.
type HealthResponse struct {
	Status  string `json:"status"`
	Storage string `json:"storage"`
	Time    string `json:"time"`
}

// UpdateAccountRequest is the JSON body for replacing an account. When
// LabelsText is set it is parsed and takes precedence over Labels.
type UpdateAccountRequest struct {
	Labels     []LabelResponse `json:"labels"`
	LabelsText *string         `json:"labels_text"`
	Type       string          `json:"type"`
	Login      string          `json:"login"`
	Password   *string         `json:"password"`
}

// ParseLabelsRequest is the JSON body for label parsing.
type ParseLabelsRequest struct {
	Text string `json:"text"`
}

func (req UpdateAccountRequest) toAccount(id string) model.Account {
	labels := make([]model.LabelItem, 0, len(req.Labels))
	for _, l := range req.Labels {
		labels = append(labels, model.LabelItem{Text: l.Text})
	}
	if req.LabelsText != nil {
		labels = application.ParseLabels(*req.LabelsText)
	}

	return model.Account{
		ID:       id,
		Labels:   labels,
		Type:     model.AccountType(req.Type),
		Login:    req.Login,
		Password: req.Password,
	}
}

func toAccountResponse(a model.Account) AccountResponse {
	return AccountResponse{
		ID:         a.ID,
		Labels:     toLabelResponses(a.Labels),
		LabelsText: application.FormatLabels(a.Labels),
		Type:       string(a.Type),
		Login:      a.Login,
		Password:   a.Password,
	}
}

func toAccountResponses(accounts []model.Account) []AccountResponse {
	resp := make([]AccountResponse, 0, len(accounts))
	for _, a := range accounts {
		resp = append(resp, toAccountResponse(a))
	}
	return resp
}

func toLabelResponses(labels []model.LabelItem) []LabelResponse {
	resp := make([]LabelResponse, 0, len(labels))
	for _, l := range labels {
		resp = append(resp, LabelResponse{Text: l.Text})
	}
	return resp
}

func toNotificationResponses(notifications []model.Notification) []NotificationResponse {
	resp := make([]NotificationResponse, 0, len(notifications))
	for _, n := range notifications {
		resp = append(resp, NotificationResponse{
			ID:        n.ID,
			Message:   n.Message,
			Type:      string(n.Type),
			TimeoutMS: n.Timeout.Milliseconds(),
		})
	}
	return resp
}
