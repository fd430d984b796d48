// Package workflow запускает внешний workflow оповещения спасателей (Kestra executions API).
package workflow

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

const maxErrorBody = 2 << 10

// Fields - данные алерта, передаваемые в workflow
type Fields struct {
	AnimalType     string
	InjuryLocation string
	Severity       int
	ResponderEmail string
	ImageURL       string
	Latitude       float64
	Longitude      float64
}

// DownstreamUnavailableError - workflow недоступен (сетевая ошибка или таймаут)
type DownstreamUnavailableError struct {
	Err error
}

func (e *DownstreamUnavailableError) Error() string {
	return fmt.Sprintf("workflow: downstream unavailable: %v", e.Err)
}

func (e *DownstreamUnavailableError) Unwrap() error { return e.Err }

// DownstreamRejectedError - workflow ответил ошибкой или ответ не содержит id запуска
type DownstreamRejectedError struct {
	StatusCode int
	Body       string
}

func (e *DownstreamRejectedError) Error() string {
	return fmt.Sprintf("workflow: downstream rejected request: status %d: %s", e.StatusCode, e.Body)
}

// Config - параметры подключения к workflow-движку
type Config struct {
	BaseURL   string
	Tenant    string
	Namespace string
	FlowID    string
	Username  string
	Password  string
}

// Trigger выполняет ровно одну попытку запуска workflow на алерт
type Trigger struct {
	endpoint   string
	username   string
	password   string
	httpClient *http.Client
}

// NewTrigger создает Trigger. httpClient может быть nil.
func NewTrigger(cfg Config, httpClient *http.Client) *Trigger {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	endpoint := fmt.Sprintf("%s/api/v1/%s/executions/%s/%s",
		strings.TrimSuffix(cfg.BaseURL, "/"),
		url.PathEscape(cfg.Tenant),
		url.PathEscape(cfg.Namespace),
		url.PathEscape(cfg.FlowID),
	)
	return &Trigger{
		endpoint:   endpoint,
		username:   cfg.Username,
		password:   cfg.Password,
		httpClient: httpClient,
	}
}

// Endpoint возвращает URL запуска workflow
func (t *Trigger) Endpoint() string {
	return t.endpoint
}

type executionResponse struct {
	ID          string `json:"id"`
	ExecutionID string `json:"executionId"`
}

// Trigger отправляет данные алерта и возвращает идентификатор запуска
func (t *Trigger) Trigger(ctx context.Context, alertID uuid.UUID, fields Fields) (string, error) {
	body, contentType, err := encodeForm(alertID, fields)
	if err != nil {
		return "", fmt.Errorf("workflow: failed to encode form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.endpoint, body)
	if err != nil {
		return "", fmt.Errorf("workflow: failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	if t.username != "" {
		req.SetBasicAuth(t.username, t.password)
	}

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return "", &DownstreamUnavailableError{Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", &DownstreamUnavailableError{Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &DownstreamRejectedError{StatusCode: resp.StatusCode, Body: truncate(raw)}
	}

	var out executionResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return "", &DownstreamRejectedError{StatusCode: resp.StatusCode, Body: truncate(raw)}
	}
	id := out.ID
	if id == "" {
		id = out.ExecutionID
	}
	if id == "" {
		return "", &DownstreamRejectedError{StatusCode: resp.StatusCode, Body: truncate(raw)}
	}
	return id, nil
}

func encodeForm(alertID uuid.UUID, f Fields) (*bytes.Buffer, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	values := []struct{ key, value string }{
		{"alertId", alertID.String()},
		{"animalType", f.AnimalType},
		{"injuryLocation", f.InjuryLocation},
		{"severity", strconv.Itoa(f.Severity)},
		{"ngoEmail", f.ResponderEmail},
		{"imageUrl", f.ImageURL},
		{"latitude", strconv.FormatFloat(f.Latitude, 'f', -1, 64)},
		{"longitude", strconv.FormatFloat(f.Longitude, 'f', -1, 64)},
	}
	for _, v := range values {
		if err := w.WriteField(v.key, v.value); err != nil {
			return nil, "", err
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}

func truncate(b []byte) string {
	if len(b) > maxErrorBody {
		b = b[:maxErrorBody]
	}
	return string(b)
}
