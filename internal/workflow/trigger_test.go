package workflow

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testEndpoint = "http://kestra.test/api/v1/main/executions/aras.rescue/rescue-workflow"

func newMockedTrigger(t *testing.T, username string) *Trigger {
	t.Helper()
	client := &http.Client{}
	httpmock.ActivateNonDefault(client)
	t.Cleanup(httpmock.DeactivateAndReset)

	return NewTrigger(Config{
		BaseURL:   "http://kestra.test/",
		Tenant:    "main",
		Namespace: "aras.rescue",
		FlowID:    "rescue-workflow",
		Username:  username,
		Password:  "pw",
	}, client)
}

func testFields() Fields {
	return Fields{
		AnimalType:     "Dog",
		InjuryLocation: "Front leg",
		Severity:       4,
		ResponderEmail: "delhi@wildlifesos.org",
		ImageURL:       "http://minio/animal-images/1-dog.jpg",
		Latitude:       28.6139,
		Longitude:      77.209,
	}
}

func TestNewTrigger_Endpoint(t *testing.T) {
	tr := newMockedTrigger(t, "")
	assert.Equal(t, testEndpoint, tr.Endpoint())
}

func TestTrigger_Success(t *testing.T) {
	tr := newMockedTrigger(t, "admin")
	alertID := uuid.New()

	httpmock.RegisterResponder(http.MethodPost, testEndpoint,
		func(req *http.Request) (*http.Response, error) {
			user, pass, ok := req.BasicAuth()
			assert.True(t, ok)
			assert.Equal(t, "admin", user)
			assert.Equal(t, "pw", pass)
			assert.True(t, strings.HasPrefix(req.Header.Get("Content-Type"), "multipart/form-data"))

			require.NoError(t, req.ParseMultipartForm(1<<20))
			assert.Equal(t, alertID.String(), req.FormValue("alertId"))
			assert.Equal(t, "Dog", req.FormValue("animalType"))
			assert.Equal(t, "Front leg", req.FormValue("injuryLocation"))
			assert.Equal(t, "4", req.FormValue("severity"))
			assert.Equal(t, "delhi@wildlifesos.org", req.FormValue("ngoEmail"))
			assert.Equal(t, "http://minio/animal-images/1-dog.jpg", req.FormValue("imageUrl"))
			assert.Equal(t, "28.6139", req.FormValue("latitude"))
			assert.Equal(t, "77.209", req.FormValue("longitude"))

			return httpmock.NewStringResponse(http.StatusOK, `{"id":"exec-123","state":{"current":"CREATED"}}`), nil
		})

	id, err := tr.Trigger(context.Background(), alertID, testFields())

	require.NoError(t, err)
	assert.Equal(t, "exec-123", id)
	assert.Equal(t, 1, httpmock.GetTotalCallCount())
}

func TestTrigger_ExecutionIDFallback(t *testing.T) {
	tr := newMockedTrigger(t, "")
	httpmock.RegisterResponder(http.MethodPost, testEndpoint,
		func(req *http.Request) (*http.Response, error) {
			_, _, ok := req.BasicAuth()
			assert.False(t, ok)
			return httpmock.NewStringResponse(http.StatusOK, `{"executionId":"exec-456"}`), nil
		})

	id, err := tr.Trigger(context.Background(), uuid.New(), testFields())

	require.NoError(t, err)
	assert.Equal(t, "exec-456", id)
}

func TestTrigger_Rejected(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		wantStatus int
	}{
		{"server error", http.StatusInternalServerError, `{"message":"boom"}`, http.StatusInternalServerError},
		{"unauthorized", http.StatusUnauthorized, `denied`, http.StatusUnauthorized},
		{"missing id", http.StatusOK, `{"state":"CREATED"}`, http.StatusOK},
		{"malformed json", http.StatusOK, `<html>`, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := newMockedTrigger(t, "")
			httpmock.RegisterResponder(http.MethodPost, testEndpoint, httpmock.NewStringResponder(tt.status, tt.body))

			_, err := tr.Trigger(context.Background(), uuid.New(), testFields())

			var rejected *DownstreamRejectedError
			require.ErrorAs(t, err, &rejected)
			assert.Equal(t, tt.wantStatus, rejected.StatusCode)
			assert.Equal(t, tt.body, rejected.Body)
			assert.Equal(t, 1, httpmock.GetTotalCallCount())
		})
	}
}

func TestTrigger_RejectedBodyTruncated(t *testing.T) {
	tr := newMockedTrigger(t, "")
	httpmock.RegisterResponder(http.MethodPost, testEndpoint,
		httpmock.NewStringResponder(http.StatusBadGateway, strings.Repeat("x", 5000)))

	_, err := tr.Trigger(context.Background(), uuid.New(), testFields())

	var rejected *DownstreamRejectedError
	require.ErrorAs(t, err, &rejected)
	assert.Len(t, rejected.Body, maxErrorBody)
}

func TestTrigger_Unavailable(t *testing.T) {
	tr := newMockedTrigger(t, "")
	netErr := errors.New("connection refused")
	httpmock.RegisterResponder(http.MethodPost, testEndpoint, httpmock.NewErrorResponder(netErr))

	_, err := tr.Trigger(context.Background(), uuid.New(), testFields())

	var unavailable *DownstreamUnavailableError
	require.ErrorAs(t, err, &unavailable)
	assert.ErrorIs(t, err, netErr)
	assert.Equal(t, 1, httpmock.GetTotalCallCount())
}
