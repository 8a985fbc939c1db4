package gateway

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClient(t *testing.T) {
	c, err := NewClient(ClientConfig{})
	require.NoError(t, err)
	assert.Equal(t, DefaultBaseURL, c.BaseURL())

	_, err = NewClient(ClientConfig{BaseURL: "ftp://example.com"})
	assert.Error(t, err)
}

func TestClient_StatusErrors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		kind    Kind
		message string
	}{
		{"unauthorized", http.StatusUnauthorized, "", KindAuth, MsgAuth},
		{"not found", http.StatusNotFound, "", KindNotFound, MsgNotFound},
		{"validation", http.StatusUnprocessableEntity, "", KindValidation, MsgValidation},
		{"server", http.StatusBadGateway, "", KindServer, MsgServer},
		{"other", http.StatusTeapot, "", KindUnknown, MsgUnknown},
		{"body message wins", http.StatusUnprocessableEntity, `{"message":"Question is required","code":"E_QUESTION","errors":{"question":["required"]}}`, KindValidation, "Question is required"},
		{"non json body", http.StatusInternalServerError, "<html>oops</html>", KindServer, MsgServer},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			c, err := NewClient(ClientConfig{BaseURL: srv.URL})
			require.NoError(t, err)

			err = c.Get(context.Background(), "accounts/all", nil)
			require.Error(t, err)

			var gerr *Error
			require.ErrorAs(t, err, &gerr)
			assert.Equal(t, tt.kind, gerr.Kind)
			assert.Equal(t, tt.status, gerr.Status)
			assert.Equal(t, tt.message, gerr.Message)
			assert.Equal(t, tt.message, Message(err))
		})
	}
}

func TestClient_ValidationFields(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"code":"E_QUESTION","errors":{"question":["required"]}}`))
	}))
	defer srv.Close()

	c, err := NewClient(ClientConfig{BaseURL: srv.URL})
	require.NoError(t, err)

	var gerr *Error
	require.ErrorAs(t, c.Post(context.Background(), "magic/generate", map[string]string{}, nil), &gerr)
	assert.Equal(t, MsgValidation, gerr.Message)
	assert.Equal(t, "E_QUESTION", gerr.Code)
	assert.Equal(t, []string{"required"}, gerr.Fields["question"])
}

func TestClient_NetworkError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c, err := NewClient(ClientConfig{BaseURL: url})
	require.NoError(t, err)

	err = c.Get(context.Background(), "accounts/all", nil)
	assert.True(t, IsKind(err, KindNetwork))
	assert.Equal(t, MsgUnknown, Message(err))
}

func TestClient_Timeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	c, err := NewClient(ClientConfig{BaseURL: srv.URL, Timeout: 50 * time.Millisecond})
	require.NoError(t, err)

	err = c.Get(context.Background(), "accounts/all", nil)
	assert.True(t, IsKind(err, KindNetwork))
}

func TestClient_DecodeFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("not json"))
	}))
	defer srv.Close()

	c, err := NewClient(ClientConfig{BaseURL: srv.URL})
	require.NoError(t, err)

	var out []string
	err = c.Get(context.Background(), "accounts/all", &out)
	assert.True(t, IsKind(err, KindUnknown))
}

func TestMessage_NonGatewayError(t *testing.T) {
	assert.Equal(t, MsgUnknown, Message(context.DeadlineExceeded))
	assert.False(t, IsKind(context.Canceled, KindNetwork))
}
