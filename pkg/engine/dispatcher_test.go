package engine

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPDispatcher_Send(t *testing.T) {
	tests := []struct {
		name   string
		status int
		kind   error
		detail string
	}{
		{name: "ok", status: http.StatusOK},
		{name: "accepted", status: http.StatusAccepted},
		{name: "unauthorized", status: http.StatusUnauthorized, kind: ErrInvalidCredential, detail: "Unauthorized"},
		{name: "forbidden", status: http.StatusForbidden, kind: ErrInvalidCredential, detail: "Forbidden"},
		{name: "not found", status: http.StatusNotFound, kind: ErrServerError, detail: "Not Found"},
		{name: "internal", status: http.StatusInternalServerError, kind: ErrServerError, detail: "Internal Server Error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
			}))
			defer server.Close()

			err := NewHTTPDispatcher(time.Second).Send(t.Context(), server.URL, "key", Notification{Token: "a"})

			if tt.kind == nil {
				require.NoError(t, err)

				return
			}

			var dispatchErr *DispatchError
			require.ErrorAs(t, err, &dispatchErr)
			assert.ErrorIs(t, err, tt.kind)
			assert.Equal(t, tt.status, dispatchErr.StatusCode)
			assert.Equal(t, tt.detail, dispatchErr.Detail)
		})
	}
}

func TestHTTPDispatcher_Timeout(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		<-release
	}))
	defer server.Close()
	defer close(release)

	err := NewHTTPDispatcher(50*time.Millisecond).Send(t.Context(), server.URL, "key", Notification{Token: "a"})

	require.ErrorIs(t, err, ErrNetworkError)
	assert.Equal(t, MessageNetworkError, UserMessage(err))
}

func TestHTTPDispatcher_InvalidURL(t *testing.T) {
	err := NewHTTPDispatcherWithClient(http.DefaultClient).Send(t.Context(), "://nope", "key", Notification{})

	require.ErrorIs(t, err, ErrNetworkError)
}
