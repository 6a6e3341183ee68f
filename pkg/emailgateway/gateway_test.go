package emailgateway

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPGatewaySend(t *testing.T) {
	var captured sendRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/emails", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"msg-123"}`))
	}))
	defer server.Close()

	gateway := NewHTTPGateway(server.URL, "test-key", "Xeno CRM", "noreply@example.com", false)

	msgID, err := gateway.Send("amit@example.com", "Diwali Sale - Special Message for You", "<p>Hi Amit</p>", "Hi Amit")
	require.NoError(t, err)
	assert.Equal(t, "msg-123", msgID)
	assert.Equal(t, "Xeno CRM <noreply@example.com>", captured.From)
	assert.Equal(t, []string{"amit@example.com"}, captured.To)
	assert.Equal(t, "Diwali Sale - Special Message for You", captured.Subject)
}

func TestHTTPGatewaySendErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"message":"invalid recipient"}`))
	}))
	defer server.Close()

	gateway := NewHTTPGateway(server.URL, "test-key", "Xeno CRM", "noreply@example.com", false)

	_, err := gateway.Send("bad@", "subject", "html", "text")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "422")
}

func TestHTTPGatewayMockMode(t *testing.T) {
	gateway := NewHTTPGateway("http://unreachable.invalid", "", "Xeno CRM", "noreply@example.com", true)

	msgID, err := gateway.Send("amit@example.com", "subject", "html", "text")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(msgID, "MOCK-MSG-"))
	require.NoError(t, gateway.Verify())
}

func TestHTTPGatewayVerify(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/domains", r.URL.Path)
		if r.Header.Get("Authorization") != "Bearer good-key" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	good := NewHTTPGateway(server.URL, "good-key", "Xeno CRM", "noreply@example.com", false)
	require.NoError(t, good.Verify())

	bad := NewHTTPGateway(server.URL, "bad-key", "Xeno CRM", "noreply@example.com", false)
	require.Error(t, bad.Verify())
}

func TestWrapHTML(t *testing.T) {
	html := WrapHTML("Hi Amit,\nhere's 10% off!")
	assert.Contains(t, html, "Hi Amit,<br>here's 10% off!")
	assert.Contains(t, html, "Xeno CRM")
}
