package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTextbeltSendSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Equal(t, "+15550100", body["phone"])
		require.Equal(t, "stay indoors", body["message"])
		require.Equal(t, "textbelt", body["key"])
		w.Write([]byte(`{"success":true}`))
	}))
	defer server.Close()

	dispatcher := NewTextbeltDispatcher(server.URL, "")
	require.NoError(t, dispatcher.Send(context.Background(), "+15550100", "stay indoors"))
}

func TestTextbeltSendRejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"success":false,"error":"out of quota"}`))
	}))
	defer server.Close()

	dispatcher := NewTextbeltDispatcher(server.URL, "paid-key")
	err := dispatcher.Send(context.Background(), "+15550100", "hello")
	require.ErrorContains(t, err, "out of quota")
}

func TestTextbeltSendUpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	dispatcher := NewTextbeltDispatcher(server.URL, "")
	require.Error(t, dispatcher.Send(context.Background(), "+15550100", "hello"))
}
