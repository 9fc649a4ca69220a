package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/enzomar/agrinote/internal/storage"
)

func TestRequestSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"name":"Zolfo"}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, 0, storage.NewMemory())
	resp := client.Get(context.Background(), "/products/p1")

	require.True(t, resp.Success)
	assert.Empty(t, resp.Error)
	assert.False(t, resp.Timestamp.IsZero())

	var out struct {
		Name string `json:"name"`
	}
	require.True(t, resp.Decode(&out))
	assert.Equal(t, "Zolfo", out.Name)
}

func TestRequestHTTPErrorBecomesEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, 0, storage.NewMemory())
	resp := client.Get(context.Background(), "/treatments")

	assert.False(t, resp.Success)
	assert.Contains(t, resp.Error, "HTTP 500")
}

func TestRequestNetworkFailureBecomesEnvelope(t *testing.T) {
	client := NewClient("http://127.0.0.1:1", 500*time.Millisecond, storage.NewMemory())
	resp := client.Get(context.Background(), "/treatments")

	assert.False(t, resp.Success)
	assert.NotEmpty(t, resp.Error)
}

func TestRequestTimeoutBecomesEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, 20*time.Millisecond, storage.NewMemory())
	resp := client.Get(context.Background(), "/weather/current")

	assert.False(t, resp.Success)
	assert.NotEmpty(t, resp.Error)
}

func TestAuthTokenAttachedAndPersisted(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	mem := storage.NewMemory()
	client := NewClient(srv.URL, 0, mem)
	require.NoError(t, client.SetAuthToken("tok-123"))

	client.Get(context.Background(), "/farm")
	assert.Equal(t, "Bearer tok-123", gotAuth)

	// a fresh client over the same storage restores the token
	restored := NewClient(srv.URL, 0, mem)
	restored.Get(context.Background(), "/farm")
	assert.Equal(t, "Bearer tok-123", gotAuth)
}

func TestPostSerializesBody(t *testing.T) {
	var got map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, 0, storage.NewMemory())
	resp := client.Post(context.Background(), "/products/scan-barcode", map[string]string{"barcode": "800"})

	require.True(t, resp.Success)
	assert.Equal(t, "800", got["barcode"])
}

func TestSetAuthTokenSafeDuringRequests(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, 0, storage.NewMemory())

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 50; i++ {
			require.NoError(t, client.SetAuthToken("tok-refreshed"))
		}
	}()
	for i := 0; i < 50; i++ {
		client.Get(context.Background(), "/farm")
	}
	<-done

	resp := client.Get(context.Background(), "/farm")
	assert.True(t, resp.Success)
}

func TestDecodeFailureFlipsEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`not json`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, 0, storage.NewMemory())
	resp := client.Get(context.Background(), "/treatments")
	require.True(t, resp.Success)

	var out map[string]string
	assert.False(t, resp.Decode(&out))
	assert.False(t, resp.Success)
	assert.Contains(t, resp.Error, "decode response")
}
