package sheetdb

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClient_Defaults(t *testing.T) {
	client := NewClient("https://sheetdb.io/api/v1/abc/", 0)
	assert.Equal(t, "https://sheetdb.io/api/v1/abc", client.BaseURL)
	require.NotNil(t, client.HTTPClient)
	assert.Equal(t, defaultTimeout, client.HTTPClient.Timeout)
}

func TestCreateRecord(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v1/abc", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "@alice", body["username"])
		assert.Equal(t, "2025-01-01 17:30:00", body["time"])

		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"created":1}`))
	}))
	defer server.Close()

	client := NewClient(server.URL+"/api/v1/abc", time.Second)
	client.now = func() time.Time { return time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC) }

	require.NoError(t, client.CreateRecord(context.Background(), "@alice"))
}

func TestExists(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/search", r.URL.Path)
		switch r.URL.Query().Get("username") {
		case "@alice":
			w.Write([]byte(`[{"username":"@alice","time":"2025-01-01 17:30:00"}]`))
		default:
			w.Write([]byte(`[]`))
		}
	}))
	defer server.Close()

	client := NewClient(server.URL, time.Second)

	ok, err := client.Exists(context.Background(), "@alice")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = client.Exists(context.Background(), "99")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestDeleteRecord(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		switch r.URL.Path {
		case "/username/@alice":
			w.Write([]byte(`{"deleted":2}`))
		default:
			w.Write([]byte(`{"deleted":0}`))
		}
	}))
	defer server.Close()

	client := NewClient(server.URL, time.Second)

	n, err := client.DeleteRecord(context.Background(), "@alice")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	n, err = client.DeleteRecord(context.Background(), "99")
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestErrorsAreNotNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error":"quota"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, time.Second)

	ok, err := client.Exists(context.Background(), "@alice")
	require.Error(t, err)
	assert.False(t, ok)
	assert.Contains(t, err.Error(), "status=500")

	_, err = client.DeleteRecord(context.Background(), "@alice")
	assert.Error(t, err)

	assert.Error(t, client.CreateRecord(context.Background(), "@alice"))
}

func TestMalformedResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`not json`))
	}))
	defer server.Close()

	client := NewClient(server.URL, time.Second)
	_, err := client.Exists(context.Background(), "@alice")
	assert.ErrorContains(t, err, "decode response")
}

func TestTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.Write([]byte(`[]`))
	}))
	defer server.Close()

	client := NewClient(server.URL, 20*time.Millisecond)
	_, err := client.Exists(context.Background(), "@alice")
	assert.Error(t, err)
}
