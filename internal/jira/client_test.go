package jira

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/devops-noc/jira-report-app/pkg/logger"
)

func TestClient_Search(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, searchPath, r.URL.Path)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))

		user, pass, ok := r.BasicAuth()
		require.True(t, ok)
		require.Equal(t, "svc-jira", user)
		require.Equal(t, "hunter2", pass)

		var req SearchRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Equal(t, `project = Test ORDER BY created DESC`, req.JQL)
		require.Equal(t, 500, req.MaxResults)
		require.Equal(t, []string{"summary", "status"}, req.Fields)

		_ = json.NewEncoder(w).Encode(SearchResult{
			Total: 1,
			Issues: []Issue{{
				Key: "T-1",
				Fields: map[string]any{
					"summary": "hello",
					"status":  map[string]any{"name": "Open"},
				},
			}},
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, BasicAuth("svc-jira", "hunter2"), logger.NewStub())

	got, err := c.Search(context.Background(), SearchRequest{
		JQL:        `project = Test ORDER BY created DESC`,
		MaxResults: 500,
		Fields:     []string{"summary", "status"},
	})

	require.NoError(t, err)
	require.Equal(t, 1, got.Total)
	require.Len(t, got.Issues, 1)
	require.Equal(t, "T-1", got.Issues[0].Key)
	require.Equal(t, "hello", got.Issues[0].Fields["summary"])
}

func TestClient_Search_tokenAuth(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "Bearer pat-token", r.Header.Get("Authorization"))
		_ = json.NewEncoder(w).Encode(SearchResult{})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, TokenAuth("pat-token"), logger.NewStub())

	_, err := c.Search(context.Background(), SearchRequest{})
	require.NoError(t, err)
}

func TestClient_Search_httpError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"errorMessages":["bad jql"]}`, http.StatusBadRequest)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, BasicAuth("u", "p"), logger.NewStub())

	_, err := c.Search(context.Background(), SearchRequest{})
	require.Error(t, err)
	require.Contains(t, err.Error(), "400")
	require.Contains(t, err.Error(), "bad jql")
}

func TestClient_Search_cancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(SearchResult{})
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := NewClient(srv.URL, BasicAuth("u", "p"), logger.NewStub())

	_, err := c.Search(ctx, SearchRequest{})
	require.Error(t, err)
}
