package jira

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/devops-noc/jira-report-app/pkg/errors"
	"github.com/devops-noc/jira-report-app/pkg/logger"
)

const (
	searchPath     = "/rest/api/2/search"
	requestTimeout = 60 * time.Second

	maxErrorBody = 512
)

type Searcher interface {
	Search(ctx context.Context, req SearchRequest) (*SearchResult, error)
}

type Auth interface {
	apply(r *http.Request)
}

func BasicAuth(username, password string) Auth {
	return basicAuth{username: username, password: password}
}

type basicAuth struct {
	username string
	password string
}

func (a basicAuth) apply(r *http.Request) {
	r.SetBasicAuth(a.username, a.password)
}

func TokenAuth(token string) Auth {
	return tokenAuth{token: token}
}

type tokenAuth struct {
	token string
}

func (a tokenAuth) apply(r *http.Request) {
	r.Header.Set("Authorization", "Bearer "+a.token)
}

func NewClient(baseURL string, auth Auth, log logger.Logger) *Client {
	return &Client{
		http:    &http.Client{Timeout: requestTimeout},
		baseURL: baseURL,
		auth:    auth,
		log:     log.With("jira_client"),
	}
}

type Client struct {
	http    *http.Client
	baseURL string
	auth    Auth
	log     logger.Logger
}

func (c *Client) Search(ctx context.Context, req SearchRequest) (*SearchResult, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, errors.WrapFail(err, "marshal search request")
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+searchPath, bytes.NewReader(body))
	if err != nil {
		return nil, errors.WrapFail(err, "build search request")
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	c.auth.apply(httpReq)

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, errors.WrapFail(err, "do search request")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, errors.Errorf("jira search returned %d: %s", resp.StatusCode, snippet)
	}

	var result SearchResult
	err = json.NewDecoder(resp.Body).Decode(&result)
	if err != nil {
		return nil, errors.WrapFail(err, "decode search response")
	}

	c.log.Debugf("search page startAt=%d got %d of %d issues", req.StartAt, len(result.Issues), result.Total)

	return &result, nil
}
