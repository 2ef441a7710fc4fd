package jira

// SearchRequest is the body of POST /rest/api/2/search.
type SearchRequest struct {
	JQL        string   `json:"jql"`
	StartAt    int      `json:"startAt"`
	MaxResults int      `json:"maxResults"`
	Fields     []string `json:"fields"`
}

type Issue struct {
	Key string `json:"key"`

	// Fields is kept untyped: every report selects its own set of
	// custom fields, and option/user/array values are flattened
	// generically on the reports side.
	Fields map[string]any `json:"fields"`
}

type SearchResult struct {
	Total  int     `json:"total"`
	Issues []Issue `json:"issues"`
}
