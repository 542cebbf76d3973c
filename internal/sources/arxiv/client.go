package arxiv

import (
	"context"

	"github.com/agentstation/papertrail/internal/transport"
	"github.com/agentstation/papertrail/pkg/constants"
)

const sourceName = "arxiv"

// Client talks to the arXiv export API.
type Client struct {
	http    *transport.Client
	baseURL string
}

// NewClient returns a client for the API at baseURL, or the public API
// when baseURL is empty.
func NewClient(baseURL string, opts ...transport.Option) *Client {
	if baseURL == "" {
		baseURL = constants.ArxivAPIURL
	}
	opts = append([]transport.Option{transport.WithAccept("application/atom+xml")}, opts...)
	return &Client{
		http:    transport.New(opts...),
		baseURL: baseURL,
	}
}

// Search requests one page of results. It makes a single request; see
// Fetcher for retries.
func (c *Client) Search(ctx context.Context, q Query, start, max int) (*Page, error) {
	resp, err := c.http.Get(ctx, c.baseURL, q.Values(start, max))
	if err != nil {
		return nil, err
	}
	var f feed
	if err := transport.DecodeXML(resp, sourceName, &f); err != nil {
		return nil, err
	}
	return f.page()
}
