package transport

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/papertrail/pkg/errors"
)

func TestGetSetsHeadersAndQuery(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-agent", r.Header.Get("User-Agent"))
		assert.Equal(t, "application/atom+xml", r.Header.Get("Accept"))
		assert.Equal(t, "au:Munos", r.URL.Query().Get("search_query"))
		_, _ = w.Write([]byte(`<feed><title>ok</title></feed>`))
	}))
	defer srv.Close()

	c := New(WithUserAgent("test-agent"), WithAccept("application/atom+xml"), WithTimeout(time.Second))
	resp, err := c.Get(context.Background(), srv.URL, url.Values{"search_query": {"au:Munos"}})
	require.NoError(t, err)

	var feed struct {
		Title string `xml:"title"`
	}
	require.NoError(t, DecodeXML(resp, "test", &feed))
	assert.Equal(t, "ok", feed.Title)
}

func TestDecodeStatusErrors(t *testing.T) {
	tests := []struct {
		status      int
		rateLimited bool
		unavailable bool
	}{
		{http.StatusTooManyRequests, true, false},
		{http.StatusServiceUnavailable, false, true},
		{http.StatusBadRequest, false, false},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			}))
			defer srv.Close()

			resp, err := New().Get(context.Background(), srv.URL, nil)
			require.NoError(t, err)

			var out struct{}
			err = DecodeJSON(resp, "test", &out)
			var apiErr *errors.APIError
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, tt.status, apiErr.StatusCode)
			assert.Equal(t, srv.URL, apiErr.Endpoint)
			assert.Equal(t, tt.rateLimited, errors.IsRateLimited(err))
			assert.Equal(t, tt.unavailable, errors.IsSourceUnavailable(err))
		})
	}
}

func TestDecodeMalformed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{not json`))
	}))
	defer srv.Close()

	resp, err := New().Get(context.Background(), srv.URL, nil)
	require.NoError(t, err)

	var out map[string]any
	err = DecodeJSON(resp, "test", &out)
	var perr *errors.ParseError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "json", perr.Format)
}
