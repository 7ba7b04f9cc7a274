package presence

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	activitystore "github.com/emjjkk/portfolio-backend/src/lib/cache/activity"
	"github.com/emjjkk/portfolio-backend/src/types"
)

// Fetcher returns the current activity, or nil when there is none.
type Fetcher interface {
	Fetch(ctx context.Context) (*types.Activity, error)
}

type FetcherFunc func(ctx context.Context) (*types.Activity, error)

func (f FetcherFunc) Fetch(ctx context.Context) (*types.Activity, error) {
	return f(ctx)
}

// StoreFetcher reads straight from the activity store, for in-process use.
func StoreFetcher(store *activitystore.Store) Fetcher {
	return FetcherFunc(store.Read)
}

// HTTPFetcher polls a remote site's activity endpoint.
type HTTPFetcher struct {
	URL    string
	Client *http.Client
}

// NewHTTPFetcher points at {baseURL}/api/premid.
func NewHTTPFetcher(baseURL string, client *http.Client) *HTTPFetcher {
	if client == nil {
		client = &http.Client{Timeout: DefaultFetchTimeout}
	}
	return &HTTPFetcher{
		URL:    strings.TrimRight(baseURL, "/") + "/api/premid",
		Client: client,
	}
}

func (f *HTTPFetcher) Fetch(ctx context.Context) (*types.Activity, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("build activity request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch activity: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("read activity response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch activity: unexpected status %d", resp.StatusCode)
	}

	return activitystore.Decode(body)
}
