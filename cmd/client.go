package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"ytdigest/internal/netutil"
)

const defaultServer = "http://localhost:8080"

// fetchJSON GETs path from a running ytdigest server and decodes the body.
func fetchJSON(ctx context.Context, server, path string, out any) error {
	url := strings.TrimRight(server, "/") + path
	client := &http.Client{Timeout: 10 * time.Second}
	retry := &netutil.SimpleRetryStrategy{MaxAttempts: 2, BaseDelayMs: 200}

	body, err := netutil.GetWithRetry(ctx, client, retry, url, http.Header{"Accept": {"application/json"}}, 1<<20)
	if err != nil {
		return fmt.Errorf("query %s: %w", url, err)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode response from %s: %w", url, err)
	}
	return nil
}
