// Package netx fetches listing snapshots published behind presigned URLs.
package netx

import (
	"context"
	"fmt"
	"io"
	"net/http"
)

// maxSnapshotSize bounds the body read from a presigned URL.
const maxSnapshotSize = 1 << 20

var httpClient = http.DefaultClient

// FetchPresignedURL downloads the object behind a presigned GET url.
func FetchPresignedURL(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxSnapshotSize))
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch failed: %s; body: %s", resp.Status, string(body))
	}
	return body, nil
}
