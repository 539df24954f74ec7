// Package publisher calls the multi-platform posting service. One call
// covers every requested platform; the service reports each outcome
// independently, so one platform failing never blocks the rest.
package publisher

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"postflow/internal/domain"
)

type Publisher interface {
	Publish(ctx context.Context, req domain.PublishRequest) ([]domain.PublishResult, error)
}

type HTTPPublisher struct {
	endpoint string
	client   *http.Client
}

// NewHTTP returns a publisher posting to the given endpoint. The timeout
// bounds the whole call so a hung posting service cannot stall a dispatch
// pass indefinitely.
func NewHTTP(endpoint string, timeout time.Duration) *HTTPPublisher {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &HTTPPublisher{
		endpoint: endpoint,
		client:   &http.Client{Timeout: timeout},
	}
}

func (p *HTTPPublisher) Publish(ctx context.Context, req domain.PublishRequest) ([]domain.PublishResult, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("encode publish request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build publish request: %w", err)
	}
	httpReq.Header.Set("content-type", "application/json")

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("publish request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		b, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("publisher returned %d: %s", resp.StatusCode, string(b))
	}

	var results []domain.PublishResult
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return nil, fmt.Errorf("decode publish response: %w", err)
	}
	return results, nil
}
