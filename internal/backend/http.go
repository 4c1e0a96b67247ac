package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/daydash-app/daydash/internal/common"
	"github.com/sethvargo/go-retry"
)

// TokenSource yields the current access token for outgoing requests.
type TokenSource func(ctx context.Context) (string, error)

// HTTPTableClient implements TableClient against the daydash row service.
// Transient failures (network errors, 5xx) are retried with fibonacci
// backoff; every operation of the protocol is idempotent, so retries are
// safe.
type HTTPTableClient struct {
	baseURL string
	http    *http.Client
	token   TokenSource

	maxRetries uint64
	backoff    time.Duration
}

func NewHTTPTableClient(baseURL string, token TokenSource) *HTTPTableClient {
	return &HTTPTableClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		http:       &http.Client{Timeout: 30 * time.Second},
		token:      token,
		maxRetries: 3,
		backoff:    200 * time.Millisecond,
	}
}

func (c *HTTPTableClient) Select(ctx context.Context, table, orderBy string) ([]Row, error) {
	endpoint := fmt.Sprintf("/v1/tables/%s/rows", url.PathEscape(table))
	if orderBy != "" {
		endpoint += "?order=" + url.QueryEscape(orderBy)
	}
	body, err := c.do(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	var rows []Row
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("failed to decode rows: %w", err)
	}
	return rows, nil
}

func (c *HTTPTableClient) Upsert(ctx context.Context, table string, row Row) (Row, error) {
	id, _ := row["id"].(string)
	if id == "" {
		return nil, fmt.Errorf("upsert row without id")
	}
	endpoint := fmt.Sprintf("/v1/tables/%s/rows/%s", url.PathEscape(table), url.PathEscape(id))
	body, err := c.do(ctx, http.MethodPut, endpoint, row)
	if err != nil {
		return nil, err
	}
	var stored Row
	if err := json.Unmarshal(body, &stored); err != nil {
		return nil, fmt.Errorf("failed to decode stored row: %w", err)
	}
	return stored, nil
}

func (c *HTTPTableClient) Update(ctx context.Context, table, id string, cols Row) error {
	endpoint := fmt.Sprintf("/v1/tables/%s/rows/%s", url.PathEscape(table), url.PathEscape(id))
	_, err := c.do(ctx, http.MethodPatch, endpoint, cols)
	return err
}

func (c *HTTPTableClient) Delete(ctx context.Context, table, id string) error {
	endpoint := fmt.Sprintf("/v1/tables/%s/rows/%s", url.PathEscape(table), url.PathEscape(id))
	_, err := c.do(ctx, http.MethodDelete, endpoint, nil)
	return err
}

// do performs one authenticated request with retry on transient failures and
// returns the response body.
func (c *HTTPTableClient) do(ctx context.Context, method, endpoint string, payload any) ([]byte, error) {
	var reqBody []byte
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		reqBody = b
	}

	token, err := c.token(ctx)
	if err != nil {
		return nil, err
	}

	var respBody []byte
	backoff := retry.WithMaxRetries(c.maxRetries, retry.NewFibonacci(c.backoff))
	err = retry.Do(ctx, backoff, func(ctx context.Context) error {
		var rdr io.Reader
		if reqBody != nil {
			rdr = bytes.NewReader(reqBody)
		}
		req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, rdr)
		if err != nil {
			return err
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+token)

		resp, err := c.http.Do(req)
		if err != nil {
			return retry.RetryableError(err)
		}
		defer resp.Body.Close()

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return retry.RetryableError(err)
		}

		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			respBody = body
			return nil
		}
		statusErr := statusError(resp.StatusCode, body)
		if resp.StatusCode >= 500 {
			return retry.RetryableError(statusErr)
		}
		return statusErr
	})
	if err != nil {
		return nil, err
	}
	return respBody, nil
}

func statusError(code int, body []byte) error {
	switch code {
	case http.StatusUnauthorized:
		return common.ErrAuthRequired
	case http.StatusNotFound:
		return common.ErrNotFound
	case http.StatusConflict:
		return common.ErrOwnershipConflict
	}
	msg := strings.TrimSpace(string(body))
	if msg == "" {
		msg = http.StatusText(code)
	}
	return fmt.Errorf("status %d: %s", code, msg)
}
