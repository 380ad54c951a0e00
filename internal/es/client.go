package es

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	elasticsearch "github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
)

// Config holds Elasticsearch connection settings.
type Config struct {
	Addresses []string
	Username  string
	Password  string
}

// Client implements Store over the official Elasticsearch HTTP client.
type Client struct {
	es *elasticsearch.Client
}

var _ Store = (*Client)(nil)

// NewClient creates an engine client.
func NewClient(cfg Config) (*Client, error) {
	c, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: cfg.Addresses,
		Username:  cfg.Username,
		Password:  cfg.Password,
	})
	if err != nil {
		return nil, fmt.Errorf("create elasticsearch client: %w", err)
	}
	return &Client{es: c}, nil
}

// Ping checks engine availability.
func (c *Client) Ping(ctx context.Context) error {
	res, err := c.es.Ping(c.es.Ping.WithContext(ctx))
	if err != nil {
		return &Error{Op: OpPing, Err: err}
	}
	defer closeBody(res)
	if res.IsError() {
		return &Error{Op: OpPing, Err: responseError(res)}
	}
	return nil
}

// WaitForReady polls Ping until the engine answers or the timeout elapses.
func (c *Client) WaitForReady(ctx context.Context, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	for {
		err := c.Ping(ctx)
		if err == nil {
			return nil
		}
		if time.Now().After(deadline) {
			return fmt.Errorf("engine not ready after %s: %w", timeout, err)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(500 * time.Millisecond):
		}
	}
}

// IndexExists reports whether the named index is present.
func (c *Client) IndexExists(ctx context.Context, name string) (bool, error) {
	res, err := c.es.Indices.Exists([]string{name}, c.es.Indices.Exists.WithContext(ctx))
	if err != nil {
		return false, &Error{Op: OpIndexExists, Err: err}
	}
	defer closeBody(res)

	switch res.StatusCode {
	case http.StatusOK:
		return true, nil
	case http.StatusNotFound:
		return false, nil
	default:
		return false, &Error{Op: OpIndexExists, Err: fmt.Errorf("unexpected status %s", res.Status())}
	}
}

// CreateIndex creates an index with the given settings body.
func (c *Client) CreateIndex(ctx context.Context, name string, body []byte) error {
	res, err := c.es.Indices.Create(name,
		c.es.Indices.Create.WithBody(bytes.NewReader(body)),
		c.es.Indices.Create.WithContext(ctx),
	)
	if err != nil {
		return &Error{Op: OpCreateIndex, Err: err}
	}
	defer closeBody(res)
	if res.IsError() {
		return &Error{Op: OpCreateIndex, Err: responseError(res)}
	}
	return nil
}

// PutMapping submits a mapping update to an existing index. Engine mapping
// updates are additive; incompatible type changes are rejected remotely and
// surface here as errors.
func (c *Client) PutMapping(ctx context.Context, name string, body []byte) error {
	res, err := c.es.Indices.PutMapping([]string{name}, bytes.NewReader(body),
		c.es.Indices.PutMapping.WithContext(ctx),
	)
	if err != nil {
		return &Error{Op: OpPutMapping, Err: err}
	}
	defer closeBody(res)
	if res.IsError() {
		return &Error{Op: OpPutMapping, Err: responseError(res)}
	}
	return nil
}

// Bulk executes one bulk call and returns the per-item outcomes.
func (c *Client) Bulk(ctx context.Context, ops []BulkOp) (*BulkResult, error) {
	body, err := encodeBulkBody(ops)
	if err != nil {
		return nil, &Error{Op: OpBulk, Err: err}
	}

	res, err := c.es.Bulk(bytes.NewReader(body), c.es.Bulk.WithContext(ctx))
	if err != nil {
		return nil, &Error{Op: OpBulk, Err: err}
	}
	defer closeBody(res)
	if res.IsError() {
		return nil, &Error{Op: OpBulk, Err: responseError(res)}
	}

	result, err := decodeBulkResponse(res.Body)
	if err != nil {
		return nil, &Error{Op: OpBulk, Err: err}
	}
	return result, nil
}

// Search executes a raw query body. An empty index list searches every
// index; total hits are always tracked exactly.
func (c *Client) Search(ctx context.Context, indices []string, body []byte) (*SearchResult, error) {
	opts := []func(*esapi.SearchRequest){
		c.es.Search.WithContext(ctx),
		c.es.Search.WithBody(bytes.NewReader(body)),
		c.es.Search.WithTrackTotalHits(true),
	}
	if len(indices) > 0 {
		opts = append(opts, c.es.Search.WithIndex(indices...))
	}

	res, err := c.es.Search(opts...)
	if err != nil {
		return nil, &Error{Op: OpSearch, Err: err}
	}
	defer closeBody(res)
	if res.IsError() {
		return nil, &Error{Op: OpSearch, Err: responseError(res)}
	}

	result, err := decodeSearchResponse(res.Body)
	if err != nil {
		return nil, &Error{Op: OpSearch, Err: err}
	}
	return result, nil
}

// DeleteByQuery removes documents matching the query body and returns the
// deleted count.
func (c *Client) DeleteByQuery(ctx context.Context, index string, body []byte) (int, error) {
	res, err := c.es.DeleteByQuery([]string{index}, bytes.NewReader(body),
		c.es.DeleteByQuery.WithContext(ctx),
	)
	if err != nil {
		return 0, &Error{Op: OpDeleteByQuery, Err: err}
	}
	defer closeBody(res)
	if res.IsError() {
		return 0, &Error{Op: OpDeleteByQuery, Err: responseError(res)}
	}

	var envelope struct {
		Deleted int `json:"deleted"`
	}
	if err := json.NewDecoder(res.Body).Decode(&envelope); err != nil {
		return 0, &Error{Op: OpDeleteByQuery, Err: fmt.Errorf("decode response: %w", err)}
	}
	return envelope.Deleted, nil
}

// encodeBulkBody writes newline-delimited action/body pairs. Index actions
// alternate an action line with the document body; delete actions carry no
// body line.
func encodeBulkBody(ops []BulkOp) ([]byte, error) {
	var buf bytes.Buffer
	for _, op := range ops {
		meta := map[string]map[string]string{
			op.Action: {"_index": op.Index, "_id": op.ID},
		}
		line, err := json.Marshal(meta)
		if err != nil {
			return nil, fmt.Errorf("marshal bulk action for %s: %w", op.ID, err)
		}
		buf.Write(line)
		buf.WriteByte('\n')

		if op.Action == ActionIndex {
			if len(op.Body) == 0 {
				return nil, fmt.Errorf("bulk index action for %s has no body", op.ID)
			}
			buf.Write(op.Body)
			buf.WriteByte('\n')
		}
	}
	return buf.Bytes(), nil
}

type bulkResponseItem struct {
	ID     string `json:"_id"`
	Status int    `json:"status"`
	Error  *struct {
		Type   string `json:"type"`
		Reason string `json:"reason"`
	} `json:"error"`
}

func decodeBulkResponse(r io.Reader) (*BulkResult, error) {
	var envelope struct {
		Errors bool                          `json:"errors"`
		Items  []map[string]bulkResponseItem `json:"items"`
	}
	if err := json.NewDecoder(r).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("decode bulk response: %w", err)
	}

	result := &BulkResult{Errors: envelope.Errors, Items: make([]BulkItem, 0, len(envelope.Items))}
	for _, wrapped := range envelope.Items {
		// each item wraps a single action key
		for _, item := range wrapped {
			out := BulkItem{ID: item.ID, Status: item.Status}
			if item.Error != nil {
				out.Reason = fmt.Sprintf("%s: %s", item.Error.Type, item.Error.Reason)
			}
			result.Items = append(result.Items, out)
		}
	}
	return result, nil
}

func decodeSearchResponse(r io.Reader) (*SearchResult, error) {
	var envelope struct {
		Hits struct {
			Total struct {
				Value int `json:"value"`
			} `json:"total"`
			Hits []struct {
				ID     string         `json:"_id"`
				Index  string         `json:"_index"`
				Source map[string]any `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(r).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}

	result := &SearchResult{
		Total: envelope.Hits.Total.Value,
		Hits:  make([]Hit, 0, len(envelope.Hits.Hits)),
	}
	for _, h := range envelope.Hits.Hits {
		result.Hits = append(result.Hits, Hit{ID: h.ID, Index: h.Index, Source: h.Source})
	}
	return result, nil
}

// responseError extracts the engine's error reason from a non-2xx response.
func responseError(res *esapi.Response) error {
	var envelope struct {
		Error struct {
			Type   string `json:"type"`
			Reason string `json:"reason"`
		} `json:"error"`
	}
	if err := json.NewDecoder(res.Body).Decode(&envelope); err == nil && envelope.Error.Reason != "" {
		return fmt.Errorf("%s: %s", envelope.Error.Type, envelope.Error.Reason)
	}
	return fmt.Errorf("unexpected status %s", res.Status())
}

func closeBody(res *esapi.Response) {
	if res != nil && res.Body != nil {
		_ = res.Body.Close()
	}
}
