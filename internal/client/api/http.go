package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"mpcconsole/internal/client/models"
	"mpcconsole/internal/common"
)

// requestTimeout is the fixed upper bound on a single backend call; a
// request exceeding it is treated as failed, never left pending.
const requestTimeout = 30 * time.Second

// HTTPClient talks JSON over HTTP to the cluster backend. All authenticated
// requests carry the session token from the TokenSource in a bearer header.
type HTTPClient struct {
	baseURL string
	tokens  TokenSource
	http    *http.Client
}

var _ Client = (*HTTPClient)(nil)

// NewHTTPClient builds a client for the backend at baseURL (scheme://host[:port]).
func NewHTTPClient(baseURL string, tokens TokenSource) *HTTPClient {
	return &HTTPClient{
		baseURL: baseURL,
		tokens:  tokens,
		http:    &http.Client{Timeout: requestTimeout},
	}
}

// apiError is the backend's error envelope.
type apiError struct {
	Error string `json:"error"`
}

// do performs one round trip: marshals body (if any), attaches the bearer
// token, and decodes the JSON response into out (if non-nil).
func (c *HTTPClient) do(ctx context.Context, method, path string, body, out any) error {
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if t := c.tokens.Token(); t != "" {
		req.Header.Set("Authorization", "Bearer "+t)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return err
		}
		// Connection refused, DNS failure, timeout: the backend is
		// unreachable as far as the console is concerned.
		return fmt.Errorf("%w: %v", common.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return common.ErrUnauthorized
	}
	if resp.StatusCode == http.StatusNotFound {
		return common.ErrNotFound
	}
	if resp.StatusCode >= 400 {
		var e apiError
		if err := json.NewDecoder(resp.Body).Decode(&e); err == nil && e.Error != "" {
			return fmt.Errorf("backend: %s (status %d)", e.Error, resp.StatusCode)
		}
		return fmt.Errorf("backend: unexpected status %d", resp.StatusCode)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}

func (c *HTTPClient) Health(ctx context.Context) (*models.Health, error) {
	out := &models.Health{}
	if err := c.do(ctx, http.MethodGet, "/health", nil, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *HTTPClient) ClusterStatus(ctx context.Context) (*models.ClusterStatus, error) {
	out := &models.ClusterStatus{}
	if err := c.do(ctx, http.MethodGet, "/api/v1/cluster/status", nil, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *HTTPClient) ClusterNodes(ctx context.Context) (*models.ListNodesResponse, error) {
	out := &models.ListNodesResponse{}
	if err := c.do(ctx, http.MethodGet, "/api/v1/cluster/nodes", nil, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *HTTPClient) DkgStatus(ctx context.Context) (*models.DkgStatus, error) {
	out := &models.DkgStatus{}
	if err := c.do(ctx, http.MethodGet, "/api/v1/dkg/status", nil, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *HTTPClient) InitiateDkg(ctx context.Context, req *models.DkgInitiateRequest) (*models.DkgResponse, error) {
	out := &models.DkgResponse{}
	if err := c.do(ctx, http.MethodPost, "/api/v1/dkg/initiate", req, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *HTTPClient) JoinDkg(ctx context.Context, sessionID string) (*models.DkgResponse, error) {
	out := &models.DkgResponse{}
	if err := c.do(ctx, http.MethodPost, "/api/v1/dkg/join/"+url.PathEscape(sessionID), nil, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *HTTPClient) AuxInfoStatus(ctx context.Context) (*models.AuxInfoStatus, error) {
	out := &models.AuxInfoStatus{}
	if err := c.do(ctx, http.MethodGet, "/api/v1/aux-info/status", nil, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *HTTPClient) GenerateAuxInfo(ctx context.Context, req *models.AuxInfoGenerateRequest) (*models.AuxInfoGenerateResponse, error) {
	out := &models.AuxInfoGenerateResponse{}
	if err := c.do(ctx, http.MethodPost, "/api/v1/aux-info/generate", req, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *HTTPClient) PresigStatus(ctx context.Context) (*models.PresigStatus, error) {
	out := &models.PresigStatus{}
	if err := c.do(ctx, http.MethodGet, "/api/v1/presignatures/status", nil, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *HTTPClient) GeneratePresignatures(ctx context.Context, count int) (*models.GeneratePresigResponse, error) {
	out := &models.GeneratePresigResponse{}
	req := &models.GeneratePresigRequest{Count: count}
	if err := c.do(ctx, http.MethodPost, "/api/v1/presignatures/generate", req, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *HTTPClient) ListTransactions(ctx context.Context, limit, offset int) (*models.ListTransactionsResponse, error) {
	q := url.Values{}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	if offset > 0 {
		q.Set("offset", strconv.Itoa(offset))
	}
	path := "/api/v1/transactions"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	out := &models.ListTransactionsResponse{}
	if err := c.do(ctx, http.MethodGet, path, nil, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *HTTPClient) GetTransaction(ctx context.Context, txid string) (*models.Transaction, error) {
	out := &models.Transaction{}
	if err := c.do(ctx, http.MethodGet, "/api/v1/transactions/"+url.PathEscape(txid), nil, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *HTTPClient) CreateTransaction(ctx context.Context, req *models.CreateTransactionRequest) (*models.CreateTransactionResponse, error) {
	out := &models.CreateTransactionResponse{}
	if err := c.do(ctx, http.MethodPost, "/api/v1/transactions", req, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *HTTPClient) WalletBalance(ctx context.Context) (*models.WalletBalance, error) {
	out := &models.WalletBalance{}
	if err := c.do(ctx, http.MethodGet, "/api/v1/wallet/balance", nil, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *HTTPClient) WalletAddress(ctx context.Context) (*models.WalletAddress, error) {
	out := &models.WalletAddress{}
	if err := c.do(ctx, http.MethodGet, "/api/v1/wallet/address", nil, out); err != nil {
		return nil, err
	}
	return out, nil
}
