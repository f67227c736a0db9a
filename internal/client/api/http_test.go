package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"mpcconsole/internal/client/models"
	"mpcconsole/internal/common"
)

func staticTokens(t string) TokenSource {
	return TokenSourceFunc(func() string { return t })
}

func TestHTTPClient_AttachesBearerToken(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_ = json.NewEncoder(w).Encode(models.ClusterStatus{Status: "healthy"})
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL, staticTokens("tok-123"))
	st, err := c.ClusterStatus(context.Background())
	require.NoError(t, err)
	require.Equal(t, "Bearer tok-123", gotAuth)
	require.Equal(t, "healthy", st.Status)
}

func TestHTTPClient_NoTokenNoHeader(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_ = json.NewEncoder(w).Encode(models.Health{Status: "ok"})
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL, staticTokens(""))
	_, err := c.Health(context.Background())
	require.NoError(t, err)
	require.Empty(t, gotAuth)
}

func TestHTTPClient_Maps401ToUnauthorized(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"expired"}`, http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL, staticTokens("stale"))
	_, err := c.WalletBalance(context.Background())
	require.ErrorIs(t, err, common.ErrUnauthorized)
}

func TestHTTPClient_Maps404ToNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"no such transaction"}`, http.StatusNotFound)
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL, staticTokens("tok"))
	_, err := c.GetTransaction(context.Background(), "nope")
	require.ErrorIs(t, err, common.ErrNotFound)
}

func TestHTTPClient_MapsConnectionFailureToUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // nothing listening anymore

	c := NewHTTPClient(srv.URL, staticTokens(""))
	_, err := c.Health(context.Background())
	require.ErrorIs(t, err, common.ErrUnavailable)
}

func TestHTTPClient_SurfacesBackendErrorEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "count out of range"})
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL, staticTokens("t"))
	_, err := c.GeneratePresignatures(context.Background(), 500)
	require.Error(t, err)
	require.Contains(t, err.Error(), "count out of range")
}

func TestHTTPClient_ListTransactionsQuery(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		_ = json.NewEncoder(w).Encode(models.ListTransactionsResponse{Total: 0})
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL, staticTokens("t"))
	_, err := c.ListTransactions(context.Background(), 100, 20)
	require.NoError(t, err)
	require.Equal(t, "limit=100&offset=20", gotQuery)
}

func TestHTTPClient_CreateTransactionRoundTrip(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		var req models.CreateTransactionRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		_ = json.NewEncoder(w).Encode(models.CreateTransactionResponse{
			TxID: "tx-1", State: "pending", Recipient: req.Recipient, AmountSats: req.AmountSats,
		})
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL, staticTokens("t"))
	resp, err := c.CreateTransaction(context.Background(), &models.CreateTransactionRequest{
		Recipient: "bc1qexample", AmountSats: 5000,
	})
	require.NoError(t, err)
	require.Equal(t, "tx-1", resp.TxID)
	require.Equal(t, "pending", resp.State)
	require.Equal(t, int64(5000), resp.AmountSats)
}
