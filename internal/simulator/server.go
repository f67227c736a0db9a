// Package simulator is a stand-in cluster backend for local development.
// It serves the same HTTP API as the real signing cluster over an in-memory
// model, validating the bearer tokens the console issues, and walks every
// submitted transaction through the full lifecycle on a timer.
package simulator

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"mpcconsole/internal/client/models"
	"mpcconsole/internal/common"
	"mpcconsole/internal/logging"
	"mpcconsole/internal/token"
)

const version = "0.3.0-sim"

type ctxKey int

const claimsKey ctxKey = 0

// Server exposes the Cluster over HTTP.
type Server struct {
	router  *mux.Router
	cluster *Cluster
	secret  []byte
	log     logging.Logger
}

func NewServer(cluster *Cluster, secret []byte, log logging.Logger) *Server {
	s := &Server{
		router:  mux.NewRouter(),
		cluster: cluster,
		secret:  secret,
		log:     log,
	}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.router.HandleFunc("/health", s.health).Methods(http.MethodGet)

	api := s.router.PathPrefix("/api/v1").Subrouter()
	api.Use(s.authenticate)

	api.HandleFunc("/cluster/status", s.clusterStatus).Methods(http.MethodGet)
	api.HandleFunc("/cluster/nodes", s.requireAdmin(s.clusterNodes)).Methods(http.MethodGet)

	api.HandleFunc("/dkg/status", s.requireAdmin(s.dkgStatus)).Methods(http.MethodGet)
	api.HandleFunc("/dkg/initiate", s.requireAdmin(s.dkgInitiate)).Methods(http.MethodPost)
	api.HandleFunc("/dkg/join/{session}", s.requireAdmin(s.dkgJoin)).Methods(http.MethodPost)

	api.HandleFunc("/aux-info/status", s.requireAdmin(s.auxStatus)).Methods(http.MethodGet)
	api.HandleFunc("/aux-info/generate", s.requireAdmin(s.auxGenerate)).Methods(http.MethodPost)

	api.HandleFunc("/presignatures/status", s.requireAdmin(s.presigStatus)).Methods(http.MethodGet)
	api.HandleFunc("/presignatures/generate", s.requireAdmin(s.presigGenerate)).Methods(http.MethodPost)

	api.HandleFunc("/transactions", s.listTransactions).Methods(http.MethodGet)
	api.HandleFunc("/transactions", s.createTransaction).Methods(http.MethodPost)
	api.HandleFunc("/transactions/{txid}", s.getTransaction).Methods(http.MethodGet)

	api.HandleFunc("/wallet/balance", s.walletBalance).Methods(http.MethodGet)
	api.HandleFunc("/wallet/address", s.walletAddress).Methods(http.MethodGet)
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// authenticate rejects requests without a valid bearer token and stores the
// parsed claims on the request context.
func (s *Server) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth := r.Header.Get("Authorization")
		raw, ok := strings.CutPrefix(auth, "Bearer ")
		if !ok || raw == "" {
			writeError(w, http.StatusUnauthorized, "missing bearer token")
			return
		}
		claims, err := token.Parse(raw, s.secret)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "invalid or expired token")
			return
		}
		ctx := context.WithValue(r.Context(), claimsKey, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// requireAdmin guards ceremony and operator endpoints.
func (s *Server) requireAdmin(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, _ := r.Context().Value(claimsKey).(*token.Claims)
		if claims == nil || claims.Role != models.RoleAdmin {
			writeError(w, http.StatusForbidden, "admin role required")
			return
		}
		next(w, r)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeDomainError maps validation and lookup failures onto HTTP statuses.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, common.ErrValidation):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, common.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, models.Health{
		Status:    "ok",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Version:   version,
	})
}

func (s *Server) clusterStatus(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.cluster.Status())
}

func (s *Server) clusterNodes(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.cluster.Nodes())
}

func (s *Server) dkgStatus(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.cluster.DkgStatus())
}

func (s *Server) dkgInitiate(w http.ResponseWriter, r *http.Request) {
	var req models.DkgInitiateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}
	resp, err := s.cluster.InitiateDkg(&req)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	s.log.Info(r.Context(), "dkg ceremony completed", "session", resp.SessionID, "protocol", resp.Protocol)
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) dkgJoin(w http.ResponseWriter, r *http.Request) {
	resp, err := s.cluster.JoinDkg(mux.Vars(r)["session"])
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) auxStatus(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.cluster.AuxStatus())
}

func (s *Server) auxGenerate(w http.ResponseWriter, r *http.Request) {
	var req models.AuxInfoGenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}
	if req.NumParties == 0 {
		req = models.AuxInfoGenerateRequest{NumParties: 5, Participants: []int{1, 2, 3, 4, 5}}
	}
	writeJSON(w, http.StatusOK, s.cluster.GenerateAux(&req))
}

func (s *Server) presigStatus(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.cluster.PresigStatus())
}

func (s *Server) presigGenerate(w http.ResponseWriter, r *http.Request) {
	var req models.GeneratePresigRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}
	resp, err := s.cluster.GeneratePresigs(req.Count)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) listTransactions(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit, _ := strconv.Atoi(q.Get("limit"))
	offset, _ := strconv.Atoi(q.Get("offset"))
	writeJSON(w, http.StatusOK, s.cluster.ListTransactions(limit, offset))
}

func (s *Server) createTransaction(w http.ResponseWriter, r *http.Request) {
	var req models.CreateTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}
	resp, err := s.cluster.CreateTransaction(&req)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	s.log.Info(r.Context(), "transaction accepted", "txid", resp.TxID, "amount", resp.AmountSats)
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) getTransaction(w http.ResponseWriter, r *http.Request) {
	tx, err := s.cluster.GetTransaction(mux.Vars(r)["txid"])
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tx)
}

func (s *Server) walletBalance(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.cluster.Balance())
}

func (s *Server) walletAddress(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.cluster.Address())
}
