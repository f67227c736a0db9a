package simulator

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"mpcconsole/internal/client/models"
	"mpcconsole/internal/client/txstate"
	"mpcconsole/internal/common"
)

// Metadata directives that steer a transaction off the happy path. Anything
// else follows the full lifecycle to confirmation.
const (
	directiveReject    = "sim:reject"
	directiveFail      = "sim:fail"
	directiveByzantine = "sim:byzantine"
)

const flatFeeSats = 1_000

// happyPath is the order a healthy transaction walks through.
var happyPath = []txstate.State{
	txstate.Pending, txstate.Voting, txstate.Collecting, txstate.ThresholdReached,
	txstate.Approved, txstate.Signing, txstate.Signed, txstate.Submitted,
	txstate.Broadcasting, txstate.Confirmed,
}

type simTx struct {
	models.Transaction
	directive string
	step      int
}

// Cluster is the in-memory model behind the simulator API. One mutex guards
// everything; the step driver and the handlers contend on it briefly.
type Cluster struct {
	mu sync.Mutex

	nodes     []models.NodeInfo
	threshold int

	dkg    models.DkgStatus
	aux    models.AuxInfoStatus
	presig models.PresigStatus

	balance models.WalletBalance
	address models.WalletAddress

	txs   map[string]*simTx
	order []string // txids, newest first

	now func() time.Time
}

// NewCluster builds a five-node cluster with a funded wallet and a healthy
// presignature pool, roughly the state after a completed setup ceremony.
func NewCluster() *Cluster {
	c := &Cluster{
		threshold: 3,
		presig: models.PresigStatus{
			CurrentSize: 40, TargetSize: 50, MaxSize: 100,
			IsHealthy: true, TotalGenerated: 40,
		},
		balance: models.WalletBalance{Confirmed: 500_000_000, Total: 500_000_000},
		address: models.WalletAddress{Address: "bc1qsim0000000000000000000000000000000000", AddressType: "p2wpkh"},
		txs:     make(map[string]*simTx),
		now:     time.Now,
	}
	for i := 1; i <= 5; i++ {
		c.nodes = append(c.nodes, models.NodeInfo{NodeID: i, Status: "active"})
	}
	return c
}

func (c *Cluster) stamp() string {
	return c.now().UTC().Format(time.RFC3339)
}

func (c *Cluster) Status() models.ClusterStatus {
	c.mu.Lock()
	defer c.mu.Unlock()

	healthy := 0
	for _, n := range c.nodes {
		if n.Status == "active" {
			healthy++
		}
	}
	status := "healthy"
	switch {
	case healthy < c.threshold:
		status = "critical"
	case healthy < len(c.nodes):
		status = "degraded"
	}
	return models.ClusterStatus{
		TotalNodes:   len(c.nodes),
		HealthyNodes: healthy,
		Threshold:    c.threshold,
		Status:       status,
		Timestamp:    c.stamp(),
	}
}

func (c *Cluster) Nodes() models.ListNodesResponse {
	c.mu.Lock()
	defer c.mu.Unlock()

	nodes := make([]models.NodeInfo, len(c.nodes))
	for i, n := range c.nodes {
		n.LastHeartbeat = c.stamp()
		nodes[i] = n
	}
	return models.ListNodesResponse{Nodes: nodes, Total: len(nodes)}
}

func (c *Cluster) DkgStatus() models.DkgStatus {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.dkg
}

// InitiateDkg completes a ceremony synchronously. Real clusters take a
// while; the simulator answers with the finished key material right away.
func (c *Cluster) InitiateDkg(req *models.DkgInitiateRequest) (*models.DkgResponse, error) {
	if req.Protocol != "cggmp24" && req.Protocol != "frost" {
		return nil, fmt.Errorf("%w: unknown protocol %q", common.ErrValidation, req.Protocol)
	}
	if req.Threshold < 1 || req.TotalNodes < req.Threshold {
		return nil, fmt.Errorf("%w: need 1 <= threshold <= total nodes", common.ErrValidation)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	sessionID := uuid.NewString()
	pub := "02" + strings.Repeat("ab", 32)
	addr := "bc1q" + strings.ReplaceAll(sessionID, "-", "")[:38]
	if req.Protocol == "cggmp24" {
		c.dkg.Cggmp24PublicKey, c.dkg.Cggmp24Address = pub, addr
	} else {
		c.dkg.FrostPublicKey, c.dkg.FrostAddress = pub, addr
	}
	c.dkg.TotalCompleted++
	c.threshold = req.Threshold

	return &models.DkgResponse{
		Success: true, SessionID: sessionID, Protocol: req.Protocol,
		PublicKey: pub, Address: addr,
		Threshold: req.Threshold, TotalNodes: req.TotalNodes,
	}, nil
}

func (c *Cluster) JoinDkg(sessionID string) (*models.DkgResponse, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return &models.DkgResponse{
		Success: true, SessionID: sessionID,
		Threshold: c.threshold, TotalNodes: len(c.nodes),
	}, nil
}

func (c *Cluster) AuxStatus() models.AuxInfoStatus {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.aux
}

func (c *Cluster) GenerateAux(req *models.AuxInfoGenerateRequest) *models.AuxInfoGenerateResponse {
	c.mu.Lock()
	defer c.mu.Unlock()

	sessionID := uuid.NewString()
	c.aux.HasAuxInfo = true
	c.aux.LatestSessionID = sessionID
	c.aux.AuxInfoSizeBytes = int64(req.NumParties) * 4096
	c.aux.TotalCeremonies++
	return &models.AuxInfoGenerateResponse{Success: true, SessionID: sessionID}
}

func (c *Cluster) PresigStatus() models.PresigStatus {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.presigLocked()
}

func (c *Cluster) presigLocked() models.PresigStatus {
	p := c.presig
	if p.TargetSize > 0 {
		p.Utilization = float64(p.CurrentSize) / float64(p.TargetSize)
	}
	p.IsHealthy = p.CurrentSize >= p.TargetSize/2
	p.IsCritical = p.CurrentSize < p.TargetSize/10
	return p
}

func (c *Cluster) GeneratePresigs(count int) (*models.GeneratePresigResponse, error) {
	if count < models.MinPresigCount || count > models.MaxPresigCount {
		return nil, fmt.Errorf("%w: count must be between %d and %d",
			common.ErrValidation, models.MinPresigCount, models.MaxPresigCount)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if room := c.presig.MaxSize - c.presig.CurrentSize; count > room {
		count = room
	}
	c.presig.CurrentSize += count
	c.presig.TotalGenerated += count
	return &models.GeneratePresigResponse{
		Generated:   count,
		NewPoolSize: c.presig.CurrentSize,
		DurationMs:  int64(count) * 120,
	}, nil
}

func (c *Cluster) Balance() models.WalletBalance {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.balance
}

func (c *Cluster) Address() models.WalletAddress {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.address
}

// CreateTransaction validates the request, reserves the funds and enqueues
// the transaction at the start of its lifecycle.
func (c *Cluster) CreateTransaction(req *models.CreateTransactionRequest) (*models.CreateTransactionResponse, error) {
	if req.Recipient == "" {
		return nil, fmt.Errorf("%w: recipient is required", common.ErrValidation)
	}
	if req.AmountSats <= 0 {
		return nil, fmt.Errorf("%w: amount must be positive", common.ErrValidation)
	}
	if len(req.Metadata) > models.MaxMetadataBytes {
		return nil, fmt.Errorf("%w: metadata exceeds %d bytes", common.ErrValidation, models.MaxMetadataBytes)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	total := req.AmountSats + flatFeeSats
	if total > c.balance.Confirmed {
		return nil, fmt.Errorf("%w: insufficient funds", common.ErrValidation)
	}
	c.balance.Confirmed -= total
	c.balance.Unconfirmed += total
	c.balance.Total = c.balance.Confirmed + c.balance.Unconfirmed

	now := c.stamp()
	tx := &simTx{
		Transaction: models.Transaction{
			TxID:       uuid.NewString(),
			State:      string(txstate.Pending),
			Recipient:  req.Recipient,
			AmountSats: req.AmountSats,
			FeeSats:    flatFeeSats,
			Metadata:   req.Metadata,
			CreatedAt:  now,
			UpdatedAt:  now,
		},
		directive: req.Metadata,
	}
	c.txs[tx.TxID] = tx
	c.order = append([]string{tx.TxID}, c.order...)

	return &models.CreateTransactionResponse{
		TxID: tx.TxID, State: tx.State, Recipient: tx.Recipient,
		AmountSats: tx.AmountSats, FeeSats: tx.FeeSats,
		Metadata: tx.Metadata, CreatedAt: tx.CreatedAt,
	}, nil
}

func (c *Cluster) GetTransaction(txid string) (*models.Transaction, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	tx, ok := c.txs[txid]
	if !ok {
		return nil, common.ErrNotFound
	}
	snapshot := tx.Transaction
	return &snapshot, nil
}

func (c *Cluster) ListTransactions(limit, offset int) models.ListTransactionsResponse {
	c.mu.Lock()
	defer c.mu.Unlock()

	if limit <= 0 {
		limit = 10
	}
	if offset < 0 {
		offset = 0
	}
	resp := models.ListTransactionsResponse{Total: len(c.order)}
	for i := offset; i < len(c.order) && len(resp.Transactions) < limit; i++ {
		resp.Transactions = append(resp.Transactions, c.txs[c.order[i]].Transaction)
	}
	return resp
}

// Step advances every non-final transaction one lifecycle state. The
// metadata directives divert at fixed points: sim:reject loses the vote,
// sim:byzantine aborts during signing, sim:fail breaks at broadcast.
func (c *Cluster) Step() {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, tx := range c.txs {
		c.stepLocked(tx)
	}
}

func (c *Cluster) stepLocked(tx *simTx) {
	cur := txstate.State(tx.State)
	switch cur {
	case txstate.Confirmed, txstate.Failed, txstate.Rejected, txstate.AbortedByzantine:
		return
	}
	switch {
	case cur == txstate.Voting && tx.directive == directiveReject:
		c.finishLocked(tx, txstate.Rejected)
		return
	case cur == txstate.Signing && tx.directive == directiveByzantine:
		c.finishLocked(tx, txstate.AbortedByzantine)
		return
	case cur == txstate.Broadcasting && tx.directive == directiveFail:
		c.finishLocked(tx, txstate.Failed)
		return
	}

	if tx.step+1 >= len(happyPath) {
		return
	}
	tx.step++
	next := happyPath[tx.step]
	tx.State = string(next)
	tx.UpdatedAt = c.stamp()

	switch next {
	case txstate.Signed:
		// A signature consumes one presignature from the pool.
		if c.presig.CurrentSize > 0 {
			c.presig.CurrentSize--
		}
		c.presig.TotalUsed++
		c.presig.HourlyUsage++
	case txstate.Confirmed:
		c.balance.Unconfirmed -= tx.AmountSats + tx.FeeSats
		c.balance.Total = c.balance.Confirmed + c.balance.Unconfirmed
	}
}

// finishLocked parks tx in a failure state and releases its reserved funds.
func (c *Cluster) finishLocked(tx *simTx, s txstate.State) {
	tx.State = string(s)
	tx.UpdatedAt = c.stamp()
	total := tx.AmountSats + tx.FeeSats
	c.balance.Unconfirmed -= total
	c.balance.Confirmed += total
	c.balance.Total = c.balance.Confirmed + c.balance.Unconfirmed
}

// Run steps the lifecycle on a fixed cadence until ctx is cancelled.
func (c *Cluster) Run(ctx context.Context, interval time.Duration) {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			c.Step()
		}
	}
}
