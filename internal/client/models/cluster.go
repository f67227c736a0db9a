package models

// ClusterStatus is the aggregate health view of the signing cluster.
type ClusterStatus struct {
	TotalNodes   int    `json:"total_nodes"`
	HealthyNodes int    `json:"healthy_nodes"`
	Threshold    int    `json:"threshold"`
	Status       string `json:"status"` // healthy | degraded | critical
	Timestamp    string `json:"timestamp"`
}

// NodeInfo describes one signer node as observed by the orchestrator.
type NodeInfo struct {
	NodeID               int    `json:"node_id"`
	Status               string `json:"status"` // active | inactive | banned
	LastHeartbeat        string `json:"last_heartbeat"`
	TotalVotes           int    `json:"total_votes"`
	TotalViolations      int    `json:"total_violations"`
	SecondsSinceHeartbeat int64 `json:"seconds_since_heartbeat"`
	IsBanned             bool   `json:"is_banned"`
}

// ListNodesResponse is the payload of GET /api/v1/cluster/nodes.
type ListNodesResponse struct {
	Nodes []NodeInfo `json:"nodes"`
	Total int        `json:"total"`
}

// Health is the payload of GET /health.
type Health struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Version   string `json:"version"`
}
