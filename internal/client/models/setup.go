package models

// Bounds on a manual presignature top-up request.
const (
	MinPresigCount = 1
	MaxPresigCount = 50
)

// DkgInitiateRequest starts a distributed key generation ceremony.
type DkgInitiateRequest struct {
	Protocol   string `json:"protocol"` // cggmp24 | frost
	Threshold  int    `json:"threshold"`
	TotalNodes int    `json:"total_nodes"`
}

// DkgResponse is returned by initiate and join calls.
type DkgResponse struct {
	Success    bool   `json:"success"`
	SessionID  string `json:"session_id"`
	Protocol   string `json:"protocol"`
	PublicKey  string `json:"public_key,omitempty"`
	Address    string `json:"address,omitempty"`
	Threshold  int    `json:"threshold"`
	TotalNodes int    `json:"total_nodes"`
}

// DkgStatus summarizes past and running ceremonies.
type DkgStatus struct {
	ActiveCeremonies int    `json:"active_ceremonies"`
	TotalCompleted   int    `json:"total_completed"`
	Cggmp24PublicKey string `json:"cggmp24_public_key,omitempty"`
	FrostPublicKey   string `json:"frost_public_key,omitempty"`
	Cggmp24Address   string `json:"cggmp24_address,omitempty"`
	FrostAddress     string `json:"frost_address,omitempty"`
}

// AuxInfoGenerateRequest starts auxiliary parameter generation.
type AuxInfoGenerateRequest struct {
	NumParties   int   `json:"num_parties"`
	Participants []int `json:"participants"`
}

// AuxInfoGenerateResponse acknowledges a started ceremony.
type AuxInfoGenerateResponse struct {
	Success   bool   `json:"success"`
	SessionID string `json:"session_id"`
}

// AuxInfoStatus reports auxiliary parameter availability.
type AuxInfoStatus struct {
	HasAuxInfo       bool   `json:"has_aux_info"`
	LatestSessionID  string `json:"latest_session_id,omitempty"`
	AuxInfoSizeBytes int64  `json:"aux_info_size_bytes"`
	TotalCeremonies  int    `json:"total_ceremonies"`
}

// PresigStatus describes the presignature pool.
type PresigStatus struct {
	CurrentSize    int     `json:"current_size"`
	TargetSize     int     `json:"target_size"`
	MaxSize        int     `json:"max_size"`
	Utilization    float64 `json:"utilization"`
	IsHealthy      bool    `json:"is_healthy"`
	IsCritical     bool    `json:"is_critical"`
	HourlyUsage    int     `json:"hourly_usage"`
	TotalGenerated int     `json:"total_generated"`
	TotalUsed      int     `json:"total_used"`
}

// GeneratePresigRequest asks the cluster for a manual pool top-up.
type GeneratePresigRequest struct {
	Count int `json:"count"`
}

// GeneratePresigResponse reports the result of a top-up.
type GeneratePresigResponse struct {
	Generated   int   `json:"generated"`
	NewPoolSize int   `json:"new_pool_size"`
	DurationMs  int64 `json:"duration_ms"`
}
