package model

// InvocationRecord captures the outcome of one component invocation.
type InvocationRecord struct {
	RunID       string  `json:"run_id"`
	Component   string  `json:"component"`
	ChainID     uint64  `json:"chain_id"`
	BlockNumber uint64  `json:"block_number"`
	TxHash      string  `json:"tx_hash"`
	LogIndex    uint64  `json:"log_index"`
	Address     string  `json:"address"`
	TriggerID   *uint64 `json:"trigger_id,omitempty"`
	Output      string  `json:"output,omitempty"`
	Error       string  `json:"error,omitempty"`
	ErrorKind   string  `json:"error_kind,omitempty"`
	DurationMs  int64   `json:"duration_ms"`
	ProcessedAt string  `json:"processed_at"`
}

// Succeeded reports whether the invocation produced an output envelope.
func (r InvocationRecord) Succeeded() bool {
	return r.Error == "" && r.Output != ""
}
