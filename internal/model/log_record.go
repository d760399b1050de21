package model

import (
	"strconv"
	"strings"
)

// LogRecord is a raw contract log as received from a node or a host runtime.
// Topics and Data are 0x-prefixed hex strings.
type LogRecord struct {
	ChainID     uint64   `json:"chain_id"`
	BlockNumber uint64   `json:"block_number"`
	BlockHash   string   `json:"block_hash,omitempty"`
	TxHash      string   `json:"tx_hash,omitempty"`
	TxIndex     uint64   `json:"tx_index"`
	LogIndex    uint64   `json:"log_index"`
	Address     string   `json:"address"`
	Topics      []string `json:"topics"`
	Data        string   `json:"data"`
	Removed     bool     `json:"removed,omitempty"`
}

// Topic0 returns the event signature topic, or "" when the log has none.
func (lr LogRecord) Topic0() string {
	if len(lr.Topics) == 0 {
		return ""
	}
	return strings.ToLower(lr.Topics[0])
}

// Key identifies the log position for deduplication.
func (lr LogRecord) Key() string {
	return strings.ToLower(lr.TxHash) + ":" + strings.ToLower(lr.BlockHash) + ":" + strconv.FormatUint(lr.LogIndex, 10)
}
