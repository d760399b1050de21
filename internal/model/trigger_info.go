package model

// TriggerInfo is the request envelope carried by a NewTrigger event.
// TriggerID is opaque and must reach the response envelope unmodified.
type TriggerInfo struct {
	TriggerID uint64 `json:"trigger_id"`
	Data      []byte `json:"data"`
}

// DataWithID is the response envelope returned to the calling contract.
type DataWithID struct {
	TriggerID uint64 `json:"trigger_id"`
	Data      []byte `json:"data"`
}
