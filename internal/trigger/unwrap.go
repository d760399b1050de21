package trigger

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"

	"triggerOracle/internal/model"
)

// Event is a trigger as delivered by the host: a tagged raw log.
type Event struct {
	Kind Kind            `json:"kind"`
	Log  model.LogRecord `json:"log"`
}

// Unwrap extracts the TriggerInfo bytes carried by a NewTrigger log.
// Unknown kinds and foreign events fail with ErrUnsupportedTriggerKind before
// any ABI decoding is attempted.
func Unwrap(ev Event) ([]byte, error) {
	event, field, err := ev.Kind.event()
	if err != nil {
		return nil, err
	}

	topic0 := ev.Log.Topic0()
	if topic0 == "" {
		return nil, fmt.Errorf("%w: missing topic0", model.ErrUnsupportedTriggerKind)
	}
	if topic0 != strings.ToLower(event.ID.Hex()) {
		return nil, fmt.Errorf("%w: unexpected topic0 %s", model.ErrUnsupportedTriggerKind, topic0)
	}
	if len(ev.Log.Topics) != 1 {
		return nil, fmt.Errorf("%w: expected 1 topic, got %d", model.ErrUnsupportedTriggerKind, len(ev.Log.Topics))
	}

	data, err := hexutil.Decode(ev.Log.Data)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid log data: %v", model.ErrMalformedTriggerEnvelope, err)
	}

	out := make(map[string]interface{}, 1)
	if err := event.Inputs.NonIndexed().UnpackIntoMap(out, data); err != nil {
		return nil, fmt.Errorf("%w: unpack %s: %v", model.ErrMalformedTriggerEnvelope, event.Name, err)
	}
	payload, ok := out[field].([]byte)
	if !ok {
		return nil, fmt.Errorf("%w: field %s has type %T", model.ErrMalformedTriggerEnvelope, field, out[field])
	}
	return common.CopyBytes(payload), nil
}

// BuildLog builds the log a trigger contract emits for the given TriggerInfo bytes.
func BuildLog(kind Kind, address common.Address, triggerInfo []byte) (model.LogRecord, error) {
	event, _, err := kind.event()
	if err != nil {
		return model.LogRecord{}, err
	}
	data, err := event.Inputs.NonIndexed().Pack(triggerInfo)
	if err != nil {
		return model.LogRecord{}, fmt.Errorf("pack %s: %w", event.Name, err)
	}
	return model.LogRecord{
		Address: address.Hex(),
		Topics:  []string{event.ID.Hex()},
		Data:    hexutil.Encode(data),
	}, nil
}
