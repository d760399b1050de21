package codec

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"

	"triggerOracle/internal/model"
)

// DecodeTrigger strictly decodes the bytes carried by a NewTrigger event.
func DecodeTrigger(data []byte) (model.TriggerInfo, error) {
	tuple, err := unpackTuple[triggerInfoTuple](mustSchemas().TriggerInfo, data)
	if err != nil {
		return model.TriggerInfo{}, fmt.Errorf("%w: %v", model.ErrMalformedTriggerEnvelope, err)
	}
	return model.TriggerInfo{
		TriggerID: tuple.TriggerId,
		Data:      common.CopyBytes(tuple.Data),
	}, nil
}

// EncodeTrigger encodes a TriggerInfo the way the trigger contract emits it.
func EncodeTrigger(info model.TriggerInfo) []byte {
	return mustPack(mustSchemas().TriggerInfo, triggerInfoTuple{
		TriggerId: info.TriggerID,
		Data:      nonNil(info.Data),
	})
}

// EncodeOutput wraps an encoded result into the DataWithId response envelope.
func EncodeOutput(triggerID uint64, result []byte) []byte {
	return mustPack(mustSchemas().DataWithID, triggerInfoTuple{
		TriggerId: triggerID,
		Data:      nonNil(result),
	})
}

// DecodeOutput strictly decodes a DataWithId response envelope.
func DecodeOutput(data []byte) (model.DataWithID, error) {
	tuple, err := unpackTuple[triggerInfoTuple](mustSchemas().DataWithID, data)
	if err != nil {
		return model.DataWithID{}, fmt.Errorf("%w: %v", model.ErrMalformedTriggerEnvelope, err)
	}
	return model.DataWithID{
		TriggerID: tuple.TriggerId,
		Data:      common.CopyBytes(tuple.Data),
	}, nil
}

func nonNil(data []byte) []byte {
	if data == nil {
		return []byte{}
	}
	return data
}
