package trigger

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"

	"triggerOracle/internal/model"
)

// Kind tags the shape a trigger log arrives in.
type Kind string

const (
	KindContractEvent    Kind = "contract_event"
	KindEvmContractEvent Kind = "evm_contract_event"
)

// Kinds lists the recognized trigger kinds.
func Kinds() []Kind {
	return []Kind{KindContractEvent, KindEvmContractEvent}
}

// ParseKind maps a configured name to a Kind.
func ParseKind(input string) (Kind, error) {
	switch Kind(strings.ToLower(strings.TrimSpace(input))) {
	case KindContractEvent:
		return KindContractEvent, nil
	case KindEvmContractEvent:
		return KindEvmContractEvent, nil
	default:
		return "", fmt.Errorf("%w: %q", model.ErrUnsupportedTriggerKind, input)
	}
}

// event returns the NewTrigger definition and payload field for a kind.
func (k Kind) event() (abi.Event, string, error) {
	var (
		parsed abi.ABI
		field  string
		err    error
	)
	switch k {
	case KindContractEvent:
		parsed, err = ContractEventABI()
		field = "_0"
	case KindEvmContractEvent:
		parsed, err = EvmContractEventABI()
		field = "_triggerInfo"
	default:
		return abi.Event{}, "", fmt.Errorf("%w: %q", model.ErrUnsupportedTriggerKind, string(k))
	}
	if err != nil {
		return abi.Event{}, "", fmt.Errorf("parse %s abi: %w", k, err)
	}
	return parsed.Events["NewTrigger"], field, nil
}

// Topic0 returns the NewTrigger event signature hash for a kind.
func (k Kind) Topic0() (string, error) {
	event, _, err := k.event()
	if err != nil {
		return "", err
	}
	return strings.ToLower(event.ID.Hex()), nil
}
