package trigger

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"

	"triggerOracle/internal/model"
)

var triggerContract = common.HexToAddress("0x5FbDB2315678afecb367f032d93F642f64180aa3")

func TestUnwrapBothKinds(t *testing.T) {
	payload := []byte("encoded trigger info")

	for _, kind := range Kinds() {
		logRecord, err := BuildLog(kind, triggerContract, payload)
		if err != nil {
			t.Fatalf("%s: build log: %v", kind, err)
		}

		got, err := Unwrap(Event{Kind: kind, Log: logRecord})
		if err != nil {
			t.Fatalf("%s: unwrap: %v", kind, err)
		}
		if !bytes.Equal(got, payload) {
			t.Fatalf("%s: payload mismatch: %x", kind, got)
		}
	}
}

func TestKindsShareTopic0(t *testing.T) {
	a, err := KindContractEvent.Topic0()
	if err != nil {
		t.Fatalf("topic0: %v", err)
	}
	b, err := KindEvmContractEvent.Topic0()
	if err != nil {
		t.Fatalf("topic0: %v", err)
	}
	if a != b {
		t.Fatalf("topic0 mismatch: %s != %s", a, b)
	}
	if want := strings.ToLower(crypto.Keccak256Hash([]byte("NewTrigger(bytes)")).Hex()); a != want {
		t.Fatalf("unexpected NewTrigger topic0: %s", a)
	}
}

func TestUnwrapUnsupportedKind(t *testing.T) {
	logRecord, err := BuildLog(KindContractEvent, triggerContract, []byte("x"))
	if err != nil {
		t.Fatalf("build log: %v", err)
	}
	// Garbage data proves the kind is rejected before any ABI decoding.
	logRecord.Data = "not hex"

	for _, kind := range []Kind{"", "block_interval", "cron"} {
		_, err := Unwrap(Event{Kind: kind, Log: logRecord})
		if !errors.Is(err, model.ErrUnsupportedTriggerKind) {
			t.Fatalf("%q: expected unsupported trigger kind, got %v", kind, err)
		}
	}
}

func TestUnwrapForeignEvent(t *testing.T) {
	logRecord, err := BuildLog(KindEvmContractEvent, triggerContract, []byte("x"))
	if err != nil {
		t.Fatalf("build log: %v", err)
	}

	foreign := logRecord
	foreign.Topics = []string{"0xddf252ad1be2c89b69c2b068fc378daa952ba7f163c4a11628f55a4df523b3ef"}
	if _, err := Unwrap(Event{Kind: KindEvmContractEvent, Log: foreign}); !errors.Is(err, model.ErrUnsupportedTriggerKind) {
		t.Fatalf("expected unsupported trigger kind for foreign topic0, got %v", err)
	}

	noTopics := logRecord
	noTopics.Topics = nil
	if _, err := Unwrap(Event{Kind: KindEvmContractEvent, Log: noTopics}); !errors.Is(err, model.ErrUnsupportedTriggerKind) {
		t.Fatalf("expected unsupported trigger kind for missing topics, got %v", err)
	}

	extraTopic := logRecord
	extraTopic.Topics = append([]string{}, logRecord.Topics[0], common.Hash{}.Hex())
	if _, err := Unwrap(Event{Kind: KindEvmContractEvent, Log: extraTopic}); !errors.Is(err, model.ErrUnsupportedTriggerKind) {
		t.Fatalf("expected unsupported trigger kind for indexed topics, got %v", err)
	}
}

func TestUnwrapMalformedData(t *testing.T) {
	logRecord, err := BuildLog(KindContractEvent, triggerContract, []byte("x"))
	if err != nil {
		t.Fatalf("build log: %v", err)
	}

	cases := map[string]string{
		"not hex":   "zz",
		"empty":     "0x",
		"truncated": hexutil.Encode(make([]byte, 31)),
		"bad length": hexutil.Encode(append(
			common.LeftPadBytes([]byte{0x20}, 32),
			bytes.Repeat([]byte{0xff}, 32)...,
		)),
	}

	for name, data := range cases {
		broken := logRecord
		broken.Data = data
		if _, err := Unwrap(Event{Kind: KindContractEvent, Log: broken}); !errors.Is(err, model.ErrMalformedTriggerEnvelope) {
			t.Fatalf("%s: expected malformed trigger envelope, got %v", name, err)
		}
	}
}

func TestParseKind(t *testing.T) {
	kind, err := ParseKind(" EVM_CONTRACT_EVENT ")
	if err != nil || kind != KindEvmContractEvent {
		t.Fatalf("parse kind: %v %s", err, kind)
	}
	if _, err := ParseKind("other"); !errors.Is(err, model.ErrUnsupportedTriggerKind) {
		t.Fatalf("expected unsupported trigger kind, got %v", err)
	}
}
