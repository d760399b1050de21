package component

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common/hexutil"

	"triggerOracle/internal/codec"
	"triggerOracle/internal/compute"
	"triggerOracle/internal/model"
	"triggerOracle/internal/trigger"
)

type recordingObserver struct {
	components []string
	errs       []error
}

func (o *recordingObserver) ObserveInvocation(component string, err error, _ time.Duration) {
	o.components = append(o.components, component)
	o.errs = append(o.errs, err)
}

func TestInvokerRecordsSuccess(t *testing.T) {
	observer := &recordingObserver{}
	invoker := NewInvoker(nil, observer)
	artist := NewArtist(compute.DescriberFunc(func(context.Context, string) (string, error) { return "world", nil }), nil)

	ev := buildEvent(t, trigger.KindContractEvent, model.TriggerInfo{TriggerID: 42, Data: codec.EncodePrompt("hello")})
	ev.Log.TxHash = "0xabc"
	ev.Log.LogIndex = 3
	ev.Log.BlockNumber = 100

	output, record := invoker.Invoke(context.Background(), artist, ev)
	if output == nil {
		t.Fatalf("expected output")
	}
	if record.RunID == "" || record.Component != ArtistName {
		t.Fatalf("unexpected record: %+v", record)
	}
	if record.TriggerID == nil || *record.TriggerID != 42 {
		t.Fatalf("trigger id not recorded")
	}
	if record.Output != hexutil.Encode(output) || !record.Succeeded() {
		t.Fatalf("output not recorded: %+v", record)
	}
	if record.TxHash != "0xabc" || record.LogIndex != 3 || record.BlockNumber != 100 {
		t.Fatalf("position not recorded: %+v", record)
	}
	if _, err := time.Parse(time.RFC3339Nano, record.ProcessedAt); err != nil {
		t.Fatalf("processed_at: %v", err)
	}
	if len(observer.components) != 1 || observer.errs[0] != nil {
		t.Fatalf("observer not notified: %+v", observer)
	}
}

func TestInvokerRecordsFailure(t *testing.T) {
	observer := &recordingObserver{}
	invoker := NewInvoker(nil, observer)
	artist := NewArtist(compute.DescriberFunc(func(context.Context, string) (string, error) {
		return "", model.NewComputationError("ollama api error: status 500")
	}), nil)

	ev := buildEvent(t, trigger.KindContractEvent, model.TriggerInfo{TriggerID: 5, Data: codec.EncodePrompt("hello")})
	output, record := invoker.Invoke(context.Background(), artist, ev)
	if output != nil {
		t.Fatalf("expected no output")
	}
	if record.Succeeded() || record.Output != "" {
		t.Fatalf("unexpected success: %+v", record)
	}
	if record.ErrorKind != model.KindComputationFailed || !strings.Contains(record.Error, "500") {
		t.Fatalf("unexpected error: %+v", record)
	}
	if record.TriggerID == nil || *record.TriggerID != 5 {
		t.Fatalf("trigger id should be recorded for decodable triggers")
	}
	if !errors.Is(observer.errs[0], model.ErrComputationFailed) {
		t.Fatalf("observer got %v", observer.errs[0])
	}
}

func TestInvokerUniqueRunIDs(t *testing.T) {
	invoker := NewInvoker(nil, nil)
	artist := NewArtist(compute.DescriberFunc(func(context.Context, string) (string, error) { return "x", nil }), nil)
	ev := buildEvent(t, trigger.KindContractEvent, model.TriggerInfo{TriggerID: 1, Data: codec.EncodePrompt("p")})

	_, a := invoker.Invoke(context.Background(), artist, ev)
	_, b := invoker.Invoke(context.Background(), artist, ev)
	if a.RunID == b.RunID {
		t.Fatalf("run ids should differ")
	}
	if a.Output != b.Output {
		t.Fatalf("identical triggers should produce identical output")
	}
}
