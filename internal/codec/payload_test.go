package codec

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/common"

	"triggerOracle/internal/model"
)

func TestPromptRoundTrip(t *testing.T) {
	prompts := []string{
		"",
		"hello",
		"Différence et répétition / 差異と反復 🎨",
		strings.Repeat("rhizome ", 1024),
	}

	for _, prompt := range prompts {
		got, err := DecodePrompt(EncodePrompt(prompt))
		if err != nil {
			t.Fatalf("decode prompt %q: %v", prompt, err)
		}
		if got != prompt {
			t.Fatalf("prompt mismatch: %q != %q", got, prompt)
		}
	}
}

func TestArtistResultRoundTrip(t *testing.T) {
	uri := MetadataURIPrefix + "eyJuYW1lIjoieCJ9"
	got, err := DecodeArtistResult(EncodeArtistResult(uri))
	if err != nil {
		t.Fatalf("decode result: %v", err)
	}
	if got != uri {
		t.Fatalf("uri mismatch: %s", got)
	}
}

func TestDecodePromptMalformed(t *testing.T) {
	valid := EncodePrompt("hello")

	invalidUTF8 := append([]byte(nil), valid...)
	invalidUTF8[2*wordSize] = 0xff

	negativeLength := append([]byte(nil), valid...)
	for i := wordSize; i < 2*wordSize; i++ {
		negativeLength[i] = 0xff
	}

	cases := map[string][]byte{
		"empty":            {},
		"not word aligned": valid[:40],
		"length only":      valid[:2*wordSize],
		"negative length":  negativeLength,
		"invalid utf8":     invalidUTF8,
		"trailing word":    append(append([]byte(nil), valid...), make([]byte, wordSize)...),
	}

	for name, data := range cases {
		if _, err := DecodePrompt(data); !errors.Is(err, model.ErrMalformedPayload) {
			t.Fatalf("%s: expected malformed payload, got %v", name, err)
		}
	}
}

func TestOracleInputRoundTrip(t *testing.T) {
	cases := []model.OracleInput{
		{},
		{
			LmsrMarketMaker:   common.HexToAddress("0x0000000000000000000000000000000000000001"),
			ConditionalTokens: common.HexToAddress("0x0000000000000000000000000000000000000002"),
		},
		{
			LmsrMarketMaker:   common.HexToAddress("0xffffffffffffffffffffffffffffffffffffffff"),
			ConditionalTokens: common.HexToAddress("0xffffffffffffffffffffffffffffffffffffffff"),
		},
	}

	for _, want := range cases {
		encoded := EncodeOracleInput(want)
		if len(encoded) != 2*wordSize {
			t.Fatalf("unexpected length: %d", len(encoded))
		}
		got, err := DecodeOracleInput(encoded)
		if err != nil {
			t.Fatalf("decode input: %v", err)
		}
		if got != want {
			t.Fatalf("input mismatch: %+v != %+v", got, want)
		}
	}
}

func TestOracleOutputRoundTrip(t *testing.T) {
	maxAddr := common.HexToAddress("0xffffffffffffffffffffffffffffffffffffffff")
	cases := []model.OracleOutput{
		{Result: false},
		{Result: true},
		{LmsrMarketMaker: maxAddr, ConditionalTokens: maxAddr, Result: true},
		{LmsrMarketMaker: maxAddr, ConditionalTokens: common.Address{}, Result: false},
	}

	for _, want := range cases {
		encoded := EncodeOracleOutput(want)
		if len(encoded) != 3*wordSize {
			t.Fatalf("unexpected length: %d", len(encoded))
		}
		got, err := DecodeOracleOutput(encoded)
		if err != nil {
			t.Fatalf("decode output: %v", err)
		}
		if got != want {
			t.Fatalf("output mismatch: %+v != %+v", got, want)
		}
	}
}

func TestOracleOutputBooleanEncoding(t *testing.T) {
	yes := EncodeOracleOutput(model.OracleOutput{Result: true})
	no := EncodeOracleOutput(model.OracleOutput{Result: false})
	if yes[len(yes)-1] != 1 || no[len(no)-1] != 0 {
		t.Fatalf("unexpected boolean words: %x / %x", yes[2*wordSize:], no[2*wordSize:])
	}

	truthy := append([]byte(nil), yes...)
	truthy[len(truthy)-1] = 2
	if _, err := DecodeOracleOutput(truthy); !errors.Is(err, model.ErrMalformedPayload) {
		t.Fatalf("expected malformed payload for boolean 2, got %v", err)
	}
}

func TestDecodeOracleInputMalformed(t *testing.T) {
	valid := EncodeOracleInput(model.OracleInput{
		LmsrMarketMaker:   common.HexToAddress("0x0000000000000000000000000000000000000001"),
		ConditionalTokens: common.HexToAddress("0x0000000000000000000000000000000000000002"),
	})

	dirtyAddress := append([]byte(nil), valid...)
	dirtyAddress[0] = 0x01

	cases := map[string][]byte{
		"empty":            nil,
		"one word":         valid[:wordSize],
		"not word aligned": valid[:63],
		"dirty address":    dirtyAddress,
		"output layout":    EncodeOracleOutput(model.OracleOutput{Result: true}),
		"envelope layout":  EncodeTrigger(model.TriggerInfo{TriggerID: 1}),
	}

	for name, data := range cases {
		if _, err := DecodeOracleInput(data); !errors.Is(err, model.ErrMalformedPayload) {
			t.Fatalf("%s: expected malformed payload, got %v", name, err)
		}
	}
}

func TestEncodePromptIsNotEnvelope(t *testing.T) {
	// A prompt must never decode as a trigger envelope by accident.
	if _, err := DecodeTrigger(EncodePrompt("hello")); err == nil {
		t.Fatalf("prompt decoded as trigger envelope")
	}
	if bytes.Equal(EncodePrompt(""), EncodeArtistResult("x")) {
		t.Fatalf("different strings encoded identically")
	}
}
