package codec

import (
	"fmt"
	"sync"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
)

// Wire structs mirror the Solidity structs; field names must match the ABI
// component names in camel case for go-ethereum to pack and convert them.
type triggerInfoTuple struct {
	TriggerId uint64
	Data      []byte
}

type oracleInputTuple struct {
	LmsrMarketMaker   common.Address
	ConditionalTokens common.Address
}

type oracleOutputTuple struct {
	LmsrMarketMaker   common.Address
	ConditionalTokens common.Address
	Result            bool
}

// Schemas holds the compiled-in ABI shapes shared by every invocation.
type Schemas struct {
	// TriggerInfo and DataWithId share the {uint64, bytes} layout.
	TriggerInfo  abi.Arguments
	DataWithID   abi.Arguments
	String       abi.Arguments
	OracleInput  abi.Arguments
	OracleOutput abi.Arguments
}

var (
	schemas     Schemas
	schemasOnce sync.Once
	schemasErr  error
)

// LoadSchemas returns the parsed schemas, building them on first use.
func LoadSchemas() (Schemas, error) {
	schemasOnce.Do(func() {
		schemas, schemasErr = buildSchemas()
	})
	return schemas, schemasErr
}

func mustSchemas() Schemas {
	s, err := LoadSchemas()
	if err != nil {
		panic(fmt.Sprintf("codec: static schemas: %v", err))
	}
	return s
}

func buildSchemas() (Schemas, error) {
	envelope, err := abi.NewType("tuple", "struct ITypes.TriggerInfo", []abi.ArgumentMarshaling{
		{Name: "triggerId", Type: "uint64", InternalType: "ITypes.TriggerId"},
		{Name: "data", Type: "bytes"},
	})
	if err != nil {
		return Schemas{}, fmt.Errorf("trigger info type: %w", err)
	}
	response, err := abi.NewType("tuple", "struct ITypes.DataWithId", []abi.ArgumentMarshaling{
		{Name: "triggerId", Type: "uint64", InternalType: "ITypes.TriggerId"},
		{Name: "data", Type: "bytes"},
	})
	if err != nil {
		return Schemas{}, fmt.Errorf("data with id type: %w", err)
	}
	str, err := abi.NewType("string", "", nil)
	if err != nil {
		return Schemas{}, fmt.Errorf("string type: %w", err)
	}
	input, err := abi.NewType("tuple", "struct TriggerInputData", []abi.ArgumentMarshaling{
		{Name: "lmsrMarketMaker", Type: "address"},
		{Name: "conditionalTokens", Type: "address"},
	})
	if err != nil {
		return Schemas{}, fmt.Errorf("trigger input type: %w", err)
	}
	output, err := abi.NewType("tuple", "struct AvsOutputData", []abi.ArgumentMarshaling{
		{Name: "lmsrMarketMaker", Type: "address"},
		{Name: "conditionalTokens", Type: "address"},
		{Name: "result", Type: "bool"},
	})
	if err != nil {
		return Schemas{}, fmt.Errorf("output data type: %w", err)
	}

	return Schemas{
		TriggerInfo:  abi.Arguments{{Name: "triggerInfo", Type: envelope}},
		DataWithID:   abi.Arguments{{Name: "dataWithId", Type: response}},
		String:       abi.Arguments{{Name: "value", Type: str}},
		OracleInput:  abi.Arguments{{Name: "input", Type: input}},
		OracleOutput: abi.Arguments{{Name: "output", Type: output}},
	}, nil
}
