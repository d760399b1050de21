package codec

import (
	"fmt"
	"unicode/utf8"

	"triggerOracle/internal/model"
)

// DecodePrompt decodes the artist payload: a single ABI string.
func DecodePrompt(data []byte) (string, error) {
	value, err := decodeString(data)
	if err != nil {
		return "", fmt.Errorf("%w: prompt: %v", model.ErrMalformedPayload, err)
	}
	return value, nil
}

// EncodePrompt encodes an artist prompt as a single ABI string.
func EncodePrompt(prompt string) []byte {
	return mustPack(mustSchemas().String, prompt)
}

// EncodeArtistResult encodes the metadata URI placed in the response envelope.
func EncodeArtistResult(uri string) []byte {
	return mustPack(mustSchemas().String, uri)
}

// DecodeArtistResult reverses EncodeArtistResult.
func DecodeArtistResult(data []byte) (string, error) {
	value, err := decodeString(data)
	if err != nil {
		return "", fmt.Errorf("%w: artist result: %v", model.ErrMalformedPayload, err)
	}
	return value, nil
}

func decodeString(data []byte) (string, error) {
	values, err := unpackStrict(mustSchemas().String, data)
	if err != nil {
		return "", err
	}
	value, ok := values[0].(string)
	if !ok {
		return "", fmt.Errorf("unexpected type %T", values[0])
	}
	if !utf8.ValidString(value) {
		return "", fmt.Errorf("invalid utf-8")
	}
	return value, nil
}

// DecodeOracleInput decodes the TriggerInputData payload of the oracle variant.
func DecodeOracleInput(data []byte) (model.OracleInput, error) {
	tuple, err := unpackTuple[oracleInputTuple](mustSchemas().OracleInput, data)
	if err != nil {
		return model.OracleInput{}, fmt.Errorf("%w: oracle input: %v", model.ErrMalformedPayload, err)
	}
	return model.OracleInput{
		LmsrMarketMaker:   tuple.LmsrMarketMaker,
		ConditionalTokens: tuple.ConditionalTokens,
	}, nil
}

// EncodeOracleInput encodes a TriggerInputData payload.
func EncodeOracleInput(input model.OracleInput) []byte {
	return mustPack(mustSchemas().OracleInput, oracleInputTuple{
		LmsrMarketMaker:   input.LmsrMarketMaker,
		ConditionalTokens: input.ConditionalTokens,
	})
}

// EncodeOracleOutput encodes the AvsOutputData record placed in the response envelope.
func EncodeOracleOutput(output model.OracleOutput) []byte {
	return mustPack(mustSchemas().OracleOutput, oracleOutputTuple{
		LmsrMarketMaker:   output.LmsrMarketMaker,
		ConditionalTokens: output.ConditionalTokens,
		Result:            output.Result,
	})
}

// DecodeOracleOutput decodes an AvsOutputData record.
func DecodeOracleOutput(data []byte) (model.OracleOutput, error) {
	tuple, err := unpackTuple[oracleOutputTuple](mustSchemas().OracleOutput, data)
	if err != nil {
		return model.OracleOutput{}, fmt.Errorf("%w: oracle output: %v", model.ErrMalformedPayload, err)
	}
	return model.OracleOutput{
		LmsrMarketMaker:   tuple.LmsrMarketMaker,
		ConditionalTokens: tuple.ConditionalTokens,
		Result:            tuple.Result,
	}, nil
}
