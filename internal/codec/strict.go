package codec

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

const wordSize = 32

var errNonCanonical = errors.New("non-canonical encoding")

// unpackStrict decodes data and rejects anything that does not re-encode to
// exactly the same bytes: trailing words, dirty padding, foreign offsets.
func unpackStrict(args abi.Arguments, data []byte) (values []interface{}, err error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("empty input")
	}
	if len(data)%wordSize != 0 {
		return nil, fmt.Errorf("length %d is not a multiple of %d", len(data), wordSize)
	}

	defer func() {
		if r := recover(); r != nil {
			values = nil
			err = fmt.Errorf("unpack: %v", r)
		}
	}()

	values, err = args.Unpack(data)
	if err != nil {
		return nil, err
	}
	if len(values) != len(args) {
		return nil, fmt.Errorf("unexpected value count: %d", len(values))
	}

	canonical, err := args.Pack(values...)
	if err != nil {
		return nil, fmt.Errorf("repack: %w", err)
	}
	if !bytes.Equal(canonical, data) {
		return nil, errNonCanonical
	}
	return values, nil
}

func unpackTuple[T any](args abi.Arguments, data []byte) (out T, err error) {
	values, err := unpackStrict(args, data)
	if err != nil {
		return out, err
	}

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("convert: %v", r)
		}
	}()
	out = *abi.ConvertType(values[0], new(T)).(*T)
	return out, nil
}

// mustPack packs well-typed values into a compiled-in schema, which cannot fail.
func mustPack(args abi.Arguments, values ...interface{}) []byte {
	data, err := args.Pack(values...)
	if err != nil {
		panic(fmt.Sprintf("codec: pack %s: %v", args[0].Type.String(), err))
	}
	return data
}
