package trigger

import (
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

// Both contract generations emit NewTrigger(bytes); only the field name differs.
const contractEventABIJSON = `[
  {
    "anonymous": false,
    "inputs": [
      {"indexed": false, "internalType": "bytes", "name": "_0", "type": "bytes"}
    ],
    "name": "NewTrigger",
    "type": "event"
  }
]`

const evmContractEventABIJSON = `[
  {
    "anonymous": false,
    "inputs": [
      {"indexed": false, "internalType": "bytes", "name": "_triggerInfo", "type": "bytes"}
    ],
    "name": "NewTrigger",
    "type": "event"
  }
]`

var (
	contractEventABI     abi.ABI
	contractEventABIOnce sync.Once
	contractEventABIErr  error

	evmContractEventABI     abi.ABI
	evmContractEventABIOnce sync.Once
	evmContractEventABIErr  error
)

// ContractEventABI returns the NewTrigger ABI whose payload field is _0.
func ContractEventABI() (abi.ABI, error) {
	contractEventABIOnce.Do(func() {
		contractEventABI, contractEventABIErr = abi.JSON(strings.NewReader(contractEventABIJSON))
	})
	return contractEventABI, contractEventABIErr
}

// EvmContractEventABI returns the NewTrigger ABI whose payload field is _triggerInfo.
func EvmContractEventABI() (abi.ABI, error) {
	evmContractEventABIOnce.Do(func() {
		evmContractEventABI, evmContractEventABIErr = abi.JSON(strings.NewReader(evmContractEventABIJSON))
	})
	return evmContractEventABI, evmContractEventABIErr
}
