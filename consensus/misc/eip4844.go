// Copyright 2021 The go-ethereum Authors
// (original work)
// Copyright 2024 The Erigon Authors
// (modifications)
// This file is part of Erigon.
//
// Erigon is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Erigon is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with Erigon. If not, see <http://www.gnu.org/licenses/>.

// Package misc holds EIP-4844 blob-gas arithmetic used by the reference
// executor (core/executor) to fill in a child header's ExcessBlobGas. Fork
// scheduling here is reduced to two plain parameters (targetBlobGasPerBlock,
// minBlobGasPrice/updateFraction) instead of a chain.Config lookup: block
// validation and fork selection are out of scope here, and the executor
// that calls these functions already knows
// which fork's constants apply.
package misc

import (
	"fmt"

	"github.com/holiman/uint256"

	"github.com/gelfand/akula/core/types"
)

// CalcExcessBlobGas implements calc_excess_blob_gas from EIP-4844 /
// EIP-7691: the child header's excess blob gas is the parent's excess plus
// used, less the per-block target, saturated at zero.
func CalcExcessBlobGas(parent *types.Header, targetBlobGasPerBlock uint64) uint64 {
	var excessBlobGas, blobGasUsed uint64
	if parent.ExcessBlobGas != nil {
		excessBlobGas = *parent.ExcessBlobGas
	}
	if parent.BlobGasUsed != nil {
		blobGasUsed = *parent.BlobGasUsed
	}

	if excessBlobGas+blobGasUsed < targetBlobGasPerBlock {
		return 0
	}
	return excessBlobGas + blobGasUsed - targetBlobGasPerBlock
}

// FakeExponential approximates factor * e ** (num / denom) using a taylor
// expansion as described in the EIP-4844 spec.
func FakeExponential(factor, denom *uint256.Int, excessBlobGas uint64) (*uint256.Int, error) {
	numerator := uint256.NewInt(excessBlobGas)
	output := uint256.NewInt(0)
	numeratorAccum := new(uint256.Int)
	_, overflow := numeratorAccum.MulOverflow(factor, denom)
	if overflow {
		return nil, fmt.Errorf("FakeExponential: overflow in MulOverflow(factor=%v, denom=%v)", factor, denom)
	}
	divisor := new(uint256.Int)
	for i := 1; numeratorAccum.Sign() > 0; i++ {
		_, overflow = output.AddOverflow(output, numeratorAccum)
		if overflow {
			return nil, fmt.Errorf("FakeExponential: overflow in AddOverflow(output=%v, numeratorAccum=%v)", output, numeratorAccum)
		}
		_, overflow = divisor.MulOverflow(denom, uint256.NewInt(uint64(i)))
		if overflow {
			return nil, fmt.Errorf("FakeExponential: overflow in MulOverflow(denom=%v, i=%v)", denom, i)
		}
		_, overflow = numeratorAccum.MulDivOverflow(numeratorAccum, numerator, divisor)
		if overflow {
			return nil, fmt.Errorf("FakeExponential: overflow in MulDivOverflow(numeratorAccum=%v, numerator=%v, divisor=%v)", numeratorAccum, numerator, divisor)
		}
	}
	return output.Div(output, denom), nil
}

// GetBlobGasPrice converts excess blob gas into a per-byte price.
func GetBlobGasPrice(minBlobGasPrice, blobGasPriceUpdateFraction uint64, excessBlobGas uint64) (*uint256.Int, error) {
	return FakeExponential(uint256.NewInt(minBlobGasPrice), uint256.NewInt(blobGasPriceUpdateFraction), excessBlobGas)
}

// GetBlobGasUsed returns the blob gas consumed by numBlobs blobs.
func GetBlobGasUsed(numBlobs int, blobGasPerBlob uint64) uint64 {
	return uint64(numBlobs) * blobGasPerBlob
}
