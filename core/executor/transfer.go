// Copyright 2024 The Erigon Authors
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

// Package executor holds reference continuation.Programs used to exercise
// the driver end to end. It implements no EVM opcode interpretation and no
// general consensus validation; TransferProgram is the smallest possible
// "real" executor, a single value transfer; it yields only BeginBlock,
// ReadAccount and UpdateAccount (see core/executor/contract.go for
// ReadHeader, ReadTotalDifficulty, EraseStorage and UpdateCode).
package executor

import (
	"github.com/holiman/uint256"

	"github.com/gelfand/akula/consensus/misc"
	"github.com/gelfand/akula/core/state/accounts"
	"github.com/gelfand/akula/core/state/continuation"
	"github.com/gelfand/akula/core/types"
)

// defaultTargetBlobGasPerBlock is the Cancun-era EIP-4844 target (3 blobs
// per block * 2**17 gas each); TransferProgram has no block-building
// context to source it from, so it hardcodes the one fork it targets.
const defaultTargetBlobGasPerBlock = 3 * 131072

// defaultBlobGasPerBlob and the minimum-price/update-fraction pair are the
// Cancun constants from EIP-4844, mirrored here for the same reason
// defaultTargetBlobGasPerBlock is: TransferProgram picks one fork's numbers
// rather than threading a fork-schedule lookup through the driver.
const (
	defaultBlobGasPerBlob         = 131072
	defaultMinBlobGasPrice        = 1
	defaultBlobGasPriceUpdateFrac = 3338477
)

// Transfer is TransferProgram's input: a single native-currency value
// transfer from From to To within block Header, optionally carrying
// BlobCount data blobs whose gas fee is billed to From alongside Value.
type Transfer struct {
	Header    *types.Header
	From      continuation.Address
	To        continuation.Address
	Value     uint256.Int
	Nonce     uint64
	BlobCount int
}

// TransferProgram reproduces the reference scenario: BeginBlock ->
// ReadAccount(from) -> ReadAccount(to) -> UpdateAccount(from) ->
// UpdateAccount(to) -> Complete. Beyond the Yielder calls, its one side
// effect is writing the computed ExcessBlobGas into t.Header. It is
// deterministic, so running it twice against identical state and an
// identical fresh header yields identical interrupt traces (see
// core/executor's tests).
func TransferProgram(t Transfer) continuation.Program {
	return func(y *continuation.Yielder) (continuation.Result, *continuation.ValidationError) {
		excessBlobGas := misc.CalcExcessBlobGas(t.Header, defaultTargetBlobGasPerBlock)
		t.Header.ExcessBlobGas = &excessBlobGas

		blobFee := uint256.NewInt(0)
		if t.BlobCount > 0 {
			blobGasUsed := misc.GetBlobGasUsed(t.BlobCount, defaultBlobGasPerBlob)
			blobGasPrice, err := misc.GetBlobGasPrice(defaultMinBlobGasPrice, defaultBlobGasPriceUpdateFrac, excessBlobGas)
			if err != nil {
				return continuation.Result{}, &continuation.ValidationError{Kind: continuation.ErrOther}
			}
			blobFee = blobGasPrice.Mul(blobGasPrice, uint256.NewInt(blobGasUsed))
		}

		y.BeginBlock(t.Header.Number)

		fromInitial := y.ReadAccount(t.From)
		if fromInitial == nil {
			return continuation.Result{}, &continuation.ValidationError{
				Kind: continuation.ErrOther,
			}
		}
		if fromInitial.Nonce != t.Nonce {
			return continuation.Result{}, &continuation.ValidationError{Kind: continuation.ErrNonceMismatch}
		}
		totalDebit := new(uint256.Int).Add(&t.Value, blobFee)
		if fromInitial.Balance.Lt(totalDebit) {
			return continuation.Result{}, &continuation.ValidationError{Kind: continuation.ErrInsufficientBalance}
		}

		toInitial := y.ReadAccount(t.To)
		toCurrent := accounts.Account{CodeHash: accounts.EmptyHash}
		if toInitial != nil {
			toCurrent = *toInitial
		}

		fromCurrent := *fromInitial
		fromCurrent.Nonce++
		fromCurrent.Balance.Sub(&fromCurrent.Balance, totalDebit)
		toCurrent.Balance.Add(&toCurrent.Balance, &t.Value)

		y.UpdateAccount(t.From, fromInitial, &fromCurrent)
		y.UpdateAccount(t.To, toInitial, &toCurrent)

		return continuation.Result{}, nil
	}
}
