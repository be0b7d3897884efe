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

package executor

import (
	"github.com/gelfand/akula/core/state/accounts"
	"github.com/gelfand/akula/core/state/continuation"
)

// Deploy is ContractDeployProgram's input: deploy Code behind a brand new
// incarnation of Address. ContractDeployProgram does not read Payer and
// makes no transfer; the deployed account keeps the predecessor's balance
// (zero for a fresh address).
type Deploy struct {
	ParentNumber continuation.BlockNumber
	ParentHash   continuation.H256
	Payer        continuation.Address
	Address      continuation.Address
	Code         []byte
	CodeHash     continuation.H256
}

// ContractDeployProgram exercises the request kinds TransferProgram
// doesn't: ReadHeader/ReadTotalDifficulty (to confirm the parent the
// deployment builds on is known to the host), EraseStorage (a
// self-destructed predecessor at Address must have its storage wiped
// before the new incarnation writes to it), and UpdateCode.
func ContractDeployProgram(d Deploy) continuation.Program {
	return func(y *continuation.Yielder) (continuation.Result, *continuation.ValidationError) {
		parent := y.ReadHeader(d.ParentNumber, d.ParentHash)
		if parent == nil {
			return continuation.Result{}, &continuation.ValidationError{Kind: continuation.ErrOther}
		}
		if td := y.ReadTotalDifficulty(d.ParentNumber, d.ParentHash); td == nil {
			return continuation.Result{}, &continuation.ValidationError{Kind: continuation.ErrOther}
		}

		y.BeginBlock(parent.Number + 1)

		existing := y.ReadAccount(d.Address)
		nextIncarnation := uint64(1)
		if existing != nil {
			nextIncarnation = existing.Incarnation + 1
			y.EraseStorage(d.Address, continuation.U256{})
		}

		deployed := accounts.Account{
			Nonce:       1,
			CodeHash:    d.CodeHash,
			Incarnation: nextIncarnation,
		}
		if existing != nil {
			deployed.Balance = existing.Balance
		}

		y.UpdateCode(d.CodeHash, d.Code)
		y.UpdateAccount(d.Address, existing, &deployed)

		return continuation.Result{}, nil
	}
}
