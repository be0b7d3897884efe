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
	"context"
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gelfand/akula/core/state/accounts"
	"github.com/gelfand/akula/core/state/continuation"
	"github.com/gelfand/akula/core/state/memdb"
	"github.com/gelfand/akula/core/types"
)

func newTransfer(from, to continuation.Address, value uint64) Transfer {
	var v uint256.Int
	v.SetUint64(value)
	return Transfer{
		Header: &types.Header{Number: 10},
		From:   from,
		To:     to,
		Value:  v,
		Nonce:  0,
	}
}

func seedAccount(store *memdb.Store, addr continuation.Address, balance uint64) {
	a := accounts.Account{CodeHash: accounts.EmptyHash}
	a.Balance.SetUint64(balance)
	store.PutAccount(addr, &a)
}

// traceInterrupts drives program to completion against store, answering
// each interrupt from the store directly (no memdb.Host involved), and
// returns the ordered request-kind trace alongside the final result.
func traceInterrupts(t *testing.T, store *memdb.Store, program continuation.Program) ([]continuation.RequestKind, continuation.Result, *continuation.ValidationError) {
	t.Helper()
	var kinds []continuation.RequestKind

	next := continuation.Start(context.Background(), program)
	for {
		switch interrupt := next.(type) {
		case continuation.FinishedInterrupt:
			return kinds, interrupt.Result, interrupt.Err
		case continuation.BeginBlockInterrupt:
			kinds = append(kinds, interrupt.Kind())
			next = interrupt.Resume()
		case continuation.ReadAccountInterrupt:
			kinds = append(kinds, interrupt.Kind())
			next = interrupt.Resume(store.GetAccount(interrupt.Address))
		case continuation.UpdateAccountInterrupt:
			kinds = append(kinds, interrupt.Kind())
			store.PutAccount(interrupt.Address, interrupt.Current)
			next = interrupt.Resume()
		default:
			t.Fatalf("unexpected interrupt %T", interrupt)
		}
	}
}

func TestTransferProgramScenario(t *testing.T) {
	store := memdb.NewStore()
	from := continuation.Address{0x01}
	to := continuation.Address{0x02}
	seedAccount(store, from, 100)

	kinds, result, verr := traceInterrupts(t, store, TransferProgram(newTransfer(from, to, 40)))

	require.Nil(t, verr)
	assert.Equal(t, continuation.Result{}, result)
	assert.Equal(t, []continuation.RequestKind{
		continuation.KindBeginBlock,
		continuation.KindReadAccount,
		continuation.KindReadAccount,
		continuation.KindUpdateAccount,
		continuation.KindUpdateAccount,
	}, kinds)

	fromAfter := store.GetAccount(from)
	toAfter := store.GetAccount(to)
	require.NotNil(t, fromAfter)
	require.NotNil(t, toAfter)
	assert.Equal(t, uint64(1), fromAfter.Nonce)

	var wantFrom, wantTo uint256.Int
	wantFrom.SetUint64(60)
	wantTo.SetUint64(40)
	assert.True(t, wantFrom.Eq(&fromAfter.Balance))
	assert.True(t, wantTo.Eq(&toAfter.Balance))
}

func TestTransferProgramRejectsInsufficientBalance(t *testing.T) {
	store := memdb.NewStore()
	from := continuation.Address{0x03}
	to := continuation.Address{0x04}
	seedAccount(store, from, 10)

	_, _, verr := traceInterrupts(t, store, TransferProgram(newTransfer(from, to, 40)))

	require.NotNil(t, verr)
	assert.Equal(t, continuation.ErrInsufficientBalance, verr.Kind)
}

func TestTransferProgramRejectsNonceMismatch(t *testing.T) {
	store := memdb.NewStore()
	from := continuation.Address{0x05}
	to := continuation.Address{0x06}
	seedAccount(store, from, 100)

	transfer := newTransfer(from, to, 40)
	transfer.Nonce = 7

	_, _, verr := traceInterrupts(t, store, TransferProgram(transfer))

	require.NotNil(t, verr)
	assert.Equal(t, continuation.ErrNonceMismatch, verr.Kind)
}

func TestTransferProgramBillsBlobFeeToSender(t *testing.T) {
	store := memdb.NewStore()
	from := continuation.Address{0x09}
	to := continuation.Address{0x0a}
	// Blob fees run to 131072 wei per blob at the minimum price, so the
	// sender needs a balance well above the transferred value to cover it.
	seedAccount(store, from, 10_000_000)

	transfer := newTransfer(from, to, 40)
	transfer.BlobCount = 1

	_, _, verr := traceInterrupts(t, store, TransferProgram(transfer))
	require.Nil(t, verr)

	fromAfter := store.GetAccount(from)
	require.NotNil(t, fromAfter)
	// Sender pays the transferred value plus a nonzero blob fee, so the
	// balance drops by more than the bare 40 transferred to the recipient.
	var afterValueOnly uint256.Int
	afterValueOnly.SetUint64(10_000_000 - 40)
	assert.True(t, fromAfter.Balance.Lt(&afterValueOnly))
}

func TestTransferProgramRejectsInsufficientBalanceForBlobFee(t *testing.T) {
	store := memdb.NewStore()
	from := continuation.Address{0x0b}
	to := continuation.Address{0x0c}
	seedAccount(store, from, 40)

	transfer := newTransfer(from, to, 40)
	transfer.BlobCount = 1

	_, _, verr := traceInterrupts(t, store, TransferProgram(transfer))
	require.NotNil(t, verr)
	assert.Equal(t, continuation.ErrInsufficientBalance, verr.Kind)
}

// TestTransferProgramIsDeterministic checks that replaying the same
// program against the same starting state produces the same request
// trace, exercised through the reference executor rather than a
// synthetic program.
func TestTransferProgramIsDeterministic(t *testing.T) {
	from := continuation.Address{0x07}
	to := continuation.Address{0x08}

	run := func() []continuation.RequestKind {
		store := memdb.NewStore()
		seedAccount(store, from, 100)
		kinds, _, _ := traceInterrupts(t, store, TransferProgram(newTransfer(from, to, 40)))
		return kinds
	}

	assert.Equal(t, run(), run())
}
