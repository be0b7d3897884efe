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

package memdb

import (
	"context"
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gelfand/akula/core/state/accounts"
	"github.com/gelfand/akula/core/state/continuation"
)

func TestStoreAccountRoundTrip(t *testing.T) {
	s := NewStore()
	addr := Address{0x01}

	assert.Nil(t, s.GetAccount(addr))

	want := accounts.Account{Nonce: 3, CodeHash: accounts.EmptyHash}
	want.Balance.SetUint64(500)
	s.PutAccount(addr, &want)

	got := s.GetAccount(addr)
	require.NotNil(t, got)
	assert.Equal(t, want.Nonce, got.Nonce)
	assert.True(t, want.Balance.Eq(&got.Balance))

	s.PutAccount(addr, nil)
	assert.Nil(t, s.GetAccount(addr))
}

func TestStoreStorageEraseIsIncarnationScoped(t *testing.T) {
	s := NewStore()
	addr := Address{0x02}
	loc1 := H256{0x01}
	loc2 := H256{0x02}

	var v1, v2 uint256.Int
	v1.SetUint64(1)
	v2.SetUint64(2)

	s.PutStorage(addr, 0, loc1, v1)
	s.PutStorage(addr, 0, loc2, v2)
	s.PutStorage(addr, 1, loc1, v1)

	s.EraseStorage(addr, 0, H256{})

	assert.True(t, s.GetStorage(addr, 0, loc1).IsZero())
	assert.True(t, s.GetStorage(addr, 0, loc2).IsZero())
	assert.False(t, s.GetStorage(addr, 1, loc1).IsZero())
}

// transferProgram mirrors core/executor.TransferProgram's shape without
// importing it (avoiding an import cycle risk across package boundaries
// isn't the concern here; keeping memdb's tests self-contained is).
func transferProgram(from, to Address, amount uint64) continuation.Program {
	return func(y *continuation.Yielder) (continuation.Result, *continuation.ValidationError) {
		y.BeginBlock(1)

		a := y.ReadAccount(from)
		if a == nil {
			return continuation.Result{}, &continuation.ValidationError{Kind: continuation.ErrOther}
		}
		b := y.ReadAccount(to)
		bCurrent := accounts.Account{CodeHash: accounts.EmptyHash}
		if b != nil {
			bCurrent = *b
		}

		aCurrent := *a
		aCurrent.Balance.SubUint64(&aCurrent.Balance, amount)
		bCurrent.Balance.AddUint64(&bCurrent.Balance, amount)

		y.UpdateAccount(from, a, &aCurrent)
		y.UpdateAccount(to, b, &bCurrent)
		return continuation.Result{}, nil
	}
}

func TestHostDrivesTransferToCompletion(t *testing.T) {
	store := NewStore()
	from := Address{0xaa}
	to := Address{0xbb}

	seed := accounts.Account{CodeHash: accounts.EmptyHash}
	seed.Balance.SetUint64(100)
	store.PutAccount(from, &seed)

	host := NewHost(store, nil)
	result, verr := host.Run(context.Background(), transferProgram(from, to, 40))

	require.Nil(t, verr)
	assert.Equal(t, continuation.Result{}, result)

	fromAfter := store.GetAccount(from)
	toAfter := store.GetAccount(to)
	require.NotNil(t, fromAfter)
	require.NotNil(t, toAfter)

	var wantFrom, wantTo uint256.Int
	wantFrom.SetUint64(60)
	wantTo.SetUint64(40)
	assert.True(t, wantFrom.Eq(&fromAfter.Balance))
	assert.True(t, wantTo.Eq(&toAfter.Balance))
}
