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

package accounts

import (
	"testing"

	libcommon "github.com/erigontech/erigon-lib/common"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRlpAccountRoundTrip(t *testing.T) {
	a := Account{
		Nonce:       7,
		Balance:     *uint256.NewInt(12345),
		CodeHash:    keccak([]byte("contract code")),
		Incarnation: 2,
	}
	storageRoot := keccak([]byte("storage trie root"))

	rlpAcc := a.ToRLP(storageRoot)
	encoded, err := rlpAcc.EncodeRLP()
	require.NoError(t, err)

	// The trie-leaf format is not the storage format: the two encodings
	// of the same account must diverge.
	assert.NotEqual(t, a.EncodeForStorage(false), encoded)

	decoded, err := DecodeRlpAccount(encoded)
	require.NoError(t, err)
	assert.Equal(t, a.Nonce, decoded.Nonce)
	assert.Equal(t, storageRoot, decoded.StorageRoot)
	assert.Equal(t, a.CodeHash, decoded.CodeHash)
	assert.Equal(t, a.Balance.ToBig(), decoded.Balance)
}

func TestToRLPCarriesStorageRootNotIncarnation(t *testing.T) {
	a := Account{Incarnation: 9, CodeHash: EmptyHash}
	root := libcommon.Hash{0x42}
	rlpAcc := a.ToRLP(root)
	assert.Equal(t, root, rlpAcc.StorageRoot)
}
