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
	"math/big"

	libcommon "github.com/erigontech/erigon-lib/common"
	"github.com/ethereum/go-ethereum/rlp"
)

// RlpAccount is the Merkle Patricia Trie leaf representation of an
// account: distinct from, and never to be confused with, the compact
// storage encoding above. It carries a storage trie root instead of
// an incarnation counter.
type RlpAccount struct {
	Nonce       uint64
	Balance     *big.Int
	StorageRoot libcommon.Hash
	CodeHash    libcommon.Hash
}

// ToRLP builds the trie-leaf view of a, given the account's current
// storage root (computed by a trie layer this module does not implement).
func (a *Account) ToRLP(storageRoot libcommon.Hash) RlpAccount {
	return RlpAccount{
		Nonce:       a.Nonce,
		Balance:     a.Balance.ToBig(),
		StorageRoot: storageRoot,
		CodeHash:    a.CodeHash,
	}
}

// EncodeRLP renders the trie-leaf encoding using the standard RLP list
// encoding: [nonce, balance, storageRoot, codeHash].
func (r RlpAccount) EncodeRLP() ([]byte, error) {
	balance := r.Balance
	if balance == nil {
		balance = new(big.Int)
	}
	return rlp.EncodeToBytes([]interface{}{
		r.Nonce,
		balance,
		r.StorageRoot,
		r.CodeHash,
	})
}

// DecodeRlpAccount parses the trie-leaf encoding back into an RlpAccount.
func DecodeRlpAccount(enc []byte) (RlpAccount, error) {
	var raw struct {
		Nonce       uint64
		Balance     *big.Int
		StorageRoot libcommon.Hash
		CodeHash    libcommon.Hash
	}
	if err := rlp.DecodeBytes(enc, &raw); err != nil {
		return RlpAccount{}, err
	}
	return RlpAccount(raw), nil
}
