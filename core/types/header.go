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

// Package types holds the domain primitives the continuation driver treats
// as opaque: block headers and bodies. They carry only the fields the
// reference executor and the ambient blob-gas helper actually touch.
package types

import (
	libcommon "github.com/erigontech/erigon-lib/common"
	"golang.org/x/crypto/sha3"
)

// Header is a trimmed block header. Real consensus clients carry dozens of
// additional fields (difficulty, bloom, state root, ...); this module never
// validates a header, so it only needs enough to drive BeginBlock and the
// EIP-4844 excess-blob-gas calculation.
type Header struct {
	ParentHash    libcommon.Hash
	Number        uint64
	Time          uint64
	Coinbase      libcommon.Address
	GasLimit      uint64
	GasUsed       uint64
	BlobGasUsed   *uint64
	ExcessBlobGas *uint64
}

func (h *Header) Hash() libcommon.Hash {
	if h == nil {
		return libcommon.Hash{}
	}
	d := sha3.NewLegacyKeccak256()
	d.Write(h.encodeForHash())
	var out libcommon.Hash
	d.Sum(out[:0])
	return out
}

// encodeForHash is a deliberately simple, non-RLP domain-separated encoding.
// It exists only so headers constructed in tests and the reference executor
// have a stable, content-addressed hash; it is never written to disk and is
// not the consensus block hash format (that belongs to an RLP/trie layer
// this module does not implement).
func (h *Header) encodeForHash() []byte {
	buf := make([]byte, 0, 32+8+8+20+8+8)
	buf = append(buf, h.ParentHash[:]...)
	buf = appendUint64(buf, h.Number)
	buf = appendUint64(buf, h.Time)
	buf = append(buf, h.Coinbase[:]...)
	buf = appendUint64(buf, h.GasLimit)
	buf = appendUint64(buf, h.GasUsed)
	return buf
}

func appendUint64(buf []byte, v uint64) []byte {
	var tmp [8]byte
	for i := 7; i >= 0; i-- {
		tmp[i] = byte(v)
		v >>= 8
	}
	return append(buf, tmp[:]...)
}
