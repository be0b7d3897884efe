// Copyright 2021 The Erigon Authors
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

// Package kv names the logical tables core/state/memdb keeps, the way
// erigon-lib/kv names its MDBX buckets. memdb itself is an in-memory btree
// store, not MDBX, but borrowing the same table-name-as-documentation
// convention keeps the key layout legible and gives any future real-db
// backend (bolt, mdbx, pebble, ...) the same vocabulary to implement against.
package kv

const (
	// Accounts: address -> account encoded for storage (core/state/accounts).
	Accounts = "Accounts"

	// Storage: address + incarnation_u64_be + location_hash -> storage value
	// (32-byte big-endian, leading zeros stripped by the caller).
	Storage = "Storage"

	// Code: code hash -> contract bytecode.
	Code = "Code"

	// Headers: block_num_u64_be + block_hash -> header (RLP).
	Headers = "Headers"

	// HeaderTD: block_num_u64_be + block_hash -> total difficulty (RLP).
	HeaderTD = "HeaderTD"

	// BlockBody: block_num_u64_be + block_hash -> block body (RLP).
	BlockBody = "BlockBody"
)
