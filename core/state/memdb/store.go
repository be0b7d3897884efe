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

// Package memdb is a reference in-memory implementation of the state a
// continuation's host serves requests from: an ordered key/value store per
// core/state/kv table, and a Host that drives an Interrupt chain to
// completion against it. It plays the role erigon's HistoryReaderV3
// plays for the real MDBX-backed state layer, but against btree.BTree
// instead of a TemporalTx, which is what makes it usable directly from
// tests and from core/executor's reference programs.
package memdb

import (
	"encoding/binary"
	"sync"

	"github.com/google/btree"
	"github.com/holiman/uint256"

	"github.com/gelfand/akula/core/state/accounts"
	"github.com/gelfand/akula/core/state/continuation"
	"github.com/gelfand/akula/core/types"
)

const btreeDegree = 32

type (
	Address = continuation.Address
	H256    = continuation.H256
	U256    = continuation.U256
)

// storageKey is address + incarnation + location, the same composite key
// layout erigon's HistoryReaderV3 builds by hand into hr.composite before
// every ReadAccountStorage call.
type storageKey struct {
	address     Address
	incarnation uint64
	location    H256
}

func (k storageKey) less(other storageKey) bool {
	if c := compareBytes(k.address[:], other.address[:]); c != 0 {
		return c < 0
	}
	if k.incarnation != other.incarnation {
		return k.incarnation < other.incarnation
	}
	return compareBytes(k.location[:], other.location[:]) < 0
}

func compareBytes(a, b []byte) int {
	for i := 0; i < len(a) && i < len(b); i++ {
		if a[i] != b[i] {
			if a[i] < b[i] {
				return -1
			}
			return 1
		}
	}
	return len(a) - len(b)
}

type accountItem struct {
	key     Address
	account accounts.Account
}

func (i accountItem) Less(than btree.Item) bool {
	return compareBytes(i.key[:], than.(accountItem).key[:]) < 0
}

type storageItem struct {
	key   storageKey
	value U256
}

func (i storageItem) Less(than btree.Item) bool {
	return i.key.less(than.(storageItem).key)
}

type codeItem struct {
	key  H256
	code []byte
}

func (i codeItem) Less(than btree.Item) bool {
	return compareBytes(i.key[:], than.(codeItem).key[:]) < 0
}

// blockKey is block_number_be + hash, the same ordering
// erigon-lib/kv.Headers/HeaderTD/BlockBody tables use so range scans stay
// canonical-chain-ordered.
type blockKey struct {
	number uint64
	hash   H256
}

func (k blockKey) bytes() [8 + 32]byte {
	var b [8 + 32]byte
	binary.BigEndian.PutUint64(b[:8], k.number)
	copy(b[8:], k.hash[:])
	return b
}

func (k blockKey) less(other blockKey) bool {
	b1, b2 := k.bytes(), other.bytes()
	return compareBytes(b1[:], b2[:]) < 0
}

type headerItem struct {
	key    blockKey
	header *types.Header
}

func (i headerItem) Less(than btree.Item) bool { return i.key.less(than.(headerItem).key) }

type bodyItem struct {
	key  blockKey
	body *types.Body
}

func (i bodyItem) Less(than btree.Item) bool { return i.key.less(than.(bodyItem).key) }

type tdItem struct {
	key blockKey
	td  U256
}

func (i tdItem) Less(than btree.Item) bool { return i.key.less(than.(tdItem).key) }

// Store is a reference, single-process implementation of the tables named
// in core/state/kv: one btree per table, guarded by its own RWMutex so
// reads and writes on different tables never contend.
type Store struct {
	accountsMu sync.RWMutex
	accounts   *btree.BTree

	storageMu sync.RWMutex
	storage   *btree.BTree

	codeMu sync.RWMutex
	code   *btree.BTree

	headersMu sync.RWMutex
	headers   *btree.BTree

	tdMu sync.RWMutex
	td   *btree.BTree

	bodiesMu sync.RWMutex
	bodies   *btree.BTree
}

func NewStore() *Store {
	return &Store{
		accounts: btree.New(btreeDegree),
		storage:  btree.New(btreeDegree),
		code:     btree.New(btreeDegree),
		headers:  btree.New(btreeDegree),
		td:       btree.New(btreeDegree),
		bodies:   btree.New(btreeDegree),
	}
}

func (s *Store) GetAccount(address Address) *accounts.Account {
	s.accountsMu.RLock()
	defer s.accountsMu.RUnlock()
	item := s.accounts.Get(accountItem{key: address})
	if item == nil {
		return nil
	}
	a := item.(accountItem).account
	return &a
}

func (s *Store) PutAccount(address Address, account *accounts.Account) {
	s.accountsMu.Lock()
	defer s.accountsMu.Unlock()
	if account == nil {
		s.accounts.Delete(accountItem{key: address})
		return
	}
	s.accounts.ReplaceOrInsert(accountItem{key: address, account: *account})
}

func (s *Store) GetStorage(address Address, incarnation uint64, location H256) U256 {
	s.storageMu.RLock()
	defer s.storageMu.RUnlock()
	item := s.storage.Get(storageItem{key: storageKey{address, incarnation, location}})
	if item == nil {
		return U256{}
	}
	return item.(storageItem).value
}

func (s *Store) PutStorage(address Address, incarnation uint64, location H256, value U256) {
	s.storageMu.Lock()
	defer s.storageMu.Unlock()
	key := storageKey{address, incarnation, location}
	if value.IsZero() {
		s.storage.Delete(storageItem{key: key})
		return
	}
	s.storage.ReplaceOrInsert(storageItem{key: key, value: value})
}

// EraseStorage deletes every slot recorded at address/incarnation whose
// location is >= from, mirroring the EraseStorageInterrupt contract: a host
// serving it must wipe forward from the given location, not the whole
// account (a lower incarnation's slots, if still present, are untouched).
func (s *Store) EraseStorage(address Address, incarnation uint64, from H256) {
	s.storageMu.Lock()
	defer s.storageMu.Unlock()
	var toDelete []btree.Item
	pivot := storageItem{key: storageKey{address, incarnation, from}}
	s.storage.AscendGreaterOrEqual(pivot, func(item btree.Item) bool {
		k := item.(storageItem).key
		if k.address != address || k.incarnation != incarnation {
			return false
		}
		toDelete = append(toDelete, item)
		return true
	})
	for _, item := range toDelete {
		s.storage.Delete(item)
	}
}

func (s *Store) GetCode(codeHash H256) []byte {
	s.codeMu.RLock()
	defer s.codeMu.RUnlock()
	item := s.code.Get(codeItem{key: codeHash})
	if item == nil {
		return nil
	}
	return item.(codeItem).code
}

func (s *Store) PutCode(codeHash H256, code []byte) {
	s.codeMu.Lock()
	defer s.codeMu.Unlock()
	s.code.ReplaceOrInsert(codeItem{key: codeHash, code: code})
}

func (s *Store) GetHeader(number uint64, hash H256) *types.Header {
	s.headersMu.RLock()
	defer s.headersMu.RUnlock()
	item := s.headers.Get(headerItem{key: blockKey{number, hash}})
	if item == nil {
		return nil
	}
	return item.(headerItem).header
}

func (s *Store) PutHeader(header *types.Header) {
	s.headersMu.Lock()
	defer s.headersMu.Unlock()
	s.headers.ReplaceOrInsert(headerItem{key: blockKey{header.Number, header.Hash()}, header: header})
}

func (s *Store) GetBody(number uint64, hash H256) *types.Body {
	s.bodiesMu.RLock()
	defer s.bodiesMu.RUnlock()
	item := s.bodies.Get(bodyItem{key: blockKey{number, hash}})
	if item == nil {
		return nil
	}
	return item.(bodyItem).body
}

func (s *Store) PutBody(number uint64, hash H256, body *types.Body) {
	s.bodiesMu.Lock()
	defer s.bodiesMu.Unlock()
	s.bodies.ReplaceOrInsert(bodyItem{key: blockKey{number, hash}, body: body})
}

func (s *Store) GetTotalDifficulty(number uint64, hash H256) *uint256.Int {
	s.tdMu.RLock()
	defer s.tdMu.RUnlock()
	item := s.td.Get(tdItem{key: blockKey{number, hash}})
	if item == nil {
		return nil
	}
	td := item.(tdItem).td
	return &td
}

func (s *Store) PutTotalDifficulty(number uint64, hash H256, td U256) {
	s.tdMu.Lock()
	defer s.tdMu.Unlock()
	s.td.ReplaceOrInsert(tdItem{key: blockKey{number, hash}, td: td})
}
