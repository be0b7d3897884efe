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

// Package state holds the plain (non-continuation) read path onto a
// core/state/memdb.Store, for callers that want point-in-time account/
// storage/code lookups without driving a continuation.Program. It plays
// the same role HistoryReaderV3 played against a kv.TemporalTx, trimmed to
// a single in-memory snapshot: this module carries no history, so there is
// no txNum to pin a view to.
package state

import (
	"fmt"

	libcommon "github.com/erigontech/erigon-lib/common"
	log "github.com/erigontech/erigon-lib/log/v3"

	"github.com/gelfand/akula/core/state/accounts"
	"github.com/gelfand/akula/core/state/memdb"
)

// Reader answers account/storage/code lookups directly from a memdb.Store,
// the same four questions HistoryReaderV3 answers from kv.TemporalTx:
// ReadAccountData, ReadAccountStorage, ReadAccountCode, ReadAccountCodeSize.
type Reader struct {
	store *memdb.Store
	trace bool
	log   log.Logger
}

func NewReader(store *memdb.Store) *Reader {
	return &Reader{store: store, log: log.Root()}
}

func (r *Reader) SetTrace(trace bool) { r.trace = trace }

func (r *Reader) ReadAccountData(address libcommon.Address) (*accounts.Account, error) {
	a := r.store.GetAccount(address)
	if r.trace {
		r.log.Debug("ReadAccountData", "address", address, "found", a != nil)
	}
	return a, nil
}

func (r *Reader) ReadAccountStorage(address libcommon.Address, incarnation uint64, location libcommon.Hash) ([]byte, error) {
	value := r.store.GetStorage(address, incarnation, location)
	if r.trace {
		r.log.Debug("ReadAccountStorage", "address", address, "location", location)
	}
	if value.IsZero() {
		return nil, nil
	}
	b := value.Bytes32()
	return b[:], nil
}

func (r *Reader) ReadAccountCode(codeHash libcommon.Hash) ([]byte, error) {
	code := r.store.GetCode(codeHash)
	if r.trace {
		r.log.Debug("ReadAccountCode", "codeHash", codeHash, "len", len(code))
	}
	return code, nil
}

func (r *Reader) ReadAccountCodeSize(codeHash libcommon.Hash) (int, error) {
	code, err := r.ReadAccountCode(codeHash)
	return len(code), err
}

// ReadAccountIncarnation mirrors HistoryReaderV3's off-by-one: a freshly
// destroyed account's stored incarnation already points at the *next*
// incarnation, so the previous one (what a pending self-destruct needs to
// compare against) is one less.
func (r *Reader) ReadAccountIncarnation(address libcommon.Address) (uint64, error) {
	a := r.store.GetAccount(address)
	if a == nil || a.Incarnation == 0 {
		return 0, nil
	}
	return a.Incarnation - 1, nil
}

func (r *Reader) String() string {
	return fmt.Sprintf("state.Reader{trace:%v}", r.trace)
}
