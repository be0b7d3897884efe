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

	log "github.com/erigontech/erigon-lib/log/v3"

	"github.com/gelfand/akula/core/state/continuation"
)

// Host drives a continuation to completion against a Store, the same role
// HistoryReaderV3 plays against a kv.TemporalTx: every read interrupt is
// answered from the store, every update interrupt is applied to it. trace
// controls per-request logging, mirroring HistoryReaderV3's hr.trace flag.
type Host struct {
	store *Store
	log   log.Logger
	trace bool
}

func NewHost(store *Store, logger log.Logger) *Host {
	if logger == nil {
		logger = log.Root()
	}
	return &Host{store: store, log: logger}
}

func (h *Host) SetTrace(trace bool) { h.trace = trace }

// Run drives program to completion, answering every yielded request from
// h.store, and returns its final Result/ValidationError. ctx cancellation
// propagates into continuation.Start, so canceling it mid-run abandons the
// continuation exactly as core/state/continuation documents.
func (h *Host) Run(ctx context.Context, program continuation.Program) (continuation.Result, *continuation.ValidationError) {
	next := continuation.Start(ctx, program)
	for {
		switch interrupt := next.(type) {
		case continuation.FinishedInterrupt:
			if h.trace {
				h.log.Debug("continuation finished", "err", interrupt.Err)
			}
			return interrupt.Result, interrupt.Err

		case continuation.ReadAccountInterrupt:
			account := h.store.GetAccount(interrupt.Address)
			if h.trace {
				h.log.Debug("ReadAccount", "address", interrupt.Address, "found", account != nil)
			}
			next = interrupt.Resume(account)

		case continuation.ReadStorageInterrupt:
			incarnation := h.incarnationOf(interrupt.Address)
			value := h.store.GetStorage(interrupt.Address, incarnation, interrupt.Location.Bytes32())
			if h.trace {
				h.log.Debug("ReadStorage", "address", interrupt.Address, "location", interrupt.Location.Bytes32())
			}
			next = interrupt.Resume(value)

		case continuation.ReadCodeInterrupt:
			code := h.store.GetCode(interrupt.CodeHash)
			if h.trace {
				h.log.Debug("ReadCode", "codeHash", interrupt.CodeHash, "len", len(code))
			}
			next = interrupt.Resume(code)

		case continuation.EraseStorageInterrupt:
			incarnation := h.incarnationOf(interrupt.Address)
			h.store.EraseStorage(interrupt.Address, incarnation, interrupt.Location.Bytes32())
			if h.trace {
				h.log.Debug("EraseStorage", "address", interrupt.Address, "from", interrupt.Location.Bytes32())
			}
			next = interrupt.Resume()

		case continuation.ReadHeaderInterrupt:
			header := h.store.GetHeader(interrupt.BlockNumber, interrupt.BlockHash)
			next = interrupt.Resume(header)

		case continuation.ReadBodyInterrupt:
			body := h.store.GetBody(interrupt.BlockNumber, interrupt.BlockHash)
			next = interrupt.Resume(body)

		case continuation.ReadTotalDifficultyInterrupt:
			td := h.store.GetTotalDifficulty(interrupt.BlockNumber, interrupt.BlockHash)
			next = interrupt.Resume(td)

		case continuation.BeginBlockInterrupt:
			if h.trace {
				h.log.Info("BeginBlock", "number", interrupt.BlockNumber)
			}
			next = interrupt.Resume()

		case continuation.UpdateAccountInterrupt:
			h.store.PutAccount(interrupt.Address, interrupt.Current)
			if h.trace {
				h.log.Debug("UpdateAccount", "address", interrupt.Address, "deleted", interrupt.Current == nil)
			}
			next = interrupt.Resume()

		case continuation.UpdateCodeInterrupt:
			h.store.PutCode(interrupt.CodeHash, interrupt.Code)
			next = interrupt.Resume()

		case continuation.UpdateStorageInterrupt:
			incarnation := h.incarnationOf(interrupt.Address)
			h.store.PutStorage(interrupt.Address, incarnation, interrupt.Location.Bytes32(), interrupt.Current)
			if h.trace {
				h.log.Debug("UpdateStorage", "address", interrupt.Address, "location", interrupt.Location.Bytes32())
			}
			next = interrupt.Resume()

		default:
			panic("memdb: unhandled interrupt type")
		}
	}
}

// incarnationOf returns the account's current incarnation, or 0 for an
// account the store has never seen. Storage requests don't carry the
// incarnation directly (it lives on the Account, not the request
// parameters); the host derives it the same way HistoryReaderV3 derives the
// key it feeds to kv.StorageDomain.
func (h *Host) incarnationOf(address Address) uint64 {
	if a := h.store.GetAccount(address); a != nil {
		return a.Incarnation
	}
	return 0
}
