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

package continuation

import "sync/atomic"

// Interrupt is the tagged union a host inspects after Start or Resume:
// exactly one of the eleven request kinds, or FinishedInterrupt. Only
// types in this package implement it, so a type switch over Interrupt is
// exhaustive in practice even though Go has no sealed-interface check.
type Interrupt interface {
	Kind() RequestKind
	isInterrupt()
}

// handle is embedded by every non-terminal Interrupt. It guards
// single-shot resume: used is a pointer so that copying the Interrupt
// value (which Go does freely — these are plain structs, not
// references) still shares one flag with the original.
type handle struct {
	e    *engine
	used *atomic.Bool
}

func newHandle(e *engine) handle {
	return handle{e: e, used: new(atomic.Bool)}
}

// consume marks the handle used, panicking if it already was. Resuming a
// consumed or otherwise-invalid handle is a programming error, not a
// recoverable runtime condition.
func (h handle) consume() {
	if h.used.Swap(true) {
		panic("continuation: resume handle already used")
	}
}

func buildInterrupt(e *engine, req request) Interrupt {
	h := newHandle(e)
	switch req.kind {
	case KindReadAccount:
		return ReadAccountInterrupt{handle: h, Address: req.address}
	case KindReadStorage:
		return ReadStorageInterrupt{handle: h, Address: req.address, Location: req.location}
	case KindReadCode:
		return ReadCodeInterrupt{handle: h, CodeHash: req.codeHash}
	case KindEraseStorage:
		return EraseStorageInterrupt{handle: h, Address: req.address, Location: req.location}
	case KindReadHeader:
		return ReadHeaderInterrupt{handle: h, BlockNumber: req.blockNumber, BlockHash: req.blockHash}
	case KindReadBody:
		return ReadBodyInterrupt{handle: h, BlockNumber: req.blockNumber, BlockHash: req.blockHash}
	case KindReadTotalDifficulty:
		return ReadTotalDifficultyInterrupt{handle: h, BlockNumber: req.blockNumber, BlockHash: req.blockHash}
	case KindBeginBlock:
		return BeginBlockInterrupt{handle: h, BlockNumber: req.blockNumber}
	case KindUpdateAccount:
		return UpdateAccountInterrupt{handle: h, Address: req.address, Initial: req.initialAccount, Current: req.currentAccount}
	case KindUpdateCode:
		return UpdateCodeInterrupt{handle: h, CodeHash: req.codeHash, Code: req.code}
	case KindUpdateStorage:
		return UpdateStorageInterrupt{handle: h, Address: req.address, Location: req.location, Initial: req.initialStorage, Current: req.currentStorage}
	default:
		panic("continuation: unknown request kind")
	}
}

// ReadAccountInterrupt asks the host for the current account at Address,
// or nil if none exists.
type ReadAccountInterrupt struct {
	handle
	Address Address
}

func (ReadAccountInterrupt) Kind() RequestKind { return KindReadAccount }
func (ReadAccountInterrupt) isInterrupt()      {}

func (i ReadAccountInterrupt) Resume(account *Account) Interrupt {
	i.consume()
	return i.e.resumeAndAwait(accountResume{account: account})
}

// ReadStorageInterrupt asks for the value at Address/Location. Resume
// with the zero U256 if the slot is unset.
type ReadStorageInterrupt struct {
	handle
	Address  Address
	Location U256
}

func (ReadStorageInterrupt) Kind() RequestKind { return KindReadStorage }
func (ReadStorageInterrupt) isInterrupt()      {}

func (i ReadStorageInterrupt) Resume(value U256) Interrupt {
	i.consume()
	return i.e.resumeAndAwait(storageResume{value: value})
}

// ReadCodeInterrupt asks for the bytecode behind CodeHash.
type ReadCodeInterrupt struct {
	handle
	CodeHash H256
}

func (ReadCodeInterrupt) Kind() RequestKind { return KindReadCode }
func (ReadCodeInterrupt) isInterrupt()      {}

func (i ReadCodeInterrupt) Resume(code []byte) Interrupt {
	i.consume()
	return i.e.resumeAndAwait(codeResume{code: code})
}

// EraseStorageInterrupt tells the host to drop every storage slot at
// Address and beyond Location (used when an account self-destructs and
// is about to be re-created at a new incarnation).
type EraseStorageInterrupt struct {
	handle
	Address  Address
	Location U256
}

func (EraseStorageInterrupt) Kind() RequestKind { return KindEraseStorage }
func (EraseStorageInterrupt) isInterrupt()      {}

func (i EraseStorageInterrupt) Resume() Interrupt {
	i.consume()
	return i.e.resumeAndAwait(resumeEmpty)
}

// ReadHeaderInterrupt asks for the header identified by BlockNumber and
// BlockHash, or nil if it is unknown to the host.
type ReadHeaderInterrupt struct {
	handle
	BlockNumber BlockNumber
	BlockHash   H256
}

func (ReadHeaderInterrupt) Kind() RequestKind { return KindReadHeader }
func (ReadHeaderInterrupt) isInterrupt()      {}

func (i ReadHeaderInterrupt) Resume(header *BlockHeader) Interrupt {
	i.consume()
	return i.e.resumeAndAwait(headerResume{header: header})
}

// ReadBodyInterrupt asks for the body identified by BlockNumber and
// BlockHash, or nil if it is unknown to the host.
type ReadBodyInterrupt struct {
	handle
	BlockNumber BlockNumber
	BlockHash   H256
}

func (ReadBodyInterrupt) Kind() RequestKind { return KindReadBody }
func (ReadBodyInterrupt) isInterrupt()      {}

func (i ReadBodyInterrupt) Resume(body *BlockBody) Interrupt {
	i.consume()
	return i.e.resumeAndAwait(bodyResume{body: body})
}

// ReadTotalDifficultyInterrupt asks for the accumulated difficulty up to
// and including the identified block, or nil if unknown.
type ReadTotalDifficultyInterrupt struct {
	handle
	BlockNumber BlockNumber
	BlockHash   H256
}

func (ReadTotalDifficultyInterrupt) Kind() RequestKind { return KindReadTotalDifficulty }
func (ReadTotalDifficultyInterrupt) isInterrupt()      {}

func (i ReadTotalDifficultyInterrupt) Resume(td *U256) Interrupt {
	i.consume()
	return i.e.resumeAndAwait(totalDifficultyResume{value: td})
}

// BeginBlockInterrupt announces the start of block BlockNumber. It
// carries no state to read; the host just needs to know processing of
// this block has begun (e.g. to open a new changeset).
type BeginBlockInterrupt struct {
	handle
	BlockNumber BlockNumber
}

func (BeginBlockInterrupt) Kind() RequestKind { return KindBeginBlock }
func (BeginBlockInterrupt) isInterrupt()      {}

func (i BeginBlockInterrupt) Resume() Interrupt {
	i.consume()
	return i.e.resumeAndAwait(resumeEmpty)
}

// UpdateAccountInterrupt surfaces an account write: Initial is what a
// preceding ReadAccount would have returned, Current is the new value
// (nil for deletion). Initial == Current is legal but wasteful; hosts
// need not filter no-ops.
type UpdateAccountInterrupt struct {
	handle
	Address Address
	Initial *Account
	Current *Account
}

func (UpdateAccountInterrupt) Kind() RequestKind { return KindUpdateAccount }
func (UpdateAccountInterrupt) isInterrupt()      {}

func (i UpdateAccountInterrupt) Resume() Interrupt {
	i.consume()
	return i.e.resumeAndAwait(resumeEmpty)
}

// UpdateCodeInterrupt surfaces newly-deployed bytecode. Code hashes to
// CodeHash; a trusted executor lets hosts skip re-verifying that.
type UpdateCodeInterrupt struct {
	handle
	CodeHash H256
	Code     []byte
}

func (UpdateCodeInterrupt) Kind() RequestKind { return KindUpdateCode }
func (UpdateCodeInterrupt) isInterrupt()      {}

func (i UpdateCodeInterrupt) Resume() Interrupt {
	i.consume()
	return i.e.resumeAndAwait(resumeEmpty)
}

// UpdateStorageInterrupt surfaces a storage write: Initial and Current
// are the slot's pre- and post-values; Current == 0 represents deletion.
type UpdateStorageInterrupt struct {
	handle
	Address  Address
	Location U256
	Initial  U256
	Current  U256
}

func (UpdateStorageInterrupt) Kind() RequestKind { return KindUpdateStorage }
func (UpdateStorageInterrupt) isInterrupt()      {}

func (i UpdateStorageInterrupt) Resume() Interrupt {
	i.consume()
	return i.e.resumeAndAwait(resumeEmpty)
}

// FinishedInterrupt is terminal: it carries the continuation's final
// Result/error and offers no Resume method, so the host cannot
// accidentally reuse a completed continuation.
type FinishedInterrupt struct {
	Result Result
	Err    *ValidationError
}

func (FinishedInterrupt) Kind() RequestKind { return -1 }
func (FinishedInterrupt) isInterrupt()      {}
