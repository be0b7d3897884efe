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

// Package continuation drives block/transaction execution as a
// suspendable coroutine: the executor yields typed requests for state it
// needs (accounts, storage, code, headers, ...) and the host resumes it
// with the matching typed value. See core/state/memdb's Host for a
// reference host; this package is the other side of that handshake,
// generalized so any host can drive it.
package continuation

import (
	libcommon "github.com/erigontech/erigon-lib/common"
	"github.com/holiman/uint256"

	"github.com/gelfand/akula/core/state/accounts"
	"github.com/gelfand/akula/core/types"
)

// Domain primitives, otherwise opaque values owned by the surrounding
// ecosystem; this module binds them to concrete types so the package
// compiles on its own.
type (
	Address     = libcommon.Address
	H256        = libcommon.Hash
	U256        = uint256.Int
	BlockNumber = uint64
	BlockHeader = types.Header
	BlockBody   = types.Body
	Account     = accounts.Account
)

// RequestKind identifies which of the eleven request variants an Interrupt
// carries. Hosts that want a logging/metrics label instead of a type
// switch can use this; the Interrupt's concrete Go type remains the
// source of truth for dispatch.
type RequestKind int

const (
	KindReadAccount RequestKind = iota
	KindReadStorage
	KindReadCode
	KindEraseStorage
	KindReadHeader
	KindReadBody
	KindReadTotalDifficulty
	KindBeginBlock
	KindUpdateAccount
	KindUpdateCode
	KindUpdateStorage
)

func (k RequestKind) String() string {
	switch k {
	case KindReadAccount:
		return "ReadAccount"
	case KindReadStorage:
		return "ReadStorage"
	case KindReadCode:
		return "ReadCode"
	case KindEraseStorage:
		return "EraseStorage"
	case KindReadHeader:
		return "ReadHeader"
	case KindReadBody:
		return "ReadBody"
	case KindReadTotalDifficulty:
		return "ReadTotalDifficulty"
	case KindBeginBlock:
		return "BeginBlock"
	case KindUpdateAccount:
		return "UpdateAccount"
	case KindUpdateCode:
		return "UpdateCode"
	case KindUpdateStorage:
		return "UpdateStorage"
	default:
		return "Unknown"
	}
}

// request is the internal, program-to-engine representation of a yield.
// It is never seen by hosts directly; buildInterrupt turns one of these
// into the corresponding public Interrupt value.
type request struct {
	kind RequestKind

	address     Address
	location    U256
	codeHash    H256
	blockNumber BlockNumber
	blockHash   H256
	code        []byte

	initialAccount *Account
	currentAccount *Account

	initialStorage U256
	currentStorage U256
}

// ResumeValue is the tagged union of legal resume payloads. Only this
// package constructs values of this type; hosts never build one directly
// — they call the Resume method on the handle they were given, which
// wraps their argument in the correctly-tagged variant itself. This is
// what makes "read account resumed with storage bytes" a compile error
// rather than a runtime one.
type ResumeValue interface {
	isResumeValue()
}

type emptyResume struct{}

func (emptyResume) isResumeValue() {}

// resumeEmpty is shared by every unit-resume handle (EraseStorage,
// BeginBlock, UpdateAccount, UpdateCode, UpdateStorage); it carries no
// data so a single immutable instance is safe to reuse.
var resumeEmpty = emptyResume{}

type accountResume struct{ account *Account }

func (accountResume) isResumeValue() {}

type storageResume struct{ value U256 }

func (storageResume) isResumeValue() {}

type codeResume struct{ code []byte }

func (codeResume) isResumeValue() {}

type headerResume struct{ header *BlockHeader }

func (headerResume) isResumeValue() {}

type bodyResume struct{ body *BlockBody }

func (bodyResume) isResumeValue() {}

type totalDifficultyResume struct{ value *U256 }

func (totalDifficultyResume) isResumeValue() {}
