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

package types

import (
	libcommon "github.com/erigontech/erigon-lib/common"
	"github.com/holiman/uint256"
)

// Transaction is the minimal shape the reference executor needs: a single
// value transfer from Sender to To. Real transactions carry signatures,
// gas pricing, call data and access lists; none of that is this module's
// concern (EVM opcode interpretation and fee markets are Non-goals).
type Transaction struct {
	Sender libcommon.Address
	To     libcommon.Address
	Value  *uint256.Int
	Nonce  uint64
}

// Body groups the transactions (and, for completeness, uncle headers) that
// belong to a block. Withdrawals are omitted: nothing in this module's
// scope consumes them.
type Body struct {
	Transactions []Transaction
	Uncles       []*Header
}
