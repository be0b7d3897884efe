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

// Package accounts implements the on-disk encoding of an Ethereum account
// record. It mirrors the layout erigon-lib/types/accounts uses (its
// DecodeForStorage codec): a single bit-flagged field-set byte followed by the present
// fields in a fixed order, each as a length-prefixed, leading-zero-stripped
// big-endian integer. A single mis-encoded byte diverges the state root,
// so every code path here favors explicitness over cleverness.
package accounts

import (
	"fmt"

	libcommon "github.com/erigontech/erigon-lib/common"
	"github.com/erigontech/erigon-lib/common/math"
	"github.com/holiman/uint256"
	"golang.org/x/crypto/sha3"
)

// EmptyHash is keccak256 of the empty byte string, the sentinel code hash
// of an account with no associated bytecode. It is derived at init time
// rather than hardcoded so the constant's provenance is checked by the
// package's own tests, not merely asserted by them.
var EmptyHash = computeEmptyHash()

func computeEmptyHash() libcommon.Hash {
	d := sha3.NewLegacyKeccak256()
	var out libcommon.Hash
	d.Sum(out[:0])
	return out
}

// MaxEncodedLen bounds EncodeForStorage's output: 1 flags byte plus, for
// each of the four fields, a length byte and its payload (32 for balance
// and code hash, 8 for nonce and incarnation).
const MaxEncodedLen = 1 + (1 + 32) + (1 + 8) + (1 + 32) + (1 + 8)

// Account is the canonical in-memory account record. The default account is
// nonce 0, balance 0, EmptyHash code hash, incarnation 0; the Go zero value
// differs from it in CodeHash, which is all zero bytes there, so a default
// account needs CodeHash set to EmptyHash explicitly.
type Account struct {
	Nonce       uint64
	Balance     uint256.Int
	CodeHash    libcommon.Hash
	Incarnation uint64
}

// fieldSet bit positions within the flags byte. Bits 4-7 are reserved and
// must be zero; DecodeForStorage rejects any input that sets them.
const (
	fieldNonce = 1 << iota
	fieldBalance
	fieldIncarnation
	fieldCodeHash
	fieldReservedMask = 0xf0
)

// EncodingLengthForStorage returns the exact byte length EncodeForStorage
// will produce for a given omitCodeHash choice, computed without building
// the buffer. EncodeForStorage uses it to size its output buffer.
func (a *Account) EncodingLengthForStorage(omitCodeHash bool) int {
	length := 1 // fieldset byte

	if a.Nonce != 0 {
		length += 1 + uint64CompactLen(a.Nonce)
	}
	if !a.Balance.IsZero() {
		length += 1 + uint256CompactLen(&a.Balance)
	}
	if a.Incarnation != 0 {
		length += 1 + uint64CompactLen(a.Incarnation)
	}
	if a.CodeHash != EmptyHash && !omitCodeHash {
		length += 1 + 32
	}

	return length
}

// EncodeForStorage serializes a into the compact on-disk storage format:
// a field-set byte followed by each present field as a length-prefixed,
// leading-zero-stripped big-endian integer. omitCodeHash forces the
// code-hash field to be treated as
// default-valued regardless of its actual value (the caller's way of
// saying "I already know this account's code separately"); it produces
// byte-identical output to encoding an account whose CodeHash is EmptyHash.
func (a *Account) EncodeForStorage(omitCodeHash bool) []byte {
	buf := make([]byte, a.EncodingLengthForStorage(omitCodeHash))

	var fieldSet byte
	pos := 1

	if a.Nonce != 0 {
		fieldSet |= fieldNonce
		pos += writeCompact(buf, pos, uint64CompactLen(a.Nonce), func(dst []byte) {
			putUint64BigEndianTrimmed(dst, a.Nonce)
		})
	}

	if !a.Balance.IsZero() {
		fieldSet |= fieldBalance
		n := uint256CompactLen(&a.Balance)
		pos += writeCompact(buf, pos, n, func(dst []byte) {
			b := a.Balance.Bytes32()
			copy(dst, b[32-n:])
		})
	}

	if a.Incarnation != 0 {
		fieldSet |= fieldIncarnation
		pos += writeCompact(buf, pos, uint64CompactLen(a.Incarnation), func(dst []byte) {
			putUint64BigEndianTrimmed(dst, a.Incarnation)
		})
	}

	if a.CodeHash != EmptyHash && !omitCodeHash {
		fieldSet |= fieldCodeHash
		buf[pos] = 32
		copy(buf[pos+1:pos+33], a.CodeHash[:])
		pos += 33
	}

	buf[0] = fieldSet
	return buf
}

// writeCompact writes a 1-byte length prefix (n) at buf[pos] followed by n
// bytes produced by fill into buf[pos+1:pos+1+n], and returns 1+n, the
// number of bytes consumed.
func writeCompact(buf []byte, pos, n int, fill func(dst []byte)) int {
	buf[pos] = byte(n)
	if n > 0 {
		fill(buf[pos+1 : pos+1+n])
	}
	return 1 + n
}

func putUint64BigEndianTrimmed(dst []byte, v uint64) {
	var tmp [8]byte
	for i := 7; i >= 0; i-- {
		tmp[i] = byte(v)
		v >>= 8
	}
	copy(dst, tmp[8-len(dst):])
}

func uint256CompactLen(v *uint256.Int) int {
	bitLen := v.BitLen()
	return math.CeilDiv(bitLen, 8)
}

// uint64CompactLen returns the number of bytes needed to hold v in a
// leading-zero-stripped big-endian encoding (0 for v == 0).
func uint64CompactLen(v uint64) int {
	n := 0
	for v != 0 {
		n++
		v >>= 8
	}
	return n
}

// DecodeError reports why DecodeForStorage rejected an encoded buffer. The
// Reason field exists purely for diagnostics: consensus code only needs
// to know decoding failed, not why.
type DecodeError struct {
	Reason string
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("accounts: malformed storage encoding: %s", e.Reason)
}

func decodeErr(format string, args ...interface{}) error {
	return &DecodeError{Reason: fmt.Sprintf(format, args...)}
}

// DecodeForStorage parses the compact storage format back into an Account.
// Fields whose flag bit is clear take their default: zero for the integer
// fields, EmptyHash for the code hash. Any malformed
// input (reserved flag bits set, an over-long integer field, a code-hash
// field whose length isn't 32, or a truncated payload) yields a
// *DecodeError and a zero-valued Account.
func DecodeForStorage(enc []byte) (Account, error) {
	var a Account

	if len(enc) == 0 {
		return a, decodeErr("empty input")
	}

	fieldSet := enc[0]
	if fieldSet&fieldReservedMask != 0 {
		return a, decodeErr("reserved flag bits set: %#x", fieldSet)
	}

	pos := 1

	if fieldSet&fieldNonce != 0 {
		n, np, err := readCompactLen(enc, pos, 8)
		if err != nil {
			return Account{}, err
		}
		a.Nonce = decodeUint64(enc[np : np+n])
		pos = np + n
	}

	if fieldSet&fieldBalance != 0 {
		n, np, err := readCompactLen(enc, pos, 32)
		if err != nil {
			return Account{}, err
		}
		a.Balance.SetBytes(enc[np : np+n])
		pos = np + n
	}

	if fieldSet&fieldIncarnation != 0 {
		n, np, err := readCompactLen(enc, pos, 8)
		if err != nil {
			return Account{}, err
		}
		a.Incarnation = decodeUint64(enc[np : np+n])
		pos = np + n
	} else {
		a.Incarnation = 0
	}

	if fieldSet&fieldCodeHash != 0 {
		if pos >= len(enc) {
			return Account{}, decodeErr("truncated before code-hash length byte")
		}
		n := int(enc[pos])
		np := pos + 1
		if n != 32 {
			return Account{}, decodeErr("code-hash length %d != 32", n)
		}
		if np+n > len(enc) {
			return Account{}, decodeErr("truncated code-hash payload")
		}
		copy(a.CodeHash[:], enc[np:np+n])
		pos = np + n
	} else {
		a.CodeHash = EmptyHash
	}

	return a, nil
}

// readCompactLen reads the length byte at enc[pos], validates it against
// maxLen, and checks the payload isn't truncated. It returns the declared
// length, the offset of the payload's first byte, and any error.
func readCompactLen(enc []byte, pos, maxLen int) (n, payloadStart int, err error) {
	if pos >= len(enc) {
		return 0, 0, decodeErr("truncated before length byte at offset %d", pos)
	}
	n = int(enc[pos])
	if n > maxLen {
		return 0, 0, decodeErr("field length %d exceeds maximum %d", n, maxLen)
	}
	payloadStart = pos + 1
	if payloadStart+n > len(enc) {
		return 0, 0, decodeErr("truncated payload: need %d bytes at offset %d, have %d", n, payloadStart, len(enc)-payloadStart)
	}
	return n, payloadStart, nil
}

func decodeUint64(b []byte) uint64 {
	var v uint64
	for _, c := range b {
		v = v<<8 | uint64(c)
	}
	return v
}
