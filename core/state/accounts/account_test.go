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
	"testing"

	libcommon "github.com/erigontech/erigon-lib/common"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/sha3"
)

func keccak(b []byte) libcommon.Hash {
	d := sha3.NewLegacyKeccak256()
	d.Write(b)
	var out libcommon.Hash
	d.Sum(out[:0])
	return out
}

func TestEmptyHashIsKeccakOfEmptyInput(t *testing.T) {
	assert.Equal(t, keccak(nil), EmptyHash)
}

func TestEncodeForStorageVectors(t *testing.T) {
	codeHashE2 := keccak([]byte{0x01, 0x02, 0x03})
	var codeHashE4 libcommon.Hash
	codeHashE4[30] = 0x01
	codeHashE4[31] = 0x23

	cases := []struct {
		name    string
		account Account
		want    []byte
	}{
		{
			name: "E1",
			account: Account{
				Nonce:       100,
				CodeHash:    EmptyHash,
				Incarnation: 5,
			},
			want: []byte{0x05, 0x01, 0x64, 0x01, 0x05},
		},
		{
			name: "E3",
			account: Account{
				Nonce:       2,
				Balance:     *uint256.NewInt(1000),
				CodeHash:    EmptyHash,
				Incarnation: 5,
			},
			want: []byte{0x07, 0x01, 0x02, 0x02, 0x03, 0xe8, 0x01, 0x05},
		},
		{
			name: "E5",
			account: Account{
				CodeHash:    EmptyHash,
				Incarnation: 1,
			},
			want: []byte{0x04, 0x01, 0x01},
		},
		{
			name: "E4",
			account: Account{
				CodeHash:    codeHashE4,
				Incarnation: 1,
			},
			want: append([]byte{0x0c, 0x01, 0x01, 0x20}, codeHashE4[:]...),
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := tc.account.EncodeForStorage(false)
			assert.Equal(t, tc.want, got)
			assert.Equal(t, len(tc.want), tc.account.EncodingLengthForStorage(false))

			decoded, err := DecodeForStorage(got)
			require.NoError(t, err)
			assert.Equal(t, tc.account.Nonce, decoded.Nonce)
			assert.True(t, tc.account.Balance.Eq(&decoded.Balance))
			assert.Equal(t, tc.account.CodeHash, decoded.CodeHash)
			assert.Equal(t, tc.account.Incarnation, decoded.Incarnation)
		})
	}

	_ = codeHashE2
}

func TestEncodeForStorageE2HasCodeHashField(t *testing.T) {
	codeHash := keccak([]byte{0x01, 0x02, 0x03})
	a := Account{
		Nonce:       2,
		Balance:     *uint256.NewInt(1000),
		CodeHash:    codeHash,
		Incarnation: 4,
	}
	got := a.EncodeForStorage(false)
	want := append([]byte{0x0f, 0x01, 0x02, 0x02, 0x03, 0xe8, 0x01, 0x04, 0x20}, codeHash[:]...)
	assert.Equal(t, want, got)

	decoded, err := DecodeForStorage(got)
	require.NoError(t, err)
	assert.Equal(t, codeHash, decoded.CodeHash)
}

func TestDefaultAccountRoundTrips(t *testing.T) {
	var a Account
	a.CodeHash = EmptyHash
	enc := a.EncodeForStorage(false)
	assert.Equal(t, []byte{0x00}, enc)

	decoded, err := DecodeForStorage(enc)
	require.NoError(t, err)
	assert.Equal(t, a, decoded)
}

func TestOmitCodeHashProducesEmptyHashEquivalentEncoding(t *testing.T) {
	withHash := Account{Nonce: 1, CodeHash: keccak([]byte("contract"))}
	withoutHash := Account{Nonce: 1, CodeHash: EmptyHash}

	assert.Equal(t, withoutHash.EncodeForStorage(false), withHash.EncodeForStorage(true))
}

func TestEncodingNeverExceedsMaxEncodedLen(t *testing.T) {
	max := Account{
		Nonce:       ^uint64(0),
		Balance:     *uint256.NewInt(0).Not(uint256.NewInt(0)),
		CodeHash:    keccak([]byte("max")),
		Incarnation: ^uint64(0),
	}
	enc := max.EncodeForStorage(false)
	assert.LessOrEqual(t, len(enc), MaxEncodedLen)
	assert.Equal(t, MaxEncodedLen, len(enc))
}

func TestDecodeForStorageRejectsMalformedInput(t *testing.T) {
	t.Run("empty input", func(t *testing.T) {
		_, err := DecodeForStorage(nil)
		require.Error(t, err)
	})

	t.Run("reserved flag bits set", func(t *testing.T) {
		_, err := DecodeForStorage([]byte{0x10})
		require.Error(t, err)
	})

	t.Run("nonce length exceeds 8", func(t *testing.T) {
		_, err := DecodeForStorage([]byte{0x01, 0x09, 1, 2, 3, 4, 5, 6, 7, 8, 9})
		require.Error(t, err)
	})

	t.Run("truncated payload", func(t *testing.T) {
		_, err := DecodeForStorage([]byte{0x01, 0x02, 0x01})
		require.Error(t, err)
	})

	t.Run("code hash length not 32", func(t *testing.T) {
		enc := []byte{0x08, 0x1f}
		enc = append(enc, make([]byte, 31)...)
		_, err := DecodeForStorage(enc)
		require.Error(t, err)
	})

	t.Run("truncated before length byte", func(t *testing.T) {
		_, err := DecodeForStorage([]byte{0x08})
		require.Error(t, err)
	})
}
