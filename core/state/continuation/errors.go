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

import "fmt"

// ValidationErrorKind classifies why a continuation rejected a
// transaction or block. The core never inspects this to decide behavior;
// it exists for hosts that want to log or branch on the failure without
// string-matching an error message.
type ValidationErrorKind int

const (
	ErrOther ValidationErrorKind = iota
	ErrInsufficientBalance
	ErrNonceMismatch
	ErrAborted
)

func (k ValidationErrorKind) String() string {
	switch k {
	case ErrInsufficientBalance:
		return "insufficient balance"
	case ErrNonceMismatch:
		return "nonce mismatch"
	case ErrAborted:
		return "aborted"
	default:
		return "validation error"
	}
}

// ValidationError is the sole execution-error surface: a continuation
// cannot fail mid-yield, it can only terminate with a result of
// Err(ValidationError). Boxed (here: always handled by
// pointer) because it is large relative to the success case and rarely
// constructed.
type ValidationError struct {
	Kind  ValidationErrorKind
	Cause error
}

func (e *ValidationError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("validation error: %s: %v", e.Kind, e.Cause)
	}
	return fmt.Sprintf("validation error: %s", e.Kind)
}

func (e *ValidationError) Unwrap() error { return e.Cause }
