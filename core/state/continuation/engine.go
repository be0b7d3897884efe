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

import (
	"context"
	"runtime"
)

// Result is the continuation's success payload. It deliberately carries
// nothing: what a caller does with a completed execution (build a
// receipt, accumulate gas used, ...) lives above this package's scope.
type Result struct{}

// Program is the paused computation's body: block/transaction execution
// logic that yields through y at each point it needs external state, and
// returns either a successful Result or a *ValidationError. It is the Go
// stand-in for a language-level coroutine/generator: each Program runs
// on its own goroutine, talking to the host through an unexported pair
// of channels.
type Program func(y *Yielder) (Result, *ValidationError)

type doneMsg struct {
	result Result
	err    *ValidationError
}

// engine pairs one running Program's goroutine with the host. It is
// never exposed to hosts directly: every interaction goes through the
// Interrupt values Start and Resume return.
type engine struct {
	toHost    chan request
	toProgram chan ResumeValue
	done      chan doneMsg
}

func newEngine() *engine {
	return &engine{
		toHost:    make(chan request),
		toProgram: make(chan ResumeValue),
		done:      make(chan doneMsg, 1),
	}
}

// Start constructs a continuation running program and advances it to its
// first yield or completion. ctx governs cancellation: canceling it is
// this Go realization's equivalent of "dropping the handle" when the
// host wants to abandon the continuation instead of seeing it through to
// completion.
func Start(ctx context.Context, program Program) Interrupt {
	e := newEngine()
	go e.run(ctx, program)
	return e.awaitNext()
}

func (e *engine) run(ctx context.Context, program Program) {
	finished := false
	defer func() {
		if !finished {
			select {
			case e.done <- doneMsg{err: &ValidationError{Kind: ErrAborted, Cause: ctx.Err()}}:
			default:
			}
		}
	}()
	result, verr := program(&Yielder{e: e, ctx: ctx})
	finished = true
	e.done <- doneMsg{result: result, err: verr}
}

// awaitNext blocks until the program's next yield or its completion,
// turning whichever arrives first into the corresponding Interrupt.
func (e *engine) awaitNext() Interrupt {
	select {
	case req := <-e.toHost:
		return buildInterrupt(e, req)
	case d := <-e.done:
		return FinishedInterrupt{Result: d.result, Err: d.err}
	}
}

// resumeAndAwait is shared by every handle's Resume method: it delivers
// the resume value to the blocked Yielder call, then waits for whatever
// the program does next. If the program goroutine has already exited
// (ctx was canceled while it waited), the resume value is dropped and the
// pending ErrAborted completion is returned as a FinishedInterrupt.
func (e *engine) resumeAndAwait(value ResumeValue) Interrupt {
	select {
	case e.toProgram <- value:
	case d := <-e.done:
		return FinishedInterrupt{Result: d.result, Err: d.err}
	}
	return e.awaitNext()
}

// Yielder is the executor's view of the continuation: one method per
// request kind, each of which suspends the calling goroutine until the
// host resumes with the matching value.
type Yielder struct {
	e   *engine
	ctx context.Context
}

// yield sends req to the host and blocks for the resume value. If ctx is
// canceled before the host services the request (the "handle drop"
// cancellation model), the goroutine exits via runtime.Goexit without
// returning control to program: the continuation cannot observe
// cancellation or run conditional cleanup.
func (y *Yielder) yield(req request) ResumeValue {
	select {
	case y.e.toHost <- req:
	case <-y.ctx.Done():
		runtime.Goexit()
	}
	select {
	case rv := <-y.e.toProgram:
		return rv
	case <-y.ctx.Done():
		runtime.Goexit()
	}
	panic("unreachable")
}

func (y *Yielder) ReadAccount(address Address) *Account {
	return y.yield(request{kind: KindReadAccount, address: address}).(accountResume).account
}

func (y *Yielder) ReadStorage(address Address, location U256) U256 {
	return y.yield(request{kind: KindReadStorage, address: address, location: location}).(storageResume).value
}

func (y *Yielder) ReadCode(codeHash H256) []byte {
	return y.yield(request{kind: KindReadCode, codeHash: codeHash}).(codeResume).code
}

func (y *Yielder) EraseStorage(address Address, location U256) {
	y.yield(request{kind: KindEraseStorage, address: address, location: location})
}

func (y *Yielder) ReadHeader(blockNumber BlockNumber, blockHash H256) *BlockHeader {
	return y.yield(request{kind: KindReadHeader, blockNumber: blockNumber, blockHash: blockHash}).(headerResume).header
}

func (y *Yielder) ReadBody(blockNumber BlockNumber, blockHash H256) *BlockBody {
	return y.yield(request{kind: KindReadBody, blockNumber: blockNumber, blockHash: blockHash}).(bodyResume).body
}

func (y *Yielder) ReadTotalDifficulty(blockNumber BlockNumber, blockHash H256) *U256 {
	return y.yield(request{kind: KindReadTotalDifficulty, blockNumber: blockNumber, blockHash: blockHash}).(totalDifficultyResume).value
}

func (y *Yielder) BeginBlock(blockNumber BlockNumber) {
	y.yield(request{kind: KindBeginBlock, blockNumber: blockNumber})
}

// UpdateAccount surfaces both the pre- and post-image of an account
// write. This is deliberate: a host building a change-set needs no extra
// read because the executor already holds both values during its
// journal step. Do not synthesize initial by re-reading elsewhere; that
// breaks the single-pass contract.
func (y *Yielder) UpdateAccount(address Address, initial, current *Account) {
	y.yield(request{kind: KindUpdateAccount, address: address, initialAccount: initial, currentAccount: current})
}

func (y *Yielder) UpdateCode(codeHash H256, code []byte) {
	y.yield(request{kind: KindUpdateCode, codeHash: codeHash, code: code})
}

func (y *Yielder) UpdateStorage(address Address, location, initial, current U256) {
	y.yield(request{kind: KindUpdateStorage, address: address, location: location, initialStorage: initial, currentStorage: current})
}
