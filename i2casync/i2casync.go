// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package i2casync

import (
	"errors"
	"fmt"
	"sync"

	"periph.io/x/conn/v3/i2c"
)

var (
	ErrInProgress    = errors.New("i2casync: transfer in progress")
	ErrInvalidLength = errors.New("i2casync: invalid transfer length")
)

// Bus is a non-blocking wrapper around an i2c.Bus. Only one transfer runs
// at a time.
type Bus struct {
	b  i2c.Bus
	wg sync.WaitGroup

	mu       sync.Mutex
	reading  bool
	writing  bool
	err      error
	rx       []byte
	held     []byte
	heldAddr uint16
}

// New returns a Bus issuing its transfers on b. The caller keeps ownership
// of b.
func New(b i2c.Bus) *Bus {
	return &Bus{b: b}
}

// WriteRegisterAddress queues reg for the next Read on addr.
func (a *Bus) WriteRegisterAddress(addr uint16, reg byte) error {
	return a.Write(addr, []byte{reg}, true)
}

// Write sends w to addr in the background. With hold set, w is queued and
// sent with the next Read instead; queued bytes not yet sent are replaced.
func (a *Bus) Write(addr uint16, w []byte, hold bool) error {
	if len(w) == 0 {
		return ErrInvalidLength
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.reading || a.writing {
		return ErrInProgress
	}
	buf := append([]byte(nil), w...)
	a.err = nil
	if hold {
		a.held = buf
		a.heldAddr = addr
		return nil
	}
	prev, prevAddr := a.takeHeld()
	a.writing = true
	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		var err error
		if prev != nil {
			err = a.b.Tx(prevAddr, prev, nil)
		}
		if err == nil {
			err = a.b.Tx(addr, buf, nil)
		}
		a.mu.Lock()
		a.writing = false
		a.err = err
		a.mu.Unlock()
	}()
	return nil
}

// Read requests n bytes from addr in the background. Once ReadInProgress
// returns false, Received holds the payload unless LastFailed is true.
func (a *Bus) Read(addr uint16, n int) error {
	if n <= 0 {
		return ErrInvalidLength
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.reading || a.writing {
		return ErrInProgress
	}
	w, wAddr := a.takeHeld()
	a.reading = true
	a.err = nil
	a.rx = nil
	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		r := make([]byte, n)
		var err error
		switch {
		case w != nil && wAddr == addr:
			err = a.b.Tx(addr, w, r)
		case w != nil:
			if err = a.b.Tx(wAddr, w, nil); err == nil {
				err = a.b.Tx(addr, nil, r)
			}
		default:
			err = a.b.Tx(addr, nil, r)
		}
		a.mu.Lock()
		a.reading = false
		a.err = err
		if err == nil {
			a.rx = r
		}
		a.mu.Unlock()
	}()
	return nil
}

func (a *Bus) ReadInProgress() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.reading
}

func (a *Bus) WriteInProgress() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.writing
}

// LastFailed reports whether the last completed transfer returned an error.
func (a *Bus) LastFailed() bool {
	return a.Err() != nil
}

// Err returns the error of the last completed transfer.
func (a *Bus) Err() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.err
}

// Received returns a copy of the payload of the last successful Read.
func (a *Bus) Received() []byte {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]byte(nil), a.rx...)
}

// Wait blocks until no transfer is running.
func (a *Bus) Wait() {
	a.wg.Wait()
}

// Close waits for the running transfer and drops queued bytes. It does not
// close the underlying bus.
func (a *Bus) Close() error {
	a.wg.Wait()
	a.mu.Lock()
	a.held = nil
	a.mu.Unlock()
	return nil
}

func (a *Bus) String() string {
	return fmt.Sprintf("i2casync(%s)", a.b)
}

func (a *Bus) takeHeld() ([]byte, uint16) {
	w, addr := a.held, a.heldAddr
	a.held = nil
	return w, addr
}
