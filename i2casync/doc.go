// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package i2casync turns a blocking periph i2c.Bus into a non-blocking
// transport for poll driven drivers such as stts22h.
//
// Each transfer runs in its own goroutine. The caller never waits; it
// checks ReadInProgress and WriteInProgress on its next tick. A write
// submitted with hold set is queued and sent together with the following
// Read as a single write-then-read transaction with a repeated start.
package i2casync
