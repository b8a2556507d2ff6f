// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package stts22h

import "errors"

var (
	// ErrNotInitialized is returned by a Dev not built with New.
	ErrNotInitialized = errors.New("stts22h: device not initialized")
	// ErrInvalidArgument is returned for a nil bus, a zero address or limits
	// outside the sensor range.
	ErrInvalidArgument = errors.New("stts22h: invalid argument")
	// ErrBusy is returned while a read transaction is outstanding.
	ErrBusy = errors.New("stts22h: transaction in progress")
	// ErrTransferFailed reports a transfer the transport flagged as failed or
	// a short payload.
	ErrTransferFailed = errors.New("stts22h: bus transfer failed")
)
