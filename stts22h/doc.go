// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package stts22h controls an ST STTS22H digital temperature sensor over an
// asynchronous I²C transport without ever blocking the caller.
//
// Register reads are two phase transactions: the register address is
// written, then the payload is read. Both legs complete asynchronously, so
// every read operation only starts a transaction and the caller has to call
// Dev.Poll repeatedly until Dev.Busy returns false. Writes of the control
// and threshold registers are single combined transfers and are not tracked.
//
// Range: -40°C - 125°C
//
// Accuracy: +/- 0.5°C
//
// Resolution: 0.01°C
//
// For detailed information, refer to the [datasheet].
//
// [datasheet]: https://www.st.com/resource/en/datasheet/stts22h.pdf
package stts22h
