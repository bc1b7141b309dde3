// Copyright ©2021 The go-pdf Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package raster

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// rbuffer reads big-endian values from src. The first short read is latched
// in err and every later read returns zero values.
type rbuffer struct {
	src io.Reader
	err error
}

func (r *rbuffer) fail(err error) {
	if r.err != nil {
		return
	}
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		err = ErrTruncated
	}
	r.err = err
}

func (r *rbuffer) u8() uint8 {
	buf := r.Next(1)
	if len(buf) < 1 {
		return 0
	}
	return buf[0]
}

func (r *rbuffer) u32() uint32 {
	buf := r.Next(4)
	if len(buf) < 4 {
		return 0
	}
	return binary.BigEndian.Uint32(buf)
}

// Next returns the next n bytes. Allocation grows with the data actually
// read so a corrupt length cannot force a huge buffer up front.
func (r *rbuffer) Next(n uint32) []byte {
	if r.err != nil {
		return nil
	}

	var buf bytes.Buffer
	read, err := io.CopyN(&buf, r.src, int64(n))
	if err != nil {
		r.fail(err)
		return nil
	}
	if read != int64(n) {
		r.fail(fmt.Errorf("%w: short read", ErrTruncated))
		return nil
	}

	return buf.Bytes()
}

// skip discards n bytes.
func (r *rbuffer) skip(n uint32) {
	if r.err != nil {
		return
	}
	if _, err := io.CopyN(io.Discard, r.src, int64(n)); err != nil {
		r.fail(err)
	}
}
