// Copyright ©2023 The go-pdf Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package ttf

import (
	"encoding/binary"
	"errors"
	"fmt"
	"slices"
)

// ErrTruncated is reported when a table offset or length points past the end
// of the font program.
var ErrTruncated = errors.New("ttf: unexpected end of font data")

type Tables struct {
	Cmap Table
	Cvt  Table
	Fpgm Table
	Gasp Table
	Glyf Table
	Head Table
	Hhea Table
	Hmtx Table
	Loca Table
	Maxp Table
	Name Table
	Os2  Table
	Post Table
	Prep Table
}

type Table struct {
	Len u32
	Ptr u32
}

func (t *Table) LenPadded() u32 {
	return (t.Len + 3) &^ 3
}

func (t *Table) String() string {
	return fmt.Sprintf("0x%x: %d bytes", t.Ptr, t.Len)
}

// Reader is a big-endian cursor over a font program. Reads past the end of
// the buffer yield zero values and latch ErrTruncated.
type Reader struct {
	Tables Tables
	buf    []byte
	err    error
	pos    u32
}

func NewReader(bytes []byte) Reader {
	return Reader{buf: bytes}
}

func (r *Reader) Err() error {
	return r.err
}

type fixed i32

func (f fixed) float() f32 {
	return f32(f64(f) / f64(1<<16))
}

func (r *Reader) fixed() fixed {
	return fixed(r.i32())
}

func (r *Reader) fword() fword {
	return fword(r.i16())
}

func (r *Reader) glyfLocation(gid u16, locaFormat u8) (offset u32, len u32) {
	var end u32
	if locaFormat == 0 {
		r.seekTo(r.Tables.Loca.Ptr + u32(gid)*2)
		offset = u32(r.u16()) * 2
		end = u32(r.u16()) * 2
	} else {
		r.seekTo(r.Tables.Loca.Ptr + u32(gid)*4)
		offset = r.u32()
		end = r.u32()
	}
	if end < offset {
		r.fail()
		return offset, 0
	}

	return offset, end - offset
}

func (r *Reader) fail() {
	if r.err == nil {
		r.err = ErrTruncated
	}
}

func (r *Reader) i16() i16 {
	return i16(r.u16())
}

func (r *Reader) i32() i32 {
	return i32(r.u32())
}

func (r Reader) Len() u32 {
	return u32(len(r.buf))
}

func (r *Reader) read(count u32) []byte {
	bytes := r.readAt(r.pos, count)
	r.pos += count
	return bytes
}

func (r *Reader) readAt(pos u32, count u32) []byte {
	end := u64(pos) + u64(count)
	if end > u64(len(r.buf)) {
		r.fail()
		return make([]byte, count)
	}
	return r.buf[pos:end]
}

func (r *Reader) seekTo(pos u32) {
	r.pos = pos
}

func (r *Reader) skip(count u32) {
	r.pos += count
}

func (r *Reader) tag() tag {
	return tag(r.u32())
}

func (r *Reader) u16() u16 {
	return binary.BigEndian.Uint16(r.read(2))
}

func (r *Reader) u32() u32 {
	return binary.BigEndian.Uint32(r.read(4))
}

// Writer assembles a font program in place, allowing already-written regions
// to be revisited through seekTo.
type Writer struct {
	Tables Tables
	buf    []byte
	len    u32
	pos    u32
}

func NewWriter(bytes []byte) Writer {
	return Writer{buf: bytes[:0]}
}

func (w *Writer) Bytes() []byte {
	return w.buf[:w.len]
}

func (w *Writer) ensureCapRemaining(byteCount u32) {
	w.buf = slices.Grow(w.buf[:w.len], int(byteCount))
}

func (w *Writer) seekTo(pos u32) {
	if int(pos) > cap(w.buf) {
		w.buf = slices.Grow(w.buf[:w.len], int(pos)-int(w.len))
	}
	w.pos = pos
	w.buf = w.buf[:w.pos]
	w.len = max(w.len, w.pos)
}

func (w *Writer) skip(count u32) {
	w.seekTo(w.pos + count)
}

func (w *Writer) u16(val u16) {
	w.seekTo(w.pos + 2)
	binary.BigEndian.PutUint16(w.buf[w.pos-2:], val)
}

func (w *Writer) u32(val u32) {
	w.seekTo(w.pos + 4)
	binary.BigEndian.PutUint32(w.buf[w.pos-4:], val)
}

func (w *Writer) write(src []byte) {
	start := w.pos
	w.seekTo(w.pos + u32(len(src)))
	copy(w.buf[start:], src)
}
