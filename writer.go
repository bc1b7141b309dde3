// Copyright ©2023 The go-pdf Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package quire

import (
	"bytes"
	"compress/zlib"
	"fmt"
	"strconv"
)

// Object ids 1 and 2 are written last but referenced by every page.
const (
	objPagesRoot = 1
	objResources = 2
)

// objWriter appends numbered objects to the output buffer and remembers the
// byte offset at which each one starts.
type objWriter struct {
	buf     bytes.Buffer
	n       int   // last allocated object id
	offsets []int // offsets[id]; -1 means not yet written
	open    int   // id of the object being written, 0 when none
	err     error
}

func newObjWriter() *objWriter {
	return &objWriter{
		n:       objResources,
		offsets: []int{0, -1, -1},
	}
}

func (w *objWriter) fail(err error) {
	if w.err == nil {
		w.err = err
	}
}

func (w *objWriter) put(s string) {
	w.buf.WriteString(s)
	w.buf.WriteByte('\n')
}

func (w *objWriter) putf(fmtStr string, args ...any) {
	fmt.Fprintf(&w.buf, fmtStr, args...)
	w.buf.WriteByte('\n')
}

// newobj allocates the next object id and opens it.
func (w *objWriter) newobj() int {
	w.n++
	w.beginAt(w.n)
	return w.n
}

// beginAt opens an object whose id was reserved earlier.
func (w *objWriter) beginAt(id int) {
	if w.open != 0 {
		w.fail(fmt.Errorf(
			"%w: object %d opened while object %d is unterminated",
			ErrEncoding, id, w.open,
		))
		return
	}
	for len(w.offsets) <= id {
		w.offsets = append(w.offsets, -1)
	}
	if w.offsets[id] >= 0 {
		w.fail(fmt.Errorf("%w: object %d written twice", ErrEncoding, id))
		return
	}
	w.offsets[id] = w.buf.Len()
	w.open = id
	w.put(strconv.Itoa(id) + " 0 obj")
}

func (w *objWriter) endobj() {
	w.put("endobj")
	w.open = 0
}

func (w *objWriter) putstream(data []byte) {
	w.put("stream")
	w.buf.Write(data)
	w.put("")
	w.put("endstream")
}

// putStreamObject writes a complete stream object, compressing data when
// compress is set.
func (w *objWriter) putStreamObject(data []byte, compress bool) {
	filter := ""
	if compress {
		if z, ok := compressBytes(data); ok {
			data, filter = z, "/Filter /FlateDecode "
		}
	}
	w.newobj()
	w.putf("<<%s/Length %d>>", filter, len(data))
	w.putstream(data)
	w.endobj()
}

// xref writes the cross-reference table and trailer. Every id up to n must
// have been written.
func (w *objWriter) xref() {
	if w.open != 0 {
		w.fail(fmt.Errorf("%w: object %d is unterminated", ErrEncoding, w.open))
	}
	for id := 1; id <= w.n; id++ {
		if id >= len(w.offsets) || w.offsets[id] < 0 {
			w.fail(fmt.Errorf("%w: object %d was never written", ErrEncoding, id))
		}
	}
	if w.err != nil {
		return
	}

	o := w.buf.Len()
	w.put("xref")
	w.putf("0 %d", w.n+1)
	w.put("0000000000 65535 f ")
	for id := 1; id <= w.n; id++ {
		w.putf("%010d 00000 n ", w.offsets[id])
	}

	w.put("trailer")
	w.put("<<")
	w.putf("/Size %d", w.n+1)
	w.putf("/Root %d 0 R", w.n)
	w.putf("/Info %d 0 R", w.n-1)
	w.put(">>")
	w.put("startxref")
	w.put(strconv.Itoa(o))
	w.put("%%EOF")
}

// compressBytes deflates data in zlib format. It reports false, leaving the
// caller to write data uncompressed, if the codec fails.
func compressBytes(data []byte) ([]byte, bool) {
	var buf bytes.Buffer
	buf.Grow(len(data) / 2)

	zw := zlib.NewWriter(&buf)
	if _, err := zw.Write(data); err != nil {
		return nil, false
	}
	if err := zw.Close(); err != nil {
		return nil, false
	}
	return buf.Bytes(), true
}
