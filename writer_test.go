// Copyright ©2023 The go-pdf Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package quire

import (
	"bytes"
	"compress/zlib"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestObjWriterOffsets(t *testing.T) {
	w := newObjWriter()
	w.put("%PDF-1.3")
	n := w.newobj()
	require.Equal(t, 3, n)
	w.put("<<>>")
	w.endobj()
	w.beginAt(objPagesRoot)
	w.put("<<>>")
	w.endobj()
	w.beginAt(objResources)
	w.put("<<>>")
	w.endobj()
	w.xref()
	require.NoError(t, w.err)

	out := w.buf.String()
	require.Equal(t, len("%PDF-1.3\n"), w.offsets[3])
	for id := 1; id <= 3; id++ {
		require.True(t, strings.HasPrefix(out[w.offsets[id]:], string(rune('0'+id))+" 0 obj\n"))
	}
	require.Contains(t, out, "xref\n0 4\n0000000000 65535 f \n0000000029 00000 n \n")
	require.Contains(t, out, "/Size 4\n/Root 3 0 R\n/Info 2 0 R\n")
}

func TestObjWriterErrors(t *testing.T) {
	t.Run("duplicate", func(t *testing.T) {
		w := newObjWriter()
		w.beginAt(objPagesRoot)
		w.endobj()
		require.Equal(t, 0, w.offsets[objPagesRoot])
		require.NoError(t, w.err)
		w.beginAt(objPagesRoot)
		require.ErrorIs(t, w.err, ErrEncoding)
	})

	t.Run("unterminated", func(t *testing.T) {
		w := newObjWriter()
		w.newobj()
		w.newobj()
		require.ErrorIs(t, w.err, ErrEncoding)
		require.ErrorContains(t, w.err, "unterminated")
	})

	t.Run("missing", func(t *testing.T) {
		w := newObjWriter()
		w.beginAt(objPagesRoot)
		w.endobj()
		w.xref()
		require.ErrorIs(t, w.err, ErrEncoding)
		require.ErrorContains(t, w.err, "object 2 was never written")
		require.NotContains(t, w.buf.String(), "xref")
	})

	t.Run("open at xref", func(t *testing.T) {
		w := newObjWriter()
		w.beginAt(objPagesRoot)
		w.endobj()
		w.beginAt(objResources)
		w.xref()
		require.ErrorIs(t, w.err, ErrEncoding)
	})
}

func TestPutStreamObject(t *testing.T) {
	data := []byte(strings.Repeat("0 0 m 10 10 l S\n", 20))

	w := newObjWriter()
	w.putStreamObject(data, false)
	require.Equal(t,
		"3 0 obj\n<</Length 320>>\nstream\n"+string(data)+"\nendstream\nendobj\n",
		w.buf.String(),
	)

	w = newObjWriter()
	w.putStreamObject(data, true)
	out := w.buf.String()
	require.True(t, strings.HasPrefix(out, "3 0 obj\n<</Filter /FlateDecode /Length "))
	start := strings.Index(out, "stream\n") + len("stream\n")
	end := strings.Index(out, "\nendstream")
	zr, err := zlib.NewReader(bytes.NewReader([]byte(out[start:end])))
	require.NoError(t, err)
	got, err := io.ReadAll(zr)
	require.NoError(t, err)
	require.Equal(t, data, got)
}

func TestSubsetTag(t *testing.T) {
	var a, b fontFileType
	a.used.Set(' ').Set('A')
	b.used.Set(' ').Set('B')

	tag := subsetTag(&a)
	require.Len(t, tag, 6)
	require.Equal(t, strings.ToUpper(tag), tag)
	require.Equal(t, tag, subsetTag(&a))
	require.NotEqual(t, tag, subsetTag(&b))
}

func TestStripPfbHeaders(t *testing.T) {
	ascii := []byte("%!PS-AdobeFont")
	binary := []byte{1, 2, 3, 4}
	var pfb []byte
	pfb = append(pfb, 0x80, 1, byte(len(ascii)), 0, 0, 0)
	pfb = append(pfb, ascii...)
	pfb = append(pfb, 0x80, 2, byte(len(binary)), 0, 0, 0)
	pfb = append(pfb, binary...)
	pfb = append(pfb, 0x80, 3)

	ff := &fontFileType{data: pfb, length1: len(ascii), length2: len(binary)}
	require.NoError(t, ff.stripPfbHeaders())
	require.Equal(t, append(append([]byte{}, ascii...), binary...), ff.data)

	raw := []byte("%!PS-AdobeFont and more")
	ff = &fontFileType{data: raw, length1: 10, length2: 5}
	require.NoError(t, ff.stripPfbHeaders())
	require.Equal(t, raw, ff.data)

	ff = &fontFileType{data: pfb[:10], length1: len(ascii), length2: len(binary)}
	require.Error(t, ff.stripPfbHeaders())
}
