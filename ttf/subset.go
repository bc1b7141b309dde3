// Copyright ©2023 The go-pdf Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package ttf

import (
	"encoding/binary"
	"fmt"
	"math"
	"slices"

	"github.com/bits-and-blooms/bitset"
)

// Subset builds a TrueType program holding only the glyphs needed to render
// the code points in chars, plus .notdef and any composite components. The
// returned gidRemap maps original glyph ids to their position in the subset.
func Subset(
	in []byte,
	font *Font,
	chars *bitset.BitSet,
) (subset []byte, gidRemap []u16, err error) {
	if chars.Count() == 0 {
		return nil, nil, fmt.Errorf("ttf: empty subset")
	}

	gen := subsetter{
		chars:  chars.AsSlice(make([]uint, chars.Count())),
		font:   font,
		reader: NewReader(in),
		writer: NewWriter(nil),
	}

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("ttf: unable to subset font: %v", r)
		}
	}()

	return gen.generate()
}

type subsetter struct {
	chars    []uint
	font     *Font
	gidRemap []u16
	glyphIds []uint
	reader   Reader
	writer   Writer
}

func (g *subsetter) copy(tableIn *Table, tableOut *Table) {
	if tableIn.Ptr == 0 {
		return
	}

	tableOut.Ptr = g.writer.pos
	tableOut.Len = tableIn.Len
	g.writer.write(g.reader.readAt(tableIn.Ptr, tableIn.Len))
	g.writer.seekTo(tableOut.Ptr + tableOut.LenPadded())
}

func (g *subsetter) generate() (out []byte, gidRemap []u16, err error) {
	if err = g.reader.parseIndex(); err != nil {
		return
	}

	const requiredTableCount u16 = 9
	tableCount := requiredTableCount
	for _, t := range []Table{
		g.reader.Tables.Cvt,
		g.reader.Tables.Fpgm,
		g.reader.Tables.Gasp,
		g.reader.Tables.Os2,
		g.reader.Tables.Prep,
	} {
		if t.Ptr != 0 {
			tableCount += 1
		}
	}

	lenIndex := 12 + u32(tableCount*16)
	g.writer.ensureCapRemaining(lenIndex +
		g.reader.Tables.Cvt.LenPadded() +
		g.reader.Tables.Fpgm.LenPadded() +
		g.reader.Tables.Gasp.LenPadded() +
		g.reader.Tables.Head.LenPadded() +
		g.reader.Tables.Hhea.LenPadded() +
		g.reader.Tables.Maxp.LenPadded() +
		g.reader.Tables.Name.LenPadded() +
		g.reader.Tables.Os2.LenPadded() +
		g.reader.Tables.Prep.LenPadded(),
	)

	// Reserve index bytes for later writing:
	g.writer.seekTo(lenIndex)

	// Copy tables that don't need to be re-generated.
	g.copy(&g.reader.Tables.Cvt, &g.writer.Tables.Cvt)
	g.copy(&g.reader.Tables.Fpgm, &g.writer.Tables.Fpgm)
	g.copy(&g.reader.Tables.Gasp, &g.writer.Tables.Gasp)
	g.copy(&g.reader.Tables.Head, &g.writer.Tables.Head)
	g.copy(&g.reader.Tables.Hhea, &g.writer.Tables.Hhea)
	g.copy(&g.reader.Tables.Maxp, &g.writer.Tables.Maxp)
	g.copy(&g.reader.Tables.Name, &g.writer.Tables.Name)
	g.copy(&g.reader.Tables.Os2, &g.writer.Tables.Os2)
	g.copy(&g.reader.Tables.Prep, &g.writer.Tables.Prep)

	indexToLocFormat := g.genGlyfAndLoca()
	g.genCmap()
	g.genPost()
	metricCount := g.genHmtx()

	g.editHead(indexToLocFormat)
	g.editHhea(metricCount)
	g.editMaxp()

	g.genIndex(tableCount)

	if err = g.reader.Err(); err != nil {
		return nil, nil, err
	}

	return g.writer.Bytes(), g.gidRemap, nil
}

func (g *subsetter) editHead(indexToLocFormat u16) {
	end := g.writer.pos

	g.writer.seekTo(g.writer.Tables.Head.Ptr + 8)
	g.writer.u32(0) // checkSumAdjustment

	g.writer.seekTo(g.writer.Tables.Head.Ptr + 50)
	g.writer.u16(indexToLocFormat)

	g.writer.seekTo(end)
}

func (g *subsetter) editHhea(metricCount u16) {
	end := g.writer.pos
	g.writer.seekTo(g.writer.Tables.Hhea.Ptr + 34)
	g.writer.u16(metricCount)
	g.writer.seekTo(end)
}

func (g *subsetter) editMaxp() {
	end := g.writer.pos
	g.writer.seekTo(g.writer.Tables.Maxp.Ptr + 4)
	g.writer.u16(u16(len(g.glyphIds)))
	g.writer.seekTo(end)
}

type cmapSegment struct {
	start, end u16
	delta      u16
}

// https://developer.apple.com/fonts/TrueType-Reference-Manual/RM06/Chap6cmap.html
func (g *subsetter) genCmap() {
	segments := make([]cmapSegment, 0, len(g.chars)+1)

	var gidPrev u16
	for _, c := range g.chars {
		char := u16(c)
		gidNew := g.gidRemap[g.font.GlyphId(rune(char))]

		if n := len(segments); n > 0 &&
			segments[n-1].end == char-1 &&
			gidPrev+1 == gidNew {
			segments[n-1].end = char
		} else {
			// Delta arithmetic is modulo 0x10000:
			segments = append(segments, cmapSegment{
				start: char,
				end:   char,
				delta: gidNew - char,
			})
		}
		gidPrev = gidNew
	}
	// Maps char code 0xffff to GID 0:
	segments = append(segments, cmapSegment{start: 0xffff, end: 0xffff, delta: 1})

	const headerLen = 4     // version, numberSubtables
	const subtableLen = 8   // platformId, platformSpecificId, offset
	const segArrayCount = 4 // endCodes, startCodes, deltas, offsets
	const paddingBytes = 2

	segCount := u16(len(segments))
	segCount2x := 2 * segCount
	mappingTableLen := 14 + segCount2x*segArrayCount + paddingBytes

	g.writer.Tables.Cmap.Ptr = g.writer.pos
	g.writer.Tables.Cmap.Len = u32(headerLen + subtableLen + mappingTableLen)
	tableLenPadded := g.writer.Tables.Cmap.LenPadded()

	g.writer.ensureCapRemaining(tableLenPadded)
	g.writer.u16(0) // version
	g.writer.u16(1) // numberSubtables
	g.writer.u16(platformMicrosoft)
	g.writer.u16(codeMsUnicodeBmp)
	g.writer.u32(headerLen + subtableLen) // offset
	g.writer.u16(cmapFormat4)
	g.writer.u16(mappingTableLen)
	g.writer.u16(0) // language
	g.writer.u16(segCount2x)

	searchRange := u16(
		2 * math.Pow(2, math.Floor(math.Log2(float64(segCount)))),
	)
	g.writer.u16(searchRange)
	g.writer.u16(u16(math.Log2(f64(searchRange) / 2)))
	g.writer.u16(segCount2x - searchRange)

	for _, s := range segments {
		g.writer.u16(s.end)
	}
	g.writer.u16(0) // reservedPad
	for _, s := range segments {
		g.writer.u16(s.start)
	}
	for _, s := range segments {
		g.writer.u16(s.delta)
	}
	for range segments {
		g.writer.u16(0) // idRangeOffset
	}

	g.writer.seekTo(g.writer.Tables.Cmap.Ptr + tableLenPadded)
}

type glyfFlag u16

const (
	// If set, the arguments are words; If not set, they are bytes.
	GlyfFlagArg1And2AreWords glyfFlag = 1 << iota

	// If set, the arguments are xy values; If not set, they are points.
	GlyfFlagArgsAreXyValues

	// If set, round the xy values to grid.
	GlyfFlagRoundXyToGrid

	// If set, there is a simple scale for the component.
	GlyfFlagWeHaveAScale

	// (obsolete; set to zero)
	GlyfFlagObsolete

	// If set, at least one additional glyph follows this one.
	GlyfFlagMoreComponents

	// If set the x direction will use a different scale than the y direction.
	GlyfFlagWeHaveAnXAndYScale

	// If set there is a 2-by-2 transformation that will be used to scale the
	// component.
	GlyfFlagWeHaveATwoByTwo

	// If set, instructions for the component character follow the last
	// component.
	GlyfFlagWeHaveInstructions

	// Use metrics from this component for the compound glyph.
	GlyfFlagUseMyMetrics

	// If set, the components of this compound glyph overlap.
	GlyfFlagOverlapCompound
)

func (flag glyfFlag) Test(flags u16) bool {
	return glyfFlag(flags)&flag == flag
}

type glyfEntry struct {
	len u32
	ptr u32

	gid u16
}

func (g *glyfEntry) lenPadded() u32 {
	return (g.len + 1) &^ 1
}

// walkComponents calls fn with the position and glyph id of every component
// of the composite glyph r is positioned on, just past the glyph header.
func walkComponents(r *Reader, fn func(pos u32, gid u16)) {
	for r.Err() == nil {
		flags := r.u16()

		pos := r.pos
		fn(pos, r.u16())

		r.skip(2)
		if GlyfFlagArg1And2AreWords.Test(flags) {
			r.skip(2)
		}

		if GlyfFlagWeHaveAScale.Test(flags) {
			r.skip(2)
		} else if GlyfFlagWeHaveAnXAndYScale.Test(flags) {
			r.skip(4)
		} else if GlyfFlagWeHaveATwoByTwo.Test(flags) {
			r.skip(8)
		}

		if !GlyfFlagMoreComponents.Test(flags) {
			return
		}
	}
}

func (g *subsetter) genGlyfAndLoca() u16 {
	g.writer.Tables.Glyf.Ptr = g.writer.pos
	g.writer.Tables.Glyf.Len = 0

	glyfs := make([]glyfEntry, 0, len(g.chars)+1)
	var seenGids bitset.BitSet

	// Glyph 0 is required:
	// https://developer.apple.com/fonts/TrueType-Reference-Manual/RM07/appendixB.html
	seenGids.Set(0)

	for _, char := range g.chars {
		seenGids.Set(uint(g.font.GlyphId(rune(char))))
	}

	gidStack := seenGids.AsSlice(make([]uint, seenGids.Count()))

	for len(gidStack) > 0 {
		gid := gidStack[0]
		gidStack = gidStack[1:]

		offset, len := g.reader.glyfLocation(u16(gid), g.font.LocaFormat)
		glyf := glyfEntry{
			gid: u16(gid),
			len: len,
			ptr: g.reader.Tables.Glyf.Ptr + offset,
		}
		glyfs = append(glyfs, glyf)

		g.writer.Tables.Glyf.Len += glyf.lenPadded()

		if glyf.len == 0 {
			continue
		}

		g.reader.seekTo(glyf.ptr)
		if contourCount := g.reader.i16(); contourCount >= 0 {
			continue
		}

		g.reader.skip(2 * 4) // bounding box

		walkComponents(&g.reader, func(_ u32, componentGid u16) {
			if !seenGids.Test(uint(componentGid)) {
				seenGids.Set(uint(componentGid))
				gidStack = append(gidStack, uint(componentGid))
			}
		})
	}

	if seenGids.Count() != uint(len(glyfs)) {
		panic("mismatched glyph and glyph ID counts")
	}

	g.glyphIds = seenGids.AsSlice(make([]uint, seenGids.Count()))
	g.gidRemap = make([]u16, g.glyphIds[len(g.glyphIds)-1]+1)
	for gidNew, gidOld := range g.glyphIds {
		g.gidRemap[gidOld] = u16(gidNew)
	}

	slices.SortFunc(glyfs, func(a, b glyfEntry) int {
		return int(g.gidRemap[a.gid]) - int(g.gidRemap[b.gid])
	})

	tableLenPadded := g.writer.Tables.Glyf.LenPadded()
	g.writer.ensureCapRemaining(tableLenPadded)
	for _, glyf := range glyfs {
		ptrGlyf := g.writer.pos
		g.writer.write(g.reader.readAt(glyf.ptr, glyf.len))
		g.writer.seekTo(ptrGlyf + glyf.lenPadded())

		if glyf.len < 10 {
			continue
		}

		glyfReader := NewReader(g.writer.buf[ptrGlyf : ptrGlyf+glyf.len])
		if contourCount := glyfReader.i16(); contourCount >= 0 {
			continue
		}

		glyfReader.skip(2 * 4)
		walkComponents(&glyfReader, func(pos u32, componentGid u16) {
			binary.BigEndian.PutUint16(
				g.writer.buf[ptrGlyf+pos:],
				g.gidRemap[componentGid],
			)
		})
	}

	g.writer.seekTo(g.writer.Tables.Glyf.Ptr + tableLenPadded)

	return g.genLoca(glyfs)
}

// genHmtx writes a full metric record for every kept glyph.
func (g *subsetter) genHmtx() (metricCount u16) {
	const stride = 4

	g.writer.Tables.Hmtx.Ptr = g.writer.pos
	g.writer.Tables.Hmtx.Len = u32(len(g.glyphIds)) * stride
	tableLenPadded := g.writer.Tables.Hmtx.LenPadded()
	g.writer.ensureCapRemaining(tableLenPadded)

	metricCountOrig := u32(g.font.MetricCount)
	hmtx := g.reader.Tables.Hmtx.Ptr
	for _, gid := range g.glyphIds {
		var advance, bearing u16
		if u32(gid) < metricCountOrig {
			g.reader.seekTo(hmtx + u32(gid)*stride)
			advance = g.reader.u16()
			bearing = g.reader.u16()
		} else {
			g.reader.seekTo(hmtx + (metricCountOrig-1)*stride)
			advance = g.reader.u16()
			g.reader.seekTo(
				hmtx + metricCountOrig*stride + (u32(gid)-metricCountOrig)*2,
			)
			bearing = g.reader.u16()
		}

		g.writer.u16(advance)
		g.writer.u16(bearing)
	}

	g.writer.seekTo(g.writer.Tables.Hmtx.Ptr + tableLenPadded)

	return u16(len(g.glyphIds))
}

type indexEntry struct {
	name  tableName
	table *Table
}

func (g *subsetter) genIndex(tableCount u16) {
	end := g.writer.pos
	g.writer.seekTo(0)

	g.writer.u32(0x0001_0000) // TrueType identifier
	g.writer.u16(tableCount)

	entrySelector := math.Floor(math.Log2(float64(tableCount)))
	searchRange := u16(16 * math.Pow(2, entrySelector))
	rangeShift := tableCount*16 - searchRange

	g.writer.u16(searchRange)
	g.writer.u16(u16(entrySelector))
	g.writer.u16(rangeShift)

	// Directory entries are sorted by tag.
	entries := []indexEntry{
		{TableNameOs2, &g.writer.Tables.Os2},
		{TableNameCmap, &g.writer.Tables.Cmap},
		{TableNameCvt, &g.writer.Tables.Cvt},
		{TableNameFpgm, &g.writer.Tables.Fpgm},
		{TableNameGasp, &g.writer.Tables.Gasp},
		{TableNameGlyf, &g.writer.Tables.Glyf},
		{TableNameHead, &g.writer.Tables.Head},
		{TableNameHhea, &g.writer.Tables.Hhea},
		{TableNameHmtx, &g.writer.Tables.Hmtx},
		{TableNameLoca, &g.writer.Tables.Loca},
		{TableNameMaxp, &g.writer.Tables.Maxp},
		{TableNameName, &g.writer.Tables.Name},
		{TableNamePost, &g.writer.Tables.Post},
		{TableNamePrep, &g.writer.Tables.Prep},
	}
	for _, e := range entries {
		g.genIndexEntry(e.name, e.table)
	}

	g.writer.seekTo(end)
}

func (g *subsetter) genIndexEntry(tag tableName, table *Table) {
	if table.Ptr == 0 {
		return
	}

	var checksum u32
	data := g.writer.buf[:g.writer.len]
	for ptr := table.Ptr; ptr < table.Ptr+table.LenPadded(); ptr += 4 {
		checksum += binary.BigEndian.Uint32(data[ptr : ptr+4])
	}

	g.writer.u32(u32(tag))
	g.writer.u32(checksum)
	g.writer.u32(table.Ptr)
	g.writer.u32(table.Len)
}

func (g *subsetter) genLoca(glyfs []glyfEntry) u16 {
	g.writer.Tables.Loca.Ptr = g.writer.pos

	locaFormat := u16(0)
	if g.writer.Tables.Glyf.Len > 0xffff*2 {
		locaFormat = 1
	}

	// Format 0 - u16 offsets:
	if locaFormat == 0 {
		g.writer.Tables.Loca.Len = u32(len(glyfs)+1) * 2
		tableLenPadded := g.writer.Tables.Loca.LenPadded()
		g.writer.ensureCapRemaining(tableLenPadded)

		var nextOffset u16 = 0
		for _, glyf := range glyfs {
			g.writer.u16(nextOffset)
			nextOffset += u16(glyf.lenPadded() >> 1)
		}
		g.writer.u16(nextOffset)

		g.writer.seekTo(g.writer.Tables.Loca.Ptr + tableLenPadded)

		return locaFormat
	}

	// Format 1 - u32 offsets:
	g.writer.Tables.Loca.Len = u32(len(glyfs)+1) * 4
	tableLenPadded := g.writer.Tables.Loca.LenPadded()
	g.writer.ensureCapRemaining(tableLenPadded)

	var nextOffset u32 = 0
	for _, glyf := range glyfs {
		g.writer.u32(nextOffset)
		nextOffset += glyf.lenPadded()
	}
	g.writer.u32(nextOffset)

	g.writer.seekTo(g.writer.Tables.Loca.Ptr + tableLenPadded)

	return locaFormat
}

func (g *subsetter) genPost() {
	g.writer.Tables.Post.Ptr = g.writer.pos
	g.writer.Tables.Post.Len = 0 +
		4 + // format
		4 + // italicAngle
		2 + // underlinePosition
		2 + // underlineThickness
		4 + // isFixedPitch
		4 + // minMemType42
		4 + // maxMemType42
		4 + // minMemType1
		4 // maxMemType1
	tableLenPadded := g.writer.Tables.Post.LenPadded()
	g.writer.ensureCapRemaining(tableLenPadded)

	g.writer.u32(0x00030000) // Format 3.0

	g.writer.write(g.reader.readAt(g.reader.Tables.Post.Ptr+4, 0+
		4+ // italicAngle
			2+ // underlinePosition
			2+ // underlineThickness
			4, // isFixedPitch
	))

	g.writer.skip(16) // [min,max]MemType42 + [min,max]MemType1 (leave all as 0)

	g.writer.seekTo(g.writer.Tables.Post.Ptr + tableLenPadded)
}
