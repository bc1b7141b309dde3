// Copyright ©2023 The go-pdf Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package ttf reads the metrics of TrueType font programs and produces
// glyph subsets of them for embedding.
package ttf

import (
	"encoding/binary"
)

type f32 = float32
type f64 = float64

type i16 = int16
type i32 = int32

type u8 = uint8
type u16 = uint16
type u32 = uint32
type u64 = uint64

type tag u32

func (t tag) String() string {
	buf := [4]byte{}
	binary.BigEndian.PutUint32(buf[:], uint32(t))
	return string(buf[:])
}

type tableName tag

const (
	TableNameCmap tableName = 0x636d6170 // 'cmap'
	TableNameCvt  tableName = 0x63767420 // 'cvt '
	TableNameFpgm tableName = 0x6670676d // 'fpgm'
	TableNameGasp tableName = 0x67617370 // 'gasp'
	TableNameGlyf tableName = 0x676c7966 // 'glyf'
	TableNameHead tableName = 0x68656164 // 'head'
	TableNameHhea tableName = 0x68686561 // 'hhea'
	TableNameHmtx tableName = 0x686d7478 // 'hmtx'
	TableNameLoca tableName = 0x6c6f6361 // 'loca'
	TableNameMaxp tableName = 0x6d617870 // 'maxp'
	TableNameName tableName = 0x6e616d65 // 'name'
	TableNameOs2  tableName = 0x4f532f32 // 'OS/2'
	TableNamePost tableName = 0x706f7374 // 'post'
	TableNamePrep tableName = 0x70726570 // 'prep'
)

const (
	platformUnicode   = 0
	platformMac       = 1
	platformMicrosoft = 3

	codeMsUnicodeBmp = 1
	codeUnicodeExt   = 3

	cmapFormat4 = 4

	namePostScript = 6
)

// Flag holds the font descriptor flag bits derived from the font tables.
type Flag u32

const (
	// Monospace font.
	FlagFixedWidth Flag = 1 << 0

	// Stems have short strokes drawn at an angle.
	FlagSerif Flag = 1 << 1

	// Contains symbols instead of letters and numbers.
	FlagSymbolic Flag = 1 << 2

	// Font resembles cursive handwriting.
	FlagScript Flag = 1 << 3

	// Glyphs are named by the standard Latin character set.
	FlagNonSymbolic Flag = 1 << 5

	// Slanted font.
	FlagItalic Flag = 1 << 6

	// Contains no lowercase letters.
	FlagAllCap Flag = 1 << 16

	// Lowercase letters retain the same size as other letters in the font
	// family, but are styled as capital letters.
	FlagSmallCap Flag = 1 << 17

	// Bold characters are drawn with extra pixels, even at small text sizes.
	FlagForceBold Flag = 1 << 18
)

type macStyle u16

const (
	MacStyleBold      macStyle = 1 << 0
	MacStyleItalic    macStyle = 1 << 1
	MacStyleUnderline macStyle = 1 << 2
	MacStyleOutline   macStyle = 1 << 3
	MacStyleShadow    macStyle = 1 << 4
	MacStyleCondensed macStyle = 1 << 5
	MacStyleExtended  macStyle = 1 << 6
)

type fword i16

// Font holds the metrics of a parsed TrueType program. All lengths are
// expressed in thousandths of the em square.
type Font struct {
	gids [256 * 256]u16

	widths []f32

	Bounds Bounds

	// PostScriptName is name ID 6 of the 'name' table, empty when absent.
	PostScriptName string

	Ascent        f32
	CapHeight     f32
	Descent       f32
	Flags         Flag
	ItalicAngle   f32
	Scale         f32
	StrikeoutPos  f32
	StrikeoutSize f32
	UnderlinePos  f32
	UnderlineSize f32

	GlyphCount  u16
	MetricCount u16
	WeightClass u16

	LocaFormat u8
}

// GlyphId maps a BMP code point to its glyph, 0 when the font has none.
func (f *Font) GlyphId(char rune) u16 {
	if char < 0 || char >= rune(len(f.gids)) {
		return 0
	}
	return f.gids[char]
}

// HasGlyph reports whether char maps to a glyph other than .notdef.
func (f *Font) HasGlyph(char rune) bool {
	return f.GlyphId(char) != 0
}

func (f *Font) Scaled(val fword) f32 {
	return f.Scale * f32(val)
}

// Width returns the advance width of a glyph.
func (f *Font) Width(gid u16) f32 {
	if int(gid) >= len(f.widths) {
		return 0
	}
	return f.widths[gid]
}

// RuneWidth returns the advance width of the glyph char maps to.
func (f *Font) RuneWidth(char rune) f32 {
	return f.Width(f.GlyphId(char))
}

type Bounds struct {
	Max [2]f32
	Min [2]f32
}
