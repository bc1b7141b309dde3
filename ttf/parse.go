// Copyright ©2023 The go-pdf Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package ttf

import (
	"encoding/binary"
	"errors"
	"fmt"
	"unicode/utf16"
)

// ErrRestricted is returned for fonts whose licensing bits forbid embedding.
var ErrRestricted = errors.New("ttf: font embedding is restricted")

// Parse reads the metrics and character map of a TrueType program into font.
func Parse(bytes []byte, font *Font) error {
	parser := Parser{
		font:   font,
		reader: NewReader(bytes),
	}

	if err := parser.parse(); err != nil {
		return err
	}
	return parser.reader.Err()
}

type Parser struct {
	font   *Font
	reader Reader
}

func (p *Parser) fwordScaled() f32 {
	return f32(p.reader.fword()) * p.font.Scale
}

func (p *Parser) parse() error {
	if err := p.reader.parseIndex(); err != nil {
		return err
	}

	if err := p.parseHead(); err != nil {
		return err
	}

	if err := p.parseHhea(); err != nil {
		return err
	}

	if err := p.parseOs2(); err != nil {
		return err
	}

	p.parsePost()
	p.parseMaxP()
	p.parseName()

	if err := p.parseCmap(); err != nil {
		return err
	}

	p.parseHmtx()

	return nil
}

// https://developer.apple.com/fonts/TrueType-Reference-Manual/RM06/Chap6cmap.html
func (p *Parser) parseCmap() error {
	p.reader.seekTo(p.reader.Tables.Cmap.Ptr + 2) // Skip version

	subtableCount := p.reader.u16()

	var offset u32
	for range subtableCount {
		platform := p.reader.u16()
		code := p.reader.u16()

		if (platform == platformUnicode && code == codeUnicodeExt) ||
			(platform == platformMicrosoft && code == codeMsUnicodeBmp) {
			offset = p.reader.u32()
			break
		}

		p.reader.skip(4) // Skip offset
	}
	if offset == 0 {
		return fmt.Errorf("ttf: no supported unicode character map table found")
	}

	p.reader.seekTo(p.reader.Tables.Cmap.Ptr + offset)

	if format := p.reader.u16(); format != cmapFormat4 {
		return fmt.Errorf(
			"ttf: expected cmap table format %d, found: %d",
			cmapFormat4,
			format,
		)
	}

	p.reader.skip(4) // length, language code

	segCount := p.reader.u16() >> 1

	p.reader.skip(6) // Search helper params

	endCodes := make([]u16, segCount)
	startCodes := make([]u16, segCount)
	deltas := make([]u16, segCount)

	for i := range segCount {
		endCodes[i] = p.reader.u16()
	}

	p.reader.skip(2) // reservedPad

	for i := range segCount {
		startCodes[i] = p.reader.u16()
	}

	for i := range segCount {
		deltas[i] = p.reader.u16()
	}
	if p.reader.Err() != nil {
		return p.reader.Err()
	}

	for i := range segCount {
		posRangeOffset := p.reader.pos
		rangeOffset := p.reader.u16()
		if startCodes[i] > endCodes[i] {
			continue
		}

		for char := startCodes[i]; ; char += 1 {
			var gid u16
			if rangeOffset == 0 {
				gid = char + deltas[i]
			} else {
				posGlyphIndex := posRangeOffset + u32(rangeOffset) +
					2*(u32(char)-u32(startCodes[i]))
				if gid = binary.BigEndian.Uint16(
					p.reader.readAt(posGlyphIndex, 2),
				); gid != 0 {
					gid += deltas[i]
				}
			}
			p.font.gids[rune(char)] = gid

			// Broken out of loop condition to handle 0xffff-0xffff range:
			if char == endCodes[i] {
				break
			}
		}
	}

	return p.reader.Err()
}

// https://developer.apple.com/fonts/TrueType-Reference-Manual/RM06/Chap6head.html
func (p *Parser) parseHead() error {
	p.reader.seekTo(p.reader.Tables.Head.Ptr + 18)

	unitsPerEm := p.reader.u16()
	if unitsPerEm == 0 {
		return fmt.Errorf(`ttf: unitsPerEm is zero in "head" table`)
	}
	p.font.Scale = 1000.0 / f32(unitsPerEm)

	p.reader.skip(16) // created date + modified date

	p.font.Bounds = Bounds{
		Min: [2]f32{
			p.fwordScaled(),
			p.fwordScaled(),
		},
		Max: [2]f32{
			p.fwordScaled(),
			p.fwordScaled(),
		},
	}

	style := macStyle(p.reader.u16())
	if style&MacStyleItalic != 0 {
		p.font.Flags |= FlagItalic
	}

	p.reader.skip(4) // lowestRecPPEM, fontDirectionHint

	p.font.LocaFormat = u8(p.reader.u16())

	if glyphDataFormat := p.reader.u16(); glyphDataFormat != 0 {
		return fmt.Errorf(
			`ttf: invalid glyphDataFormat in "head" table: %d`,
			glyphDataFormat,
		)
	}

	return p.reader.Err()
}

// https://developer.apple.com/fonts/TrueType-Reference-Manual/RM06/Chap6hhea.html
func (p *Parser) parseHhea() error {
	p.reader.seekTo(p.reader.Tables.Hhea.Ptr + 4)

	p.font.Ascent = p.fwordScaled()
	p.font.Descent = p.fwordScaled()

	p.reader.skip(24)

	if metricDataFormat := p.reader.u16(); metricDataFormat != 0 {
		return fmt.Errorf(
			`ttf: invalid metricDataFormat in "hhea" table: %d`,
			metricDataFormat,
		)
	}

	if p.font.MetricCount = p.reader.u16(); p.font.MetricCount == 0 {
		return fmt.Errorf("ttf: numOfLongHorMetrics == 0 in hhea table")
	}

	return p.reader.Err()
}

// https://developer.apple.com/fonts/TrueType-Reference-Manual/RM06/Chap6hmtx.html
func (p *Parser) parseHmtx() {
	const stride = 4
	for gid := range p.font.GlyphCount {
		ptr := p.reader.Tables.Hmtx.Ptr + stride*u32(
			min(gid, p.font.MetricCount-1),
		)
		p.reader.seekTo(ptr)
		p.font.widths[gid] = f32(p.reader.u16()) * p.font.Scale
	}
}

// https://developer.apple.com/fonts/TrueType-Reference-Manual/RM06/Chap6.html
func (r *Reader) parseIndex() error {
	typ := r.u32()

	switch typ {
	case 0x7472_7565: // Four-char code: 'true'
	case 0x0001_0000: // TrueType identifier
	default:
		return fmt.Errorf("ttf: expected TrueType font, got type %x", typ)
	}

	tableCount := r.u16()

	r.skip(6) // searchRange, entrySelector, rangeShift (all u16)

	for range tableCount {
		table := r.Tables.lookup(tableName(r.tag()))
		if table == nil {
			r.skip(12) // checksum + position + length (all u32)
			continue
		}

		r.skip(4) // checksum
		*table = Table{
			Ptr: r.u32(),
			Len: r.u32(),
		}
	}
	if r.err != nil {
		return r.err
	}

	if r.Tables.Cmap.Ptr == 0 ||
		r.Tables.Glyf.Ptr == 0 ||
		r.Tables.Head.Ptr == 0 ||
		r.Tables.Hhea.Ptr == 0 ||
		r.Tables.Hmtx.Ptr == 0 ||
		r.Tables.Loca.Ptr == 0 ||
		r.Tables.Maxp.Ptr == 0 ||
		r.Tables.Name.Ptr == 0 ||
		r.Tables.Post.Ptr == 0 {
		return fmt.Errorf("ttf: missing one or more required TTF tables")
	}

	return nil
}

func (t *Tables) lookup(name tableName) *Table {
	switch name {
	case TableNameCmap:
		return &t.Cmap
	case TableNameCvt:
		return &t.Cvt
	case TableNameFpgm:
		return &t.Fpgm
	case TableNameGasp:
		return &t.Gasp
	case TableNameGlyf:
		return &t.Glyf
	case TableNameHead:
		return &t.Head
	case TableNameHhea:
		return &t.Hhea
	case TableNameHmtx:
		return &t.Hmtx
	case TableNameLoca:
		return &t.Loca
	case TableNameMaxp:
		return &t.Maxp
	case TableNameName:
		return &t.Name
	case TableNameOs2:
		return &t.Os2
	case TableNamePost:
		return &t.Post
	case TableNamePrep:
		return &t.Prep
	}
	return nil
}

// https://developer.apple.com/fonts/TrueType-Reference-Manual/RM06/Chap6maxp.html
func (p *Parser) parseMaxP() {
	p.reader.seekTo(p.reader.Tables.Maxp.Ptr + 4) // Skip version.
	p.font.GlyphCount = p.reader.u16()
	p.font.widths = make([]f32, p.font.GlyphCount)
}

// https://developer.apple.com/fonts/TrueType-Reference-Manual/RM06/Chap6name.html
func (p *Parser) parseName() {
	base := p.reader.Tables.Name.Ptr
	p.reader.seekTo(base + 2) // Skip format
	count := p.reader.u16()
	storage := base + u32(p.reader.u16())

	for range count {
		platform := p.reader.u16()
		p.reader.skip(4) // encodingID, languageID
		nameID := p.reader.u16()
		length := p.reader.u16()
		offset := p.reader.u16()
		if nameID != namePostScript {
			continue
		}

		raw := p.reader.readAt(storage+u32(offset), u32(length))
		switch platform {
		case platformMicrosoft, platformUnicode:
			units := make([]u16, len(raw)/2)
			for i := range units {
				units[i] = binary.BigEndian.Uint16(raw[2*i:])
			}
			p.font.PostScriptName = string(utf16.Decode(units))
		case platformMac:
			p.font.PostScriptName = string(raw)
		default:
			continue
		}
		if p.font.PostScriptName != "" {
			return
		}
	}
}

// https://developer.apple.com/fonts/TrueType-Reference-Manual/RM06/Chap6OS2.html
func (p *Parser) parseOs2() error {
	if p.reader.Tables.Os2.Ptr == 0 {
		return nil
	}

	p.reader.seekTo(p.reader.Tables.Os2.Ptr)

	version := p.reader.u16()

	p.reader.skip(2) // xAvgCharWidth

	p.font.WeightClass = p.reader.u16()

	p.reader.skip(2) // usWidthClass

	// Bit 1: licensed (protected), must not be embedded without permission.
	// Bit 9: bitmap embedding only.
	fsType := p.reader.u16()

	const flagLicensed = 0b10
	const flagEmbedBitmapOnly = 0b100000000

	if fsType&(flagLicensed|flagEmbedBitmapOnly) != 0 {
		return ErrRestricted
	}

	p.reader.skip(0 +
		2 + // ySubscriptXSize
		2 + // ySubscriptYSize
		2 + // ySubscriptXOffset
		2 + // ySubscriptYOffset
		2 + // ySuperscriptXSize
		2 + // ySuperscriptYSize
		2 + // ySuperscriptXOffset
		2, // ySuperscriptYOffset
	)

	p.font.StrikeoutSize = p.fwordScaled()
	p.font.StrikeoutPos = p.fwordScaled()

	p.reader.skip(0 +
		2 + // familyClass
		10 + // panose
		16 + // ulUnicodeRange
		4 + // achVendID
		2 + // fsSelection
		2 + // fsFirstCharIndex
		2, // fsLastCharIndex
	)

	typoAscender := p.fwordScaled()
	if p.font.Ascent == 0 {
		p.font.Ascent = typoAscender
	}
	p.font.CapHeight = p.font.Ascent

	typoDescender := p.fwordScaled()
	if p.font.Descent == 0 {
		p.font.Descent = typoDescender
	}

	if version <= 1 {
		return p.reader.Err()
	}

	p.reader.skip(16) // typoLineGap, winAscent, winDescent, codePageRange, xHeight
	p.font.CapHeight = p.fwordScaled()

	return p.reader.Err()
}

// https://developer.apple.com/fonts/TrueType-Reference-Manual/RM06/Chap6post.html
func (p *Parser) parsePost() {
	p.reader.seekTo(p.reader.Tables.Post.Ptr + 4) // Skip format

	p.font.ItalicAngle = p.reader.fixed().float()
	p.font.UnderlinePos = p.fwordScaled()
	p.font.UnderlineSize = p.fwordScaled()

	if p.reader.u32() != 0 {
		p.font.Flags |= FlagFixedWidth
	}
	if p.font.ItalicAngle != 0 {
		p.font.Flags |= FlagItalic
	}
}
