// Copyright ©2023 The go-pdf Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package quire

import (
	"fmt"
	"strings"
)

// ScratchPad measures how text would wrap in a column of fixed width without
// drawing anything. Successive calls to Text continue the same line, so runs
// in different fonts can be laid out one after another.
//
// Widths are accumulated as glyph width times font size in points, which
// keeps sums of a single font exact.
type ScratchPad struct {
	f *Quire

	font   *fontResource
	sizePt float64

	width            float64 // column width, user units
	widthLongestLine float64
	x, y             float64

	lineW    float64 // current line, width units
	breakW   float64 // current line up to its last space
	spaceW   float64 // width of that space
	hasBreak bool
}

// Scratch returns a scratch pad of the given width set in the current font.
func (f *Quire) Scratch(width float64) (*ScratchPad, error) {
	if f.err != nil {
		return nil, f.err
	}
	if f.currentFont == nil {
		return nil, fmt.Errorf("%w: no font set before measuring text", ErrUndefinedFont)
	}
	return &ScratchPad{
		f:      f,
		font:   f.currentFont,
		sizePt: f.style.fontSizePt,
		width:  width,
	}, nil
}

// SetFont switches the font used for subsequent text. The document's own
// font is left untouched.
func (sc *ScratchPad) SetFont(familyStr, styleStr string, size float64) {
	style, _ := normalizeStyle(styleStr)
	fr, _, _ := sc.f.lookupFont(strings.ToLower(familyStr), style)
	if fr == nil {
		return
	}
	sc.font = fr
	if size > 0 {
		sc.sizePt = size
	}
}

func (sc *ScratchPad) units(w float64) float64 {
	return w / sc.f.k / 1000
}

// Text lays out text, given in the code page of the font, and returns its
// pieces one per line. The first piece is empty when the text starts on a
// new line because the previous run was wrapped.
func (sc *ScratchPad) Text(lnHeight float64, text string) (lines []string) {
	if sc.font == nil {
		return nil
	}
	cw := sc.font.def.Cw
	limit := sc.width * sc.f.k * 1000
	start, brk := 0, -1

	newLine := func(lineW float64) {
		sc.widthLongestLine = max(sc.widthLongestLine, sc.units(lineW))
		sc.y += lnHeight
		sc.x = 0
	}

	for i := 0; i < len(text); i++ {
		c := text[i]
		if c == '\n' {
			lines = append(lines, text[start:i])
			newLine(sc.lineW)
			sc.lineW, sc.hasBreak = 0, false
			start, brk = i+1, -1
			continue
		}

		w := float64(cw[c]) * sc.sizePt
		sc.lineW += w
		if c == ' ' {
			sc.breakW, sc.spaceW = sc.lineW-w, w
			sc.hasBreak = true
			brk = i
		}
		if sc.lineW-limit <= 1e-6 {
			continue
		}

		switch {
		case sc.hasBreak:
			if brk >= 0 {
				lines = append(lines, text[start:brk])
				start = brk + 1
			} else {
				lines = append(lines, "")
			}
			newLine(sc.breakW)
			sc.lineW -= sc.breakW + sc.spaceW
		case sc.lineW == w:
			// A single glyph wider than the column stays on its line.
			continue
		default:
			lines = append(lines, text[start:i])
			start = i
			newLine(sc.lineW - w)
			sc.lineW = w
		}
		sc.hasBreak, brk = false, -1
	}

	if start < len(text) {
		lines = append(lines, text[start:])
	}
	sc.x = sc.units(sc.lineW)
	sc.widthLongestLine = max(sc.widthLongestLine, sc.x)
	return lines
}

// Ln moves to the start of a new line height below the current one.
func (sc *ScratchPad) Ln(height float64) {
	sc.lineW, sc.breakW, sc.spaceW = 0, 0, 0
	sc.hasBreak = false
	sc.x = 0
	sc.y += height
}

// Reset clears the pad and gives it a new width. The font reverts to the
// document's current font.
func (sc *ScratchPad) Reset(width float64) {
	*sc = ScratchPad{
		f:      sc.f,
		font:   sc.f.currentFont,
		sizePt: sc.f.style.fontSizePt,
		width:  width,
	}
}

// WidthLongestLine returns the width of the widest line laid out so far.
func (sc *ScratchPad) WidthLongestLine() float64 {
	return sc.widthLongestLine
}

// X returns the horizontal offset at which the next text would start.
func (sc *ScratchPad) X() float64 {
	return sc.x
}

// Y returns the vertical offset of the current line.
func (sc *ScratchPad) Y() float64 {
	return sc.y
}

// Xy returns X and Y.
func (sc *ScratchPad) Xy() (float64, float64) {
	return sc.x, sc.y
}
