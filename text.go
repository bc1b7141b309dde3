// Copyright ©2023 The go-pdf Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

/*
 * Copyright (c) 2013-2014 Kurt Jung (Gmail: kurt.w.jung)
 *
 * Permission to use, copy, modify, and distribute this software for any
 * purpose with or without fee is hereby granted, provided that the above
 * copyright notice and this permission notice appear in all copies.
 *
 * THE SOFTWARE IS PROVIDED "AS IS" AND THE AUTHOR DISCLAIMS ALL WARRANTIES
 * WITH REGARD TO THIS SOFTWARE INCLUDING ALL IMPLIED WARRANTIES OF
 * MERCHANTABILITY AND FITNESS. IN NO EVENT SHALL THE AUTHOR BE LIABLE FOR
 * ANY SPECIAL, DIRECT, INDIRECT, OR CONSEQUENTIAL DAMAGES OR ANY DAMAGES
 * WHATSOEVER RESULTING FROM LOSS OF USE, DATA OR PROFITS, WHETHER IN AN
 * ACTION OF CONTRACT, NEGLIGENCE OR OTHER TORTIOUS ACTION, ARISING OUT OF
 * OR IN CONNECTION WITH THE USE OR PERFORMANCE OF THIS SOFTWARE.
 */

package quire

import (
	"fmt"
	"strings"
)

func (f *Quire) requireFont() bool {
	if f.err != nil {
		return false
	}
	if f.currentFont == nil {
		f.err = fmt.Errorf("%w: no font has been set", ErrUndefinedFont)
		return false
	}
	return true
}

// dounderline returns the rectangle operator underlining txt drawn at (x, y).
func (f *Quire) dounderline(x, y float64, txt string) string {
	up := float64(f.currentFont.def.Up)
	ut := float64(f.currentFont.def.Ut)
	w := f.GetStringWidth(txt) + f.ws*float64(strings.Count(txt, " "))
	return fmt.Sprintf(
		"%.2f %.2f %.2f %.2f re f",
		x*f.k, (f.hUnit-(y-up/1000*f.fontSize))*f.k, w*f.k, -ut/1000*f.style.fontSizePt,
	)
}

// Text prints a character string. The origin (x, y) is on the left of the
// first character at the baseline. This method permits a string to be placed
// precisely on the page, but it is usually easier to use Cell(), MultiCell()
// or Write() which are the standard methods to print text.
func (f *Quire) Text(x, y float64, txtStr string) {
	if !f.requireFont() {
		return
	}
	s := fmt.Sprintf(
		"BT %.2f %.2f Td (%s) Tj ET", x*f.k, (f.hUnit-y)*f.k, escape(txtStr),
	)
	if f.style.underline && txtStr != "" {
		s += " " + f.dounderline(x, y, txtStr)
	}
	if f.style.colorFlag {
		s = "q " + f.style.textColor.str + " " + s + " Q"
	}
	f.markUsed(txtStr)
	f.out(s)
}

// Cell is a simpler version of CellFormat with no fill, border, links or
// special alignment. The Cell_strikeout() example demonstrates this method.
func (f *Quire) Cell(w, h float64, txtStr string) {
	f.CellFormat(w, h, txtStr, "", 0, "L", false, 0, "")
}

// Cellf is a simpler printf-style version of CellFormat with no fill, border,
// links or special alignment. See documentation for the fmt package for
// details on fmtStr and args.
func (f *Quire) Cellf(w, h float64, fmtStr string, args ...any) {
	f.CellFormat(w, h, fmt.Sprintf(fmtStr, args...), "", 0, "L", false, 0, "")
}

// CellFormat prints a rectangular cell with optional borders, background
// color and character string. The upper-left corner of the cell corresponds
// to the current position. The text can be aligned or centered. After the
// call, the current position moves to the right or to the next line. It is
// possible to put a link on the text.
//
// An error will be returned if a call to SetFont() has not already taken
// place before this method is called.
//
// If automatic page breaking is enabled and the cell goes beyond the limit, a
// page break is done before outputting.
//
// w and h specify the width and height of the cell. If w is 0, the cell
// extends up to the right margin. A zero h still draws the text and any
// border on the current line.
//
// txtStr specifies the text to display.
//
// borderStr specifies how the cell border will be drawn. An empty string or
// "0" indicates no border, "1" indicates a full border, and one or more of
// "L", "T", "R" and "B" indicate the left, top, right and bottom sides of
// the border.
//
// ln indicates where the current position should go after the call. Possible
// values are 0 (to the right), 1 (to the beginning of the next line), and 2
// (below). Putting 1 is equivalent to putting 0 and calling Ln() just after.
//
// alignStr specifies how the text is to be positioned within the cell.
// Horizontal alignment is controlled by including "L", "C" or "R" (left,
// center, right). The default is left alignment.
//
// fill is true to paint the cell background or false to leave it
// transparent.
//
// link is the identifier returned by AddLink() or 0 for no internal link.
//
// linkStr is a target URL or empty for no external link. A non-zero value for
// link takes precedence over linkStr.
func (f *Quire) CellFormat(
	w, h float64,
	txtStr, borderStr string,
	ln int,
	alignStr string,
	fill bool,
	link int,
	linkStr string,
) {
	if !f.requireFont() {
		return
	}
	k := f.k
	if f.y+h > f.pageBreakTrigger && !f.inHeader && !f.inFooter && f.acceptPageBreak() {
		x := f.x
		ws := f.ws
		if ws > 0 {
			f.ws = 0
			f.out("0 Tw")
		}
		f.AddPageFormat(f.curOrientation, f.curPageSize)
		if f.err != nil {
			return
		}
		f.x = x
		if ws > 0 {
			f.ws = ws
			f.outf("%.3f Tw", ws*k)
		}
	}
	if w == 0 {
		w = f.wUnit - f.rMargin - f.x
	}

	var s strings.Builder
	if fill || borderStr == "1" {
		var op string
		if fill {
			op = strIf(borderStr == "1", "B", "f")
		} else {
			op = "S"
		}
		fmt.Fprintf(&s, "%.2f %.2f %.2f %.2f re %s ", f.x*k, (f.hUnit-f.y)*k, w*k, -h*k, op)
	}
	if borderStr != "" && borderStr != "0" && borderStr != "1" {
		x := f.x
		y := f.y
		left := x * k
		top := (f.hUnit - y) * k
		right := (x + w) * k
		bottom := (f.hUnit - (y + h)) * k
		if strings.Contains(borderStr, "L") {
			fmt.Fprintf(&s, "%.2f %.2f m %.2f %.2f l S ", left, top, left, bottom)
		}
		if strings.Contains(borderStr, "T") {
			fmt.Fprintf(&s, "%.2f %.2f m %.2f %.2f l S ", left, top, right, top)
		}
		if strings.Contains(borderStr, "R") {
			fmt.Fprintf(&s, "%.2f %.2f m %.2f %.2f l S ", right, top, right, bottom)
		}
		if strings.Contains(borderStr, "B") {
			fmt.Fprintf(&s, "%.2f %.2f m %.2f %.2f l S ", left, bottom, right, bottom)
		}
	}
	if txtStr != "" {
		var dx float64
		switch alignStr {
		case "R":
			dx = w - f.cMargin - f.GetStringWidth(txtStr)
		case "C":
			dx = (w - f.GetStringWidth(txtStr)) / 2
		default:
			dx = f.cMargin
		}
		if f.style.colorFlag {
			fmt.Fprintf(&s, "q %s ", f.style.textColor.str)
		}
		baseline := f.y + .5*h + .3*f.fontSize
		fmt.Fprintf(&s, "BT %.2f %.2f Td (%s) Tj ET", (f.x+dx)*k, (f.hUnit-baseline)*k, escape(txtStr))
		if f.style.underline {
			s.WriteString(" " + f.dounderline(f.x+dx, baseline, txtStr))
		}
		if f.style.colorFlag {
			s.WriteString(" Q")
		}
		if link != 0 || linkStr != "" {
			f.newLink(f.x+dx, f.y+.5*h-.5*f.fontSize, f.GetStringWidth(txtStr), f.fontSize, link, linkStr)
		}
		f.markUsed(txtStr)
	}
	if s.Len() > 0 {
		f.out(s.String())
	}
	f.lasth = h
	if ln > 0 {
		f.y += h
		if ln == 1 {
			f.x = f.lMargin
		}
	} else {
		f.x += w
	}
}

// lineBreaker splits text into the lines MultiCell prints. Widths are in
// thousandths of the font size.
type lineBreaker struct {
	s    string
	cw   []int
	wmax float64
	i, j int
}

// brokenLine is one line produced by lineBreaker.
type brokenLine struct {
	text    string
	ls      int  // width of the line up to its last space
	ns      int  // spaces seen on the line, the break space included
	wrapped bool // broken at a space, so eligible for justification
	last    bool
}

func newLineBreaker(txt string, cw []int, wmax float64) *lineBreaker {
	s := strings.ReplaceAll(txt, "\r", "")
	if n := len(s); n > 0 && s[n-1] == '\n' {
		s = s[:n-1]
	}
	return &lineBreaker{s: s, cw: cw, wmax: wmax}
}

// next returns the next line. The final line has last set and is returned
// exactly once, even when empty.
func (lb *lineBreaker) next() brokenLine {
	s := lb.s
	nb := len(s)
	sep := -1
	l, ls, ns := 0, 0, 0
	for lb.i < nb {
		c := s[lb.i]
		if c == '\n' {
			line := brokenLine{text: s[lb.j:lb.i]}
			lb.i++
			lb.j = lb.i
			return line
		}
		if c == ' ' {
			sep = lb.i
			ls = l
			ns++
		}
		l += lb.cw[c]
		if float64(l) > lb.wmax {
			var line brokenLine
			if sep == -1 {
				// No space on the line: break inside the word, always
				// taking at least one character.
				if lb.i == lb.j {
					lb.i++
				}
				line = brokenLine{text: s[lb.j:lb.i], last: lb.i == nb}
			} else {
				line = brokenLine{text: s[lb.j:sep], ls: ls, ns: ns, wrapped: true}
				lb.i = sep + 1
			}
			lb.j = lb.i
			return line
		}
		lb.i++
	}
	line := brokenLine{text: s[lb.j:lb.i], last: true}
	lb.j = lb.i
	return line
}

// MultiCell supports printing text with line breaks. They can be automatic
// (as soon as the text reaches the right border of the cell) or explicit (via
// the \n character). As many cells as necessary are output, one below the
// other.
//
// Text can be aligned, centered or justified. The cell block can be framed
// and the background painted. See CellFormat() for more details.
//
// w is the width of the cells. A value of zero indicates cells that reach to
// the right margin.
//
// h indicates the line height of each cell in the unit of measure specified
// in New().
//
// alignStr is one of "L", "C", "R" or "J". An empty string is justified.
func (f *Quire) MultiCell(w, h float64, txtStr, borderStr, alignStr string, fill bool) {
	if !f.requireFont() {
		return
	}
	if alignStr == "" {
		alignStr = "J"
	}
	if w == 0 {
		w = f.wUnit - f.rMargin - f.x
	}
	wmax := (w - 2*f.cMargin) * 1000 / f.fontSize

	var b, b2 string
	if borderStr != "" && borderStr != "0" {
		if borderStr == "1" {
			borderStr = "LTRB"
			b = "LRT"
			b2 = "LR"
		} else {
			if strings.Contains(borderStr, "L") {
				b2 += "L"
			}
			if strings.Contains(borderStr, "R") {
				b2 += "R"
			}
			b = b2
			if strings.Contains(borderStr, "T") {
				b += "T"
			}
		}
	}

	lb := newLineBreaker(txtStr, f.currentFont.def.Cw, wmax)
	nl := 1
	for f.err == nil {
		line := lb.next()
		if line.last {
			f.resetWordSpacing()
			if strings.Contains(borderStr, "B") {
				b += "B"
			}
			f.CellFormat(w, h, line.text, b, 2, alignStr, fill, 0, "")
			break
		}
		if line.wrapped && alignStr == "J" {
			if line.ns > 1 {
				f.ws = (wmax - float64(line.ls)) / 1000 * f.fontSize / float64(line.ns-1)
			} else {
				f.ws = 0
			}
			f.outf("%.3f Tw", f.ws*f.k)
			f.CellFormat(w, h, line.text, b, 2, alignStr, fill, 0, "")
			f.resetWordSpacing()
		} else {
			f.resetWordSpacing()
			f.CellFormat(w, h, line.text, b, 2, alignStr, fill, 0, "")
		}
		nl++
		if borderStr != "" && nl == 2 {
			b = b2
		}
	}
	f.x = f.lMargin
}

// resetWordSpacing turns off justification spacing once a justified line has
// been printed, so it never leaks into the following text.
func (f *Quire) resetWordSpacing() {
	if f.ws > 0 {
		f.ws = 0
		f.out("0 Tw")
	}
}

// SplitText splits UTF-8 encoded text into several lines using the current
// font. Each line has its length limited to a maximum width given by w. This
// function can be used to determine the total height of wrapped text for
// vertical placement purposes. The lines are those MultiCell would print for
// the same text in a cell of width w.
func (f *Quire) SplitText(txt string, w float64) (lines []string) {
	if !f.requireFont() {
		return nil
	}
	wmax := (w - 2*f.cMargin) * 1000 / f.fontSize
	lb := newLineBreaker(txt, f.currentFont.def.Cw, wmax)
	for {
		line := lb.next()
		lines = append(lines, line.text)
		if line.last {
			return lines
		}
	}
}

// write prints text flowing from the current position, wrapping at the right
// margin and continuing from the left margin.
func (f *Quire) write(h float64, txtStr string, link int, linkStr string) {
	if !f.requireFont() {
		return
	}
	cw := f.currentFont.def.Cw
	w := f.wUnit - f.rMargin - f.x
	wmax := (w - 2*f.cMargin) * 1000 / f.fontSize
	s := strings.ReplaceAll(txtStr, "\r", "")
	nb := len(s)
	sep := -1
	i, j, l, nl := 0, 0, 0, 1
	for i < nb && f.err == nil {
		c := s[i]
		if c == '\n' {
			f.CellFormat(w, h, s[j:i], "", 2, "", false, link, linkStr)
			i++
			sep = -1
			j = i
			l = 0
			if nl == 1 {
				f.x = f.lMargin
				w = f.wUnit - f.rMargin - f.x
				wmax = (w - 2*f.cMargin) * 1000 / f.fontSize
			}
			nl++
			continue
		}
		if c == ' ' {
			sep = i
		}
		l += cw[c]
		if float64(l) > wmax {
			if sep == -1 {
				if f.x > f.lMargin {
					// Move to next line
					f.x = f.lMargin
					f.y += h
					w = f.wUnit - f.rMargin - f.x
					wmax = (w - 2*f.cMargin) * 1000 / f.fontSize
					i++
					nl++
					continue
				}
				if i == j {
					i++
				}
				f.CellFormat(w, h, s[j:i], "", 2, "", false, link, linkStr)
			} else {
				f.CellFormat(w, h, s[j:sep], "", 2, "", false, link, linkStr)
				i = sep + 1
			}
			sep = -1
			j = i
			l = 0
			if nl == 1 {
				f.x = f.lMargin
				w = f.wUnit - f.rMargin - f.x
				wmax = (w - 2*f.cMargin) * 1000 / f.fontSize
			}
			nl++
		} else {
			i++
		}
	}
	// Last chunk
	if i != j {
		f.CellFormat(float64(l)/1000*f.fontSize, h, s[j:], "", 0, "", false, link, linkStr)
	}
}

// Write prints text from the current position. When the right margin is
// reached (or the \n character is met) a line break occurs and text continues
// from the left margin. Upon method exit, the current position is left just
// at the end of the text.
//
// It is possible to put a link on the text.
//
// h indicates the line height in the unit of measure specified in New().
func (f *Quire) Write(h float64, txtStr string) {
	f.write(h, txtStr, 0, "")
}

// Writef is like Write but uses printf-style formatting. See the
// documentation for package fmt for more details on fmtStr and args.
func (f *Quire) Writef(h float64, fmtStr string, args ...any) {
	f.write(h, fmt.Sprintf(fmtStr, args...), 0, "")
}

// WriteLinkString writes text that when clicked launches an external URL. See
// Write() for argument details.
func (f *Quire) WriteLinkString(h float64, displayStr, targetStr string) {
	f.write(h, displayStr, 0, targetStr)
}

// WriteLinkID writes text that when clicked jumps to another location in the
// PDF. linkID is an identifier returned by AddLink(). See Write() for
// argument details.
func (f *Quire) WriteLinkID(h float64, displayStr string, linkID int) {
	f.write(h, displayStr, linkID, "")
}

// WriteAligned is an implementation of Write that makes it possible to align
// text.
//
// width indicates the width of the box the text will be drawn in. This is in
// the unit of measure specified in New(). If it is set to 0, the bounding box
// of the page will be taken (pageWidth - leftMargin - rightMargin).
//
// lineHeight indicates the line height in the unit of measure specified in
// New().
//
// alignStr sees to horizontal alignment of the given textStr. The options are
// "L", "C" and "R" (Left, Center, Right). The default is "L".
func (f *Quire) WriteAligned(width, lineHeight float64, textStr, alignStr string) {
	if !f.requireFont() {
		return
	}
	lMargin, _, rMargin, _ := f.GetMargins()
	pageWidth, _ := f.GetPageSize()
	if width == 0 {
		width = pageWidth - (lMargin + rMargin)
	}

	lines := f.SplitText(textStr, width)
	for i, lineStr := range lines {
		if i > 0 {
			f.Ln(lineHeight)
		}
		lineWidth := f.GetStringWidth(lineStr)
		switch alignStr {
		case "C":
			f.SetLeftMargin(lMargin + ((width - lineWidth) / 2))
			f.Write(lineHeight, lineStr)
			f.SetLeftMargin(lMargin)
		case "R":
			f.SetLeftMargin(lMargin + (width - lineWidth) - 2.01*f.cMargin)
			f.Write(lineHeight, lineStr)
			f.SetLeftMargin(lMargin)
		default:
			f.SetRightMargin(pageWidth - lMargin - width)
			f.Write(lineHeight, lineStr)
			f.SetRightMargin(rMargin)
		}
	}
}
