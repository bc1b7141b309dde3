// Copyright ©2023 The go-pdf Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package quire

import (
	"fmt"
	"strings"
)

func rgbColorValue(r, g, b int, grayStr, fullStr string) (clr colorType) {
	clr.ir = clampByte(r)
	clr.ig = clampByte(g)
	clr.ib = clampByte(b)
	if clr.ir == clr.ig && clr.ig == clr.ib {
		clr.str = fmt.Sprintf("%.3f %s", float64(clr.ir)/255, grayStr)
	} else {
		clr.str = fmt.Sprintf(
			"%.3f %.3f %.3f %s",
			float64(clr.ir)/255, float64(clr.ig)/255, float64(clr.ib)/255,
			fullStr,
		)
	}
	return
}

func clampByte(v int) uint8 {
	return uint8(min(max(v, 0), 255))
}

// SetDrawColor defines the color used for all drawing operations (lines,
// rectangles and cell borders). It is expressed in RGB components (0 - 255).
// The method can be called before the first page is created. The value is
// retained from page to page.
func (f *Quire) SetDrawColor(r, g, b int) {
	f.style.drawColor = rgbColorValue(r, g, b, "G", "RG")
	if f.state == statePageOpen {
		f.out(f.style.drawColor.str)
	}
}

// GetDrawColor returns the most recently set draw color as RGB components (0
// - 255).
func (f *Quire) GetDrawColor() (int, int, int) {
	c := f.style.drawColor
	return int(c.ir), int(c.ig), int(c.ib)
}

// SetFillColor defines the color used for all filling operations (filled
// rectangles and cell backgrounds). It is expressed in RGB components (0
// -255). The method can be called before the first page is created and the
// value is retained from page to page.
func (f *Quire) SetFillColor(r, g, b int) {
	f.style.fillColor = rgbColorValue(r, g, b, "g", "rg")
	f.style.colorFlag = f.style.fillColor.str != f.style.textColor.str
	if f.state == statePageOpen {
		f.out(f.style.fillColor.str)
	}
}

// GetFillColor returns the most recently set fill color as RGB components (0
// - 255).
func (f *Quire) GetFillColor() (int, int, int) {
	c := f.style.fillColor
	return int(c.ir), int(c.ig), int(c.ib)
}

// SetTextColor defines the color used for text. It is expressed in RGB
// components (0 - 255). The method can be called before the first page is
// created. The value is retained from page to page.
func (f *Quire) SetTextColor(r, g, b int) {
	f.style.textColor = rgbColorValue(r, g, b, "g", "rg")
	f.style.colorFlag = f.style.fillColor.str != f.style.textColor.str
}

// GetTextColor returns the most recently set text color as RGB components (0
// - 255).
func (f *Quire) GetTextColor() (int, int, int) {
	c := f.style.textColor
	return int(c.ir), int(c.ig), int(c.ib)
}

// SetLineWidth defines the line width. By default, the value equals 0.2 mm.
// The method can be called before the first page is created. The value is
// retained from page to page.
func (f *Quire) SetLineWidth(width float64) {
	f.style.lineWidth = width
	if f.state == statePageOpen {
		f.outf("%.2f w", width*f.k)
	}
}

// GetLineWidth returns the current line thickness.
func (f *Quire) GetLineWidth() float64 {
	return f.style.lineWidth
}

// Line draws a line between points (x1, y1) and (x2, y2) using the current
// draw color, line width and cap style.
func (f *Quire) Line(x1, y1, x2, y2 float64) {
	f.outf(
		"%.2f %.2f m %.2f %.2f l S",
		x1*f.k, (f.hUnit-y1)*f.k, x2*f.k, (f.hUnit-y2)*f.k,
	)
}

// fillDrawOp corrects path painting operators
func fillDrawOp(styleStr string) string {
	switch strings.ToUpper(styleStr) {
	case "F":
		return "f"
	case "FD", "DF":
		return "B"
	default:
		return "S"
	}
}

// Rect outputs a rectangle of width w and height h with the upper left corner
// positioned at point (x, y).
//
// It can be drawn (border only), filled (with no border) or both. styleStr
// can be "F" for filled, "D" for outlined only, or "DF" or "FD" for outlined
// and filled. An empty string will be replaced with "D". Drawing uses the
// current draw color and line width centered on the rectangle's perimeter.
// Filling uses the current fill color.
func (f *Quire) Rect(x, y, w, h float64, styleStr string) {
	f.outf(
		"%.2f %.2f %.2f %.2f re %s",
		x*f.k, (f.hUnit-y)*f.k, w*f.k, -h*f.k, fillDrawOp(styleStr),
	)
}
