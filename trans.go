// Copyright ©2023 The go-pdf Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package quire

import "math"

// TransformMatrix is used for generalized transformations of text, drawings
// and images. The components are those of the PDF cm operator, in points.
type TransformMatrix struct {
	A, B, C, D, E, F float64
}

// pdfPoint converts a position in user units to page space in points.
func (f *Quire) pdfPoint(x, y float64) (float64, float64) {
	return x * f.k, (f.hUnit - y) * f.k
}

// TransformBegin sets up a transformation context for subsequent text,
// drawings and images. Follow it with one or more of the transformation
// methods such as TransformScale() or TransformSkew(), then the content, and
// finally TransformEnd(). Every context must be ended before the document is
// closed.
func (f *Quire) TransformBegin() {
	f.out("q")
	if f.err == nil {
		f.transformNest++
	}
}

// TransformScaleX scales the width of the following text, drawings and images.
// scaleWd is the percentage scaling factor. (x, y) is center of scaling.
func (f *Quire) TransformScaleX(scaleWd, x, y float64) {
	f.TransformScale(scaleWd, 100, x, y)
}

// TransformScaleY scales the height of the following text, drawings and
// images. scaleHt is the percentage scaling factor. (x, y) is center of
// scaling.
func (f *Quire) TransformScaleY(scaleHt, x, y float64) {
	f.TransformScale(100, scaleHt, x, y)
}

// TransformScaleXY uniformly scales the following text, drawings and images
// by the percentage s around (x, y).
func (f *Quire) TransformScaleXY(s, x, y float64) {
	f.TransformScale(s, s, x, y)
}

// TransformScale scales the following text, drawings and images. scaleWd and
// scaleHt are percentages. (x, y) is center of scaling. A zero factor sets
// ErrState.
func (f *Quire) TransformScale(scaleWd, scaleHt, x, y float64) {
	if scaleWd == 0 || scaleHt == 0 {
		f.SetErrorf("%w: scale factor cannot be zero", ErrState)
		return
	}
	px, py := f.pdfPoint(x, y)
	sx, sy := scaleWd/100, scaleHt/100
	f.Transform(TransformMatrix{sx, 0, 0, sy, px * (1 - sx), py * (1 - sy)})
}

// TransformMirrorHorizontal mirrors the following content about the vertical
// axis at x.
func (f *Quire) TransformMirrorHorizontal(x float64) {
	f.TransformScale(-100, 100, x, f.y)
}

// TransformMirrorVertical mirrors the following content about the horizontal
// axis at y.
func (f *Quire) TransformMirrorVertical(y float64) {
	f.TransformScale(100, -100, f.x, y)
}

// TransformMirrorPoint mirrors the following content through the point
// (x, y).
func (f *Quire) TransformMirrorPoint(x, y float64) {
	f.TransformScale(-100, -100, x, y)
}

// TransformMirrorLine mirrors the following content about the line through
// (x, y) at angle degrees, measured counter-clockwise from the 3 o'clock
// position.
func (f *Quire) TransformMirrorLine(angle, x, y float64) {
	f.TransformScale(-100, 100, x, y)
	f.TransformRotate(-2*(angle-90), x, y)
}

// TransformTranslateX moves the following content horizontally by tx.
func (f *Quire) TransformTranslateX(tx float64) {
	f.TransformTranslate(tx, 0)
}

// TransformTranslateY moves the following content vertically by ty.
func (f *Quire) TransformTranslateY(ty float64) {
	f.TransformTranslate(0, ty)
}

// TransformTranslate moves the following content by tx and ty, in user units.
func (f *Quire) TransformTranslate(tx, ty float64) {
	f.Transform(TransformMatrix{1, 0, 0, 1, tx * f.k, -ty * f.k})
}

// TransformRotate rotates the following content around (x, y). angle is in
// degrees, counter-clockwise from the 3 o'clock position.
func (f *Quire) TransformRotate(angle, x, y float64) {
	px, py := f.pdfPoint(x, y)
	sin, cos := math.Sincos(angle * math.Pi / 180)
	f.Transform(TransformMatrix{
		A: cos, B: sin, C: -sin, D: cos,
		E: px + sin*py - cos*px,
		F: py - cos*py - sin*px,
	})
}

// TransformSkewX skews the following content horizontally, keeping (x, y)
// fixed. angleX lies strictly between -90 and 90 degrees.
func (f *Quire) TransformSkewX(angleX, x, y float64) {
	f.TransformSkew(angleX, 0, x, y)
}

// TransformSkewY skews the following content vertically, keeping (x, y)
// fixed. angleY lies strictly between -90 and 90 degrees.
func (f *Quire) TransformSkewY(angleY, x, y float64) {
	f.TransformSkew(0, angleY, x, y)
}

// TransformSkew skews the following content keeping (x, y) fixed. Both
// angles lie strictly between -90 and 90 degrees; others set ErrState.
func (f *Quire) TransformSkew(angleX, angleY, x, y float64) {
	if math.Abs(angleX) >= 90 || math.Abs(angleY) >= 90 {
		f.SetErrorf("%w: skew angles must lie between -90° and 90°", ErrState)
		return
	}
	px, py := f.pdfPoint(x, y)
	tx := math.Tan(angleX * math.Pi / 180)
	ty := math.Tan(angleY * math.Pi / 180)
	f.Transform(TransformMatrix{1, ty, tx, 1, -tx * py, -ty * px})
}

// Transform applies tm to the following text, drawings and images. It must
// be called inside a context opened by TransformBegin().
func (f *Quire) Transform(tm TransformMatrix) {
	if f.transformNest == 0 {
		f.SetErrorf("%w: transformation context is not active", ErrState)
		return
	}
	f.outf("%.5f %.5f %.5f %.5f %.5f %.5f cm", tm.A, tm.B, tm.C, tm.D, tm.E, tm.F)
}

// TransformEnd closes the context opened by the matching TransformBegin().
func (f *Quire) TransformEnd() {
	if f.transformNest == 0 {
		f.SetErrorf("%w: transformation ended out of sequence", ErrState)
		return
	}
	f.transformNest--
	f.out("Q")
}

