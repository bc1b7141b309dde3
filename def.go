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
	"bytes"
	"io"
	"strconv"
	"time"

	"github.com/bits-and-blooms/bitset"
	"github.com/kofi-q/quire/fontdef"
	"github.com/kofi-q/quire/raster"
	"github.com/kofi-q/quire/ttf"
)

const libVersion = "0.1"

const (
	// OrientationPortrait represents the portrait orientation.
	OrientationPortrait = "portrait"

	// OrientationLandscape represents the landscape orientation.
	OrientationLandscape = "landscape"
)

const (
	// UnitPoint represents the size unit point
	UnitPoint = "pt"
	// UnitMillimeter represents the size unit millimeter
	UnitMillimeter = "mm"
	// UnitCentimeter represents the size unit centimeter
	UnitCentimeter = "cm"
	// UnitInch represents the size unit inch
	UnitInch = "inch"
)

// PageSize is a page extent expressed in points, portrait orientation.
type PageSize SizeType

var (
	PageSizeA1      = PageSize{1683.78, 2383.94}
	PageSizeA2      = PageSize{1190.55, 1683.78}
	PageSizeA3      = PageSize{841.89, 1190.55}
	PageSizeA4      = PageSize{595.28, 841.89}
	PageSizeA5      = PageSize{420.94, 595.28}
	PageSizeA6      = PageSize{297.64, 420.94}
	PageSizeA7      = PageSize{209.76, 297.64}
	PageSizeLegal   = PageSize{612, 1008}
	PageSizeLetter  = PageSize{612, 792}
	PageSizeTabloid = PageSize{792, 1224}
)

var stdPageSizes = map[string]PageSize{
	"a1":      PageSizeA1,
	"a2":      PageSizeA2,
	"a3":      PageSizeA3,
	"a4":      PageSizeA4,
	"a5":      PageSizeA5,
	"a6":      PageSizeA6,
	"a7":      PageSizeA7,
	"legal":   PageSizeLegal,
	"letter":  PageSizeLetter,
	"tabloid": PageSizeTabloid,
}

const (
	// BorderNone set no border
	BorderNone = ""
	// BorderFull sets a full border
	BorderFull = "1"
	// BorderLeft sets the border on the left side
	BorderLeft = "L"
	// BorderTop sets the border at the top
	BorderTop = "T"
	// BorderRight sets the border on the right side
	BorderRight = "R"
	// BorderBottom sets the border on the bottom
	BorderBottom = "B"
)

const (
	// LineBreakNone disables linebreak
	LineBreakNone = 0
	// LineBreakNormal enables normal linebreak
	LineBreakNormal = 1
	// LineBreakBelow enables linebreak below
	LineBreakBelow = 2
)

const (
	// AlignLeft left aligns the cell
	AlignLeft = "L"
	// AlignRight right aligns the cell
	AlignRight = "R"
	// AlignCenter centers the cell
	AlignCenter = "C"
	// AlignJustify stretches the spaces of wrapped MultiCell lines so each
	// line fills the column
	AlignJustify = "J"
)

const (
	FontStyleNone = ""
	FontStyleB    = "B"
	FontStyleI    = "I"
	FontStyleU    = "U"
	FontStyleBI   = "BI"
)

// docState tracks the lifecycle of a document. Open and pageOpen alternate
// once per page until Close moves the document to finalized.
type docState uint8

const (
	stateUnstarted docState = iota
	stateOpen
	statePageOpen
	stateFinalized
)

type colorType struct {
	ir, ig, ib uint8
	str        string
}

// SizeType fields Wd and Ht specify the horizontal and vertical extents of a
// document element such as a page.
type SizeType struct {
	Wd, Ht float64
}

// Orientation returns "P" for a portrait size, "L" for landscape and an
// empty string for a square.
func (s SizeType) Orientation() string {
	if s.Ht == s.Wd {
		return ""
	}
	if s.Wd > s.Ht {
		return "L"
	}
	return "P"
}

// ScaleBy expands a size by a certain factor
func (s SizeType) ScaleBy(factor float64) SizeType {
	return SizeType{s.Wd * factor, s.Ht * factor}
}

// ScaleToWidth adjusts the height of a size to match the given width
func (s SizeType) ScaleToWidth(width float64) SizeType {
	return SizeType{width, s.Ht * width / s.Wd}
}

// ScaleToHeight adjusts the width of a size to match the given height
func (s SizeType) ScaleToHeight(height float64) SizeType {
	return SizeType{s.Wd * height / s.Ht, height}
}

// PointType fields X and Y specify the horizontal and vertical coordinates of
// a point, typically used in drawing.
type PointType struct {
	X, Y float64
}

// XY returns the X and Y components of the receiver point.
func (p PointType) XY() (float64, float64) {
	return p.X, p.Y
}

// ImageInfoType describes an image registered with a document. The encoded
// payload is released once the image has been written out.
type ImageInfoType struct {
	img   *raster.Image
	i     int     // resource index, /I%d
	n     int     // object id, assigned at serialisation
	w, h  float64 // pixel extent
	cs    string
	bpc   int
	alpha bool
	scale float64
	dpi   float64
}

// Extent returns the width and height of the image in the units of the
// document.
func (info *ImageInfoType) Extent() (wd, ht float64) {
	return info.Width(), info.Height()
}

// Width returns the width of the image in the units of the document.
func (info *ImageInfoType) Width() float64 {
	return info.w / (info.scale * info.dpi / 72)
}

// Height returns the height of the image in the units of the document.
func (info *ImageInfoType) Height() float64 {
	return info.h / (info.scale * info.dpi / 72)
}

// SetDpi sets the dots per inch used to size the image when it is placed
// without explicit dimensions. It defaults to 96, or to the resolution
// recorded in the file when read with ImageOptions.ReadDpi.
func (info *ImageInfoType) SetDpi(dpi float64) {
	info.dpi = dpi
}

// ColorSpace returns the PDF color space name of the image.
func (info *ImageInfoType) ColorSpace() string {
	return info.cs
}

// BitsPerComponent returns the sample depth of the image.
func (info *ImageInfoType) BitsPerComponent() int {
	return info.bpc
}

// HasAlpha reports whether the image is written with a soft mask.
func (info *ImageInfoType) HasAlpha() bool {
	return info.alpha
}

// ImageOptions provides a place to hang any options we want to use while
// parsing an image.
//
// ImageType's possible values are (case insensitive): "JPG", "JPEG", "PNG",
// "GIF", "BMP", "TIFF" and "WEBP". If empty, the type is inferred from the
// file extension.
//
// ReadDpi sizes images placed without explicit dimensions by the resolution
// stored in the file (PNG pHYs) instead of the 96 dpi default.
//
// AllowNegativePosition can be set to true in order to prevent the default
// coercion of negative x values to the current x position.
type ImageOptions struct {
	ImageType             string
	ReadDpi               bool
	AllowNegativePosition bool
}

// fontFileType is an embedded font program shared by every font resource
// that names it.
type fontFileType struct {
	length1, length2 int
	n                int
	data             []byte // nil until loaded
	tp               fontdef.Type
	compressed       bool
	program          *ttf.Font     // parsed TrueType program, for subsetting
	used             bitset.BitSet // code points drawn with the program
	subsetTag        string
}

type linkType struct {
	x, y, wd, ht float64
	link         int    // internal link id, or...
	linkStr      string // ...external URI
}

type intLinkType struct {
	page int
	y    float64
}

// InitType is used with NewCustom() to customize a Quire instance.
// OrientationStr, UnitStr, SizeStr and FontDirStr correspond to the arguments
// accepted by New(). If the Wd and Ht fields of Size are each greater than
// zero, Size will be used to set the default page size rather than SizeStr. Wd
// and Ht are specified in the units of measure indicated by UnitStr.
type InitType struct {
	OrientationStr string
	UnitStr        string
	SizeStr        string
	Size           SizeType
	FontDirStr     string
}

// FontLoader is used to read fonts (JSON font specification and zlib
// compressed font binaries) from arbitrary locations (e.g. files, zip files,
// embedded font resources).
//
// Open provides an io.Reader for the specified font file (.json or .z). The
// file name never includes a path. Open returns an error if the specified
// file cannot be opened.
type FontLoader interface {
	Open(name string) (io.Reader, error)
}

// styleState is the part of the graphics state carried over a page break.
type styleState struct {
	fontFamily string
	fontStyle  string
	underline  bool
	fontSizePt float64
	lineWidth  float64
	drawColor  colorType
	fillColor  colorType
	textColor  colorType
	colorFlag  bool
}

// Quire is the principal structure for creating a single PDF document.
type Quire struct {
	err error // Set if error occurs during life cycle of instance

	pages     []*bytes.Buffer          // slice[page] of page content; 1-based
	pageSizes map[int]SizeType         // pages with non default sizes, in points
	pageLinks [][]linkType             // pageLinks[page][link], page 1-based
	links     []intLinkType            // internal links; 1-based
	pdfBytes  []byte                   // finalised document
	w         *objWriter               // serialiser, alive only while finalising
	layer     layerRecType             // manages optional layers in document
	fonts     map[string]*fontResource // registered fonts by key
	fontOrder []string                 // font keys in discovery order
	fontFiles map[string]*fontFileType // embedded programs by file name
	fileOrder []string                 // font file keys in discovery order
	diffs     []string                 // encoding differences, shared by value
	images    map[string]*ImageInfoType
	imgOrder  []string

	style       styleState
	currentFont *fontResource

	defOrientation  string // default orientation
	curOrientation  string // current orientation
	unitStr         string
	fontpath        string // path containing fonts
	zoomMode        string // zoom display mode
	layoutMode      string // layout display mode
	producer        string
	title           string
	subject         string
	author          string
	keywords        string
	creator         string
	lang            string
	aliasNbPagesStr string // alias for total number of pages

	creationDate time.Time  // override for document CreationDate value
	fontLoader   FontLoader // used to load font files from arbitrary locations

	page          int // current page number
	transformNest int // number of active transformation contexts
	nJs           int // JavaScript name tree object id

	javascript *string

	acceptPageBreak func() bool // returns true to accept page break
	footerFnc       func()      // called to write footer
	footerFncLpi    func(bool)  // footer with last page flag
	headerFnc       func()      // called to write header

	k                float64 // scale factor (number of points in user unit)
	wPt, hPt         float64 // dimensions of current page in points
	wUnit, hUnit     float64 // dimensions of current page in user unit
	lMargin          float64 // left margin
	tMargin          float64 // top margin
	rMargin          float64 // right margin
	bMargin          float64 // page break margin
	cMargin          float64 // cell margin
	x, y             float64 // current position in user unit
	lasth            float64 // height of last printed cell
	fontSize         float64 // current font size in user unit
	ws               float64 // word spacing
	pageBreakTrigger float64 // threshold used to trigger page breaks

	defPageSize SizeType // default page size, user unit
	curPageSize SizeType // current page size, user unit

	pdfVersion pdfVersion
	state      docState

	compress      bool // compression flag
	subsetFonts   bool // embed only used glyphs of TrueType programs
	autoPageBreak bool // automatic page breaking
	inHeader      bool // flag set when processing header
	inFooter      bool // flag set when processing footer
}

const (
	pdfVers1_3 = pdfVersion(uint16(1)<<8 | uint16(3))
	pdfVers1_4 = pdfVersion(uint16(1)<<8 | uint16(4))
	pdfVers1_5 = pdfVersion(uint16(1)<<8 | uint16(5))
)

type pdfVersion uint16

func (v pdfVersion) String() string {
	maj := int64(byte(v >> 8))
	min := int64(byte(v))
	return strconv.FormatInt(maj, 10) + "." + strconv.FormatInt(min, 10)
}

// raiseVersion lifts the output version to at least v.
func (f *Quire) raiseVersion(v pdfVersion) {
	if f.pdfVersion < v {
		f.pdfVersion = v
	}
}
