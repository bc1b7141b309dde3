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

// Package quire generates PDF documents from a sequence of page, drawing,
// text and image commands.
//
// A document is built in memory: each page accumulates its content stream
// until the next page starts, and Close serialises pages, fonts and images
// into numbered objects followed by a cross-reference table. Errors are
// sticky; after the first failure every call is a no-op and the error is
// returned by Error and by the output methods.
package quire

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// New returns a pointer to a new Quire instance. Its methods are subsequently
// called to produce a single PDF document.
//
// orientationStr specifies the default page orientation. For portrait mode,
// specify "P" or "Portrait". For landscape mode, specify "L" or "Landscape".
// An empty string will be replaced with "P".
//
// unitStr specifies the unit of length used in size parameters for elements
// other than fonts, which are always measured in points. Specify "pt" for
// point, "mm" for millimeter, "cm" for centimeter, or "in" for inch. An empty
// string will be replaced with "mm".
//
// sizeStr specifies the page size. Acceptable values are "A1" to "A7",
// "Letter", "Legal" or "Tabloid". An empty string will be replaced with "A4".
//
// fontDirStr specifies the file system location in which font resources will
// be found. An empty string is replaced with ".".
func New(orientationStr, unitStr, sizeStr, fontDirStr string) *Quire {
	return NewCustom(&InitType{
		OrientationStr: orientationStr,
		UnitStr:        unitStr,
		SizeStr:        sizeStr,
		FontDirStr:     fontDirStr,
	})
}

// NewCustom returns a pointer to a new Quire instance configured by init.
// Invalid settings are reported through Error.
func NewCustom(init *InitType) (f *Quire) {
	f = &Quire{
		pages:           make([]*bytes.Buffer, 0, 8),
		pageSizes:       make(map[int]SizeType),
		pageLinks:       make([][]linkType, 0, 8),
		links:           make([]intLinkType, 0, 8),
		fonts:           make(map[string]*fontResource),
		fontFiles:       make(map[string]*fontFileType),
		images:          make(map[string]*ImageInfoType),
		style:           styleState{drawColor: colorType{str: "0 G"}, fillColor: colorType{str: "0 g"}, textColor: colorType{str: "0 g"}},
		producer:        "quire " + libVersion,
		aliasNbPagesStr: "",
		zoomMode:        "default",
		layoutMode:      "default",
		compress:        true,
		pdfVersion:      pdfVers1_3,
		state:           stateUnstarted,
	}
	// Slot 0 is unused so that page numbers index directly.
	f.pages = append(f.pages, nil)
	f.pageLinks = append(f.pageLinks, nil)
	f.links = append(f.links, intLinkType{})

	f.fontpath = init.FontDirStr
	if f.fontpath == "" {
		f.fontpath = "."
	}

	unitStr := init.UnitStr
	if unitStr == "" {
		unitStr = UnitMillimeter
	}
	f.unitStr = unitStr
	switch unitStr {
	case "pt", "point":
		f.k = 1.0
	case "mm":
		f.k = 72.0 / 25.4
	case "cm":
		f.k = 72.0 / 2.54
	case "in", "inch":
		f.k = 72.0
	default:
		f.err = fmt.Errorf("%w: incorrect unit %q", ErrConfiguration, unitStr)
		return
	}

	if init.Size.Wd > 0 && init.Size.Ht > 0 {
		f.defPageSize = init.Size
	} else {
		sizeStr := init.SizeStr
		if sizeStr == "" {
			sizeStr = "A4"
		}
		f.defPageSize = f.getPageSizeStr(sizeStr)
		if f.err != nil {
			return
		}
	}
	f.curPageSize = f.defPageSize

	orientationStr := strings.ToLower(init.OrientationStr)
	switch orientationStr {
	case "p", "portrait", "":
		f.defOrientation = "P"
		f.wUnit = f.defPageSize.Wd
		f.hUnit = f.defPageSize.Ht
	case "l", "landscape":
		f.defOrientation = "L"
		f.wUnit = f.defPageSize.Ht
		f.hUnit = f.defPageSize.Wd
	default:
		f.err = fmt.Errorf(
			"%w: incorrect orientation %q", ErrConfiguration, init.OrientationStr,
		)
		return
	}
	f.curOrientation = f.defOrientation
	f.wPt = f.wUnit * f.k
	f.hPt = f.hUnit * f.k

	// Page margins (1 cm)
	margin := 28.35 / f.k
	f.SetMargins(margin, margin, margin)
	f.cMargin = margin / 10
	// Line width (0.2 mm)
	f.style.lineWidth = 0.567 / f.k
	f.SetAutoPageBreak(true, 2*margin)
	f.acceptPageBreak = func() bool {
		return f.autoPageBreak
	}
	f.layerInit()
	return
}

// getPageSizeStr returns the size of a named page in user units.
func (f *Quire) getPageSizeStr(sizeStr string) (size SizeType) {
	ps, ok := stdPageSizes[strings.ToLower(sizeStr)]
	if !ok {
		f.err = fmt.Errorf("%w: unknown page size %q", ErrConfiguration, sizeStr)
		return
	}
	size.Wd = ps.Wd / f.k
	size.Ht = ps.Ht / f.k
	return
}

// GetPageSizeStr returns the SizeType for the given sizeStr (that is A4, A3,
// etc..) in the unit of the document.
func (f *Quire) GetPageSizeStr(sizeStr string) SizeType {
	return f.getPageSizeStr(sizeStr)
}

// SetHeaderFunc sets the function that lets the application render the page
// header. The specified function is automatically called by AddPage() and
// should not be called directly by the application. The implementation in
// Quire is empty, so you have to provide an appropriate function if you want
// page headers. fnc will typically be a closure that has access to the Quire
// instance and other document generation variables.
//
// This method is demonstrated in the example for AddPage().
func (f *Quire) SetHeaderFunc(fnc func()) {
	f.headerFnc = fnc
}

// SetFooterFunc sets the function that lets the application render the page
// footer. The specified function is automatically called by AddPage() and
// Close() and should not be called directly by the application. The
// implementation in Quire is empty, so you have to provide an appropriate
// function if you want page footers. fnc will typically be a closure that has
// access to the Quire instance and other document generation variables. See
// SetFooterFuncLpi for a similar function that passes a last page indicator.
func (f *Quire) SetFooterFunc(fnc func()) {
	f.footerFnc = fnc
	f.footerFncLpi = nil
}

// SetFooterFuncLpi sets the function that lets the application render the
// page footer. The specified function is automatically called by AddPage()
// and Close() and should not be called directly by the application. It is
// passed a boolean that is true if the last page of the document is being
// rendered.
func (f *Quire) SetFooterFuncLpi(fnc func(lastPage bool)) {
	f.footerFncLpi = fnc
	f.footerFnc = nil
}

// SetAcceptPageBreakFunc allows the application to control where page breaks
// occur.
//
// fnc is an application function (typically a closure) that is called by the
// library whenever a page break condition is met. The break is issued if true
// is returned. The default implementation returns a value according to the
// mode selected by SetAutoPageBreak. The function provided should not be
// called by the application.
func (f *Quire) SetAcceptPageBreakFunc(fnc func() bool) {
	f.acceptPageBreak = fnc
}

// AddPage adds a new page to the document. If a page is already present, the
// Footer() method is called first to output the footer. Then the page is
// added, the current position set to the top-left corner according to the
// left and top margins, and Header() is called to display the header.
//
// The font which was set before calling is automatically restored. There is
// no need to call SetFont() again if you want to continue with the same font.
// The same is true for colors and line width.
//
// The origin of the coordinate system is at the top-left corner and
// increasing ordinates go downwards.
func (f *Quire) AddPage() {
	if f.err != nil {
		return
	}
	f.AddPageFormat(f.defOrientation, SizeType{})
}

// AddPageFormat adds a new page with non-default orientation or size. A zero
// size keeps the default page size. Sizes are given portrait-wise and "L"
// swaps them; with an empty orientationStr a size wider than it is tall
// yields a landscape page of that shape. See AddPage() for more details.
func (f *Quire) AddPageFormat(orientationStr string, size SizeType) {
	if f.err != nil {
		return
	}
	if f.state == stateFinalized {
		f.err = fmt.Errorf("%w: the document is closed", ErrState)
		return
	}
	if f.state == stateUnstarted {
		f.state = stateOpen
	}

	saved := f.style
	if f.page > 0 {
		f.inFooter = true
		f.callFooter(false)
		f.inFooter = false
		f.endPage()
	}

	f.beginPage(orientationStr, size)
	f.restoreStyle(saved)

	f.inHeader = true
	if f.headerFnc != nil {
		f.headerFnc()
	}
	f.inHeader = false

	// The header may have changed the drawing state; put the page's own
	// style back.
	if f.style.lineWidth != saved.lineWidth {
		f.style.lineWidth = saved.lineWidth
		f.outf("%.2f w", saved.lineWidth*f.k)
	}
	if saved.fontFamily != "" {
		f.SetFont(saved.fontFamily, saved.styleStr(), saved.fontSizePt)
	}
	if f.style.drawColor.str != saved.drawColor.str {
		f.style.drawColor = saved.drawColor
		f.out(saved.drawColor.str)
	}
	if f.style.fillColor.str != saved.fillColor.str {
		f.style.fillColor = saved.fillColor
		f.out(saved.fillColor.str)
	}
	f.style.textColor = saved.textColor
	f.style.colorFlag = saved.colorFlag
}

// restoreStyle re-applies a graphics state snapshot at the start of a page.
func (f *Quire) restoreStyle(s styleState) {
	f.out("2 J")
	f.style.lineWidth = s.lineWidth
	f.outf("%.2f w", s.lineWidth*f.k)
	if s.fontFamily != "" {
		f.SetFont(s.fontFamily, s.styleStr(), s.fontSizePt)
	}
	f.style.drawColor = s.drawColor
	if s.drawColor.str != "0 G" {
		f.out(s.drawColor.str)
	}
	f.style.fillColor = s.fillColor
	if s.fillColor.str != "0 g" {
		f.out(s.fillColor.str)
	}
	f.style.textColor = s.textColor
	f.style.colorFlag = s.colorFlag
}

func (s styleState) styleStr() string {
	if s.underline {
		return s.fontStyle + "U"
	}
	return s.fontStyle
}

func (f *Quire) callFooter(lastPage bool) {
	if f.footerFncLpi != nil {
		f.footerFncLpi(lastPage)
	} else if f.footerFnc != nil {
		f.footerFnc()
	}
}

func (f *Quire) beginPage(orientationStr string, size SizeType) {
	f.page++
	f.pages = append(f.pages, bytes.NewBufferString(""))
	f.pageLinks = append(f.pageLinks, nil)
	f.state = statePageOpen
	f.x = f.lMargin
	f.y = f.tMargin
	// Forces SetFont to emit the font selection on the new page.
	f.style.fontFamily = ""

	switch strings.ToLower(orientationStr) {
	case "":
		orientationStr = f.defOrientation
		if size.Orientation() == "L" {
			orientationStr = "L"
			size = SizeType{size.Ht, size.Wd}
		}
	case "p", "portrait":
		orientationStr = "P"
	case "l", "landscape":
		orientationStr = "L"
	default:
		f.err = fmt.Errorf(
			"%w: incorrect orientation %q", ErrConfiguration, orientationStr,
		)
		return
	}
	if size.Wd <= 0 || size.Ht <= 0 {
		size = f.defPageSize
	}

	if orientationStr != f.curOrientation || size != f.curPageSize {
		if orientationStr == "P" {
			f.wUnit, f.hUnit = size.Wd, size.Ht
		} else {
			f.wUnit, f.hUnit = size.Ht, size.Wd
		}
		f.wPt = f.wUnit * f.k
		f.hPt = f.hUnit * f.k
		f.pageBreakTrigger = f.hUnit - f.bMargin
		f.curOrientation = orientationStr
		f.curPageSize = size
	}
	if orientationStr != f.defOrientation || size != f.defPageSize {
		f.pageSizes[f.page] = SizeType{f.wPt, f.hPt}
	}
}

func (f *Quire) endPage() {
	f.EndLayer()
	f.state = stateOpen
}

// Close terminates the PDF document. It is not necessary to call this method
// explicitly because Output(), OutputAndClose() and OutputFileAndClose() do it
// automatically. If the document contains no page, AddPage() is called to
// prevent the generation of an invalid document. Calling Close more than once
// has no further effect.
func (f *Quire) Close() {
	if f.err == nil {
		if f.state == stateFinalized {
			return
		}
		if f.page == 0 {
			f.AddPage()
			if f.err != nil {
				return
			}
		}
		f.inFooter = true
		f.callFooter(true)
		f.inFooter = false
		f.endPage()
		f.endDoc()
	}
}

// PageNo returns the current page number.
//
// See the example for AddPage() for a demonstration of this method.
func (f *Quire) PageNo() int {
	return f.page
}

// PageCount returns the number of pages currently in the document. Since
// page numbers in Quire are one-based, the page count is the same as the page
// number of the current last page.
func (f *Quire) PageCount() int {
	return len(f.pages) - 1
}

// SetMargins defines the left, top and right margins. By default, they equal
// 1 cm. Call this method to change them. If the value of the right margin is
// less than zero, it is set to the same as the left margin.
func (f *Quire) SetMargins(left, top, right float64) {
	f.lMargin = left
	f.tMargin = top
	if right < 0 {
		right = left
	}
	f.rMargin = right
}

// SetLeftMargin defines the left margin. The method can be called before
// creating the first page. If the current abscissa gets out of page, it is
// brought back to the margin.
func (f *Quire) SetLeftMargin(margin float64) {
	f.lMargin = margin
	if f.page > 0 && f.x < margin {
		f.x = margin
	}
}

// SetTopMargin defines the top margin. The method can be called before
// creating the first page.
func (f *Quire) SetTopMargin(margin float64) {
	f.tMargin = margin
}

// SetRightMargin defines the right margin. The method can be called before
// creating the first page.
func (f *Quire) SetRightMargin(margin float64) {
	f.rMargin = margin
}

// SetCellMargin sets the cell margin. This is the amount of space before and
// after the text within a cell that's left blank, and is in units passed to
// New().
func (f *Quire) SetCellMargin(margin float64) {
	f.cMargin = margin
}

// GetCellMargin returns the cell margin. This is the amount of space before
// and after the text within a cell that's left blank, and is in units passed
// to New(). It defaults to 1mm.
func (f *Quire) GetCellMargin() float64 {
	return f.cMargin
}

// GetMargins returns the left, top, right, and bottom margins. The first
// three are set with the SetMargins() method. The bottom margin is set with
// the SetAutoPageBreak() method.
func (f *Quire) GetMargins() (left, top, right, bottom float64) {
	return f.lMargin, f.tMargin, f.rMargin, f.bMargin
}

// SetAutoPageBreak enables or disables the automatic page breaking mode. When
// enabling, the second parameter is the distance from the bottom of the page
// that defines the triggering limit. By default, the mode is on and the
// margin is 2 cm.
func (f *Quire) SetAutoPageBreak(auto bool, margin float64) {
	f.autoPageBreak = auto
	f.bMargin = margin
	f.pageBreakTrigger = f.hUnit - margin
}

// GetAutoPageBreak returns true if automatic pages breaks are enabled, false
// otherwise. This is followed by the triggering limit from the bottom of the
// page. This value applies only if automatic page breaks are enabled.
func (f *Quire) GetAutoPageBreak() (auto bool, margin float64) {
	return f.autoPageBreak, f.bMargin
}

// SetDisplayMode sets advisory display directives for the document viewer.
// Pages can be displayed entirely on screen, occupy the full width of the
// window, use real size, be scaled by a specific zooming factor or use viewer
// default (configured in the Preferences menu of Adobe Reader). The page
// layout can be specified so that pages are displayed individually or in
// pairs.
//
// zoomStr can be "fullpage" to display the entire page on screen, "fullwidth"
// to use maximum width of window, "real" to use real size (equivalent to 100%
// zoom) or "default" to use viewer default mode. A positive number such as
// "150" is a zoom percentage.
//
// layoutStr can be "single" (or "SinglePage") to display one page at once,
// "continuous" (or "OneColumn") to display pages continuously, "two" (or
// "TwoColumnLeft") to display two pages on two columns with odd-numbered
// pages on the left, "TwoColumnRight", "TwoPageLeft", "TwoPageRight" or
// "default" to use viewer default mode.
func (f *Quire) SetDisplayMode(zoomStr, layoutStr string) {
	if f.err != nil {
		return
	}
	if layoutStr == "" {
		layoutStr = "default"
	}
	switch zoomStr {
	case "fullpage", "fullwidth", "real", "default":
		f.zoomMode = zoomStr
	default:
		if z, err := strconv.ParseFloat(zoomStr, 64); err == nil && z > 0 {
			f.zoomMode = zoomStr
		} else {
			f.err = fmt.Errorf("%w: incorrect zoom display mode %q", ErrConfiguration, zoomStr)
			return
		}
	}
	switch layoutStr {
	case "single", "continuous", "two", "default",
		"SinglePage", "OneColumn", "TwoColumnLeft", "TwoColumnRight",
		"TwoPageLeft", "TwoPageRight":
		f.layoutMode = layoutStr
	default:
		f.err = fmt.Errorf("%w: incorrect layout display mode %q", ErrConfiguration, layoutStr)
	}
}

// GetDisplayMode returns the current zoom and layout display modes.
func (f *Quire) GetDisplayMode() (zoomStr, layoutStr string) {
	return f.zoomMode, f.layoutMode
}

// SetCompression activates or deactivates page compression with zlib. When
// activated, the internal representation of each page is compressed, which
// leads to a compression ratio of about 2 for the resulting document.
// Compression is on by default.
func (f *Quire) SetCompression(compress bool) {
	f.compress = compress
}

// GetCompression returns whether page compression is enabled.
func (f *Quire) GetCompression() bool {
	return f.compress
}

// SetProducer defines the producer of the document. isUTF8 indicates if the
// string is encoded in ISO-8859-1 (false) or UTF-8 (true).
func (f *Quire) SetProducer(producerStr string, isUTF8 bool) {
	f.producer = metaText(producerStr, isUTF8)
}

// GetProducer returns the producer of the document, as stored.
func (f *Quire) GetProducer() string {
	return f.producer
}

// SetTitle defines the title of the document. isUTF8 indicates if the string
// is encoded in ISO-8859-1 (false) or UTF-8 (true).
func (f *Quire) SetTitle(titleStr string, isUTF8 bool) {
	f.title = metaText(titleStr, isUTF8)
}

// GetTitle returns the title of the document, as stored.
func (f *Quire) GetTitle() string {
	return f.title
}

// SetSubject defines the subject of the document. isUTF8 indicates if the
// string is encoded in ISO-8859-1 (false) or UTF-8 (true).
func (f *Quire) SetSubject(subjectStr string, isUTF8 bool) {
	f.subject = metaText(subjectStr, isUTF8)
}

// GetSubject returns the subject of the document, as stored.
func (f *Quire) GetSubject() string {
	return f.subject
}

// SetAuthor defines the author of the document. isUTF8 indicates if the
// string is encoded in ISO-8859-1 (false) or UTF-8 (true).
func (f *Quire) SetAuthor(authorStr string, isUTF8 bool) {
	f.author = metaText(authorStr, isUTF8)
}

// GetAuthor returns the author of the document, as stored.
func (f *Quire) GetAuthor() string {
	return f.author
}

// SetKeywords defines the keywords of the document. keywordStr is a
// space-delimited string, for example "invoice August". isUTF8 indicates if
// the string is encoded in ISO-8859-1 (false) or UTF-8 (true).
func (f *Quire) SetKeywords(keywordsStr string, isUTF8 bool) {
	f.keywords = metaText(keywordsStr, isUTF8)
}

// GetKeywords returns the keywords of the document, as stored.
func (f *Quire) GetKeywords() string {
	return f.keywords
}

// SetCreator defines the creator of the document. isUTF8 indicates if the
// string is encoded in ISO-8859-1 (false) or UTF-8 (true).
func (f *Quire) SetCreator(creatorStr string, isUTF8 bool) {
	f.creator = metaText(creatorStr, isUTF8)
}

// GetCreator returns the creator of the document, as stored.
func (f *Quire) GetCreator() string {
	return f.creator
}

// SetCreationDate fixes the document's internal CreationDate value. By
// default, the time when the document is generated is used for this value.
// This method is typically only used for testing purposes to produce
// reproducible output.
func (f *Quire) SetCreationDate(tm time.Time) {
	f.creationDate = tm
}

// GetCreationDate returns the document's internal CreationDate value.
func (f *Quire) GetCreationDate() time.Time {
	return f.creationDate
}

// AliasNbPages defines an alias for the total number of pages. It will be
// substituted as the document is closed. An empty string is replaced with
// the string "{nb}".
func (f *Quire) AliasNbPages(aliasStr string) {
	if aliasStr == "" {
		aliasStr = "{nb}"
	}
	f.aliasNbPagesStr = aliasStr
}

// GetConversionRatio returns the conversion ratio based on the unit given
// when creating the PDF.
func (f *Quire) GetConversionRatio() float64 {
	return f.k
}

// GetPageSize returns the current page's width and height. This is the
// paper's size. To compute the size of the area being used, subtract the
// margins (see GetMargins()).
func (f *Quire) GetPageSize() (width, height float64) {
	return f.wUnit, f.hUnit
}

// PointConvert returns the value of pt, expressed in points (1/72 inch), as a
// value expressed in the unit of measure specified in New(). Since font
// management in Quire uses points, this method can help with line height
// calculations and other methods that require user units.
func (f *Quire) PointConvert(pt float64) (u float64) {
	return pt / f.k
}

// UnitToPointConvert returns the value of u, expressed in the unit of measure
// specified in New(), as a value expressed in points (1/72 inch).
func (f *Quire) UnitToPointConvert(u float64) (pt float64) {
	return u * f.k
}

// GetX returns the abscissa of the current position.
func (f *Quire) GetX() float64 {
	return f.x
}

// SetX defines the abscissa of the current position. If the passed value is
// negative, it is relative to the right of the page.
func (f *Quire) SetX(x float64) {
	if x >= 0 {
		f.x = x
	} else {
		f.x = f.wUnit + x
	}
}

// GetY returns the ordinate of the current position.
func (f *Quire) GetY() float64 {
	return f.y
}

// SetY moves the current abscissa back to the left margin and sets the
// ordinate. If the passed value is negative, it is relative to the bottom of
// the page.
func (f *Quire) SetY(y float64) {
	f.x = f.lMargin
	if y >= 0 {
		f.y = y
	} else {
		f.y = f.hUnit + y
	}
}

// GetXY returns the abscissa and ordinate of the current position.
func (f *Quire) GetXY() (float64, float64) {
	return f.x, f.y
}

// SetXY defines the abscissa and ordinate of the current position. If the
// passed values are negative, they are relative respectively to the right and
// bottom of the page.
func (f *Quire) SetXY(x, y float64) {
	f.SetY(y)
	f.SetX(x)
}

// SetHomeXY is a convenience method that sets the current position to the
// left and top margins.
func (f *Quire) SetHomeXY() {
	f.SetY(f.tMargin)
	f.SetX(f.lMargin)
}

// Ln performs a line break. The current abscissa goes back to the left margin
// and the ordinate increases by the amount passed in parameter. A negative
// value of h indicates the height of the last printed cell.
func (f *Quire) Ln(h float64) {
	f.x = f.lMargin
	if h < 0 {
		f.y += f.lasth
	} else {
		f.y += h
	}
}

// out appends a line to the content stream of the open page.
func (f *Quire) out(s string) {
	if f.err != nil {
		return
	}
	if f.state != statePageOpen {
		f.err = fmt.Errorf("%w: no page is open for content", ErrState)
		return
	}
	buf := f.pages[f.page]
	buf.WriteString(s)
	buf.WriteByte('\n')
}

func (f *Quire) outf(fmtStr string, args ...any) {
	f.out(fmt.Sprintf(fmtStr, args...))
}
