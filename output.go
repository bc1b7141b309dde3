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
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/kofi-q/quire/fontdef"
	"github.com/kofi-q/quire/ttf"
)

// endDoc serialises the document. Offsets are recorded as each object is
// appended, so nothing already written may change afterwards.
func (f *Quire) endDoc() {
	if f.transformNest > 0 {
		f.err = fmt.Errorf(
			"%w: %d transformation contexts left open", ErrState, f.transformNest,
		)
		return
	}
	f.layerEndDoc()
	f.prepareFontFiles()
	if f.err != nil {
		return
	}

	f.w = newObjWriter()
	w := f.w
	w.put("%PDF-" + f.pdfVersion.String())
	f.putPages()
	f.putResources()

	w.newobj()
	w.put("<<")
	f.putInfo()
	w.put(">>")
	w.endobj()

	w.newobj()
	w.put("<<")
	f.putCatalog()
	w.put(">>")
	w.endobj()

	w.xref()
	if w.err != nil {
		f.err = w.err
		f.w = nil
		return
	}

	f.pdfBytes = w.buf.Bytes()
	f.w = nil
	f.state = stateFinalized
}

func (f *Quire) putPages() {
	w := f.w
	nb := f.page
	if f.aliasNbPagesStr != "" {
		alias := []byte(f.aliasNbPagesStr)
		count := []byte(strconv.Itoa(nb))
		for n := 1; n <= nb; n++ {
			content := bytes.ReplaceAll(f.pages[n].Bytes(), alias, count)
			f.pages[n] = bytes.NewBuffer(content)
		}
	}

	var wPt, hPt float64
	if f.defOrientation == "P" {
		wPt = f.defPageSize.Wd * f.k
		hPt = f.defPageSize.Ht * f.k
	} else {
		wPt = f.defPageSize.Ht * f.k
		hPt = f.defPageSize.Wd * f.k
	}

	for _, pl := range f.pageLinks {
		for _, l := range pl {
			if l.link == 0 {
				continue
			}
			if l.link >= len(f.links) || f.links[l.link].page < 1 {
				w.fail(fmt.Errorf("%w: link %d has no destination", ErrEncoding, l.link))
				return
			}
			if f.links[l.link].page > nb {
				w.fail(fmt.Errorf(
					"%w: link %d points to page %d of %d",
					ErrEncoding, l.link, f.links[l.link].page, nb,
				))
				return
			}
		}
	}

	for n := 1; n <= nb; n++ {
		w.newobj()
		w.put("<</Type /Page")
		w.putf("/Parent %d 0 R", objPagesRoot)
		if sz, ok := f.pageSizes[n]; ok {
			w.putf("/MediaBox [0 0 %.2f %.2f]", sz.Wd, sz.Ht)
		}
		w.putf("/Resources %d 0 R", objResources)
		if len(f.pageLinks[n]) > 0 {
			w.put(f.annotations(n, hPt))
		}
		if f.pdfVersion > pdfVers1_3 {
			w.put("/Group <</Type /Group /S /Transparency /CS /DeviceRGB>>")
		}
		w.putf("/Contents %d 0 R>>", w.n+1)
		w.endobj()

		w.putStreamObject(f.pages[n].Bytes(), f.compress)
		f.pages[n] = nil
	}

	// Pages root
	w.beginAt(objPagesRoot)
	w.put("<</Type /Pages")
	var kids strings.Builder
	kids.WriteString("/Kids [")
	for i := 0; i < nb; i++ {
		fmt.Fprintf(&kids, "%d 0 R ", 3+2*i)
	}
	kids.WriteString("]")
	w.put(kids.String())
	w.putf("/Count %d", nb)
	w.putf("/MediaBox [0 0 %.2f %.2f]", wPt, hPt)
	w.put(">>")
	w.endobj()
}

// prepareFontFiles loads every embedded program not supplied at
// registration and subsets TrueType programs when enabled.
func (f *Quire) prepareFontFiles() {
	for _, file := range f.fileOrder {
		ff := f.fontFiles[file]
		if ff.data == nil {
			data, err := f.readFontFile(file)
			if err != nil {
				f.err = fmt.Errorf("%w: font file %s: %w", ErrEncoding, file, err)
				return
			}
			ff.data = data
		}
		if ff.tp == fontdef.TypeTrueType && !ff.compressed {
			ff.length1 = len(ff.data)
		}
		if ff.tp == fontdef.TypeType1 && !ff.compressed && ff.length2 > 0 {
			if err := ff.stripPfbHeaders(); err != nil {
				f.err = fmt.Errorf("%w: font file %s: %w", ErrEncoding, file, err)
				return
			}
		}
		if !f.subsetFonts || ff.tp != fontdef.TypeTrueType || ff.compressed || ff.used.Count() == 0 {
			continue
		}
		if ff.program == nil {
			ff.program = new(ttf.Font)
			if err := ttf.Parse(ff.data, ff.program); err != nil {
				f.err = fmt.Errorf("%w: font file %s: %w", ErrEncoding, file, err)
				return
			}
		}
		// Space and .notdef keep the program usable for any text the
		// document draws.
		ff.used.Set(' ')
		subset, _, err := ttf.Subset(ff.data, ff.program, &ff.used)
		if err != nil {
			f.err = fmt.Errorf("%w: font file %s: %w", ErrEncoding, file, err)
			return
		}
		ff.data = subset
		ff.length1 = len(subset)
		ff.subsetTag = subsetTag(ff)
	}
}

// stripPfbHeaders removes the segment headers of a PFB Type1 program,
// keeping the clear-text and binary portions. Programs without the PFB
// marker are kept as they are.
func (ff *fontFileType) stripPfbHeaders() error {
	l1, l2 := ff.length1, ff.length2
	if len(ff.data) > 0 && ff.data[0] != 0x80 {
		return nil
	}
	if len(ff.data) < 6+l1+6+l2 {
		return fmt.Errorf("truncated Type1 program: %d bytes", len(ff.data))
	}
	data := make([]byte, 0, l1+l2)
	data = append(data, ff.data[6:6+l1]...)
	data = append(data, ff.data[6+l1+6:6+l1+6+l2]...)
	ff.data = data
	return nil
}

// subsetTag derives the six letter prefix naming a subset font from the
// glyphs it holds.
func subsetTag(ff *fontFileType) string {
	var h uint32 = 2166136261
	for i, ok := ff.used.NextSet(0); ok; i, ok = ff.used.NextSet(i + 1) {
		h ^= uint32(i)
		h *= 16777619
	}
	tag := make([]byte, 6)
	for i := range tag {
		tag[i] = 'A' + byte(h%26)
		h /= 26
	}
	return string(tag)
}

func (f *Quire) putFontFile(ff *fontFileType) {
	w := f.w
	ff.n = w.newobj()
	w.putf("<</Length %d", len(ff.data))
	if ff.compressed {
		w.put("/Filter /FlateDecode")
	}
	w.putf("/Length1 %d", ff.length1)
	if ff.tp == fontdef.TypeType1 {
		w.putf("/Length2 %d /Length3 0", ff.length2)
	}
	w.put(">>")
	w.putstream(ff.data)
	w.endobj()
	ff.data = nil
}

func (f *Quire) putFonts() {
	w := f.w
	nf := w.n
	for _, diff := range f.diffs {
		w.newobj()
		w.putf("<</Type /Encoding /BaseEncoding /WinAnsiEncoding /Differences [%s]>>", diff)
		w.endobj()
	}

	for _, key := range f.fontOrder {
		font := f.fonts[key]
		name := fontFamilyEscape(font.def.Name)
		font.n = w.n + 1

		switch font.tp {
		case fontdef.TypeCore:
			w.newobj()
			w.put("<</Type /Font")
			w.put("/BaseFont /" + name)
			w.put("/Subtype /Type1")
			if name != "Symbol" && name != "ZapfDingbats" {
				w.put("/Encoding /WinAnsiEncoding")
			}
			w.put(">>")
			w.endobj()

		case fontdef.TypeType1, fontdef.TypeTrueType:
			if ff := font.file; ff != nil && ff.subsetTag != "" {
				name = ff.subsetTag + "+" + name
			}
			w.newobj()
			w.put("<</Type /Font")
			w.put("/BaseFont /" + name)
			w.put("/Subtype /" + font.tp.String())
			w.put("/FirstChar 32 /LastChar 255")
			w.putf("/Widths %d 0 R", w.n+1)
			w.putf("/FontDescriptor %d 0 R", w.n+2)
			if font.diffn > 0 {
				w.putf("/Encoding %d 0 R", nf+font.diffn)
			} else {
				w.put("/Encoding /WinAnsiEncoding")
			}
			w.put(">>")
			w.endobj()

			// Widths
			w.newobj()
			var s strings.Builder
			s.WriteString("[")
			for c := 32; c <= 255; c++ {
				s.WriteString(strconv.Itoa(font.def.Cw[c]))
				s.WriteString(" ")
			}
			s.WriteString("]")
			w.put(s.String())
			w.endobj()

			// Descriptor
			fileN := 0
			writeFile := false
			if ff := font.file; ff != nil {
				fileN = ff.n
				if fileN == 0 {
					fileN = w.n + 2
					writeFile = true
				}
			}
			w.newobj()
			d := font.def.Desc
			desc := fmt.Sprintf(
				"<</Type /FontDescriptor /FontName /%s /Ascent %d /Descent %d"+
					" /CapHeight %d /Flags %d /FontBBox [%d %d %d %d]"+
					" /ItalicAngle %d /StemV %d /MissingWidth %d",
				name, d.Ascent, d.Descent, d.CapHeight, d.Flags,
				d.FontBBox.Xmin, d.FontBBox.Ymin, d.FontBBox.Xmax, d.FontBBox.Ymax,
				d.ItalicAngle, d.StemV, d.MissingWidth,
			)
			if fileN != 0 {
				desc += fmt.Sprintf(
					" /FontFile%s %d 0 R",
					strIf(font.tp == fontdef.TypeType1, "", "2"), fileN,
				)
			}
			w.put(desc + ">>")
			w.endobj()

			if writeFile {
				f.putFontFile(font.file)
			}

		default:
			w.fail(fmt.Errorf(
				"%w: %w: %s", ErrEncoding, fontdef.ErrUnsupportedFontType, font.tp,
			))
			return
		}
	}
}

func (f *Quire) putResourceDict() {
	w := f.w
	w.put("/ProcSet [/PDF /Text /ImageB /ImageC /ImageI]")
	w.put("/Font <<")
	for _, key := range f.fontOrder {
		font := f.fonts[key]
		w.putf("/F%d %d 0 R", font.i, font.n)
	}
	w.put(">>")
	w.put("/XObject <<")
	for _, name := range f.imgOrder {
		img := f.images[name]
		w.putf("/I%d %d 0 R", img.i, img.n)
	}
	w.put(">>")
	f.layerPutResourceDict()
}

func (f *Quire) putResources() {
	f.putFonts()
	f.putImages()
	f.layerPutLayers()
	f.putJavascript()

	w := f.w
	w.beginAt(objResources)
	w.put("<<")
	f.putResourceDict()
	w.put(">>")
	w.endobj()
}

func (f *Quire) putInfo() {
	w := f.w
	w.put("/Producer " + textstring(f.producer))
	if f.title != "" {
		w.put("/Title " + textstring(f.title))
	}
	if f.subject != "" {
		w.put("/Subject " + textstring(f.subject))
	}
	if f.author != "" {
		w.put("/Author " + textstring(f.author))
	}
	if f.keywords != "" {
		w.put("/Keywords " + textstring(f.keywords))
	}
	if f.creator != "" {
		w.put("/Creator " + textstring(f.creator))
	}
	created := f.creationDate
	if created.IsZero() {
		created = time.Now()
	}
	w.put("/CreationDate " + textstring("D:"+created.Format("20060102150405")))
}

func (f *Quire) putCatalog() {
	w := f.w
	w.put("/Type /Catalog")
	w.putf("/Pages %d 0 R", objPagesRoot)
	switch f.zoomMode {
	case "fullpage":
		w.put("/OpenAction [3 0 R /Fit]")
	case "fullwidth":
		w.put("/OpenAction [3 0 R /FitH null]")
	case "real":
		w.put("/OpenAction [3 0 R /XYZ null null 1]")
	case "default":
	default:
		if z, err := strconv.ParseFloat(f.zoomMode, 64); err == nil {
			w.putf("/OpenAction [3 0 R /XYZ null null %.2f]", z/100)
		}
	}
	switch f.layoutMode {
	case "single", "SinglePage":
		w.put("/PageLayout /SinglePage")
	case "continuous", "OneColumn":
		w.put("/PageLayout /OneColumn")
	case "two", "TwoColumnLeft":
		w.put("/PageLayout /TwoColumnLeft")
	case "TwoColumnRight", "TwoPageLeft", "TwoPageRight":
		w.put("/PageLayout /" + f.layoutMode)
	}
	if f.lang != "" {
		w.put("/Lang " + textstring(f.lang))
	}
	if f.nJs > 0 {
		w.putf("/Names <</JavaScript %d 0 R>>", f.nJs)
	}
	f.layerPutCatalog()
}

// Output sends the PDF document to the writer specified by w. No output will
// take place if an error has occurred in the document generation process. w
// remains open after this function returns. After returning, f is in a
// closed state and its methods should not be called.
func (f *Quire) Output(w io.Writer) error {
	if f.err != nil {
		return f.err
	}
	if f.state != stateFinalized {
		f.Close()
	}
	if f.err != nil {
		return f.err
	}
	if _, err := w.Write(f.pdfBytes); err != nil {
		f.err = fmt.Errorf("%w: %w", ErrOutput, err)
	}
	return f.err
}

// OutputAndClose sends the PDF document to the writer specified by w. This
// method will close both f and w, even if an error is detected and no
// document is produced.
func (f *Quire) OutputAndClose(w io.WriteCloser) error {
	f.Output(w)
	if err := w.Close(); err != nil && f.err == nil {
		f.err = fmt.Errorf("%w: %w", ErrOutput, err)
	}
	return f.err
}

// OutputFileAndClose creates or truncates the file specified by fileStr and
// writes the PDF document to it. This method will close f and the newly
// written file, even if an error is detected and no document is produced.
//
// Most examples demonstrate the use of this method.
func (f *Quire) OutputFileAndClose(fileStr string) error {
	if f.err != nil {
		return f.err
	}
	f.Close()
	if f.err != nil {
		return f.err
	}
	if err := os.WriteFile(fileStr, f.pdfBytes, 0o644); err != nil {
		f.err = fmt.Errorf("%w: %w", ErrOutput, err)
	}
	return f.err
}

// Bytes closes the document and returns its serialised form.
func (f *Quire) Bytes() ([]byte, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.Close()
	if f.err != nil {
		return nil, f.err
	}
	return f.pdfBytes, nil
}
