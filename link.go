// Copyright ©2023 The go-pdf Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package quire

import "fmt"

// AddLink creates a new internal link and returns its identifier. An internal
// link is a clickable area which directs to another place within the
// document. The identifier can then be passed to Cell(), Write(), Image() or
// Link(). The destination is defined with SetLink().
func (f *Quire) AddLink() int {
	f.links = append(f.links, intLinkType{})
	return len(f.links) - 1
}

// SetLink defines the page and position a link points to. See AddLink(). A y
// of -1 selects the current position and a page of -1 the current page. A
// link may be pointed at a new destination any number of times before the
// document is closed.
func (f *Quire) SetLink(link int, y float64, page int) {
	if link < 1 || link >= len(f.links) {
		f.SetErrorf("%w: unknown link %d", ErrState, link)
		return
	}
	if y == -1 {
		y = f.y
	}
	if page == -1 {
		page = f.page
	}
	f.links[link] = intLinkType{page, y}
}

// newLink adds a new clickable link on current page
func (f *Quire) newLink(x, y, w, h float64, link int, linkStr string) {
	if f.page < 1 {
		f.SetErrorf("%w: no page is open for a link", ErrState)
		return
	}
	f.pageLinks[f.page] = append(f.pageLinks[f.page], linkType{
		x:       x * f.k,
		y:       f.hPt - y*f.k,
		wd:      w * f.k,
		ht:      h * f.k,
		link:    link,
		linkStr: linkStr,
	})
}

// Link puts a link on a rectangular area of the page. Text or image links are
// generally put via Cell(), Write() or Image(), but this method can be useful
// for instance to define a clickable area inside an image. link is the value
// returned by AddLink().
func (f *Quire) Link(x, y, w, h float64, link int) {
	f.newLink(x, y, w, h, link, "")
}

// LinkString puts a link on a rectangular area of the page. Text or image
// links are generally put via Cell(), Write() or Image(), but this method can
// be useful for instance to define a clickable area inside an image. linkStr
// is the target URL.
func (f *Quire) LinkString(x, y, w, h float64, linkStr string) {
	f.newLink(x, y, w, h, 0, linkStr)
}

// annotations returns the /Annots array of page n.
func (f *Quire) annotations(n int, defHPt float64) string {
	buf := []byte("/Annots [")
	for _, pl := range f.pageLinks[n] {
		buf = fmt.Appendf(buf,
			"<</Type /Annot /Subtype /Link /Rect [%.2f %.2f %.2f %.2f] /Border [0 0 0] ",
			pl.x, pl.y, pl.x+pl.wd, pl.y-pl.ht,
		)
		if pl.link == 0 {
			buf = fmt.Appendf(buf, "/A <</S /URI /URI %s>>>>", textstring(pl.linkStr))
			continue
		}
		l := f.links[pl.link]
		h := defHPt
		if sz, ok := f.pageSizes[l.page]; ok {
			h = sz.Ht
		}
		buf = fmt.Appendf(buf, "/Dest [%d 0 R /XYZ 0 %.2f null]>>", 1+2*l.page, h-l.y*f.k)
	}
	buf = append(buf, ']')
	return string(buf)
}
