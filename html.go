// Copyright ©2023 The go-pdf Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package quire

import (
	"strings"

	"golang.org/x/net/html"
)

// HTMLBasicType is used for rendering a very basic subset of HTML. It
// supports only hyperlinks and bold, italic and underscore attributes, plus
// line breaks, paragraphs, centered or right aligned blocks, h1 to h3
// headings and horizontal rules. In the Link structure, the ClrR, ClrG and
// ClrB fields (0 through 255) define the color of hyperlinks. The Bold,
// Italic and Underscore values define the hyperlink style.
type HTMLBasicType struct {
	pdf  *Quire
	Link struct {
		ClrR, ClrG, ClrB         int
		Bold, Italic, Underscore bool
	}
}

// HTMLBasicNew returns an instance that facilitates writing basic HTML in the
// specified PDF file.
func (f *Quire) HTMLBasicNew() (hb HTMLBasicType) {
	hb.pdf = f
	hb.Link.ClrR, hb.Link.ClrG, hb.Link.ClrB = 0, 0, 128
	hb.Link.Underscore = true
	return
}

type htmlState struct {
	bold, italic, underline int
	href                    string
	align                   string
	aligned                 strings.Builder
	headingSize             float64
}

// style combines the tags in effect with the style the text started in.
func (s *htmlState) style(base string, link bool, hb *HTMLBasicType) string {
	var b strings.Builder
	if s.bold > 0 || strings.Contains(base, "B") || (link && hb.Link.Bold) {
		b.WriteByte('B')
	}
	if s.italic > 0 || strings.Contains(base, "I") || (link && hb.Link.Italic) {
		b.WriteByte('I')
	}
	if s.underline > 0 || strings.Contains(base, "U") || (link && hb.Link.Underscore) {
		b.WriteByte('U')
	}
	return b.String()
}

// collapseSpace folds runs of white space into single spaces as a browser
// would.
func collapseSpace(s string) string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		if s != "" {
			return " "
		}
		return ""
	}
	out := strings.Join(fields, " ")
	if strings.IndexAny(s[:1], " \t\r\n") == 0 {
		out = " " + out
	}
	if strings.IndexAny(s[len(s)-1:], " \t\r\n") == 0 {
		out += " "
	}
	return out
}

// Write prints text from the current position using the currently selected
// font. The text may contain the tags listed for HTMLBasicType; others are
// ignored. Text is UTF-8 and is translated to the code page of the current
// font. lineHt indicates the line height in the unit of measure specified in
// New().
func (hb *HTMLBasicType) Write(lineHt float64, htmlStr string) {
	f := hb.pdf
	if f.err != nil {
		return
	}
	var st htmlState
	baseStyle := f.GetFontStyle()
	r, g, b := f.GetTextColor()

	setStyle := func(link bool) {
		f.SetFontStyle(st.style(baseStyle, link, hb))
	}
	flushAligned := func() {
		if st.aligned.Len() > 0 {
			f.WriteAligned(0, lineHt, strings.TrimSpace(st.aligned.String()), st.align)
			f.Ln(lineHt)
			st.aligned.Reset()
		}
	}
	newLine := func() {
		if f.GetX() > f.lMargin {
			f.Ln(lineHt)
		}
	}

	z := html.NewTokenizer(strings.NewReader(htmlStr))
	for f.err == nil {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			return

		case html.TextToken:
			txt := f.translate(collapseSpace(string(z.Text())))
			if txt == "" || (txt == " " && f.GetX() <= f.lMargin) {
				continue
			}
			switch {
			case st.align != "":
				st.aligned.WriteString(txt)
			case st.href != "":
				f.SetTextColor(hb.Link.ClrR, hb.Link.ClrG, hb.Link.ClrB)
				setStyle(true)
				f.WriteLinkString(lineHt, txt, st.href)
				setStyle(false)
				f.SetTextColor(r, g, b)
			default:
				f.Write(lineHt, txt)
			}

		case html.StartTagToken, html.SelfClosingTagToken:
			name, hasAttr := z.TagName()
			switch string(name) {
			case "b", "strong":
				st.bold++
				setStyle(false)
			case "i", "em":
				st.italic++
				setStyle(false)
			case "u":
				st.underline++
				setStyle(false)
			case "a":
				for hasAttr {
					var key, val []byte
					key, val, hasAttr = z.TagAttr()
					if string(key) == "href" {
						st.href = string(val)
					}
				}
			case "br":
				f.Ln(lineHt)
			case "p":
				newLine()
			case "center":
				newLine()
				st.align = AlignCenter
			case "right":
				newLine()
				st.align = AlignRight
			case "h1", "h2", "h3":
				newLine()
				st.headingSize, _ = f.GetFontSize()
				f.SetFontSize(map[string]float64{"h1": 24, "h2": 18, "h3": 14}[string(name)])
				st.bold++
				setStyle(false)
			case "hr":
				newLine()
				y := f.GetY() + lineHt/2
				f.Line(f.lMargin, y, f.wUnit-f.rMargin, y)
				f.Ln(lineHt)
			}

		case html.EndTagToken:
			name, _ := z.TagName()
			switch string(name) {
			case "b", "strong":
				st.bold = max(st.bold-1, 0)
				setStyle(false)
			case "i", "em":
				st.italic = max(st.italic-1, 0)
				setStyle(false)
			case "u":
				st.underline = max(st.underline-1, 0)
				setStyle(false)
			case "a":
				st.href = ""
			case "p":
				newLine()
				f.Ln(lineHt)
			case "center", "right":
				flushAligned()
				st.align = ""
			case "h1", "h2", "h3":
				f.Ln(lineHt * 1.5)
				f.SetFontSize(st.headingSize)
				st.bold = max(st.bold-1, 0)
				setStyle(false)
			}
		}
	}
}
