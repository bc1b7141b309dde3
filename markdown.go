// Copyright ©2023 The go-pdf Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package quire

import (
	"bytes"
	"strconv"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// headingScale sizes headings relative to the body font, by level.
var headingScale = [...]float64{1: 2, 2: 1.6, 3: 1.3, 4: 1.15, 5: 1, 6: 1}

type mdList struct {
	ordered bool
	next    int
}

type mdWriter struct {
	f      *Quire
	src    []byte
	lineHt float64

	family string
	sizePt float64
	curPt  float64

	bold, italic, code int
	href               string
	textColor          [3]int
	lists              []mdList
	margins            []float64
	indent             float64
}

// WriteMarkdown renders CommonMark source on the current page, starting at
// the current position and flowing across page breaks. Text is UTF-8 and is
// translated to the code page of the current font. lineHt is the line height
// of body text in user units; headings scale it with their font size.
//
// Headings, paragraphs, emphasis, code spans and blocks, block quotes,
// ordered and bullet lists, links, autolinks and thematic breaks are
// rendered. An image is drawn only if its destination names a registered
// image; otherwise its alternative text is written in italics. Raw HTML is
// skipped.
func (f *Quire) WriteMarkdown(lineHt float64, src []byte) {
	if !f.requireFont() {
		return
	}
	doc := goldmark.New().Parser().Parse(text.NewReader(src))

	family, style := f.style.fontFamily, f.style.fontStyle
	sizePt := f.style.fontSizePt
	lMargin := f.lMargin
	r, g, b := f.GetTextColor()

	w := &mdWriter{
		f:         f,
		src:       src,
		lineHt:    lineHt,
		family:    family,
		sizePt:    sizePt,
		curPt:     sizePt,
		indent:    max(6*f.cMargin, f.GetStringWidth("00. ")),
		textColor: [3]int{r, g, b},
	}
	ast.Walk(doc, w.walk)

	f.SetLeftMargin(lMargin)
	f.SetTextColor(r, g, b)
	f.SetFont(family, style, sizePt)
}

func (w *mdWriter) applyFont() {
	family := w.family
	if w.code > 0 {
		family = "courier"
	}
	var style strings.Builder
	if w.bold > 0 {
		style.WriteByte('B')
	}
	if w.italic > 0 {
		style.WriteByte('I')
	}
	w.f.SetFont(family, style.String(), w.curPt)
}

// newLine ends a partly written line.
func (w *mdWriter) newLine() {
	if w.f.x > w.f.lMargin {
		w.f.Ln(w.lineHt)
	}
}

func (w *mdWriter) pushMargin(m float64) {
	w.margins = append(w.margins, w.f.lMargin)
	w.f.SetLeftMargin(m)
}

func (w *mdWriter) popMargin() {
	n := len(w.margins) - 1
	w.f.lMargin = w.margins[n]
	w.margins = w.margins[:n]
}

func (w *mdWriter) write(lineHt float64, s string) {
	f := w.f
	txt := f.translate(s)
	if w.href != "" {
		f.SetTextColor(0, 0, 238)
		f.WriteLinkString(lineHt, txt, w.href)
		f.SetTextColor(w.textColor[0], w.textColor[1], w.textColor[2])
		return
	}
	f.Write(lineHt, txt)
}

func (w *mdWriter) walk(n ast.Node, entering bool) (ast.WalkStatus, error) {
	f := w.f
	if f.err != nil {
		return ast.WalkStop, nil
	}

	switch n := n.(type) {
	case *ast.Heading:
		if entering {
			w.beginHeading(n)
		} else {
			f.Ln(w.headingLineHt())
			f.Ln(w.lineHt / 2)
			w.curPt = w.sizePt
			w.bold--
			w.applyFont()
		}

	case *ast.Paragraph:
		if !entering {
			w.newLine()
			f.Ln(w.lineHt / 2)
		}

	case *ast.TextBlock:
		if !entering {
			w.newLine()
		}

	case *ast.Text:
		if !entering {
			break
		}
		s := string(n.Segment.Value(w.src))
		if n.SoftLineBreak() {
			s += " "
		}
		w.write(w.headingLineHt(), s)
		if n.HardLineBreak() {
			f.Ln(w.headingLineHt())
		}

	case *ast.String:
		if entering {
			w.write(w.headingLineHt(), string(n.Value))
		}

	case *ast.Emphasis:
		d := 1
		if !entering {
			d = -1
		}
		if n.Level >= 2 {
			w.bold += d
		} else {
			w.italic += d
		}
		w.applyFont()

	case *ast.CodeSpan:
		if entering {
			w.code++
		} else {
			w.code--
		}
		w.applyFont()

	case *ast.FencedCodeBlock:
		if entering {
			w.codeBlock(n.Lines())
		}
		return ast.WalkSkipChildren, nil

	case *ast.CodeBlock:
		if entering {
			w.codeBlock(n.Lines())
		}
		return ast.WalkSkipChildren, nil

	case *ast.Blockquote:
		if entering {
			w.newLine()
			w.pushMargin(f.lMargin + w.indent)
			w.italic++
		} else {
			w.italic--
			w.popMargin()
		}
		w.applyFont()

	case *ast.List:
		if entering {
			w.newLine()
			w.lists = append(w.lists, mdList{ordered: n.IsOrdered(), next: n.Start})
		} else {
			w.lists = w.lists[:len(w.lists)-1]
			if len(w.lists) == 0 {
				f.Ln(w.lineHt / 2)
			}
		}

	case *ast.ListItem:
		if entering {
			w.beginItem()
		} else {
			w.newLine()
			w.popMargin()
		}

	case *ast.Link:
		if entering {
			w.href = string(n.Destination)
		} else {
			w.href = ""
		}

	case *ast.AutoLink:
		if entering {
			w.href = string(n.URL(w.src))
			w.write(w.lineHt, string(n.Label(w.src)))
			w.href = ""
		}
		return ast.WalkSkipChildren, nil

	case *ast.Image:
		name := string(n.Destination)
		if f.GetImageInfo(name) != nil {
			if entering {
				w.newLine()
				f.ImageOptions(name, -1, 0, 0, 0, true, ImageOptions{}, 0, "")
			}
			return ast.WalkSkipChildren, nil
		}
		if entering {
			w.italic++
		} else {
			w.italic--
		}
		w.applyFont()

	case *ast.ThematicBreak:
		if entering {
			w.newLine()
			y := f.y + w.lineHt/2
			f.Line(f.lMargin, y, f.wUnit-f.rMargin, y)
			f.Ln(w.lineHt)
		}

	case *ast.HTMLBlock, *ast.RawHTML:
		return ast.WalkSkipChildren, nil
	}
	return ast.WalkContinue, nil
}

func (w *mdWriter) headingLineHt() float64 {
	return w.lineHt * w.curPt / w.sizePt
}

// beginHeading moves to a new page when the heading and the first line
// after it would not fit on the current one.
func (w *mdWriter) beginHeading(n *ast.Heading) {
	f := w.f
	w.newLine()
	w.curPt = w.sizePt * headingScale[min(max(n.Level, 1), 6)]
	w.bold++
	w.applyFont()

	sc, err := f.Scratch(f.wUnit - f.lMargin - f.rMargin)
	if err != nil {
		return
	}
	sc.Text(w.headingLineHt(), f.translate(plainText(n, w.src)))
	need := sc.Y() + w.headingLineHt() + w.lineHt/2 + w.lineHt
	if f.autoPageBreak && !f.inHeader && !f.inFooter &&
		f.y > f.tMargin && f.y+need > f.pageBreakTrigger && f.acceptPageBreak() {
		f.AddPageFormat(f.curOrientation, f.curPageSize)
	}
}

func (w *mdWriter) beginItem() {
	f := w.f
	w.newLine()
	list := &w.lists[len(w.lists)-1]
	marker := f.translate("•")
	if marker == "." {
		marker = "-"
	}
	if list.ordered {
		marker = strconv.Itoa(list.next) + "."
		list.next++
	}
	x := f.lMargin
	w.pushMargin(x + w.indent)
	f.SetX(x)
	f.Write(w.lineHt, marker)
	f.SetX(f.lMargin)
}

func (w *mdWriter) codeBlock(lines *text.Segments) {
	f := w.f
	var buf bytes.Buffer
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		buf.Write(seg.Value(w.src))
	}
	w.newLine()

	fr, fg, fb := f.GetFillColor()
	f.SetFillColor(240, 240, 240)
	w.code++
	w.applyFont()
	f.MultiCell(0, w.lineHt, f.translate(strings.TrimRight(buf.String(), "\n")), "", AlignLeft, true)
	w.code--
	w.applyFont()
	f.SetFillColor(fr, fg, fb)
	f.Ln(w.lineHt / 2)
}

// plainText concatenates the text below n.
func plainText(n ast.Node, src []byte) string {
	var b strings.Builder
	ast.Walk(n, func(c ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch c := c.(type) {
		case *ast.Text:
			b.Write(c.Segment.Value(src))
			if c.SoftLineBreak() {
				b.WriteByte(' ')
			}
		case *ast.String:
			b.Write(c.Value)
		}
		return ast.WalkContinue, nil
	})
	return b.String()
}
