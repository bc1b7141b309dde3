// Copyright ©2023 The go-pdf Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package quire_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kofi-q/quire"
)

const sampleMarkdown = `# Release notes

Some *emphasis*, some **strong** text and a ` + "`code span`" + `.
A second line in the same paragraph.

## Changes

- first item
- second item with [a link](https://example.com/notes)

1. one
2. two

> quoted text

` + "```" + `
func main() {}
` + "```" + `

---

<div>raw html is skipped</div>

![missing](nowhere.png)
`

func TestWriteMarkdown(t *testing.T) {
	pdf := newDoc("mm")
	pdf.SetFont("Helvetica", "", 11)
	pdf.SetTextColor(10, 20, 30)
	pdf.AddPage()
	left, _, _, _ := pdf.GetMargins()

	pdf.WriteMarkdown(5, []byte(sampleMarkdown))
	require.NoError(t, pdf.Error())

	// The document's own state is restored afterwards.
	require.Equal(t, "helvetica", pdf.GetFontFamily())
	require.Equal(t, "", pdf.GetFontStyle())
	size, _ := pdf.GetFontSize()
	require.Equal(t, 11.0, size)
	l, _, _, _ := pdf.GetMargins()
	require.Equal(t, left, l)
	r, g, b := pdf.GetTextColor()
	require.Equal(t, []int{10, 20, 30}, []int{r, g, b})

	doc, _ := render(t, pdf)
	for _, want := range []string{
		"(Release notes) Tj",
		"/BaseFont /Helvetica-Bold",
		"/BaseFont /Helvetica-Oblique",
		"/BaseFont /Courier\n",
		"(first item) Tj",
		"(1.) Tj",
		"(2.) Tj",
		"(func main\\(\\) {}) Tj",
		"/URI (https://example.com/notes)",
		"(missing) Tj",
	} {
		require.Contains(t, doc, want)
	}
	require.NotContains(t, doc, "raw html")
	require.NotContains(t, doc, "<div>")
}

func TestWriteMarkdownHeadingKeepsWithText(t *testing.T) {
	pdf := newDoc("mm")
	pdf.SetFont("Helvetica", "", 11)
	pdf.AddPage()
	_, h := pdf.GetPageSize()
	_, bottom := pdf.GetAutoPageBreak()
	pdf.SetY(h - bottom - 8)

	pdf.WriteMarkdown(5, []byte("# Heading\n\nbody\n"))
	require.NoError(t, pdf.Error())
	require.Equal(t, 2, pdf.PageNo())

	doc, _ := render(t, pdf)
	pages := strings.Split(doc, "/Type /Page\n")
	require.Len(t, pages, 3)
	require.Contains(t, pages[2], "(Heading) Tj")
}

func TestWriteMarkdownImage(t *testing.T) {
	pdf := newDoc("mm")
	pdf.SetFont("Helvetica", "", 11)
	pdf.AddPage()
	pdf.RegisterImageReader("dot.png", "", bytes.NewReader(encodePNG(t, opaqueImage())))

	pdf.WriteMarkdown(5, []byte("before\n\n![dot](dot.png)\n\nafter\n"))
	require.NoError(t, pdf.Error())
	doc, _ := render(t, pdf)
	require.Contains(t, doc, "/I1 Do Q")
	require.NotContains(t, doc, "(dot) Tj")
}

func TestWriteMarkdownWithoutFont(t *testing.T) {
	pdf := newDoc("mm")
	pdf.AddPage()
	pdf.WriteMarkdown(5, []byte("text"))
	require.ErrorIs(t, pdf.Error(), quire.ErrUndefinedFont)
}

func TestHTMLBasic(t *testing.T) {
	pdf := newDoc("mm")
	pdf.SetFont("Helvetica", "", 12)
	pdf.AddPage()

	html := pdf.HTMLBasicNew()
	html.Write(6, `Plain <b>bold</b> <i>italic</i> <u>under</u>
		<a href="https://example.com">linked</a><br>
		<center>middle</center>
		<h1>Big</h1>
		<p>para</p><hr>`)
	require.NoError(t, pdf.Error())
	require.Equal(t, "", pdf.GetFontStyle())
	size, _ := pdf.GetFontSize()
	require.Equal(t, 12.0, size)

	doc, _ := render(t, pdf)
	for _, want := range []string{
		"(Plain ) Tj",
		"(bold) Tj",
		"/BaseFont /Helvetica-Bold",
		"/BaseFont /Helvetica-Oblique",
		"/URI (https://example.com)",
		"0.000 0.000 0.502 rg",
		"(middle) Tj",
		"(Big) Tj",
		"BT /F2 24.00 Tf ET",
		"(para) Tj",
	} {
		require.Contains(t, doc, want)
	}
}

func TestHTMLLinkStyle(t *testing.T) {
	pdf := newDoc("mm")
	pdf.SetFont("Helvetica", "", 12)
	pdf.AddPage()

	html := pdf.HTMLBasicNew()
	html.Link.ClrR, html.Link.ClrG, html.Link.ClrB = 255, 0, 0
	html.Link.Bold = true
	html.Link.Underscore = false
	html.Write(6, `<a href="https://example.com">here</a> there`)
	require.NoError(t, pdf.Error())

	doc, _ := render(t, pdf)
	require.Contains(t, doc, "q 1.000 0.000 0.000 rg BT")
	require.Contains(t, doc, "/BaseFont /Helvetica-Bold")
	require.Contains(t, doc, "( there) Tj")
	require.NotContains(t, doc, " re f\n")
}
