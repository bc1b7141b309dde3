// Copyright ©2023 The go-pdf Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package quire_test

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"regexp"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/kofi-q/quire"
)

// newDoc returns an uncompressed document with a fixed creation date so the
// output can be inspected as text.
func newDoc(unit string) *quire.Quire {
	pdf := quire.New("P", unit, "A4", "")
	pdf.SetCompression(false)
	pdf.SetCreationDate(time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC))
	return pdf
}

// render closes pdf and checks that every cross-reference entry points at
// the object it names. It returns the document and its object count.
func render(t *testing.T, pdf *quire.Quire) (doc string, size int) {
	t.Helper()
	out, err := pdf.Bytes()
	require.NoError(t, err)
	doc = string(out)

	i := strings.LastIndex(doc, "startxref\n")
	require.GreaterOrEqual(t, i, 0, "no startxref")
	offStr, _, _ := strings.Cut(doc[i+len("startxref\n"):], "\n")
	off, err := strconv.Atoi(offStr)
	require.NoError(t, err)

	lines := strings.Split(doc[off:], "\n")
	require.Equal(t, "xref", lines[0])
	_, err = fmt.Sscanf(lines[1], "0 %d", &size)
	require.NoError(t, err)
	require.Equal(t, "0000000000 65535 f ", lines[2])
	for id := 1; id < size; id++ {
		entry := lines[2+id]
		require.Len(t, entry, 19)
		o, err := strconv.Atoi(entry[:10])
		require.NoError(t, err)
		require.Truef(t,
			strings.HasPrefix(doc[o:], fmt.Sprintf("%d 0 obj\n", id)),
			"xref entry %d points at %q", id, doc[o:min(o+20, len(doc))],
		)
	}
	require.Contains(t, doc, fmt.Sprintf(
		"trailer\n<<\n/Size %d\n/Root %d 0 R\n/Info %d 0 R\n>>", size, size-1, size-2,
	))
	require.True(t, strings.HasSuffix(doc, "%%EOF\n"))
	return doc, size
}

func TestOutputMinimal(t *testing.T) {
	pdf := newDoc("pt")
	pdf.AddPage()
	doc, size := render(t, pdf)

	require.True(t, strings.HasPrefix(doc, "%PDF-1.3\n"))
	// Page, its contents, pages root, resources, info and catalog.
	require.Equal(t, 7, size)
	require.Contains(t, doc, "3 0 obj\n<</Type /Page\n/Parent 1 0 R\n")
	require.Contains(t, doc, "/Contents 4 0 R>>")
	require.Contains(t, doc, "/Kids [3 0 R ]\n/Count 1\n/MediaBox [0 0 595.28 841.89]")
	require.Contains(t, doc, "/CreationDate (D:20240102030405)")
	require.Contains(t, doc, "/Producer (quire ")
	require.Contains(t, doc, "6 0 obj\n<<\n/Type /Catalog\n/Pages 1 0 R\n")
	require.NotContains(t, doc, "/Group")
}

func TestOutputEmptyDocumentGetsPage(t *testing.T) {
	pdf := newDoc("mm")
	doc, _ := render(t, pdf)
	require.Equal(t, 1, pdf.PageCount())
	require.Contains(t, doc, "/Count 1")
}

func TestOutputPageOrdering(t *testing.T) {
	pdf := newDoc("mm")
	pdf.AddPage()
	pdf.AddPageFormat("L", quire.SizeType{Wd: 50, Ht: 100})
	pdf.AddPage()
	doc, size := render(t, pdf)

	require.Equal(t, 11, size)
	require.Contains(t, doc, "/Kids [3 0 R 5 0 R 7 0 R ]\n/Count 3")
	// Only the odd-sized page carries its own media box.
	require.Equal(t, 2, strings.Count(doc, "/MediaBox"))
	require.Contains(t, doc, "5 0 obj\n<</Type /Page\n/Parent 1 0 R\n/MediaBox [0 0 283.46 141.73]")
}

func TestOutputCompression(t *testing.T) {
	pdf := quire.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(40, 10, "compressed")
	out, err := pdf.Bytes()
	require.NoError(t, err)
	require.Contains(t, string(out), "/Filter /FlateDecode")
	require.NotContains(t, string(out), "(compressed) Tj")
}

func TestOutputMetadata(t *testing.T) {
	pdf := newDoc("mm")
	pdf.SetTitle("Report (draft)", false)
	pdf.SetAuthor("Ada", false)
	pdf.SetSubject("Tests", false)
	pdf.SetKeywords("pdf go", false)
	pdf.SetCreator("quire tests", false)
	pdf.SetProducer("producer", false)
	doc, _ := render(t, pdf)

	for _, want := range []string{
		`/Title (Report \(draft\))`,
		"/Author (Ada)",
		"/Subject (Tests)",
		"/Keywords (pdf go)",
		"/Creator (quire tests)",
		"/Producer (producer)",
	} {
		require.Contains(t, doc, want)
	}
}

func TestOutputDisplayMode(t *testing.T) {
	for _, tc := range []struct {
		zoom, layout string
		want         []string
	}{
		{"fullpage", "two", []string{"/OpenAction [3 0 R /Fit]", "/PageLayout /TwoColumnLeft"}},
		{"fullwidth", "single", []string{"/OpenAction [3 0 R /FitH null]", "/PageLayout /SinglePage"}},
		{"real", "continuous", []string{"/OpenAction [3 0 R /XYZ null null 1]", "/PageLayout /OneColumn"}},
		{"150", "TwoPageRight", []string{"/OpenAction [3 0 R /XYZ null null 1.50]", "/PageLayout /TwoPageRight"}},
	} {
		t.Run(tc.zoom, func(t *testing.T) {
			pdf := newDoc("mm")
			pdf.SetDisplayMode(tc.zoom, tc.layout)
			doc, _ := render(t, pdf)
			for _, want := range tc.want {
				require.Contains(t, doc, want)
			}
		})
	}
}

func TestOutputClosedDocument(t *testing.T) {
	pdf := newDoc("mm")
	pdf.AddPage()
	first, err := pdf.Bytes()
	require.NoError(t, err)

	pdf.Close()
	again, err := pdf.Bytes()
	require.NoError(t, err)
	require.Equal(t, first, again)

	var buf bytes.Buffer
	require.NoError(t, pdf.Output(&buf))
	require.Equal(t, first, buf.Bytes())

	pdf.AddPage()
	require.ErrorIs(t, pdf.Error(), quire.ErrState)
}

type failWriter struct{}

func (failWriter) Write([]byte) (int, error) {
	return 0, errors.New("disk full")
}

func TestOutputWriteError(t *testing.T) {
	pdf := newDoc("mm")
	err := pdf.Output(failWriter{})
	require.ErrorIs(t, err, quire.ErrOutput)
	require.ErrorContains(t, err, "disk full")
}

func TestOutputLinks(t *testing.T) {
	pdf := newDoc("pt")
	pdf.SetFont("Helvetica", "", 12)
	pdf.AddPage()
	link := pdf.AddLink()
	pdf.CellFormat(100, 20, "jump", "", 1, "L", false, link, "")
	pdf.WriteLinkString(20, "site", "https://example.com/a(b)")
	pdf.AddPage()
	pdf.SetLink(link, 100, -1)
	doc, _ := render(t, pdf)

	require.Contains(t, doc, "/Annots [<</Type /Annot /Subtype /Link")
	// The second page is object 5; y is measured from the top of the page.
	require.Contains(t, doc, "/Dest [5 0 R /XYZ 0 741.89 null]>>")
	require.Contains(t, doc, `/A <</S /URI /URI (https://example.com/a\(b\))>>>>`)
}

func TestOutputLinkWithoutDestination(t *testing.T) {
	pdf := newDoc("mm")
	pdf.SetFont("Helvetica", "", 12)
	pdf.AddPage()
	link := pdf.AddLink()
	pdf.Link(10, 10, 30, 10, link)
	_, err := pdf.Bytes()
	require.ErrorIs(t, err, quire.ErrEncoding)
}

func TestOutputLinkPastLastPage(t *testing.T) {
	pdf := newDoc("mm")
	pdf.SetFont("Helvetica", "", 12)
	pdf.AddPage()
	link := pdf.AddLink()
	pdf.Link(10, 10, 30, 10, link)
	pdf.SetLink(link, 0, 5)
	require.NoError(t, pdf.Error())
	out, err := pdf.Bytes()
	require.ErrorIs(t, err, quire.ErrEncoding)
	require.ErrorContains(t, err, "page 5 of 1")
	require.Nil(t, out)
}

func TestOutputUnknownLink(t *testing.T) {
	pdf := newDoc("mm")
	pdf.SetLink(3, 0, 1)
	require.ErrorIs(t, pdf.Error(), quire.ErrState)
}

func TestOutputJavascript(t *testing.T) {
	pdf := newDoc("mm")
	pdf.SetJavascript("print('hello');")
	doc, _ := render(t, pdf)

	m := regexp.MustCompile(`/Names <</JavaScript (\d+) 0 R>>`).FindStringSubmatch(doc)
	require.NotNil(t, m)
	require.Contains(t, doc, m[1]+" 0 obj\n<</Names [(EmbeddedJS) ")
	require.Contains(t, doc, `<</S /JavaScript /JS (print\('hello'\);)>>`)
}

func TestOutputJavascriptSyntaxError(t *testing.T) {
	pdf := newDoc("mm")
	pdf.SetJavascript("function (")
	require.ErrorIs(t, pdf.Error(), quire.ErrConfiguration)
}

func TestOutputLang(t *testing.T) {
	pdf := newDoc("mm")
	pdf.SetLang("en-gb")
	doc, _ := render(t, pdf)
	require.Contains(t, doc, "/Lang (en-GB)")
}

func TestOutputLayers(t *testing.T) {
	pdf := newDoc("mm")
	pdf.SetFont("Helvetica", "", 12)
	top := pdf.AddLayer("Top", true)
	hidden := pdf.AddLayer("Hidden", false)
	pdf.OpenLayerPane()
	pdf.AddPage()
	pdf.BeginLayer(top)
	pdf.Cell(20, 10, "top")
	pdf.BeginLayer(hidden)
	pdf.Cell(20, 10, "hidden")
	pdf.EndLayer()
	doc, _ := render(t, pdf)

	require.True(t, strings.HasPrefix(doc, "%PDF-1.5\n"))
	require.Contains(t, doc, "/OC /OC0 BDC\n")
	require.Contains(t, doc, "EMC\n/OC /OC1 BDC\n")
	require.Contains(t, doc, "/PageMode /UseOC")

	m := regexp.MustCompile(`/OCProperties <</OCGs \[(\d+) 0 R (\d+) 0 R \] /D <</OFF \[(\d+) 0 R \]`).
		FindStringSubmatch(doc)
	require.NotNil(t, m)
	require.Equal(t, m[2], m[3])
	require.Contains(t, doc, "/Properties <<\n/OC0 "+m[1]+" 0 R\n/OC1 "+m[2]+" 0 R\n>>")
	require.Contains(t, doc, "<</Type /OCG /Name (\xfe\xff\x00T\x00o\x00p)>>")
}

func TestOutputUnknownLayer(t *testing.T) {
	pdf := newDoc("mm")
	pdf.AddPage()
	pdf.BeginLayer(2)
	require.ErrorIs(t, pdf.Error(), quire.ErrState)
}

func TestOutputCoreFonts(t *testing.T) {
	pdf := newDoc("mm")
	pdf.AddPage()
	pdf.SetFont("Arial", "B", 12)
	pdf.Cell(20, 10, "a")
	pdf.SetFont("Times", "I", 12)
	pdf.Cell(20, 10, "b")
	doc, _ := render(t, pdf)

	require.Contains(t, doc, "/BaseFont /Helvetica-Bold\n/Subtype /Type1\n/Encoding /WinAnsiEncoding")
	require.Contains(t, doc, "/BaseFont /Times-Italic")
	require.Contains(t, doc, "/Font <<\n/F1 ")
	require.Contains(t, doc, "BT /F1 12.00 Tf ET")
}

func TestOutputTrueTypeFont(t *testing.T) {
	for _, subset := range []bool{false, true} {
		t.Run(fmt.Sprint("subset=", subset), func(t *testing.T) {
			pdf := newDoc("mm")
			pdf.SetFontSubsetting(subset)
			pdf.AddTrueTypeFont("go", "", goregular.TTF, "")
			// A second registration of the same family and style is
			// ignored.
			pdf.AddTrueTypeFont("Go", "", goregular.TTF, "")
			pdf.AddPage()
			pdf.SetFont("go", "", 14)
			pdf.Cell(40, 10, "Hello")
			doc, _ := render(t, pdf)

			require.Equal(t, 1, strings.Count(doc, "/Subtype /TrueType"))
			require.Equal(t, 1, strings.Count(doc, "/FontFile2 "))
			require.Contains(t, doc, "/FirstChar 32 /LastChar 255")

			tagged := regexp.MustCompile(`/BaseFont /[A-Z]{6}\+`).MatchString(doc)
			require.Equal(t, subset, tagged)

			m := regexp.MustCompile(`/Length (\d+)\n/Length1 (\d+)\n>>`).FindStringSubmatch(doc)
			require.NotNil(t, m)
			require.Equal(t, m[1], m[2])
			if !subset {
				require.Equal(t, strconv.Itoa(len(goregular.TTF)), m[1])
			} else {
				n, err := strconv.Atoi(m[1])
				require.NoError(t, err)
				require.Less(t, n, len(goregular.TTF))
			}
		})
	}
}

func TestOutputMissingFontFile(t *testing.T) {
	pdf := newDoc("mm")
	pdf.SetFontLocation(t.TempDir())
	pdf.AddFontFromReader("ghost", "", strings.NewReader(`{
		"Tp": "TrueType",
		"Name": "Ghost",
		"Desc": {"Ascent": 700, "Descent": -200},
		"Up": -100,
		"Ut": 50,
		"Cw": [`+strings.TrimSuffix(strings.Repeat("500,", 256), ",")+`],
		"File": "ghost.ttf",
		"OriginalSize": 10
	}`))
	require.NoError(t, pdf.Error())
	pdf.AddPage()
	pdf.SetFont("ghost", "", 12)
	pdf.Cell(10, 10, "x")
	_, err := pdf.Bytes()
	require.ErrorIs(t, err, quire.ErrEncoding)
}

// type1Def returns a Type1 font definition with a custom encoding.
func type1Def(name, file, diff string, size1, size2 int) []byte {
	return []byte(fmt.Sprintf(`{
		"Tp": "Type1",
		"Name": %q,
		"Desc": {"Ascent": 718, "Descent": -207, "Flags": 32, "StemV": 88},
		"Up": -100,
		"Ut": 50,
		"Cw": [%s],
		"Diff": %q,
		"File": %q,
		"Size1": %d,
		"Size2": %d
	}`, name, strings.TrimSuffix(strings.Repeat("500,", 256), ","), diff, file, size1, size2))
}

// pfb wraps the clear-text and binary portions of a Type1 program in PFB
// segment headers.
func pfb(ascii, binary []byte) []byte {
	var out []byte
	out = append(out, 0x80, 1, byte(len(ascii)), 0, 0, 0)
	out = append(out, ascii...)
	out = append(out, 0x80, 2, byte(len(binary)), 0, 0, 0)
	out = append(out, binary...)
	return append(out, 0x80, 3)
}

func TestOutputType1Fonts(t *testing.T) {
	ascii := []byte("%!PS-AdobeFont-1.0: Sample")
	binary := []byte{1, 2, 3, 4}

	pdf := newDoc("mm")
	pdf.AddFontFromBytes("sample", "",
		type1Def("Sample", "sample.pfb", "128 /Euro 138 /Scaron", len(ascii), len(binary)),
		pfb(ascii, binary))
	pdf.AddFontFromBytes("sample", "B",
		type1Def("Sample-Bold", "sampleb.pfb", "128 /Euro\n138   /Scaron", len(ascii), len(binary)),
		pfb(ascii, binary))
	// Already registered; neither definition nor program is replaced.
	pdf.AddFontFromBytes("Sample", "",
		type1Def("Other", "other.pfb", "", len(ascii), len(binary)),
		pfb(ascii, binary))
	require.NoError(t, pdf.Error())

	pdf.AddPage()
	pdf.SetFont("sample", "", 12)
	pdf.Cell(20, 10, "a")
	pdf.SetFont("sample", "B", 12)
	pdf.Cell(20, 10, "b")
	doc, _ := render(t, pdf)

	// Both fonts share one encoding object.
	require.Equal(t, 1, strings.Count(doc, "/Type /Encoding"))
	require.Contains(t, doc, "/Differences [128 /Euro 138 /Scaron]")
	refs := regexp.MustCompile(`/Encoding (\d+) 0 R`).FindAllStringSubmatch(doc, -1)
	require.Len(t, refs, 2)
	require.Equal(t, refs[0][1], refs[1][1])

	require.Equal(t, 2, strings.Count(doc, "/Subtype /Type1\n/FirstChar 32"))
	require.NotContains(t, doc, "/BaseFont /Other")
	require.Equal(t, 2, strings.Count(doc, "/FontFile "))

	// The PFB segment headers are stripped from the embedded program.
	program := string(ascii) + string(binary)
	require.Equal(t, 2, strings.Count(doc,
		fmt.Sprintf("<</Length %d\n/Length1 %d\n/Length2 %d /Length3 0\n>>\nstream\n%s\nendstream",
			len(program), len(ascii), len(binary), program)))
}

func TestOutputType1Truncated(t *testing.T) {
	pdf := newDoc("mm")
	pdf.AddFontFromBytes("sample", "",
		type1Def("Sample", "sample.pfb", "", 40, 40),
		pfb([]byte("%!PS"), []byte{1}))
	pdf.AddPage()
	pdf.SetFont("sample", "", 12)
	_, err := pdf.Bytes()
	require.ErrorIs(t, err, quire.ErrEncoding)
}

func TestOutputFontDefinitionWithoutFile(t *testing.T) {
	pdf := newDoc("mm")
	pdf.AddFontFromBytes("sample", "", type1Def("Sample", "", "", 0, 0), []byte{0x80})
	require.ErrorIs(t, pdf.Error(), quire.ErrFontLoad)
}

func TestUnicodeTranslatorMissingMap(t *testing.T) {
	pdf := newDoc("mm")
	pdf.SetFontLocation(t.TempDir())
	tr := pdf.UnicodeTranslatorFromDescriptor("nosuchpage")
	require.Equal(t, "abc", tr("abc"))
	require.ErrorIs(t, pdf.Error(), quire.ErrFontLoad)
	require.ErrorIs(t, pdf.Error(), fs.ErrNotExist)
}

func TestOutputTransformLeftOpen(t *testing.T) {
	pdf := newDoc("mm")
	pdf.AddPage()
	pdf.TransformBegin()
	pdf.TransformRotate(30, 50, 50)
	_, err := pdf.Bytes()
	require.ErrorIs(t, err, quire.ErrState)
}

func TestOutputTransform(t *testing.T) {
	pdf := newDoc("pt")
	pdf.AddPage()
	pdf.TransformBegin()
	pdf.TransformTranslate(10, 20)
	pdf.TransformEnd()
	doc, _ := render(t, pdf)
	require.Contains(t, doc, "q\n1.00000 0.00000 0.00000 1.00000 10.00000 -20.00000 cm\nQ\n")
}
