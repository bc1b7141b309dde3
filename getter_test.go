// Copyright ©2025 The go-pdf Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package quire_test

import (
	"errors"
	"io"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/kofi-q/quire"
	"github.com/stretchr/testify/require"
)

const floatTolerance = 1e-9

func floatEqual(a, b float64) bool {
	return math.Abs(a-b) <= floatTolerance
}

func TestGetAuthor(t *testing.T) {
	pdf := quire.New("P", "mm", "A4", "")
	pdf.SetAuthor("John Doe", false)

	if got, want := pdf.GetAuthor(), "John Doe"; got != want {
		t.Errorf("invalid author: got=%v, want=%v", got, want)
	}

	pdf.SetAuthor("Zoë", true)
	require.Equal(t, "\xfe\xff\x00Z\x00o\x00\xeb", pdf.GetAuthor())
}

func TestGetAutoPageBreak(t *testing.T) {
	pdf := quire.New("P", "mm", "A4", "")

	autoPageBreak, margin := pdf.GetAutoPageBreak()
	require.True(t, autoPageBreak)
	require.InDelta(t, 2*28.35/(72/25.4), margin, floatTolerance)

	pdf.SetAutoPageBreak(false, 10)

	autoPageBreak, margin = pdf.GetAutoPageBreak()
	if got, want := autoPageBreak, false; got != want {
		t.Errorf("invalid autoPageBreak: got=%v, want=%v", got, want)
	}
	if got, want := margin, 10.0; !floatEqual(got, want) {
		t.Errorf("invalid margin: got=%v, want=%v", got, want)
	}
}

func TestGetCellMargin(t *testing.T) {
	pdf := quire.New("P", "mm", "A4", "")
	require.InDelta(t, 28.35/(72/25.4)/10, pdf.GetCellMargin(), floatTolerance)

	pdf.SetCellMargin(6)

	if got, want := pdf.GetCellMargin(), 6.0; !floatEqual(got, want) {
		t.Errorf("invalid cellMargin: got=%v, want=%v", got, want)
	}
}

func TestGetCompression(t *testing.T) {
	pdf := quire.New("P", "mm", "A4", "")
	require.True(t, pdf.GetCompression())

	pdf.SetCompression(false)

	if got, want := pdf.GetCompression(), false; got != want {
		t.Errorf("invalid compression: got=%v, want=%v", got, want)
	}
}

func TestGetConversionRatio(t *testing.T) {
	for _, tc := range []struct {
		unit string
		want float64
	}{
		{"pt", 1},
		{"mm", 72 / 25.4},
		{"cm", 72 / 2.54},
		{"in", 72},
		{"inch", 72},
	} {
		t.Run(tc.unit, func(t *testing.T) {
			pdf := quire.New("P", tc.unit, "A4", "")
			require.NoError(t, pdf.Error())
			require.InDelta(t, tc.want, pdf.GetConversionRatio(), floatTolerance)
		})
	}
}

func TestGetCreationDate(t *testing.T) {
	setDate, _ := time.Parse(time.RFC3339, "2003-06-17T01:23:45Z")
	pdf := quire.New("P", "mm", "A4", "")
	pdf.SetCreationDate(setDate)

	if got, want := pdf.GetCreationDate(), setDate; !got.Equal(want) {
		t.Errorf("invalid creationDate: got=%v, want=%v", got, want)
	}
}

func TestGetDisplayMode(t *testing.T) {
	pdf := quire.New("P", "mm", "A4", "")

	zoom, layout := pdf.GetDisplayMode()
	require.Equal(t, "default", zoom)
	require.Equal(t, "default", layout)

	pdf.SetDisplayMode("real", "OneColumn")

	zoom, layout = pdf.GetDisplayMode()
	if got, want := zoom, "real"; got != want {
		t.Errorf("invalid zoom: got=%v, want=%v", got, want)
	}
	if got, want := layout, "OneColumn"; got != want {
		t.Errorf("invalid layout: got=%v, want=%v", got, want)
	}

	pdf.SetDisplayMode("sideways", "")
	require.ErrorIs(t, pdf.Error(), quire.ErrConfiguration)
}

func TestGetColors(t *testing.T) {
	pdf := quire.New("P", "mm", "A4", "")
	pdf.SetDrawColor(134, 26, 34)
	pdf.SetFillColor(255, 203, 0)
	pdf.SetTextColor(300, -4, 17)

	r, g, b := pdf.GetDrawColor()
	require.Equal(t, []int{134, 26, 34}, []int{r, g, b})

	r, g, b = pdf.GetFillColor()
	require.Equal(t, []int{255, 203, 0}, []int{r, g, b})

	r, g, b = pdf.GetTextColor()
	require.Equal(t, []int{255, 0, 17}, []int{r, g, b}, "components are clamped")
}

type testFontLoader struct {
	reader io.Reader
	err    error
}

func (tfl *testFontLoader) Open(name string) (io.Reader, error) {
	return tfl.reader, tfl.err
}

func TestGetFontLoader(t *testing.T) {
	testErr := errors.New("TestGetFontLoader error")
	tfl := &testFontLoader{
		reader: strings.NewReader("TestGetFontLoader reader"),
		err:    testErr,
	}

	pdf := quire.New("P", "mm", "A4", "")
	pdf.SetFontLoader(tfl)

	reader, err := pdf.GetFontLoader().Open("test")
	require.NotNil(t, reader)
	require.Equal(t, testErr, err)

	read, err := io.ReadAll(reader)
	require.NoError(t, err)
	require.Equal(t, "TestGetFontLoader reader", string(read))
}

func TestGetFontLocation(t *testing.T) {
	pdf := quire.New("P", "mm", "A4", "")
	pdf.SetFontLocation("test-font-location")

	if got, want := pdf.GetFontLocation(), "test-font-location"; got != want {
		t.Errorf("invalid fontLocation: got=%v, want=%v", got, want)
	}
}

func TestGetFontSize(t *testing.T) {
	pdf := quire.New("P", "mm", "A4", "")
	pdf.SetFontSize(19)

	ptSize, unitSize := pdf.GetFontSize()
	require.InDelta(t, 19.0, ptSize, floatTolerance)
	require.InDelta(t, 19.0/(72/25.4), unitSize, floatTolerance)

	pdf.SetFontUnitSize(246)

	_, unitSize = pdf.GetFontSize()
	if got, want := unitSize, 246.0; !floatEqual(got, want) {
		t.Errorf("invalid unitSize: got=%v, want=%v", got, want)
	}
}

func TestGetFontStyle(t *testing.T) {
	pdf := quire.New("P", "mm", "A4", "")
	pdf.SetFont("Arial", "ibu", 12)
	require.NoError(t, pdf.Error())

	require.Equal(t, "BIU", pdf.GetFontStyle())
	require.Equal(t, "helvetica", pdf.GetFontFamily())
}

func TestGetJavascript(t *testing.T) {
	const want = `app.alert("quire");`
	pdf := quire.New("P", "mm", "A4", "")

	require.Equal(t, "", pdf.GetJavascript())

	pdf.SetJavascript(want)
	require.NoError(t, pdf.Error())
	require.Equal(t, want, pdf.GetJavascript())

	pdf.SetJavascript("")
	require.Equal(t, "", pdf.GetJavascript())

	pdf.SetJavascript(`<script>console.log('x')</script>`)
	require.ErrorIs(t, pdf.Error(), quire.ErrConfiguration)
}

func TestGetMetadata(t *testing.T) {
	pdf := quire.New("P", "mm", "A4", "")
	pdf.SetCreator("creator", false)
	pdf.SetKeywords("invoice August", false)
	pdf.SetProducer("producer", false)
	pdf.SetSubject("subject", false)
	pdf.SetTitle("title", false)

	require.Equal(t, "creator", pdf.GetCreator())
	require.Equal(t, "invoice August", pdf.GetKeywords())
	require.Equal(t, "producer", pdf.GetProducer())
	require.Equal(t, "subject", pdf.GetSubject())
	require.Equal(t, "title", pdf.GetTitle())
}

func TestGetLang(t *testing.T) {
	pdf := quire.New("P", "mm", "A4", "")
	pdf.SetLang("de-ch")

	if got, want := pdf.GetLang(), "de-CH"; got != want {
		t.Errorf("invalid lang: got=%v, want=%v", got, want)
	}

	pdf.SetLang("not a tag!")
	require.ErrorIs(t, pdf.Error(), quire.ErrConfiguration)
}

func TestGetLineWidth(t *testing.T) {
	pdf := quire.New("P", "mm", "A4", "")
	require.InDelta(t, 0.567/(72/25.4), pdf.GetLineWidth(), floatTolerance)

	pdf.SetLineWidth(42)

	if got, want := pdf.GetLineWidth(), 42.0; !floatEqual(got, want) {
		t.Errorf("invalid lineWidth: got=%v, want=%v", got, want)
	}
}

func TestGetMargins(t *testing.T) {
	pdf := quire.New("P", "mm", "A4", "")
	pdf.SetMargins(17, 6, 3)
	pdf.SetAutoPageBreak(true, 3.14)

	left, top, right, bottom := pdf.GetMargins()

	if got, want := left, 17.0; !floatEqual(got, want) {
		t.Errorf("invalid left margin: got=%v, want=%v", got, want)
	}
	if got, want := top, 6.0; !floatEqual(got, want) {
		t.Errorf("invalid top margin: got=%v, want=%v", got, want)
	}
	if got, want := right, 3.0; !floatEqual(got, want) {
		t.Errorf("invalid right margin: got=%v, want=%v", got, want)
	}
	if got, want := bottom, 3.14; !floatEqual(got, want) {
		t.Errorf("invalid bottom margin: got=%v, want=%v", got, want)
	}

	pdf.SetMargins(5, 5, -1)
	_, _, right, _ = pdf.GetMargins()
	require.InDelta(t, 5.0, right, floatTolerance, "a negative right margin mirrors the left")
}

func TestGetPageSize(t *testing.T) {
	pdf := quire.New("P", "pt", "A4", "")

	pageWidth, pageHeight := pdf.GetPageSize()

	if got, want := pageWidth, 595.28; !floatEqual(got, want) {
		t.Errorf("invalid pageWidth: got=%v, want=%v", got, want)
	}
	if got, want := pageHeight, 841.89; !floatEqual(got, want) {
		t.Errorf("invalid pageHeight: got=%v, want=%v", got, want)
	}

	pdf = quire.New("L", "pt", "Letter", "")
	pageWidth, pageHeight = pdf.GetPageSize()
	require.InDelta(t, 792.0, pageWidth, floatTolerance)
	require.InDelta(t, 612.0, pageHeight, floatTolerance)
}

func TestGetXY(t *testing.T) {
	pdf := quire.New("P", "mm", "A4", "")
	pdf.SetXY(42, 4.13)

	x, y := pdf.GetXY()

	if got, want := x, 42.0; !floatEqual(got, want) {
		t.Errorf("invalid x coordinate: got=%v, want=%v", got, want)
	}
	if got, want := y, 4.13; !floatEqual(got, want) {
		t.Errorf("invalid y coordinate: got=%v, want=%v", got, want)
	}

	pdf.SetX(-10)
	require.InDelta(t, 200.0, pdf.GetX(), 0.01, "negative x is measured from the right edge")
}
