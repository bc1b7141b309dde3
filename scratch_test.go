// Copyright ©2023 The go-pdf Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package quire_test

import (
	"testing"

	"github.com/kofi-q/quire"
	"github.com/stretchr/testify/require"
)

func TestScratchInit(t *testing.T) {
	doc := quire.New("P", "pt", "letter", "")

	_, err := doc.Scratch(42)
	require.ErrorIs(t, err, quire.ErrUndefinedFont)

	doc.SetFont("Helvetica", quire.FontStyleNone, 12)

	scratch, err := doc.Scratch(42)
	require.NoError(t, err)

	x, y := scratch.Xy()
	require.Equal(t, 0.0, x)
	require.Equal(t, 0.0, y)
}

func TestScratchSimpleText(t *testing.T) {
	doc := quire.New("P", "pt", "letter", "")

	doc.SetFont("Helvetica", quire.FontStyleNone, 12)
	scratch, err := doc.Scratch(doc.GetStringWidth("The quick, brown fox"))
	require.NoError(t, err)

	scratch.Text(15, "The quick, ")
	require.Equal(t, doc.GetStringWidth("The quick, "), scratch.X())
	require.Equal(t, 0.0, scratch.Y())

	scratch.Text(15, "brown fox")
	require.Equal(t, doc.GetStringWidth("The quick, brown fox"), scratch.X())
	require.Equal(t, 0.0, scratch.Y())

	lines := scratch.Text(15, ".")
	require.Equal(t, []string{"", "."}, lines)
	require.Equal(t, doc.GetStringWidth("fox."), scratch.X())
	require.Equal(t, 15.0, scratch.Y())

	scratch.Text(15, "\n")
	require.Equal(t, 0.0, scratch.X())
	require.Equal(t, 30.0, scratch.Y())

	scratch.Text(15, "\n")
	require.Equal(t, 0.0, scratch.X())
	require.Equal(t, 45.0, scratch.Y())

	scratch.Text(15, "It jumped.")
	require.Equal(t, doc.GetStringWidth("It jumped."), scratch.X())
	require.Equal(t, 45.0, scratch.Y())

	scratch.Ln(30)
	require.Equal(t, 0.0, scratch.X())
	require.Equal(t, 75.0, scratch.Y())

	lines = scratch.Text(15, "The quick, brown fox jumped over a dog.")
	require.Equal(t, []string{"The quick, brown fox", "jumped over a dog."}, lines)
	require.Equal(t, doc.GetStringWidth("jumped over a dog."), scratch.X())
	require.Equal(t, 90.0, scratch.Y())
	require.Equal(t, doc.GetStringWidth("The quick, brown fox"), scratch.WidthLongestLine())
}

func TestScratchRichText(t *testing.T) {
	doc := quire.New("P", "pt", "letter", "")

	doc.SetFont("Helvetica", quire.FontStyleNone, 12)
	scratch, err := doc.Scratch(doc.GetStringWidth("The quick, brown fox"))
	require.NoError(t, err)

	scratch.Text(15, "The quick, ")
	require.Equal(t, doc.GetStringWidth("The quick, "), scratch.X())
	require.Equal(t, 0.0, scratch.Y())

	scratch.SetFont("Helvetica", quire.FontStyleB, 12)
	scratch.Text(15, "brown")
	{
		width1 := doc.GetStringWidth("The quick, ")

		doc.SetFont("Helvetica", quire.FontStyleB, 12)
		width2 := doc.GetStringWidth("brown")

		require.InDelta(t, width1+width2, scratch.X(), 1e-9)

		doc.SetFont("Helvetica", quire.FontStyleNone, 12)
	}
	require.Equal(t, 0.0, scratch.Y())
	require.Equal(t, "", doc.GetFontStyle(), "scratch pad fonts leave the document alone")

	scratch.SetFont("Helvetica", quire.FontStyleNone, 12)
	scratch.Text(15, " fox")
	require.Equal(t, doc.GetStringWidth("fox"), scratch.X())
	require.Equal(t, 15.0, scratch.Y())
}

func TestScratchHardBreak(t *testing.T) {
	doc := quire.New("P", "pt", "letter", "")
	doc.SetFont("Courier", "", 10)

	// Courier glyphs are 6pt wide at 10pt.
	scratch, err := doc.Scratch(30)
	require.NoError(t, err)

	lines := scratch.Text(12, "abcdefghijkl")
	require.Equal(t, []string{"abcde", "fghij", "kl"}, lines)
	require.Equal(t, 24.0, scratch.Y())
	require.Equal(t, 12.0, scratch.X())

	scratch.Reset(3)
	lines = scratch.Text(12, "a")
	require.Equal(t, []string{"a"}, lines)
	require.Equal(t, 0.0, scratch.Y())
}
