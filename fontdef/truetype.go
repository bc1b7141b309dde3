// Copyright ©2023 The go-pdf Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package fontdef

import (
	"fmt"
	"math"
	"strings"

	"github.com/kofi-q/quire/ttf"
	"golang.org/x/text/encoding/charmap"
)

// FromTrueType derives a single-byte font definition from a TrueType program.
// Widths are taken from the glyphs the code page maps each byte to. The parsed
// program is returned alongside so callers can subset it later.
func FromTrueType(program []byte, cm *charmap.Charmap) (*Def, *ttf.Font, error) {
	font := new(ttf.Font)
	if err := ttf.Parse(program, font); err != nil {
		return nil, nil, err
	}
	if font.PostScriptName == "" {
		return nil, nil, fmt.Errorf("%w: TrueType font has no PostScript name", ErrInvalid)
	}
	if cm == nil {
		cm = charmap.Windows1252
	}

	missing := round(font.Width(0))
	def := &Def{
		Tp:           TypeTrueType.String(),
		Name:         strings.ReplaceAll(font.PostScriptName, " ", ""),
		Up:           round(font.UnderlinePos),
		Ut:           round(font.UnderlineSize),
		Cw:           make([]int, 256),
		OriginalSize: len(program),
		Desc: Descriptor{
			Ascent:    round(font.Ascent),
			Descent:   round(font.Descent),
			CapHeight: round(font.CapHeight),
			Flags:     descriptorFlags(font),
			FontBBox: BBox{
				Xmin: round(font.Bounds.Min[0]),
				Ymin: round(font.Bounds.Min[1]),
				Xmax: round(font.Bounds.Max[0]),
				Ymax: round(font.Bounds.Max[1]),
			},
			ItalicAngle:  round(font.ItalicAngle),
			StemV:        stemV(font.WeightClass),
			MissingWidth: missing,
		},
	}

	for c := range def.Cw {
		r := cm.DecodeByte(byte(c))
		if gid := font.GlyphId(r); gid != 0 {
			def.Cw[c] = round(font.Width(gid))
		} else {
			def.Cw[c] = missing
		}
	}

	if cm != charmap.Windows1252 {
		def.Enc = CodePageName(cm)
		def.Diff = Differences(cm)
	}

	return def, font, nil
}

func descriptorFlags(font *ttf.Font) int {
	flags := ttf.FlagNonSymbolic
	flags |= font.Flags & (ttf.FlagFixedWidth | ttf.FlagItalic)
	return int(flags)
}

func stemV(weightClass uint16) int {
	if weightClass >= 600 {
		return 120
	}
	return 70
}

func round(v float32) int {
	return int(math.Round(float64(v)))
}
