// Copyright ©2023 The go-pdf Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package fontdef provides the metric definitions behind quire's font
// resources: the embedded metrics of the standard Latin fonts, JSON font
// definition files, and definitions derived from TrueType programs.
package fontdef

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"slices"
	"strings"
)

var (
	// ErrUnsupportedFontType is returned for a definition whose type tag is
	// not one of Core, Type1 or TrueType.
	ErrUnsupportedFontType = errors.New("fontdef: unsupported font type")

	// ErrInvalid is returned for a malformed font definition.
	ErrInvalid = errors.New("fontdef: invalid font definition")

	// ErrNotFound is returned when no built-in metrics exist for a font key.
	ErrNotFound = errors.New("fontdef: font definition not found")

	// ErrUnknownCodePage is returned for an unrecognised code page name.
	ErrUnknownCodePage = errors.New("fontdef: unknown code page")
)

// Type is the closed set of font programs a definition can describe.
type Type uint8

const (
	TypeCore Type = iota + 1
	TypeType1
	TypeTrueType
)

// ParseType maps a definition type tag to its Type.
func ParseType(s string) (Type, error) {
	switch s {
	case "Core":
		return TypeCore, nil
	case "Type1":
		return TypeType1, nil
	case "TrueType":
		return TypeTrueType, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnsupportedFontType, s)
}

func (t Type) String() string {
	switch t {
	case TypeCore:
		return "Core"
	case TypeType1:
		return "Type1"
	case TypeTrueType:
		return "TrueType"
	}
	return fmt.Sprintf("Type(%d)", uint8(t))
}

// BBox is a font bounding box in glyph space units.
type BBox struct {
	Xmin, Ymin, Xmax, Ymax int
}

// Descriptor holds the font descriptor entries of an embedded font.
type Descriptor struct {
	Ascent       int
	Descent      int
	CapHeight    int
	Flags        int
	FontBBox     BBox
	ItalicAngle  int
	StemV        int
	MissingWidth int
}

// Def is the serialised form of a font definition. Widths are expressed in
// thousandths of the font size and indexed by byte value.
type Def struct {
	Tp           string
	Name         string
	Desc         Descriptor
	Up           int
	Ut           int
	Cw           []int
	Enc          string
	Diff         string
	File         string
	Size1        int
	Size2        int
	OriginalSize int
}

// Type returns the validated font type of the definition.
func (d *Def) Type() (Type, error) {
	return ParseType(d.Tp)
}

// Validate checks the invariants every loaded definition must satisfy.
func (d *Def) Validate() error {
	if _, err := d.Type(); err != nil {
		return err
	}
	if d.Name == "" {
		return fmt.Errorf("%w: missing font name", ErrInvalid)
	}
	if len(d.Cw) != 256 {
		return fmt.Errorf(
			"%w: %s has %d glyph widths, expected 256",
			ErrInvalid, d.Name, len(d.Cw),
		)
	}
	return nil
}

// Parse decodes and validates a JSON font definition.
func Parse(r io.Reader) (*Def, error) {
	var def Def
	if err := json.NewDecoder(r).Decode(&def); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	if err := def.Validate(); err != nil {
		return nil, err
	}
	return &def, nil
}

//go:embed core/*.json
var coreFS embed.FS

// Core returns the built-in metrics for key, the lower-case family name
// followed by an optional style suffix: "helvetica", "timesbi", "courierb".
func Core(key string) (*Def, error) {
	f, err := coreFS.Open("core/" + key + ".json")
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, key)
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return Parse(f)
}

var coreFamilies = []string{"courier", "helvetica", "symbol", "times", "zapfdingbats"}

// IsCoreFamily reports whether family names one of the standard fonts every
// reader provides.
func IsCoreFamily(family string) bool {
	return slices.Contains(coreFamilies, strings.ToLower(family))
}

// FileName returns the conventional definition file name for a family and
// style, e.g. "calligra" + "BI" gives "calligrabi.json".
func FileName(family, style string) string {
	return strings.ReplaceAll(strings.ToLower(family), " ", "") +
		strings.ToLower(style) + ".json"
}
