// Copyright ©2023 The go-pdf Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package quire

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/kofi-q/quire/fontdef"
	"github.com/kofi-q/quire/ttf"
	"golang.org/x/text/encoding/charmap"
)

// fontResource is a registered font. At most one exists per family and style.
type fontResource struct {
	family string
	style  string
	i      int // resource index, /F%d
	n      int // object id, assigned at serialisation
	tp     fontdef.Type
	def    *fontdef.Def
	diffn  int // 1-based index into Quire.diffs, 0 for WinAnsiEncoding
	file   *fontFileType
	cm     *charmap.Charmap // code page the widths are indexed by
}

func (fr *fontResource) width(s string) int {
	w := 0
	for i := 0; i < len(s); i++ {
		w += fr.def.Cw[s[i]]
	}
	return w
}

// normalizeStyle upper-cases a style string, strips the underline flag and
// orders bold before italic.
func normalizeStyle(styleStr string) (style string, underline bool) {
	style = strings.ToUpper(styleStr)
	if strings.Contains(style, "U") {
		underline = true
		style = strings.ReplaceAll(style, "U", "")
	}
	if style == "IB" {
		style = "BI"
	}
	return
}

// SetFontLocation sets the location in the file system of the font and font
// definition files.
func (f *Quire) SetFontLocation(fontDirStr string) {
	f.fontpath = fontDirStr
}

// GetFontLocation returns the location in the file system of the font and
// font definition files.
func (f *Quire) GetFontLocation() string {
	return f.fontpath
}

// SetFontLoader sets a loader used to read font files (.json and .z) from an
// arbitrary source. If a font loader has been specified, it is used to load
// the named font resources when AddFont() is called. If this operation fails,
// an attempt is made to load the resources from the configured font
// directory (see SetFontLocation()).
func (f *Quire) SetFontLoader(loader FontLoader) {
	f.fontLoader = loader
}

// GetFontLoader returns the loader used to read font files (.json and .z)
// from an arbitrary source.
func (f *Quire) GetFontLoader() FontLoader {
	return f.fontLoader
}

// SetFontSubsetting controls whether embedded TrueType programs are reduced
// to the glyphs drawn in the document. It is off by default.
func (f *Quire) SetFontSubsetting(subset bool) {
	f.subsetFonts = subset
}

// readFontFile reads a font resource through the font loader, falling back
// to the font directory.
func (f *Quire) readFontFile(name string) ([]byte, error) {
	if f.fontLoader != nil {
		r, err := f.fontLoader.Open(name)
		if err == nil {
			if rc, ok := r.(io.Closer); ok {
				defer rc.Close()
			}
			return io.ReadAll(r)
		}
	}
	return os.ReadFile(filepath.Join(f.fontpath, name))
}

// AddFont imports a font definition and makes it available to SetFont. The
// definition is a JSON file read through the font loader or from the font
// directory. If fileStr is empty, it defaults to the lower-case family name
// with spaces removed, followed by the lower-case style and ".json".
//
// familyStr is the font family, used with SetFont. styleStr is "" for
// regular, "B" for bold, "I" for italic or "BI" for bold italic. Registering
// a family and style that already exist has no effect.
func (f *Quire) AddFont(familyStr, styleStr, fileStr string) {
	if f.err != nil {
		return
	}
	if fileStr == "" {
		fileStr = fontdef.FileName(familyStr, styleStr)
	}
	if f.hasFont(familyStr, styleStr) {
		return
	}
	data, err := f.readFontFile(fileStr)
	if err != nil {
		f.err = fmt.Errorf("%w: %w", ErrFontLoad, err)
		return
	}
	f.AddFontFromReader(familyStr, styleStr, bytes.NewReader(data))
}

// AddFontFromReader imports a JSON font definition from r. Any embedded
// program it names is read at serialisation time through the font loader or
// from the font directory.
func (f *Quire) AddFontFromReader(familyStr, styleStr string, r io.Reader) {
	if f.err != nil || f.hasFont(familyStr, styleStr) {
		return
	}
	def, err := fontdef.Parse(r)
	if err != nil {
		f.err = fmt.Errorf("%w: %w", ErrFontLoad, err)
		return
	}
	f.registerDef(familyStr, styleStr, def, nil, nil)
}

// AddFontFromBytes imports a JSON font definition together with the font
// program it embeds.
func (f *Quire) AddFontFromBytes(familyStr, styleStr string, jsonDef, fontFile []byte) {
	if f.err != nil || f.hasFont(familyStr, styleStr) {
		return
	}
	def, err := fontdef.Parse(bytes.NewReader(jsonDef))
	if err != nil {
		f.err = fmt.Errorf("%w: %w", ErrFontLoad, err)
		return
	}
	if def.File == "" && len(fontFile) > 0 {
		f.err = fmt.Errorf("%w: definition of %s names no font file", ErrFontLoad, def.Name)
		return
	}
	f.registerDef(familyStr, styleStr, def, fontFile, nil)
}

// AddTrueTypeFont registers a TrueType program directly. Glyph widths are
// taken from the program for the 256 byte values of codePage ("cp1252" when
// empty), and text drawn in this font must be encoded in that code page (see
// UnicodeTranslatorFromDescriptor).
func (f *Quire) AddTrueTypeFont(familyStr, styleStr string, program []byte, codePage string) {
	if f.err != nil || f.hasFont(familyStr, styleStr) {
		return
	}
	cm, err := fontdef.CodePage(codePage)
	if err != nil {
		f.err = fmt.Errorf("%w: %w", ErrFontLoad, err)
		return
	}
	def, font, err := fontdef.FromTrueType(program, cm)
	if err != nil {
		f.err = fmt.Errorf("%w: %w", ErrFontLoad, err)
		return
	}
	def.File = def.Name + ".ttf"
	f.registerDef(familyStr, styleStr, def, program, font)
}

func (f *Quire) hasFont(familyStr, styleStr string) bool {
	style, _ := normalizeStyle(styleStr)
	_, ok := f.fonts[strings.ToLower(familyStr)+style]
	return ok
}

func (f *Quire) registerDef(
	familyStr, styleStr string,
	def *fontdef.Def,
	data []byte,
	program *ttf.Font,
) *fontResource {
	family := strings.ToLower(familyStr)
	style, _ := normalizeStyle(styleStr)
	key := family + style
	if fr, ok := f.fonts[key]; ok {
		return fr
	}

	tp, err := def.Type()
	if err != nil {
		f.err = fmt.Errorf("%w: %w", ErrFontLoad, err)
		return nil
	}

	fr := &fontResource{
		family: family,
		style:  style,
		i:      len(f.fontOrder) + 1,
		tp:     tp,
		def:    def,
		cm:     charmap.Windows1252,
	}

	if def.Enc != "" {
		if cm, err := fontdef.CodePage(def.Enc); err == nil {
			fr.cm = cm
		}
	}

	if diff := strings.Join(strings.Fields(def.Diff), " "); diff != "" {
		for i, d := range f.diffs {
			if d == diff {
				fr.diffn = i + 1
				break
			}
		}
		if fr.diffn == 0 {
			f.diffs = append(f.diffs, diff)
			fr.diffn = len(f.diffs)
		}
	}

	if def.File != "" {
		ff, ok := f.fontFiles[def.File]
		if !ok {
			ff = &fontFileType{
				tp:         tp,
				compressed: strings.HasSuffix(def.File, ".z"),
			}
			if tp == fontdef.TypeTrueType {
				ff.length1 = def.OriginalSize
			} else {
				ff.length1 = def.Size1
				ff.length2 = def.Size2
			}
			f.fontFiles[def.File] = ff
			f.fileOrder = append(f.fileOrder, def.File)
		}
		if ff.data == nil && data != nil {
			ff.data = data
		}
		if ff.program == nil && program != nil {
			ff.program = program
		}
		fr.file = ff
	}

	f.fonts[key] = fr
	f.fontOrder = append(f.fontOrder, key)
	return fr
}

// addCoreFont registers one of the standard fonts. The Latin families ship
// with the package; Symbol and ZapfDingbats metrics are read through the font
// loader or the font directory.
func (f *Quire) addCoreFont(family, style string) *fontResource {
	name := strings.TrimSuffix(fontdef.FileName(family, style), ".json")
	def, err := fontdef.Core(name)
	if errors.Is(err, fontdef.ErrNotFound) {
		var data []byte
		data, err = f.readFontFile(name + ".json")
		if err == nil {
			def, err = fontdef.Parse(bytes.NewReader(data))
		}
	}
	if err != nil {
		f.err = fmt.Errorf("%w: %s: %w", ErrFontLoad, name, err)
		return nil
	}
	return f.registerDef(family, style, def, nil, nil)
}

// SetFont sets the font used to print character strings. It is mandatory to
// call this method at least once before printing text or the resulting
// document will not be valid.
//
// The font can be either a standard one or a font added via AddFont(),
// AddFontFromBytes() or AddTrueTypeFont(). Standard fonts use the Windows
// encoding cp1252 (Western Europe).
//
// The method can be called before the first page is created and the font is
// kept from page to page. If you just wish to change the current font size,
// it is simpler to call SetFontSize().
//
// familyStr specifies the font family. It can be either a name defined by
// AddFont() or one of the standard families (case insensitive): "Courier"
// for fixed-width, "Helvetica" or "Arial" for sans serif, "Times" for serif,
// "Symbol" or "ZapfDingbats" for symbolic. An empty string keeps the current
// family.
//
// styleStr can be "B" (bold), "I" (italic), "U" (underscore) or any
// combination. The default value (specified with an empty string) is regular.
// Bold and italic styles do not apply to Symbol and ZapfDingbats.
//
// size is the font size measured in points. The default value is the current
// size. If no size has been specified since the beginning of the document,
// the value taken is 12.
func (f *Quire) SetFont(familyStr, styleStr string, size float64) {
	if f.err != nil {
		return
	}

	family := strings.ToLower(familyStr)
	if family == "" {
		family = f.style.fontFamily
		if family == "" && f.currentFont != nil {
			family = f.currentFont.family
		}
	}
	style, underline := normalizeStyle(styleStr)
	f.style.underline = underline
	if size == 0 {
		size = f.style.fontSizePt
		if size == 0 {
			size = 12
		}
	}
	if family == f.style.fontFamily &&
		style == f.style.fontStyle &&
		size == f.style.fontSizePt {
		return
	}

	fr, family, style := f.lookupFont(family, style)
	if fr == nil {
		return
	}

	f.style.fontFamily = family
	f.style.fontStyle = style
	f.style.fontSizePt = size
	f.fontSize = size / f.k
	f.currentFont = fr
	if f.state == statePageOpen {
		f.outf("BT /F%d %.2f Tf ET", fr.i, size)
	}
}

// lookupFont resolves a family and normalised style to a registered font,
// registering a core font on first use. It returns the canonical family and
// style the font is registered under.
func (f *Quire) lookupFont(family, style string) (*fontResource, string, string) {
	if fr, ok := f.fonts[family+style]; ok {
		return fr, family, style
	}
	if family == "arial" {
		family = "helvetica"
	}
	if !fontdef.IsCoreFamily(family) {
		f.SetErrorf("%w: %s %s", ErrUndefinedFont, family, style)
		return nil, family, style
	}
	if family == "symbol" || family == "zapfdingbats" {
		style = ""
	}
	if fr, ok := f.fonts[family+style]; ok {
		return fr, family, style
	}
	return f.addCoreFont(family, style), family, style
}

// SetFontStyle sets the style of the current font. See also SetFont()
func (f *Quire) SetFontStyle(styleStr string) {
	f.SetFont(f.style.fontFamily, styleStr, f.style.fontSizePt)
}

// SetFontSize defines the size of the current font. Size is specified in
// points (1/ 72 inch). See also SetFontUnitSize().
func (f *Quire) SetFontSize(size float64) {
	if f.style.fontSizePt == size {
		return
	}
	f.style.fontSizePt = size
	f.fontSize = size / f.k
	if f.currentFont != nil && f.state == statePageOpen {
		f.outf("BT /F%d %.2f Tf ET", f.currentFont.i, size)
	}
}

// SetFontUnitSize defines the size of the current font. Size is specified in
// the unit of measure specified in New(). See also SetFontSize().
func (f *Quire) SetFontUnitSize(size float64) {
	f.SetFontSize(size * f.k)
}

// GetFontSize returns the size of the current font in points followed by the
// size in the unit of measure specified in New(). The second value can be
// used as a line height value in drawing operations.
func (f *Quire) GetFontSize() (ptSize, unitSize float64) {
	return f.style.fontSizePt, f.fontSize
}

// GetFontFamily returns the family of the current font.
func (f *Quire) GetFontFamily() string {
	return f.style.fontFamily
}

// GetFontStyle returns the style of the current font, with "U" appended when
// underlining is on.
func (f *Quire) GetFontStyle() string {
	return f.style.styleStr()
}

// GetStringWidth returns the length of a string in user units. A font must be
// currently selected.
func (f *Quire) GetStringWidth(s string) float64 {
	if f.err != nil || f.currentFont == nil {
		return 0
	}
	return float64(f.currentFont.width(s)) * f.fontSize / 1000
}

// markUsed records the code points drawn in the current font so an embedded
// TrueType program can be subset.
func (f *Quire) markUsed(s string) {
	fr := f.currentFont
	if fr == nil || fr.file == nil || fr.file.tp != fontdef.TypeTrueType || fr.file.compressed {
		return
	}
	for i := 0; i < len(s); i++ {
		fr.file.used.Set(uint(fr.cm.DecodeByte(s[i])))
	}
}

// translate converts UTF-8 text to the code page of the current font.
func (f *Quire) translate(s string) string {
	cm := charmap.Windows1252
	if f.currentFont != nil {
		cm = f.currentFont.cm
	}
	return fontdef.Translator(cm)(s)
}

func repClosure(m map[rune]byte) func(string) string {
	var buf bytes.Buffer
	return func(str string) string {
		buf.Reset()
		for _, r := range str {
			if r < 0x80 {
				buf.WriteByte(byte(r))
			} else if ch, ok := m[r]; ok {
				buf.WriteByte(ch)
			} else {
				buf.WriteByte('.')
			}
		}
		return buf.String()
	}
}

func doNothing(s string) string {
	return s
}

// UnicodeTranslator returns a function that can be used to translate, where
// possible, utf-8 strings to a form that is compatible with the specified
// code page. The returned function accepts a string and returns a string.
//
// r is a reader that should read a buffer made up of content lines that
// pertain to the code page of interest. Each line is made up of three
// whitespace separated fields. The first begins with "!" and is followed by
// two hexadecimal digits that identify the glyph position in the code page of
// interest. The second field begins with "U+" and is followed by the unicode
// code point value. The third is the glyph name.
//
// An error occurs only if a line is read that does not conform to the
// expected format. In this case, the returned function is valid but does not
// perform any rune translation.
func UnicodeTranslator(r io.Reader) (func(string) string, error) {
	m := make(map[rune]byte)
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		lineStr := strings.TrimSpace(sc.Text())
		if lineStr == "" {
			continue
		}
		var cPos, uPos uint32
		var nameStr string
		if _, err := fmt.Sscanf(lineStr, "!%2X U+%4X %s", &cPos, &uPos, &nameStr); err != nil {
			return doNothing, err
		}
		if cPos >= 0x80 {
			m[rune(uPos)] = byte(cPos)
		}
	}
	if err := sc.Err(); err != nil {
		return doNothing, err
	}
	return repClosure(m), nil
}

// UnicodeTranslatorFromDescriptor returns a function that can be used to
// translate, where possible, utf-8 strings to a form that is compatible with
// the specified code page. Runes with no position in the code page become
// ".".
//
// cpStr identifies a code page such as "cp1251" or "iso-8859-2". If cpStr is
// empty, it will be replaced with "cp1252", the Quire code page default. A
// name the package does not know is looked up as a ".map" descriptor file in
// the font directory; see UnicodeTranslator for its format.
//
// If an error occurs, the returned function is valid but does not perform
// any rune translation.
func (f *Quire) UnicodeTranslatorFromDescriptor(cpStr string) (rep func(string) string) {
	if f.err != nil {
		return doNothing
	}
	cm, err := fontdef.CodePage(cpStr)
	if err == nil {
		return fontdef.Translator(cm)
	}

	file, ferr := os.Open(filepath.Join(f.fontpath, cpStr+".map"))
	if ferr != nil {
		f.err = fmt.Errorf("%w: code page %s: %w", ErrFontLoad, cpStr, ferr)
		return doNothing
	}
	defer file.Close()
	rep, err = UnicodeTranslator(file)
	if err != nil {
		f.err = fmt.Errorf("%w: %s.map: %w", ErrFontLoad, cpStr, err)
	}
	return rep
}
