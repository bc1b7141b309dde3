// Copyright ©2023 The go-pdf Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package fontdef

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"seehuhn.de/go/postscript/type1/names"
)

// DefaultCodePage is the encoding of the standard fonts.
const DefaultCodePage = "cp1252"

var codePages = map[string]*charmap.Charmap{
	"cp874":       charmap.Windows874,
	"cp1250":      charmap.Windows1250,
	"cp1251":      charmap.Windows1251,
	"cp1252":      charmap.Windows1252,
	"cp1253":      charmap.Windows1253,
	"cp1254":      charmap.Windows1254,
	"cp1255":      charmap.Windows1255,
	"cp1257":      charmap.Windows1257,
	"cp1258":      charmap.Windows1258,
	"iso-8859-1":  charmap.ISO8859_1,
	"iso-8859-2":  charmap.ISO8859_2,
	"iso-8859-4":  charmap.ISO8859_4,
	"iso-8859-5":  charmap.ISO8859_5,
	"iso-8859-7":  charmap.ISO8859_7,
	"iso-8859-9":  charmap.ISO8859_9,
	"iso-8859-11": charmap.Windows874,
	"iso-8859-15": charmap.ISO8859_15,
	"iso-8859-16": charmap.ISO8859_16,
	"koi8-r":      charmap.KOI8R,
	"koi8-u":      charmap.KOI8U,
}

// CodePage resolves a code page name such as "cp1251" or "ISO-8859-2". An
// empty name is the default code page.
func CodePage(name string) (*charmap.Charmap, error) {
	if name == "" {
		name = DefaultCodePage
	}
	cm, ok := codePages[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCodePage, name)
	}
	return cm, nil
}

// CodePageName returns the name CodePage resolves to cm, or "" if cm is not a
// supported code page.
func CodePageName(cm *charmap.Charmap) string {
	name := ""
	for n, c := range codePages {
		// Prefer the shortest alias so the result is stable.
		if c == cm && (name == "" || len(n) < len(name) || len(n) == len(name) && n < name) {
			name = n
		}
	}
	return name
}

// Translator returns a function converting UTF-8 text into single-byte text
// in the given code page. Runes the code page cannot represent become '.'.
func Translator(cm *charmap.Charmap) func(string) string {
	return func(s string) string {
		buf := make([]byte, 0, len(s))
		for _, r := range s {
			if r < utf8.RuneSelf {
				buf = append(buf, byte(r))
				continue
			}
			b, ok := cm.EncodeRune(r)
			if !ok {
				b = '.'
			}
			buf = append(buf, b)
		}
		return string(buf)
	}
}

// Differences returns the /Differences array body that remaps the standard
// Windows-1252 encoding onto cm, or "" when no code differs.
func Differences(cm *charmap.Charmap) string {
	var sb strings.Builder
	last := -2
	for c := 32; c < 256; c++ {
		r := cm.DecodeByte(byte(c))
		if r == charmap.Windows1252.DecodeByte(byte(c)) {
			continue
		}
		if c != last+1 {
			if sb.Len() > 0 {
				sb.WriteByte(' ')
			}
			sb.WriteString(strconv.Itoa(c))
		}
		sb.WriteString(" /")
		sb.WriteString(glyphName(r))
		last = c
	}
	return sb.String()
}

func glyphName(r rune) string {
	if r == utf8.RuneError {
		return ".notdef"
	}
	return names.FromUnicode(string(r))
}
