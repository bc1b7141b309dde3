// Copyright ©2023 The go-pdf Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

/*
 * Copyright (c) 2013 Kurt Jung (Gmail: kurt.w.jung)
 *
 * Permission to use, copy, modify, and distribute this software for any
 * purpose with or without fee is hereby granted, provided that the above
 * copyright notice and this permission notice appear in all copies.
 *
 * THE SOFTWARE IS PROVIDED "AS IS" AND THE AUTHOR DISCLAIMS ALL WARRANTIES
 * WITH REGARD TO THIS SOFTWARE INCLUDING ALL IMPLIED WARRANTIES OF
 * MERCHANTABILITY AND FITNESS. IN NO EVENT SHALL THE AUTHOR BE LIABLE FOR
 * ANY SPECIAL, DIRECT, INDIRECT, OR CONSEQUENTIAL DAMAGES OR ANY DAMAGES
 * WHATSOEVER RESULTING FROM LOSS OF USE, DATA OR PROFITS, WHETHER IN AN
 * ACTION OF CONTRACT, NEGLIGENCE OR OTHER TORTIOUS ACTION, ARISING OUT OF
 * OR IN CONNECTION WITH THE USE OR PERFORMANCE OF THIS SOFTWARE.
 */

package quire

import (
	"strings"
	"unicode/utf16"
)

// utf8toutf16 converts UTF-8 to UTF-16BE with a leading byte order mark.
func utf8toutf16(s string) string {
	units := utf16.Encode([]rune(s))
	res := make([]byte, 0, 2+2*len(units))
	res = append(res, 0xFE, 0xFF)
	for _, u := range units {
		res = append(res, byte(u>>8), byte(u))
	}
	return string(res)
}

// metaText stores a document information string, converting UTF-8 input to
// the UTF-16BE text string form.
func metaText(s string, isUTF8 bool) string {
	if isUTF8 {
		return utf8toutf16(s)
	}
	return s
}

var escaper = strings.NewReplacer(
	`\`, `\\`,
	`(`, `\(`,
	`)`, `\)`,
	"\r", `\r`,
)

// escape escapes the characters special to PDF literal strings.
func escape(s string) string {
	return escaper.Replace(s)
}

// textstring formats a literal string object.
func textstring(s string) string {
	return "(" + escape(s) + ")"
}

// strIf returns aStr if cnd is true, otherwise bStr
func strIf(cnd bool, aStr, bStr string) string {
	if cnd {
		return aStr
	}
	return bStr
}

// fontFamilyEscape conditions a font family string to PDF name compliance.
func fontFamilyEscape(familyStr string) string {
	return strings.ReplaceAll(familyStr, " ", "#20")
}
