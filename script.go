// Copyright ©2023 The go-pdf Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package quire

import (
	"fmt"

	"github.com/dop251/goja"
	"golang.org/x/text/language"
)

// SetJavascript adds document level JavaScript, run by the reader when the
// document is opened. The source must compile as ECMAScript; a syntax error
// sets ErrConfiguration. An empty script removes any previous one.
func (f *Quire) SetJavascript(script string) {
	if f.err != nil {
		return
	}
	if script == "" {
		f.javascript = nil
		return
	}
	if _, err := goja.Compile("document", script, false); err != nil {
		f.err = fmt.Errorf("%w: javascript: %w", ErrConfiguration, err)
		return
	}
	f.javascript = &script
}

// GetJavascript returns the document level JavaScript, if any.
func (f *Quire) GetJavascript() string {
	if f.javascript == nil {
		return ""
	}
	return *f.javascript
}

func (f *Quire) putJavascript() {
	if f.javascript == nil {
		return
	}
	w := f.w
	f.nJs = w.newobj()
	w.putf("<</Names [(EmbeddedJS) %d 0 R]>>", w.n+1)
	w.endobj()
	w.newobj()
	w.put("<</S /JavaScript /JS " + textstring(*f.javascript) + ">>")
	w.endobj()
}

// SetLang sets the natural language of the document, a BCP 47 tag such as
// "en-US". The tag is stored in canonical form; an invalid tag sets
// ErrConfiguration.
func (f *Quire) SetLang(lang string) {
	if f.err != nil {
		return
	}
	tag, err := language.Parse(lang)
	if err != nil {
		f.err = fmt.Errorf("%w: language %q: %w", ErrConfiguration, lang, err)
		return
	}
	f.lang = tag.String()
}

// GetLang returns the natural language of the document.
func (f *Quire) GetLang() string {
	return f.lang
}
