// Copyright ©2023 The go-pdf Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package quire

import (
	"errors"
	"fmt"
)

var (
	// ErrConfiguration reports an invalid unit, orientation, page size or
	// display mode argument.
	ErrConfiguration = errors.New("quire: invalid configuration")

	// ErrUndefinedFont reports a font selection naming a family that is
	// neither a core font nor registered with AddFont.
	ErrUndefinedFont = errors.New("quire: undefined font")

	// ErrFontLoad reports a font definition that could not be read.
	ErrFontLoad = errors.New("quire: unable to load font")

	// ErrEncoding reports a failure while serialising the document.
	ErrEncoding = errors.New("quire: unable to encode document")

	// ErrOutput reports a failure delivering the finalised document.
	ErrOutput = errors.New("quire: unable to write output")

	// ErrState reports an operation that is illegal in the current document
	// state.
	ErrState = errors.New("quire: invalid document state")
)

// Err returns true if a processing error has occurred.
func (f *Quire) Err() bool {
	return f.err != nil
}

// Error returns the internal Quire error; this will be nil if no error has
// occurred.
func (f *Quire) Error() error {
	return f.err
}

// ClearError unsets the internal Quire error. This method should be used with
// care, as an internal error condition usually indicates an unrecoverable
// problem with the generation of a document. It is intended to deal with
// cases in which an error is used to select an alternate form of the
// document.
func (f *Quire) ClearError() {
	f.err = nil
}

// SetError sets an error to halt PDF generation. This may facilitate error
// handling by application. See also Ok(), Err() and Error().
func (f *Quire) SetError(err error) {
	if f.err == nil && err != nil {
		f.err = err
	}
}

// SetErrorf sets the internal Quire error with formatted text to halt PDF
// generation; this may facilitate error handling by application. If an error
// condition is already set, this call is ignored.
//
// See the documentation for printing in the standard fmt package for details
// about fmtStr and args.
func (f *Quire) SetErrorf(fmtStr string, args ...any) {
	if f.err == nil {
		f.err = fmt.Errorf(fmtStr, args...)
	}
}

// Ok returns true if no processing errors have occurred.
func (f *Quire) Ok() bool {
	return f.err == nil
}
