// Copyright ©2023 The go-pdf Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

/*
 * Copyright (c) 2014 Kurt Jung (Gmail: kurt.w.jung)
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
	"fmt"
	"strings"
)

// Optional content groups, after http://www.fpdf.org/en/script/script97.php

type layerType struct {
	name    string
	visible bool
	n       int // object id, assigned at serialisation
}

type layerRecType struct {
	list          []layerType
	currentLayer  int
	openLayerPane bool
}

func (f *Quire) layerInit() {
	f.layer = layerRecType{currentLayer: -1}
}

// AddLayer defines a layer that can be shown or hidden when the document is
// displayed. name specifies the layer name that the document reader will
// display in the layer list. visible specifies whether the layer will be
// initially visible. The return value is an integer ID that is used in a call
// to BeginLayer().
func (f *Quire) AddLayer(name string, visible bool) (layerID int) {
	layerID = len(f.layer.list)
	f.layer.list = append(f.layer.list, layerType{name: name, visible: visible})
	return
}

// BeginLayer is called to begin adding content to the specified layer. All
// content added to the page between a call to BeginLayer and a call to
// EndLayer is added to the layer specified by id. Any active layer is ended
// first. An unknown id sets ErrState.
func (f *Quire) BeginLayer(id int) {
	if id < 0 || id >= len(f.layer.list) {
		f.SetErrorf("%w: unknown layer %d", ErrState, id)
		return
	}
	f.EndLayer()
	f.outf("/OC /OC%d BDC", id)
	f.layer.currentLayer = id
}

// EndLayer is called to stop adding content to the currently active layer. A
// layer still active at the end of a page is ended with it.
func (f *Quire) EndLayer() {
	if f.layer.currentLayer >= 0 {
		f.out("EMC")
		f.layer.currentLayer = -1
	}
}

// OpenLayerPane advises the document reader to open the layer pane when the
// document is initially displayed.
func (f *Quire) OpenLayerPane() {
	f.layer.openLayerPane = true
}

// layerEndDoc runs before the header is written.
func (f *Quire) layerEndDoc() {
	if len(f.layer.list) > 0 {
		f.raiseVersion(pdfVers1_5)
	}
}

func (f *Quire) layerPutLayers() {
	w := f.w
	for j, l := range f.layer.list {
		f.layer.list[j].n = w.newobj()
		w.putf("<</Type /OCG /Name %s>>", textstring(utf8toutf16(l.name)))
		w.endobj()
	}
}

func (f *Quire) layerPutResourceDict() {
	if len(f.layer.list) == 0 {
		return
	}
	w := f.w
	w.put("/Properties <<")
	for j, l := range f.layer.list {
		w.putf("/OC%d %d 0 R", j, l.n)
	}
	w.put(">>")
}

func (f *Quire) layerPutCatalog() {
	if len(f.layer.list) == 0 {
		return
	}
	var all, off strings.Builder
	for _, l := range f.layer.list {
		ref := fmt.Sprintf("%d 0 R ", l.n)
		all.WriteString(ref)
		if !l.visible {
			off.WriteString(ref)
		}
	}
	w := f.w
	w.putf(
		"/OCProperties <</OCGs [%s] /D <</OFF [%s] /Order [%s]>>>>",
		all.String(), off.String(), all.String(),
	)
	if f.layer.openLayerPane {
		w.put("/PageMode /UseOC")
	}
}
