// Copyright ©2023 The go-pdf Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package quire

import (
	"fmt"
	"io"
	"os"

	"github.com/kofi-q/quire/raster"
)

// defaultDpi sizes images placed without explicit dimensions.
const defaultDpi = 96

// imageType resolves an explicit type name or infers one from the image
// name's extension.
func imageType(name, tp string) (raster.Type, error) {
	if tp != "" {
		return raster.ParseType(tp)
	}
	return raster.TypeFromName(name)
}

// RegisterImage registers an image, adding it to the PDF file but not adding
// it to the page. Use Image() with the same name to add the image to the
// page.
func (f *Quire) RegisterImage(fileStr, tp string) (info *ImageInfoType) {
	return f.RegisterImageOptions(fileStr, ImageOptions{ImageType: tp})
}

// RegisterImageOptions registers an image, adding it to the PDF file but not
// adding it to the page. Use Image() with the same filename to add the image
// to the page. Note that Image() calls this function, so this function is
// only necessary if you need information about the image before placing it.
func (f *Quire) RegisterImageOptions(fileStr string, options ImageOptions) (info *ImageInfoType) {
	if f.err != nil {
		return nil
	}
	if info, ok := f.images[fileStr]; ok {
		return info
	}
	file, err := os.Open(fileStr)
	if err != nil {
		f.err = fmt.Errorf("%w: image %s: %w", ErrEncoding, fileStr, err)
		return nil
	}
	defer file.Close()
	return f.RegisterImageOptionsReader(fileStr, options, file)
}

// RegisterImageReader is like RegisterImage except that the image is given
// as an io.Reader, not a filename. imgName has to be unique and must be used
// in subsequent calls to Image() to place the image.
//
// tp should be "JPG", "JPEG", "PNG" or "GIF" (or one of the transcoded types
// "BMP", "TIFF" and "WEBP"). It is not inferred from the data; an empty tp
// infers the type from imgName's extension.
func (f *Quire) RegisterImageReader(imgName, tp string, r io.Reader) (info *ImageInfoType) {
	return f.RegisterImageOptionsReader(imgName, ImageOptions{ImageType: tp}, r)
}

// RegisterImageOptionsReader is like RegisterImageReader with options
// controlling the image type and resolution. The image is decoded once;
// later registrations of the same name return the existing image.
func (f *Quire) RegisterImageOptionsReader(
	imgName string,
	options ImageOptions,
	r io.Reader,
) (info *ImageInfoType) {
	if f.err != nil {
		return nil
	}
	if info, ok := f.images[imgName]; ok {
		return info
	}

	tp, err := imageType(imgName, options.ImageType)
	if err != nil {
		f.err = err
		return nil
	}
	img, err := raster.Decode(r, tp)
	if err != nil {
		f.err = err
		return nil
	}

	info = &ImageInfoType{
		img:   img,
		i:     len(f.imgOrder) + 1,
		w:     float64(img.Width),
		h:     float64(img.Height),
		cs:    img.ColorSpace.Name(),
		bpc:   img.BitsPerComponent,
		alpha: img.HasAlpha(),
		scale: f.k,
		dpi:   defaultDpi,
	}
	if options.ReadDpi && img.DPI > 0 {
		info.dpi = img.DPI
	}
	if info.alpha {
		f.raiseVersion(pdfVers1_4)
	}
	f.images[imgName] = info
	f.imgOrder = append(f.imgOrder, imgName)
	return info
}

// GetImageInfo returns information about the registered image specified by
// imageStr. If the image has not been registered, nil is returned. The
// internal error is not modified by this method.
func (f *Quire) GetImageInfo(imageStr string) (info *ImageInfoType) {
	return f.images[imageStr]
}

// Image puts a JPEG, PNG or GIF image in the current page. It is
// ImageOptions with only the image type set; see that method for details on
// the arguments.
func (f *Quire) Image(imageNameStr string, x, y, w, h float64, flow bool, tp string, link int, linkStr string) {
	f.ImageOptions(imageNameStr, x, y, w, h, flow, ImageOptions{ImageType: tp}, link, linkStr)
}

// ImageOptions puts an image in the current page, registering it on first
// use.
//
// The upper-left corner is at (x, y). If flow is true, the current y value
// is advanced after placing the image and a page break may be made if
// necessary. A negative x is replaced by the current x unless
// options.AllowNegativePosition is set.
//
// If w and h are both 0, the image is rendered at 96 dpi (or its own
// resolution with options.ReadDpi). If one of them is 0, it is computed from
// the other so the aspect ratio is kept. A negative value is a resolution in
// dots per inch.
//
// link and linkStr put a link on the image, see CellFormat().
func (f *Quire) ImageOptions(
	imageNameStr string,
	x, y, w, h float64,
	flow bool,
	options ImageOptions,
	link int,
	linkStr string,
) {
	if f.err != nil {
		return
	}
	info := f.RegisterImageOptions(imageNameStr, options)
	if f.err != nil {
		return
	}
	f.imageOut(info, x, y, w, h, options.AllowNegativePosition, flow, link, linkStr)
}

func (f *Quire) imageOut(
	info *ImageInfoType,
	x, y, w, h float64,
	allowNegativeX, flow bool,
	link int,
	linkStr string,
) {
	if w == 0 && h == 0 {
		w = -info.dpi
		h = -info.dpi
	}
	size := SizeType{info.w, info.h}
	if w < 0 {
		w = size.ScaleBy(-72 / w / f.k).Wd
	}
	if h < 0 {
		h = size.ScaleBy(-72 / h / f.k).Ht
	}
	if w == 0 {
		w = size.ScaleToHeight(h).Wd
	}
	if h == 0 {
		h = size.ScaleToWidth(w).Ht
	}

	if flow {
		if f.y+h > f.pageBreakTrigger && !f.inHeader && !f.inFooter && f.acceptPageBreak() {
			x2 := f.x
			f.AddPageFormat(f.curOrientation, f.curPageSize)
			if f.err != nil {
				return
			}
			f.x = x2
		}
		y = f.y
		f.y += h
	}
	if !allowNegativeX && x < 0 {
		x = f.x
	}

	f.outf("q %.2f 0 0 %.2f %.2f %.2f cm /I%d Do Q", w*f.k, h*f.k, x*f.k, (f.hUnit-(y+h))*f.k, info.i)
	if link != 0 || linkStr != "" {
		f.newLink(x, y, w, h, link, linkStr)
	}
}

// putImage writes an image XObject, its soft mask and its palette.
func (f *Quire) putImage(img *raster.Image) int {
	w := f.w
	n := w.newobj()
	pal := n + 1
	if img.SoftMask != nil {
		pal++
	}
	w.put("<</Type /XObject")
	w.put("/Subtype /Image")
	w.putf("/Width %d", img.Width)
	w.putf("/Height %d", img.Height)
	if img.ColorSpace == raster.ColorSpaceIndexed {
		w.putf("/ColorSpace [/Indexed /DeviceRGB %d %d 0 R]", len(img.Palette)/3-1, pal)
	} else {
		w.putf("/ColorSpace /%s", img.ColorSpace.Name())
		if img.ColorSpace == raster.ColorSpaceCMYK {
			w.put("/Decode [1 0 1 0 1 0 1 0]")
		}
	}
	w.putf("/BitsPerComponent %d", img.BitsPerComponent)
	if img.Filter != "" {
		w.putf("/Filter /%s", img.Filter)
	}
	if img.DecodeParms != "" {
		w.putf("/DecodeParms <<%s>>", img.DecodeParms)
	}
	if len(img.Transparency) > 0 {
		trns := make([]byte, 0, 8*len(img.Transparency))
		for _, v := range img.Transparency {
			trns = fmt.Appendf(trns, "%d %d ", v, v)
		}
		w.putf("/Mask [%s]", trns)
	}
	if img.SoftMask != nil {
		w.putf("/SMask %d 0 R", n+1)
	}
	w.putf("/Length %d>>", len(img.Data))
	w.putstream(img.Data)
	w.endobj()

	if img.SoftMask != nil {
		f.putImage(img.SoftMask)
	}
	if img.ColorSpace == raster.ColorSpaceIndexed {
		w.putStreamObject(img.Palette, f.compress)
	}
	return n
}

// putImages writes every registered image in discovery order and releases
// its payload.
func (f *Quire) putImages() {
	for _, name := range f.imgOrder {
		info := f.images[name]
		if info.img == nil {
			f.w.fail(fmt.Errorf("%w: image %s has no data", ErrEncoding, name))
			return
		}
		if info.img.ColorSpace == raster.ColorSpaceIndexed && len(info.img.Palette) == 0 {
			f.w.fail(fmt.Errorf("%w: image %s: %w", ErrEncoding, name, raster.ErrMissingPalette))
			return
		}
		info.n = f.putImage(info.img)
		info.img = nil
	}
}
