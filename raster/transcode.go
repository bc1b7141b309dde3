// Copyright ©2023 The go-pdf Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package raster

import (
	"bytes"
	"image"
	"image/gif"
	"image/png"
	"io"

	"golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	"golang.org/x/image/tiff"
	"golang.org/x/image/webp"
)

// DecodeGIF reads the first frame of a GIF and converts it through PNG, so
// the result is an Indexed image whose transparent entry becomes a color key
// mask.
func DecodeGIF(r io.Reader) (*Image, error) {
	img, err := gif.Decode(r)
	if err != nil {
		return nil, &DecodeError{Type: TypeGIF, Err: err}
	}
	return transcode(TypeGIF, img)
}

func decodeTranscoded(r io.Reader, tp Type) (*Image, error) {
	var img image.Image
	var err error
	switch tp {
	case TypeBMP:
		img, err = bmp.Decode(r)
	case TypeTIFF:
		img, err = tiff.Decode(r)
	case TypeWEBP:
		img, err = webp.Decode(r)
	default:
		return nil, &DecodeError{Type: tp, Err: ErrUnsupportedImageType}
	}
	if err != nil {
		return nil, &DecodeError{Type: tp, Err: err}
	}
	return transcode(tp, img)
}

func transcode(tp Type, img image.Image) (*Image, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, to8Bit(img)); err != nil {
		return nil, &DecodeError{Type: tp, Err: err}
	}

	out, err := parsePNG(&buf)
	if err != nil {
		return nil, &DecodeError{Type: tp, Err: err}
	}
	return out, nil
}

// to8Bit converts images the PNG encoder would write with 16-bit samples.
func to8Bit(img image.Image) image.Image {
	switch img.(type) {
	case *image.Paletted, *image.Gray, *image.NRGBA, *image.RGBA:
		return img
	}

	b := img.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	return dst
}
