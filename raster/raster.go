// Copyright ©2023 The go-pdf Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package raster decodes image files into the color space, filter and pixel
// data representation a PDF image XObject needs. JPEG data is passed through,
// PNG data is re-chunked, and every other format is transcoded to PNG first.
package raster

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
)

var (
	ErrBadSignature           = errors.New("unrecognised file signature")
	ErrUnsupportedDepth       = errors.New("unsupported bit depth")
	ErrUnsupportedInterlace   = errors.New("interlacing not supported")
	ErrMissingPalette         = errors.New("missing palette")
	ErrUnsupportedImageType   = errors.New("unsupported image type")
	ErrUnsupportedColorType   = errors.New("unsupported color type")
	ErrUnsupportedCompression = errors.New("unknown compression method")
	ErrUnsupportedFilter      = errors.New("unknown filter method")
	ErrTruncated              = errors.New("unexpected end of image data")
	ErrDimensions             = errors.New("invalid image dimensions")
)

// DecodeError reports a failure to decode an image of a particular type.
type DecodeError struct {
	Type Type
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("raster: %s: %v", strings.ToLower(e.Type.String()), e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// Type is the closed set of supported image formats.
type Type uint8

const (
	TypeJPEG Type = iota + 1
	TypePNG
	TypeGIF
	TypeBMP
	TypeTIFF
	TypeWEBP
)

func (t Type) String() string {
	switch t {
	case TypeJPEG:
		return "JPEG"
	case TypePNG:
		return "PNG"
	case TypeGIF:
		return "GIF"
	case TypeBMP:
		return "BMP"
	case TypeTIFF:
		return "TIFF"
	case TypeWEBP:
		return "WEBP"
	}
	return fmt.Sprintf("Type(%d)", uint8(t))
}

// ParseType maps a type name or file extension, such as "jpg" or "PNG", to a
// Type.
func ParseType(s string) (Type, error) {
	switch strings.ToLower(strings.TrimPrefix(s, ".")) {
	case "jpg", "jpeg":
		return TypeJPEG, nil
	case "png":
		return TypePNG, nil
	case "gif":
		return TypeGIF, nil
	case "bmp":
		return TypeBMP, nil
	case "tif", "tiff":
		return TypeTIFF, nil
	case "webp":
		return TypeWEBP, nil
	}
	return 0, fmt.Errorf("raster: %w: %q", ErrUnsupportedImageType, s)
}

// TypeFromName infers the image type from the extension of a file name.
func TypeFromName(name string) (Type, error) {
	ext := path.Ext(name)
	if ext == "" {
		return 0, fmt.Errorf(
			"raster: %w: %q has no extension and no type was specified",
			ErrUnsupportedImageType, name,
		)
	}
	return ParseType(ext)
}

// TypeFromMime maps an image MIME type to a Type.
func TypeFromMime(mime string) (Type, error) {
	sub, ok := strings.CutPrefix(strings.ToLower(mime), "image/")
	if !ok {
		return 0, fmt.Errorf("raster: %w: %q", ErrUnsupportedImageType, mime)
	}
	return ParseType(sub)
}

// ColorSpace is the device color space of decoded samples.
type ColorSpace uint8

const (
	ColorSpaceGray ColorSpace = iota + 1
	ColorSpaceRGB
	ColorSpaceCMYK
	ColorSpaceIndexed
)

// Name returns the PDF name of the color space.
func (cs ColorSpace) Name() string {
	switch cs {
	case ColorSpaceGray:
		return "DeviceGray"
	case ColorSpaceRGB:
		return "DeviceRGB"
	case ColorSpaceCMYK:
		return "DeviceCMYK"
	case ColorSpaceIndexed:
		return "Indexed"
	}
	return ""
}

func (cs ColorSpace) String() string {
	return cs.Name()
}

// Image is a decoded image ready to be written as an image XObject.
type Image struct {
	Width            int
	Height           int
	ColorSpace       ColorSpace
	BitsPerComponent int

	// Filter names the PDF stream filter the Data is encoded with.
	Filter      string
	DecodeParms string
	Data        []byte

	// Palette holds RGB triples for Indexed images.
	Palette []byte

	// Transparency lists color key mask values, one per component, or the
	// index of the first fully transparent palette entry.
	Transparency []int

	// SoftMask carries the alpha plane as an 8-bit DeviceGray image.
	SoftMask *Image

	// DPI is the resolution recorded in the file, 0 when unknown.
	DPI float64
}

// HasAlpha reports whether the image carries a separate alpha plane.
func (img *Image) HasAlpha() bool {
	return img.SoftMask != nil
}

// Decode reads an image of the given type from r.
func Decode(r io.Reader, tp Type) (*Image, error) {
	switch tp {
	case TypeJPEG:
		return DecodeJPEG(r)
	case TypePNG:
		return DecodePNG(r)
	case TypeGIF:
		return DecodeGIF(r)
	case TypeBMP, TypeTIFF, TypeWEBP:
		return decodeTranscoded(r, tp)
	}
	return nil, &DecodeError{Type: tp, Err: ErrUnsupportedImageType}
}

// DecodeBytes is Decode over an in-memory file.
func DecodeBytes(data []byte, tp Type) (*Image, error) {
	return Decode(bytes.NewReader(data), tp)
}
