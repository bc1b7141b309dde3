// Copyright ©2023 The go-pdf Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package raster

import (
	"bytes"
	"fmt"
	"image/color"
	"image/jpeg"
	"io"
)

// DecodeJPEG reads the header of a JPEG file. The compressed data is kept as
// is and written with the DCTDecode filter.
func DecodeJPEG(r io.Reader) (*Image, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, &DecodeError{Type: TypeJPEG, Err: err}
	}
	if len(data) < 3 || data[0] != 0xff || data[1] != 0xd8 || data[2] != 0xff {
		return nil, &DecodeError{Type: TypeJPEG, Err: ErrBadSignature}
	}

	cfg, err := jpeg.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, &DecodeError{Type: TypeJPEG, Err: err}
	}

	var cs ColorSpace
	switch cfg.ColorModel {
	case color.GrayModel:
		cs = ColorSpaceGray
	case color.YCbCrModel, color.RGBAModel:
		cs = ColorSpaceRGB
	case color.CMYKModel:
		cs = ColorSpaceCMYK
	default:
		return nil, &DecodeError{
			Type: TypeJPEG,
			Err:  fmt.Errorf("%w: %T", ErrUnsupportedColorType, cfg.ColorModel),
		}
	}

	return &Image{
		Width:            cfg.Width,
		Height:           cfg.Height,
		ColorSpace:       cs,
		BitsPerComponent: 8,
		Filter:           "DCTDecode",
		Data:             data,
	}, nil
}
