// Copyright ©2023 The go-pdf Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package raster

import (
	"bytes"
	"compress/zlib"
	"fmt"
	"io"
	"math"
)

var pngSignature = []byte("\x89PNG\r\n\x1a\n")

const (
	pngGray      = 0
	pngRGB       = 2
	pngIndexed   = 3
	pngGrayAlpha = 4
	pngRGBA      = 6
)

// DecodePNG reads a non-interlaced PNG of at most 8 bits per component. An
// alpha channel is split off into SoftMask.
func DecodePNG(r io.Reader) (*Image, error) {
	img, err := parsePNG(r)
	if err != nil {
		return nil, &DecodeError{Type: TypePNG, Err: err}
	}
	return img, nil
}

// maxDimension bounds the width and height taken from an IHDR chunk so that
// scanline sizes stay well inside int.
const maxDimension = 1 << 24

func parsePNG(r io.Reader) (*Image, error) {
	buf := &rbuffer{src: r}

	if sig := buf.Next(8); buf.err != nil || !bytes.Equal(sig, pngSignature) {
		return nil, ErrBadSignature
	}

	buf.skip(4) // IHDR length
	if string(buf.Next(4)) != "IHDR" {
		if buf.err != nil {
			return nil, buf.err
		}
		return nil, fmt.Errorf("%w: missing IHDR chunk", ErrBadSignature)
	}

	img := &Image{
		Width:            int(buf.u32()),
		Height:           int(buf.u32()),
		BitsPerComponent: int(buf.u8()),
		Filter:           "FlateDecode",
	}
	ct := buf.u8()
	compression := buf.u8()
	filter := buf.u8()
	interlace := buf.u8()
	buf.skip(4) // CRC
	if buf.err != nil {
		return nil, buf.err
	}

	if img.Width <= 0 || img.Height <= 0 || img.Width > maxDimension || img.Height > maxDimension {
		return nil, fmt.Errorf("%w: %dx%d", ErrDimensions, img.Width, img.Height)
	}
	if img.BitsPerComponent > 8 {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedDepth, img.BitsPerComponent)
	}

	switch ct {
	case pngGray, pngGrayAlpha:
		img.ColorSpace = ColorSpaceGray
	case pngRGB, pngRGBA:
		img.ColorSpace = ColorSpaceRGB
	case pngIndexed:
		img.ColorSpace = ColorSpaceIndexed
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedColorType, ct)
	}
	if ct >= pngGrayAlpha && img.BitsPerComponent != 8 {
		return nil, fmt.Errorf(
			"%w: %d with alpha channel",
			ErrUnsupportedDepth, img.BitsPerComponent,
		)
	}

	if compression != 0 {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedCompression, compression)
	}
	if filter != 0 {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedFilter, filter)
	}
	if interlace != 0 {
		return nil, ErrUnsupportedInterlace
	}

	colors := 1
	if img.ColorSpace == ColorSpaceRGB {
		colors = 3
	}
	img.DecodeParms = fmt.Sprintf(
		"/Predictor 15 /Colors %d /BitsPerComponent %d /Columns %d",
		colors, img.BitsPerComponent, img.Width,
	)

	var data bytes.Buffer
chunks:
	for {
		n := buf.u32()
		typ := string(buf.Next(4))
		if buf.err != nil {
			return nil, buf.err
		}

		switch typ {
		case "PLTE":
			img.Palette = buf.Next(n)
		case "tRNS":
			img.Transparency = transparency(ct, buf.Next(n))
		case "IDAT":
			data.Write(buf.Next(n))
		case "pHYs":
			if n != 9 {
				buf.skip(n)
				break
			}
			ppuX := buf.u32()
			buf.skip(4) // pixels per unit, Y axis
			if unit := buf.u8(); unit == 1 {
				img.DPI = math.Round(float64(ppuX) * 0.0254)
			}
		case "IEND":
			break chunks
		default:
			buf.skip(n)
		}
		buf.skip(4) // CRC

		if buf.err != nil {
			return nil, buf.err
		}
	}

	if img.ColorSpace == ColorSpaceIndexed && len(img.Palette) == 0 {
		return nil, ErrMissingPalette
	}

	if ct < pngGrayAlpha {
		img.Data = data.Bytes()
		return img, nil
	}

	color, alpha, err := splitAlpha(data.Bytes(), img.Width, img.Height, ct)
	if err != nil {
		return nil, err
	}
	img.Data = color
	img.SoftMask = &Image{
		Width:            img.Width,
		Height:           img.Height,
		ColorSpace:       ColorSpaceGray,
		BitsPerComponent: 8,
		Filter:           "FlateDecode",
		DecodeParms: fmt.Sprintf(
			"/Predictor 15 /Colors 1 /BitsPerComponent 8 /Columns %d",
			img.Width,
		),
		Data: alpha,
		DPI:  img.DPI,
	}

	return img, nil
}

func transparency(ct uint8, t []byte) []int {
	switch ct {
	case pngGray:
		if len(t) >= 2 {
			return []int{int(t[1])}
		}
	case pngRGB:
		if len(t) >= 6 {
			return []int{int(t[1]), int(t[3]), int(t[5])}
		}
	case pngIndexed:
		if pos := bytes.IndexByte(t, 0); pos >= 0 {
			return []int{pos}
		}
	}
	return nil
}

// splitAlpha separates the interleaved alpha samples of a gray+alpha or RGBA
// image. Every scanline of both planes keeps its original filter type byte;
// PNG filters work per sample, so each plane still decodes on its own.
func splitAlpha(data []byte, w, h int, ct uint8) (color, alpha []byte, err error) {
	zr, err := zlib.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrTruncated, err)
	}
	raw, err := io.ReadAll(zr)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrTruncated, err)
	}

	pixelLen := 4
	if ct == pngGrayAlpha {
		pixelLen = 2
	}
	colorLen := pixelLen - 1
	if w <= 0 || h <= 0 || w > maxDimension || h > maxDimension {
		return nil, nil, fmt.Errorf("%w: %dx%d", ErrDimensions, w, h)
	}
	stride := 1 + w*pixelLen
	if h > len(raw)/stride {
		return nil, nil, ErrTruncated
	}

	colorPlane := make([]byte, 0, h*(1+w*colorLen))
	alphaPlane := make([]byte, 0, h*(1+w))
	for y := range h {
		line := raw[y*stride : (y+1)*stride]
		colorPlane = append(colorPlane, line[0])
		alphaPlane = append(alphaPlane, line[0])
		for x := 1; x < stride; x += pixelLen {
			colorPlane = append(colorPlane, line[x:x+colorLen]...)
			alphaPlane = append(alphaPlane, line[x+colorLen])
		}
	}

	if color, err = deflate(colorPlane); err != nil {
		return nil, nil, err
	}
	if alpha, err = deflate(alphaPlane); err != nil {
		return nil, nil, err
	}
	return color, alpha, nil
}

func deflate(p []byte) ([]byte, error) {
	var out bytes.Buffer
	zw := zlib.NewWriter(&out)
	if _, err := zw.Write(p); err != nil {
		return nil, err
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}
