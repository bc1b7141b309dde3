// Copyright ©2023 The go-pdf Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package quire_test

import (
	"bytes"
	"encoding/binary"
	"hash/crc32"
	"image"
	"image/color"
	"image/color/palette"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io/fs"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kofi-q/quire"
	"github.com/kofi-q/quire/raster"
)

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func opaqueImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, 4, 2))
	for x := range 4 {
		for y := range 2 {
			img.Set(x, y, color.RGBA{uint8(60 * x), uint8(100 * y), 30, 255})
		}
	}
	return img
}

func TestImagePNGOpaque(t *testing.T) {
	pdf := newDoc("pt")
	pdf.AddPage()
	pdf.RegisterImageReader("pic.png", "", bytes.NewReader(encodePNG(t, opaqueImage())))
	pdf.Image("pic.png", 10, 20, 40, 0, false, "", 0, "")
	doc, _ := render(t, pdf)

	require.True(t, strings.HasPrefix(doc, "%PDF-1.3\n"))
	require.Contains(t, doc, "/Width 4\n/Height 2\n/ColorSpace /DeviceRGB\n/BitsPerComponent 8\n/Filter /FlateDecode")
	require.Contains(t, doc, "/DecodeParms <</Predictor 15 /Colors 3 /BitsPerComponent 8 /Columns 4>>")
	require.Contains(t, doc, "/XObject <<\n/I1 ")
	// Height follows the aspect ratio of the image.
	require.Contains(t, doc, "q 40.00 0 0 20.00 10.00 801.89 cm /I1 Do Q")
	require.NotContains(t, doc, "/SMask")
}

func TestImagePNGAlpha(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 3, 3))
	for x := range 3 {
		for y := range 3 {
			img.SetNRGBA(x, y, color.NRGBA{200, 100, 50, uint8(40 * (x + y))})
		}
	}
	pdf := newDoc("mm")
	pdf.AddPage()
	info := pdf.RegisterImageReader("alpha.png", "", bytes.NewReader(encodePNG(t, img)))
	require.NotNil(t, info)
	require.NoError(t, pdf.Error())
	pdf.ImageOptions("alpha.png", 10, 10, 30, 30, false, quire.ImageOptions{}, 0, "")
	doc, _ := render(t, pdf)

	require.True(t, strings.HasPrefix(doc, "%PDF-1.4\n"))
	require.Contains(t, doc, "/Group <</Type /Group /S /Transparency /CS /DeviceRGB>>")

	m := regexp.MustCompile(`(\d+) 0 obj\n<</Type /XObject\n/Subtype /Image\n/Width 3\n/Height 3\n/ColorSpace /DeviceRGB\n(?:.*\n)*?/SMask (\d+) 0 R`).
		FindStringSubmatch(doc)
	require.NotNil(t, m)
	require.Contains(t, doc, m[2]+" 0 obj\n<</Type /XObject\n/Subtype /Image\n/Width 3\n/Height 3\n/ColorSpace /DeviceGray")
	// The mask is not itself listed as a page resource.
	require.NotContains(t, doc, "/I2 ")
}

func TestImagePNGInterlaced(t *testing.T) {
	data := encodePNG(t, opaqueImage())
	// Set the interlace method of the IHDR chunk and fix up its CRC.
	require.Equal(t, "IHDR", string(data[12:16]))
	data[28] = 1
	binary.BigEndian.PutUint32(data[29:33], crc32.ChecksumIEEE(data[12:29]))

	pdf := newDoc("mm")
	pdf.AddPage()
	require.Nil(t, pdf.RegisterImageReader("interlaced.png", "png", bytes.NewReader(data)))
	require.ErrorIs(t, pdf.Error(), raster.ErrUnsupportedInterlace)
	_, err := pdf.Bytes()
	require.ErrorIs(t, err, raster.ErrUnsupportedInterlace)
}

func TestImageBadSignature(t *testing.T) {
	pdf := newDoc("mm")
	pdf.RegisterImageReader("junk.png", "", strings.NewReader("definitely not a png"))
	require.ErrorIs(t, pdf.Error(), raster.ErrBadSignature)
}

func TestImageUnknownType(t *testing.T) {
	pdf := newDoc("mm")
	pdf.RegisterImageReader("picture.xyz", "", strings.NewReader(""))
	require.Error(t, pdf.Error())
}

func TestImageGIF(t *testing.T) {
	img := image.NewPaletted(image.Rect(0, 0, 5, 5), palette.Plan9[:16])
	for i := range img.Pix {
		img.Pix[i] = uint8(i % 16)
	}
	var buf bytes.Buffer
	require.NoError(t, gif.Encode(&buf, img, nil))

	pdf := newDoc("mm")
	pdf.AddPage()
	pdf.RegisterImageReader("anim.gif", "", &buf)
	pdf.Image("anim.gif", 10, 10, 20, 20, false, "", 0, "")
	doc, _ := render(t, pdf)

	m := regexp.MustCompile(`(\d+) 0 obj\n<</Type /XObject\n/Subtype /Image\n/Width 5\n/Height 5\n/ColorSpace \[/Indexed /DeviceRGB (\d+) (\d+) 0 R\]`).
		FindStringSubmatch(doc)
	require.NotNil(t, m)
	require.Equal(t, "15", m[2])
	// The palette follows the image.
	id, err := strconv.Atoi(m[1])
	require.NoError(t, err)
	require.Equal(t, strconv.Itoa(id+1), m[3])
	require.Contains(t, doc, m[3]+" 0 obj\n<</Length 48>>\nstream\n")
}

func TestImageGIFTransparentPalette(t *testing.T) {
	pal := color.Palette{
		color.RGBA{255, 0, 0, 255},
		color.RGBA{0, 0, 0, 0},
	}
	img := image.NewPaletted(image.Rect(0, 0, 2, 2), pal)
	img.Pix = []uint8{0, 1, 1, 0}
	var buf bytes.Buffer
	require.NoError(t, gif.Encode(&buf, img, nil))

	pdf := newDoc("mm")
	pdf.AddPage()
	pdf.RegisterImageReader("t.gif", "", &buf)
	pdf.Image("t.gif", 10, 10, 20, 20, false, "", 0, "")
	doc, _ := render(t, pdf)

	require.Contains(t, doc, "/Mask [1 1 ]")
}

func TestImageJPEG(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, opaqueImage(), &jpeg.Options{Quality: 90}))
	size := buf.Len()

	pdf := newDoc("mm")
	pdf.AddPage()
	info := pdf.RegisterImageReader("photo.jpg", "", &buf)
	require.NotNil(t, info)
	w, h := info.Extent()
	require.InDelta(t, 4.0*72/96/pdf.GetConversionRatio(), w, 1e-9)
	require.InDelta(t, 2.0*72/96/pdf.GetConversionRatio(), h, 1e-9)

	pdf.Image("photo.jpg", 10, 10, 0, 0, true, "", 0, "")
	doc, _ := render(t, pdf)
	require.Contains(t, doc, "/ColorSpace /DeviceRGB\n/BitsPerComponent 8\n/Filter /DCTDecode\n/Length "+strconv.Itoa(size)+">>")
}

func TestImageFlowPageBreak(t *testing.T) {
	pdf := newDoc("mm")
	pdf.AddPage()
	pdf.RegisterImageReader("pic.png", "", bytes.NewReader(encodePNG(t, opaqueImage())))
	pdf.SetY(250)
	pdf.ImageOptions("pic.png", 30, 0, 100, 50, true, quire.ImageOptions{}, 0, "")
	require.Equal(t, 2, pdf.PageNo())
	_, top, _, _ := pdf.GetMargins()
	require.InDelta(t, top+50, pdf.GetY(), floatTolerance)
}

func TestImageSameNameDecodedOnce(t *testing.T) {
	pdf := newDoc("mm")
	data := encodePNG(t, opaqueImage())
	first := pdf.RegisterImageReader("pic.png", "", bytes.NewReader(data))
	again := pdf.RegisterImageReader("pic.png", "", strings.NewReader("ignored"))
	require.NoError(t, pdf.Error())
	require.Same(t, first, again)
}

func TestImageMissingFile(t *testing.T) {
	pdf := newDoc("mm")
	require.Nil(t, pdf.RegisterImage(filepath.Join(t.TempDir(), "none.png"), ""))
	require.ErrorIs(t, pdf.Error(), quire.ErrEncoding)
	require.ErrorIs(t, pdf.Error(), fs.ErrNotExist)
}
