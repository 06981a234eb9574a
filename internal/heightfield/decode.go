package heightfield

import (
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"

	_ "golang.org/x/image/bmp"
	xdraw "golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Decode reads an encoded image and converts its red channel to heights.
// Images larger than maxResolution on either side are downsampled first;
// zero disables the limit. Empty images are rejected.
func Decode(r io.Reader, maxResolution int) (*Field, string, error) {
	img, format, err := image.Decode(r)
	if err != nil {
		return nil, "", fmt.Errorf("decode height map: %w", err)
	}
	f := FromImage(Downsample(img, maxResolution))
	field, err := New(f.Width, f.Height, f.Data)
	if err != nil {
		return nil, format, fmt.Errorf("decode %s height map: %w", format, err)
	}
	return field, format, nil
}

// Downsample scales img so neither side exceeds maxResolution, keeping the
// aspect ratio. Smaller images are returned as is.
func Downsample(img image.Image, maxResolution int) image.Image {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if maxResolution <= 0 || (w <= maxResolution && h <= maxResolution) {
		return img
	}

	tw, th := maxResolution, maxResolution
	if w > h {
		th = max(1, h*maxResolution/w)
	} else if h > w {
		tw = max(1, w*maxResolution/h)
	}
	dst := image.NewNRGBA(image.Rect(0, 0, tw, th))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), img, b, xdraw.Src, nil)
	return dst
}

// FromImage converts the non-premultiplied red channel of img to a field.
func FromImage(img image.Image) *Field {
	b := img.Bounds()
	f := &Field{Width: b.Dx(), Height: b.Dy(), Data: make([]float32, b.Dx()*b.Dy())}
	for y := 0; y < f.Height; y++ {
		for x := 0; x < f.Width; x++ {
			c := color.NRGBA64Model.Convert(img.At(b.Min.X+x, b.Min.Y+y)).(color.NRGBA64)
			f.Data[y*f.Width+x] = float32(c.R) / 0xffff
		}
	}
	return f
}

// Image renders the field as a 16-bit grayscale image, top row first.
func (f *Field) Image() *image.Gray16 {
	img := image.NewGray16(image.Rect(0, 0, f.Width, f.Height))
	for y := 0; y < f.Height; y++ {
		for x := 0; x < f.Width; x++ {
			h := f.Data[y*f.Width+x]
			if h < 0 {
				h = 0
			} else if h > 1 {
				h = 1
			}
			img.SetGray16(x, y, color.Gray16{Y: uint16(h*0xffff + 0.5)})
		}
	}
	return img
}
