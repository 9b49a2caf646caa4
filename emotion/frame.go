package emotion

import (
	"errors"
	"fmt"
	"image"
	"image/color"
)

// Frame is one raw camera frame in BGR channel order, the order OpenCV-style
// capture pipelines deliver. The classifier expects RGB, so frames are
// converted before classification.
type Frame struct {
	Width  int
	Height int
	BGR    []byte
}

var errEmptyFrame = errors.New("empty frame")

// RGBImage converts the frame into the RGB channel order the classifier
// expects.
func (f Frame) RGBImage() (*image.NRGBA, error) {
	if f.Width <= 0 || f.Height <= 0 || len(f.BGR) == 0 {
		return nil, errEmptyFrame
	}
	if len(f.BGR) != f.Width*f.Height*3 {
		return nil, fmt.Errorf("frame buffer is %d bytes, expected %d for %dx%d BGR",
			len(f.BGR), f.Width*f.Height*3, f.Width, f.Height)
	}

	img := image.NewNRGBA(image.Rect(0, 0, f.Width, f.Height))
	for y := 0; y < f.Height; y++ {
		for x := 0; x < f.Width; x++ {
			i := (y*f.Width + x) * 3
			img.SetNRGBA(x, y, color.NRGBA{
				R: f.BGR[i+2],
				G: f.BGR[i+1],
				B: f.BGR[i],
				A: 255,
			})
		}
	}
	return img, nil
}

// FrameFromImage repacks an image into a BGR frame. Used by frame sources
// that decode compressed images rather than reading raw camera buffers.
func FrameFromImage(img image.Image) Frame {
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	buf := make([]byte, width*height*3)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			r, g, b, _ := img.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			i := (y*width + x) * 3
			buf[i] = byte(b >> 8)
			buf[i+1] = byte(g >> 8)
			buf[i+2] = byte(r >> 8)
		}
	}
	return Frame{Width: width, Height: height, BGR: buf}
}
