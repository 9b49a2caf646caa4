package emotion

import "testing"

func TestFrameRGBImageSwapsChannels(t *testing.T) {
	t.Parallel()

	// One pixel: B=10, G=20, R=30.
	frame := Frame{Width: 1, Height: 1, BGR: []byte{10, 20, 30}}
	img, err := frame.RGBImage()
	if err != nil {
		t.Fatalf("RGBImage returned error: %v", err)
	}

	pixel := img.NRGBAAt(0, 0)
	if pixel.R != 30 || pixel.G != 20 || pixel.B != 10 || pixel.A != 255 {
		t.Fatalf("unexpected pixel %+v", pixel)
	}
}

func TestFrameRGBImageRejectsBadBuffers(t *testing.T) {
	t.Parallel()

	if _, err := (Frame{}).RGBImage(); err == nil {
		t.Fatal("expected error for empty frame")
	}
	if _, err := (Frame{Width: 2, Height: 2, BGR: []byte{1, 2, 3}}).RGBImage(); err == nil {
		t.Fatal("expected error for truncated buffer")
	}
}

func TestFrameFromImageRoundTrip(t *testing.T) {
	t.Parallel()

	original := Frame{Width: 2, Height: 1, BGR: []byte{10, 20, 30, 40, 50, 60}}
	img, err := original.RGBImage()
	if err != nil {
		t.Fatalf("RGBImage returned error: %v", err)
	}

	repacked := FrameFromImage(img)
	if repacked.Width != original.Width || repacked.Height != original.Height {
		t.Fatalf("dimensions changed: %dx%d", repacked.Width, repacked.Height)
	}
	for i, b := range original.BGR {
		if repacked.BGR[i] != b {
			t.Fatalf("byte %d changed: %d != %d", i, repacked.BGR[i], b)
		}
	}
}
