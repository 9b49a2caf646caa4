package camera

import (
	"context"
	"errors"
	"image"
	"io"
	"testing"
	"time"

	"sentioai/emotion"
)

type staticClassifier struct{}

func (staticClassifier) Classify(_ *image.NRGBA) (emotion.Classification, error) {
	return emotion.Classification{
		DominantEmotion: emotion.Happy,
		Emotions:        map[string]float64{emotion.Happy: 90},
		FaceDetected:    true,
	}, nil
}

type sliceSource struct {
	frames []emotion.Frame
	closed bool
}

func (s *sliceSource) ReadFrame() (emotion.Frame, error) {
	if len(s.frames) == 0 {
		return emotion.Frame{}, io.EOF
	}
	frame := s.frames[0]
	s.frames = s.frames[1:]
	return frame, nil
}

func (s *sliceSource) Close() error {
	s.closed = true
	return nil
}

type endlessSource struct{}

func (endlessSource) ReadFrame() (emotion.Frame, error) {
	return emotion.Frame{Width: 2, Height: 2, BGR: make([]byte, 12)}, nil
}

func (endlessSource) Close() error { return nil }

type failingSource struct{}

func (failingSource) ReadFrame() (emotion.Frame, error) {
	return emotion.Frame{}, errors.New("device disconnected")
}

func (failingSource) Close() error { return nil }

func newLoopDetector(t *testing.T) *emotion.Detector {
	t.Helper()
	detector, err := emotion.NewDetector(staticClassifier{}, 8, time.Nanosecond)
	if err != nil {
		t.Fatalf("NewDetector returned error: %v", err)
	}
	return detector
}

func frames(n int) []emotion.Frame {
	out := make([]emotion.Frame, n)
	for i := range out {
		out[i] = emotion.Frame{Width: 2, Height: 2, BGR: make([]byte, 12)}
	}
	return out
}

func TestLoopDrainsSourceAndCloses(t *testing.T) {
	t.Parallel()

	src := &sliceSource{frames: frames(3)}
	out := make(chan emotion.Result, 8)
	loop := &Loop{Source: src, Detector: newLoopDetector(t), Out: out, ReadDelay: time.Millisecond}

	if err := loop.Run(context.Background()); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if !src.closed {
		t.Fatal("source was not closed")
	}
	if got := len(out); got != 3 {
		t.Fatalf("expected 3 results, got %d", got)
	}
	result := <-out
	if result.Emotion != emotion.Happy {
		t.Fatalf("unexpected emotion %q", result.Emotion)
	}
}

func TestLoopStopsOnCancel(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	out := make(chan emotion.Result, 1)
	loop := &Loop{Source: endlessSource{}, Detector: newLoopDetector(t), Out: out, ReadDelay: time.Millisecond}

	done := make(chan error, 1)
	go func() { done <- loop.Run(ctx) }()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("cancelled run returned error: %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("loop did not stop after cancellation")
	}
}

func TestLoopNeverBlocksOnFullChannel(t *testing.T) {
	t.Parallel()

	// Channel of one, many frames, no consumer: the loop must still finish.
	src := &sliceSource{frames: frames(10)}
	out := make(chan emotion.Result, 1)
	loop := &Loop{Source: src, Detector: newLoopDetector(t), Out: out, ReadDelay: time.Millisecond}

	done := make(chan error, 1)
	go func() { done <- loop.Run(context.Background()) }()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run returned error: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("loop blocked on a full channel")
	}
}

func TestLoopSurfacesReadFailure(t *testing.T) {
	t.Parallel()

	out := make(chan emotion.Result, 1)
	loop := &Loop{Source: failingSource{}, Detector: newLoopDetector(t), Out: out, ReadDelay: time.Millisecond}

	if err := loop.Run(context.Background()); err == nil {
		t.Fatal("expected error from failing source")
	}
}
