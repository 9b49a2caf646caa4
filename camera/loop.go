// Package camera drives the frame-producing side of a detection session: a
// dedicated goroutine reads frames from a capture source, runs them through
// the detector, and hands results to the consumer over a bounded channel.
package camera

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"sentioai/emotion"
	"sentioai/utils"

	"github.com/disintegration/imaging"
	"github.com/mdobak/go-xerrors"
)

// FrameSource yields raw BGR frames from a capture device or recording.
// ReadFrame returns io.EOF when the source is drained.
type FrameSource interface {
	ReadFrame() (emotion.Frame, error)
	Close() error
}

const (
	defaultReadDelay = 50 * time.Millisecond

	// Frames wider than this are downscaled before classification; the
	// classifier gains nothing from full-resolution webcam frames.
	maxFrameWidth = 640
)

// Loop owns one detection session's producer side. The detector is confined
// to this loop's goroutine, which satisfies its single-writer contract.
type Loop struct {
	Source   FrameSource
	Detector *emotion.Detector
	Out      chan<- emotion.Result

	// ReadDelay paces the frame reads. Zero means the default 50ms.
	ReadDelay time.Duration
}

// Run reads frames until the context is cancelled or the source ends.
// Results are never allowed to block the producer: when the consumer lags,
// the verdict for that frame is dropped. Cancellation is cooperative and
// returns nil; only a read failure is an error.
func (l *Loop) Run(ctx context.Context) error {
	logger := utils.GetLogger()
	defer l.Source.Close()

	delay := l.ReadDelay
	if delay <= 0 {
		delay = defaultReadDelay
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		frame, err := l.Source.ReadFrame()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			wrapped := xerrors.New(err)
			logger.ErrorContext(ctx, "failed to read frame", slog.Any("error", wrapped))
			return fmt.Errorf("failed to read frame: %w", err)
		}

		frame = downscale(frame)
		result := l.Detector.DetectEmotion(frame)

		select {
		case l.Out <- result:
		default:
			logger.DebugContext(ctx, "dropping result, consumer lagging",
				slog.String("emotion", result.Emotion))
		}

		select {
		case <-ctx.Done():
			return nil
		case <-time.After(delay):
		}
	}
}

func downscale(frame emotion.Frame) emotion.Frame {
	if frame.Width <= maxFrameWidth {
		return frame
	}
	img, err := frame.RGBImage()
	if err != nil {
		// Let the detector report the malformed frame.
		return frame
	}
	resized := imaging.Resize(img, maxFrameWidth, 0, imaging.Linear)
	return emotion.FrameFromImage(resized)
}
