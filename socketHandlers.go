package main

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"log"
	"log/slog"
	"strings"
	"sync"
	"time"

	"sentioai/emotion"
	"sentioai/models"
	"sentioai/utils"

	"github.com/disintegration/imaging"
	socketio "github.com/googollee/go-socket.io"
	"github.com/mdobak/go-xerrors"
)

// socketController owns the session's detector. The detector is not safe for
// concurrent use, so every access goes through the mutex.
type socketController struct {
	mu       sync.Mutex
	detector *emotion.Detector
}

func newSocketController(detector *emotion.Detector) *socketController {
	return &socketController{detector: detector}
}

func (c *socketController) emitLastResult(socket socketio.Conn) {
	c.mu.Lock()
	result := c.detector.LastResult()
	c.mu.Unlock()
	socket.Emit("emotionUpdate", result)
}

func (c *socketController) sessionSummary() (emotion.SessionSummary, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.detector.SessionSummary()
}

func (c *socketController) exportLog(path string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.detector.ExportLog(path)
}

// decodeFramePayload turns the browser's base64 JPEG/PNG into a raw frame.
func decodeFramePayload(payload models.FramePayload) (emotion.Frame, error) {
	data := payload.Image
	// Strip a data URL prefix ("data:image/jpeg;base64,...") if present.
	if idx := strings.Index(data, ","); idx != -1 && strings.HasPrefix(data, "data:") {
		data = data[idx+1:]
	}

	raw, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		return emotion.Frame{}, err
	}

	img, err := imaging.Decode(bytes.NewReader(raw))
	if err != nil {
		return emotion.Frame{}, err
	}

	return emotion.FrameFromImage(img), nil
}

func (c *socketController) handleFrame(socket socketio.Conn, frameData string) {
	logger := utils.GetLogger()
	ctx := context.Background()

	if frameData == "" {
		logger.ErrorContext(ctx, "no data received in frame event")
		socket.Emit("detectionError", map[string]string{"message": "no frame data received"})
		return
	}

	var payload models.FramePayload
	if err := json.Unmarshal([]byte(frameData), &payload); err != nil {
		err := xerrors.New(err)
		logger.ErrorContext(ctx, "failed to parse frame payload", slog.Any("error", err))
		socket.Emit("detectionError", map[string]string{"message": "invalid frame payload"})
		return
	}

	frame, err := decodeFramePayload(payload)
	if err != nil {
		err := xerrors.New(err)
		logger.ErrorContext(ctx, "failed to decode frame image", slog.Any("error", err))
		socket.Emit("detectionError", map[string]string{"message": "unable to decode frame"})
		return
	}

	started := time.Now()

	c.mu.Lock()
	result := c.detector.DetectEmotion(frame)
	c.mu.Unlock()

	latency := time.Since(started).Seconds() * 1000
	logger.InfoContext(ctx, "detection complete",
		slog.String("socketID", socket.ID()),
		slog.Float64("latency_ms", latency),
		slog.String("emotion", result.Emotion),
		slog.String("smoothed", result.SmoothedEmotion),
		slog.Float64("confidence", result.Confidence),
		slog.Bool("faceDetected", result.FaceDetected),
	)

	socket.Emit("emotionUpdate", result)
}

func (c *socketController) handleRequestSessionSummary(socket socketio.Conn) {
	summary, ok := c.sessionSummary()
	if !ok {
		socket.Emit("detectionError", map[string]string{"message": "no emotions logged yet"})
		return
	}

	log.Printf("sessionSummary requested by %s: %d emotions over %.1f minutes\n",
		socket.ID(), summary.TotalEmotionsLogged, summary.DurationMinutes)
	socket.Emit("sessionSummary", summary)
}
