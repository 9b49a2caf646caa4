package emotion

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"time"

	"sentioai/utils"
)

const (
	// DefaultSmoothingWindow is the number of recent observations the
	// smoothed verdict is computed over.
	DefaultSmoothingWindow = 8

	// DefaultDetectionInterval is the minimum wall-clock spacing between
	// actual classifier invocations, decoupled from the frame-read rate.
	DefaultDetectionInterval = 3 * time.Second

	// logInterval is the fixed cadence of the session log, independent of
	// the detection interval.
	logInterval = 15 * time.Second
)

// Detector converts a stream of camera frames into a stable emotion verdict
// while bounding the rate of classifier calls, and keeps a coarse session log
// for analytics.
//
// A Detector is not safe for unsynchronized concurrent use. Confine each
// instance to one producer goroutine, or serialize calls with external
// locking.
type Detector struct {
	classifier        Classifier
	smoothingWindow   int
	detectionInterval time.Duration
	now               func() time.Time

	history       []Observation
	sessionLog    []SessionLogEntry
	lastDetection time.Time
}

// Option adjusts detector construction.
type Option func(*Detector)

// WithClock replaces the wall clock. Tests use this to drive the rate gate
// and the log cadence deterministically.
func WithClock(now func() time.Time) Option {
	return func(d *Detector) {
		d.now = now
	}
}

// NewDetector builds a detector around the supplied classifier.
// The smoothing window and detection interval must both be positive.
func NewDetector(classifier Classifier, smoothingWindow int, detectionInterval time.Duration, opts ...Option) (*Detector, error) {
	if classifier == nil {
		return nil, fmt.Errorf("classifier is required")
	}
	if smoothingWindow <= 0 {
		return nil, fmt.Errorf("invalid smoothing window: %d", smoothingWindow)
	}
	if detectionInterval <= 0 {
		return nil, fmt.Errorf("invalid detection interval: %s", detectionInterval)
	}

	d := &Detector{
		classifier:        classifier,
		smoothingWindow:   smoothingWindow,
		detectionInterval: detectionInterval,
		now:               time.Now,
		history:           make([]Observation, 0, smoothingWindow),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d, nil
}

// DetectEmotion classifies one frame. Calls arriving inside the detection
// interval return the cached verdict without touching the classifier. A
// failed classification yields the neutral fallback with the error attached;
// no observation or log entry is recorded and the detector stays usable.
func (d *Detector) DetectEmotion(frame Frame) Result {
	now := d.now()

	if !d.lastDetection.IsZero() && now.Sub(d.lastDetection) < d.detectionInterval {
		return d.LastResult()
	}

	img, err := frame.RGBImage()
	if err != nil {
		return d.failureResult(now, err)
	}

	cls, err := d.classifier.Classify(img)
	if err != nil {
		return d.failureResult(now, err)
	}

	if !cls.FaceDetected {
		// The classifier ran, so the rate gate advances, but a faceless
		// frame records nothing.
		d.lastDetection = now
		return Result{
			Emotion:         DefaultEmotion,
			Confidence:      0,
			SmoothedEmotion: d.SmoothedEmotion(),
			AllEmotions:     copyScores(cls.Emotions),
			FaceDetected:    false,
			Timestamp:       unixSeconds(now),
		}
	}

	confidence := cls.Emotions[cls.DominantEmotion]
	obs := Observation{
		Emotion:     cls.DominantEmotion,
		Confidence:  confidence,
		CapturedAt:  now,
		AllEmotions: copyScores(cls.Emotions),
	}

	d.history = append(d.history, obs)
	if len(d.history) > d.smoothingWindow {
		d.history = d.history[1:]
	}
	d.lastDetection = now

	smoothed := d.SmoothedEmotion()

	if len(d.sessionLog) == 0 || unixSeconds(now)-d.sessionLog[len(d.sessionLog)-1].LoggedAt >= logInterval.Seconds() {
		d.logEmotion(smoothed, now)
	}

	return Result{
		Emotion:         obs.Emotion,
		Confidence:      obs.Confidence,
		SmoothedEmotion: smoothed,
		AllEmotions:     copyScores(obs.AllEmotions),
		FaceDetected:    true,
		Timestamp:       unixSeconds(now),
	}
}

// LastResult returns the most recent verdict without running a new
// classification. A fresh detector reports the neutral default.
func (d *Detector) LastResult() Result {
	if len(d.history) == 0 {
		return Result{
			Emotion:         DefaultEmotion,
			Confidence:      0,
			SmoothedEmotion: DefaultEmotion,
			AllEmotions:     map[string]float64{},
			FaceDetected:    false,
			Timestamp:       unixSeconds(d.now()),
		}
	}

	last := d.history[len(d.history)-1]
	return Result{
		Emotion:         last.Emotion,
		Confidence:      last.Confidence,
		SmoothedEmotion: d.SmoothedEmotion(),
		AllEmotions:     copyScores(last.AllEmotions),
		FaceDetected:    true,
		Timestamp:       unixSeconds(last.CapturedAt),
	}
}

// SmoothedEmotion computes the recency-weighted plurality vote over the
// buffer. Entries are weighted (i+1)/N from oldest to newest; ties go to the
// emotion encountered first, which makes the verdict deterministic for
// identical input sequences.
func (d *Detector) SmoothedEmotion() string {
	if len(d.history) == 0 {
		return DefaultEmotion
	}

	n := float64(len(d.history))
	order := make([]string, 0, len(d.history))
	weights := make(map[string]float64, len(d.history))
	for i, obs := range d.history {
		if _, seen := weights[obs.Emotion]; !seen {
			order = append(order, obs.Emotion)
		}
		weights[obs.Emotion] += float64(i+1) / n
	}

	best := order[0]
	for _, emotion := range order[1:] {
		if weights[emotion] > weights[best] {
			best = emotion
		}
	}
	return best
}

func (d *Detector) logEmotion(emotion string, now time.Time) {
	d.sessionLog = append(d.sessionLog, SessionLogEntry{
		Emotion:      emotion,
		LoggedAt:     unixSeconds(now),
		ReadableTime: now.Format("15:04:05"),
	})
}

// SessionLog returns a copy of the session log in append order.
func (d *Detector) SessionLog() []SessionLogEntry {
	entries := make([]SessionLogEntry, len(d.sessionLog))
	copy(entries, d.sessionLog)
	return entries
}

// SessionSummary aggregates the session log. The second return value is
// false when nothing has been logged yet; that case is distinct from a
// populated zero-duration summary.
func (d *Detector) SessionSummary() (SessionSummary, bool) {
	if len(d.sessionLog) == 0 {
		return SessionSummary{}, false
	}

	order := make([]string, 0, len(d.sessionLog))
	breakdown := make(map[string]int, len(d.sessionLog))
	for _, entry := range d.sessionLog {
		if _, seen := breakdown[entry.Emotion]; !seen {
			order = append(order, entry.Emotion)
		}
		breakdown[entry.Emotion]++
	}

	mostCommon := order[0]
	for _, emotion := range order[1:] {
		if breakdown[emotion] > breakdown[mostCommon] {
			mostCommon = emotion
		}
	}

	first := d.sessionLog[0]
	last := d.sessionLog[len(d.sessionLog)-1]
	durationSeconds := last.LoggedAt - first.LoggedAt

	return SessionSummary{
		DurationMinutes:     math.Round(durationSeconds/60*10) / 10,
		TotalEmotionsLogged: len(d.sessionLog),
		MostCommonEmotion:   mostCommon,
		EmotionBreakdown:    breakdown,
		SessionStart:        first.ReadableTime,
		SessionEnd:          last.ReadableTime,
	}, true
}

// ExportLog serializes the session log as a JSON array. An empty path derives
// a timestamped filename to avoid collisions. The returned path is the one
// written. A write failure is fatal for this call only; the in-memory log is
// untouched and the detector remains usable.
func (d *Detector) ExportLog(path string) (string, error) {
	if path == "" {
		path = fmt.Sprintf("emotion_log_%d.json", d.now().Unix())
	}

	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := utils.CreateFolder(dir); err != nil {
			return "", err
		}
	}

	entries := d.sessionLog
	if entries == nil {
		entries = []SessionLogEntry{}
	}
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal emotion log: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write emotion log: %w", err)
	}
	return path, nil
}

func (d *Detector) failureResult(now time.Time, err error) Result {
	return Result{
		Emotion:         DefaultEmotion,
		Confidence:      0,
		SmoothedEmotion: DefaultEmotion,
		AllEmotions:     map[string]float64{},
		FaceDetected:    false,
		Timestamp:       unixSeconds(now),
		Error:           err.Error(),
	}
}

func copyScores(scores map[string]float64) map[string]float64 {
	clone := make(map[string]float64, len(scores))
	for emotion, score := range scores {
		clone[emotion] = score
	}
	return clone
}

func unixSeconds(t time.Time) float64 {
	return float64(t.UnixNano()) / float64(time.Second)
}
