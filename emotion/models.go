package emotion

import (
	"image"
	"time"
)

// Canonical emotion labels produced by the facial classifier.
const (
	Angry    = "angry"
	Disgust  = "disgust"
	Fear     = "fear"
	Happy    = "happy"
	Sad      = "sad"
	Surprise = "surprise"
	Neutral  = "neutral"
)

// DefaultEmotion is reported whenever no observation is available.
const DefaultEmotion = Neutral

// Labels lists the closed emotion set in the classifier's ordering. The
// detector itself never validates classifier output against this set; labels
// outside it are passed through untouched.
var Labels = []string{Angry, Disgust, Fear, Happy, Sad, Surprise, Neutral}

// Classification is the verdict of one classifier call for a single frame.
// Confidences are percentages in [0,100]. A frame without a usable face is not
// an error: the classifier reports FaceDetected=false with a neutral verdict.
type Classification struct {
	DominantEmotion string             `json:"dominant_emotion"`
	Emotions        map[string]float64 `json:"emotion"`
	FaceDetected    bool               `json:"face_detected"`
}

// Classifier analyses a single RGB frame. Implementations must tolerate
// frames without a visible face and, when several faces are found, report the
// first one in their own ordering.
type Classifier interface {
	Classify(img *image.NRGBA) (Classification, error)
}

// Observation is one successful classification kept in the smoothing buffer.
// Observations are immutable once created.
type Observation struct {
	Emotion     string
	Confidence  float64
	CapturedAt  time.Time
	AllEmotions map[string]float64
}

// SessionLogEntry is one coarse-cadence sample of the smoothed emotion,
// recorded independently of the raw classification rate.
type SessionLogEntry struct {
	Emotion      string  `json:"emotion"`
	LoggedAt     float64 `json:"logged_at"`
	ReadableTime string  `json:"readable_time"`
}

// Result is the per-frame verdict handed back to the caller. Timestamp is in
// unix seconds. Error is set only when the classification failed, in which
// case the remaining fields hold the neutral fallback.
type Result struct {
	Emotion         string             `json:"emotion"`
	Confidence      float64            `json:"confidence"`
	SmoothedEmotion string             `json:"smoothed_emotion"`
	AllEmotions     map[string]float64 `json:"all_emotions"`
	FaceDetected    bool               `json:"face_detected"`
	Timestamp       float64            `json:"timestamp"`
	Error           string             `json:"error,omitempty"`
}

// SessionSummary aggregates the full session log.
type SessionSummary struct {
	DurationMinutes     float64        `json:"duration_minutes"`
	TotalEmotionsLogged int            `json:"total_emotions_logged"`
	MostCommonEmotion   string         `json:"most_common_emotion"`
	EmotionBreakdown    map[string]int `json:"emotion_breakdown"`
	SessionStart        string         `json:"session_start"`
	SessionEnd          string         `json:"session_end"`
}
