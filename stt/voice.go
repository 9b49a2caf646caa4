package stt

import "math/rand"

// VoiceTone describes the simulated vocal characteristics of a recording.
// There is no real voice-emotion analysis here: a full implementation would
// look at pitch variation, speech rate, and intensity, but this system only
// simulates the result and forwards it to the companion as context.
type VoiceTone struct {
	Tone       string  `json:"tone"`
	Pace       string  `json:"pace"`
	Intensity  string  `json:"intensity"`
	Confidence float64 `json:"confidence"`
}

var (
	tones       = []string{"energetic", "calm", "tense", "flat", "shaky"}
	paces       = []string{"fast", "normal", "slow"}
	intensities = []string{"high", "medium", "low"}
)

// AnalyzeVoiceTone returns simulated voice characteristics.
func AnalyzeVoiceTone() VoiceTone {
	return VoiceTone{
		Tone:       tones[rand.Intn(len(tones))],
		Pace:       paces[rand.Intn(len(paces))],
		Intensity:  intensities[rand.Intn(len(intensities))],
		Confidence: 0.6 + rand.Float64()*0.3,
	}
}

// String renders the tone in the compact form the companion prompt expects.
func (v VoiceTone) String() string {
	return "tone=" + v.Tone + " pace=" + v.Pace + " intensity=" + v.Intensity
}
