package stt

import (
	"strings"
	"testing"
)

func contains(values []string, v string) bool {
	for _, candidate := range values {
		if candidate == v {
			return true
		}
	}
	return false
}

func TestAnalyzeVoiceToneStaysInVocabulary(t *testing.T) {
	t.Parallel()

	for i := 0; i < 50; i++ {
		tone := AnalyzeVoiceTone()
		if !contains(tones, tone.Tone) {
			t.Fatalf("unexpected tone %q", tone.Tone)
		}
		if !contains(paces, tone.Pace) {
			t.Fatalf("unexpected pace %q", tone.Pace)
		}
		if !contains(intensities, tone.Intensity) {
			t.Fatalf("unexpected intensity %q", tone.Intensity)
		}
		if tone.Confidence < 0.6 || tone.Confidence > 0.9 {
			t.Fatalf("confidence %.3f out of range", tone.Confidence)
		}
	}
}

func TestVoiceToneString(t *testing.T) {
	t.Parallel()

	tone := VoiceTone{Tone: "calm", Pace: "slow", Intensity: "low", Confidence: 0.7}
	rendered := tone.String()
	for _, want := range []string{"tone=calm", "pace=slow", "intensity=low"} {
		if !strings.Contains(rendered, want) {
			t.Fatalf("rendered tone %q missing %q", rendered, want)
		}
	}
}

func TestEncodingForExt(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		".wav":  "LINEAR16",
		".WAV":  "LINEAR16",
		".flac": "FLAC",
		".webm": "WEBM_OPUS",
		".mp3":  "ENCODING_UNSPECIFIED",
	}
	for ext, want := range cases {
		if got := encodingForExt(ext); got != want {
			t.Fatalf("encodingForExt(%q) = %q, want %q", ext, got, want)
		}
	}
}
