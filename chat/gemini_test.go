package chat

import (
	"strings"
	"testing"
)

func TestSystemPromptEmbedsEmotionStyle(t *testing.T) {
	t.Parallel()

	prompt := SystemPrompt("sad", 87)
	if !strings.Contains(prompt, "sad") {
		t.Fatal("prompt should name the detected emotion")
	}
	if !strings.Contains(prompt, "87% confidence") {
		t.Fatal("prompt should state the detection confidence")
	}
	if !strings.Contains(prompt, "gentle, compassionate, and validating") {
		t.Fatal("prompt should carry the sad tone")
	}
	if !strings.Contains(prompt, "trying to fix or minimize the sadness") {
		t.Fatal("prompt should carry the sad avoid-clause")
	}
}

func TestSystemPromptUnknownEmotionUsesNeutralStyle(t *testing.T) {
	t.Parallel()

	prompt := SystemPrompt("contempt", 50)
	if !strings.Contains(prompt, "warm and gently curious") {
		t.Fatal("unknown emotion should fall back to the neutral tone")
	}
	// The raw label is still surfaced to the model.
	if !strings.Contains(prompt, "contempt") {
		t.Fatal("prompt should pass the raw label through")
	}
}

func TestUserMessageAttachesVoiceTone(t *testing.T) {
	t.Parallel()

	plain := userMessage("long day at work", "")
	if strings.Contains(plain, "Voice characteristics") {
		t.Fatal("voice section should be omitted without voice data")
	}

	withVoice := userMessage("long day at work", "tone=flat pace=slow")
	if !strings.Contains(withVoice, "Voice characteristics: tone=flat pace=slow") {
		t.Fatal("voice section missing")
	}
}
