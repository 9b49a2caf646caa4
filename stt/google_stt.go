package stt

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"google.golang.org/api/option"
	speech "google.golang.org/api/speech/v1"
)

// Transcriber converts uploaded voice recordings to text via the Google
// Speech-to-Text API.
type Transcriber struct {
	service  *speech.Service
	language string
}

// NewTranscriber builds a transcriber. GOOGLE_SPEECH_API_KEY must be set.
func NewTranscriber(ctx context.Context) (*Transcriber, error) {
	apiKey := os.Getenv("GOOGLE_SPEECH_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("GOOGLE_SPEECH_API_KEY environment variable is required")
	}

	service, err := speech.NewService(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create speech service: %v", err)
	}

	return &Transcriber{
		service:  service,
		language: "en-US",
	}, nil
}

// TranscribeFile reads an audio file and returns its transcript.
func (t *Transcriber) TranscribeFile(path string) (string, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return "", fmt.Errorf("failed to read audio file: %w", err)
	}
	return t.Transcribe(data, encodingForExt(filepath.Ext(path)))
}

// Transcribe sends raw audio bytes for recognition. The encoding follows the
// Speech API's enum names ("WEBM_OPUS", "LINEAR16", ...).
func (t *Transcriber) Transcribe(audio []byte, encoding string) (string, error) {
	if len(audio) == 0 {
		return "", fmt.Errorf("audio payload is empty")
	}

	request := &speech.RecognizeRequest{
		Config: &speech.RecognitionConfig{
			Encoding:                   encoding,
			LanguageCode:               t.language,
			EnableAutomaticPunctuation: true,
		},
		Audio: &speech.RecognitionAudio{
			Content: base64.StdEncoding.EncodeToString(audio),
		},
	}

	resp, err := t.service.Speech.Recognize(request).Do()
	if err != nil {
		return "", fmt.Errorf("speech recognition failed: %v", err)
	}

	var parts []string
	for _, result := range resp.Results {
		if len(result.Alternatives) > 0 {
			parts = append(parts, result.Alternatives[0].Transcript)
		}
	}
	if len(parts) == 0 {
		return "", fmt.Errorf("no speech recognized")
	}

	return strings.TrimSpace(strings.Join(parts, " ")), nil
}

func encodingForExt(ext string) string {
	switch strings.ToLower(ext) {
	case ".wav":
		return "LINEAR16"
	case ".flac":
		return "FLAC"
	case ".ogg", ".opus":
		return "OGG_OPUS"
	case ".webm":
		return "WEBM_OPUS"
	default:
		return "ENCODING_UNSPECIFIED"
	}
}
