package chat

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"google.golang.org/genai"
)

// fallbackMessage is returned when the model is unreachable so the user
// still receives a supportive reply.
const fallbackMessage = "I'm having trouble connecting right now, but I want you to know that what you shared matters. Sometimes taking a moment to write down our thoughts is healing in itself."

// responseStyle shapes how the companion addresses one emotion.
type responseStyle struct {
	Tone     string
	Approach string
	Avoid    string
}

var emotionStyles = map[string]responseStyle{
	"happy": {
		Tone:     "celebratory and encouraging",
		Approach: "amplify the positive emotions and help user savor the moment",
		Avoid:    "being dismissive or bringing up potential problems",
	},
	"sad": {
		Tone:     "gentle, compassionate, and validating",
		Approach: "acknowledge the pain, offer comfort, and gently explore the feelings",
		Avoid:    "trying to fix or minimize the sadness",
	},
	"angry": {
		Tone:     "calm, understanding, and non-judgmental",
		Approach: "validate the anger, help process the trigger, suggest healthy expression",
		Avoid:    "escalating the anger or being dismissive",
	},
	"surprise": {
		Tone:     "curious and engaged",
		Approach: "explore the unexpected event and help process the new information",
		Avoid:    "being overwhelming or dismissive of the surprise",
	},
	"fear": {
		Tone:     "reassuring and grounding",
		Approach: "acknowledge the fear, provide comfort, help ground in reality",
		Avoid:    "minimizing the fear or being overly optimistic",
	},
	"disgust": {
		Tone:     "understanding and supportive",
		Approach: "validate the strong reaction and help explore what values were violated",
		Avoid:    "judging the reaction or the source of disgust",
	},
	"neutral": {
		Tone:     "warm and gently curious",
		Approach: "invite deeper reflection and help uncover underlying feelings",
		Avoid:    "being too probing or assuming something is wrong",
	},
}

// CompanionResponse packages one generated reply with its metadata.
type CompanionResponse struct {
	Response         string  `json:"response"`
	EmotionAddressed string  `json:"emotion_addressed"`
	Confidence       float64 `json:"confidence"`
	Timestamp        string  `json:"timestamp"`
	Success          bool    `json:"success"`
	Fallback         bool    `json:"fallback,omitempty"`
	Error            string  `json:"error,omitempty"`
}

// Companion generates empathetic replies to journal entries, with the tone
// adapted to the writer's detected emotion.
type Companion struct {
	client *genai.Client
	ctx    context.Context
	model  string
}

// NewCompanion creates a Gemini-backed companion. GEMINI_API_KEY must be set.
func NewCompanion() (*Companion, error) {
	ctx := context.Background()

	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY environment variable is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %v", err)
	}

	return &Companion{
		client: client,
		ctx:    ctx,
		model:  "gemini-2.5-flash",
	}, nil
}

// SystemPrompt builds the emotion-aware system instruction. Unknown emotions
// fall back to the neutral style.
func SystemPrompt(emotion string, confidence float64) string {
	style, ok := emotionStyles[emotion]
	if !ok {
		style = emotionStyles["neutral"]
	}

	return fmt.Sprintf(`You are SentioAI, an empathetic emotional wellness companion. A user has just written a journal entry while experiencing the emotion: %s (detected with %.0f%% confidence).

Your role is to:
- Be a wise, compassionate friend who truly listens
- Respond with a %s tone
- %s
- Avoid %s

Guidelines:
- Keep responses to 2-4 sentences (50-100 words)
- Be warm but not overly familiar
- Ask ONE thoughtful follow-up question if appropriate
- Use "I notice..." or "It sounds like..." rather than "You should..."
- Focus on emotional validation before offering any perspective
- Never give medical or therapeutic advice
- Be authentic and avoid clichés

Remember: Your goal is to help the user feel heard, understood, and gently supported in their emotional journey.`,
		emotion, confidence, style.Tone, style.Approach, style.Avoid)
}

// userMessage wraps a journal entry, attaching voice characteristics when a
// recording was analysed alongside the text.
func userMessage(journalEntry, voiceTone string) string {
	message := fmt.Sprintf("Journal entry: '%s'", journalEntry)
	if voiceTone != "" {
		message += fmt.Sprintf("\n\nVoice characteristics: %s", voiceTone)
	}
	return message
}

// GenerateResponse produces one empathetic reply. A model failure does not
// surface as an error: the warm fallback message is returned with
// Success=false so the UI always has something supportive to show.
func (c *Companion) GenerateResponse(journalEntry, emotion string, confidence float64, voiceTone string) CompanionResponse {
	systemInstruction := genai.NewContentFromText(SystemPrompt(emotion, confidence), genai.RoleModel)
	userContent := genai.NewContentFromText(userMessage(journalEntry, voiceTone), genai.RoleUser)

	config := &genai.GenerateContentConfig{
		SystemInstruction: systemInstruction,
		Temperature:       genai.Ptr(float32(0.7)),
		TopP:              genai.Ptr(float32(0.8)),
		TopK:              genai.Ptr(float32(40)),
		MaxOutputTokens:   int32(200),
	}

	resp, err := c.client.Models.GenerateContent(
		c.ctx,
		c.model,
		[]*genai.Content{userContent},
		config,
	)
	if err != nil {
		return CompanionResponse{
			Response:         fallbackMessage,
			EmotionAddressed: emotion,
			Confidence:       confidence,
			Timestamp:        time.Now().Format(time.RFC3339),
			Success:          false,
			Fallback:         true,
			Error:            err.Error(),
		}
	}

	text := strings.ReplaceAll(resp.Text(), "*", "")
	if text == "" {
		text = fallbackMessage
	}

	return CompanionResponse{
		Response:         strings.TrimSpace(text),
		EmotionAddressed: emotion,
		Confidence:       confidence,
		Timestamp:        time.Now().Format(time.RFC3339),
		Success:          true,
	}
}

// GenerateResponseStream streams the reply chunk by chunk.
func (c *Companion) GenerateResponseStream(journalEntry, emotion string, confidence float64, onChunk func(string) error) error {
	systemInstruction := genai.NewContentFromText(SystemPrompt(emotion, confidence), genai.RoleModel)
	userContent := genai.NewContentFromText(userMessage(journalEntry, ""), genai.RoleUser)

	config := &genai.GenerateContentConfig{
		SystemInstruction: systemInstruction,
		Temperature:       genai.Ptr(float32(0.7)),
		TopP:              genai.Ptr(float32(0.8)),
		TopK:              genai.Ptr(float32(40)),
		MaxOutputTokens:   int32(200),
	}

	stream := c.client.Models.GenerateContentStream(
		c.ctx,
		c.model,
		[]*genai.Content{userContent},
		config,
	)

	for resp, err := range stream {
		if err != nil {
			return fmt.Errorf("stream error: %v", err)
		}

		text := strings.ReplaceAll(resp.Text(), "*", "")
		if text != "" {
			if err := onChunk(text); err != nil {
				return fmt.Errorf("chunk callback error: %v", err)
			}
		}
	}

	return nil
}

func (c *Companion) Close() error {
	// The genai client does not expose an explicit Close.
	return nil
}
