package models

// JournalEntry is one persisted journal record: what the user wrote, the
// emotion detected while writing, and the companion's reply if one was
// generated. Timestamp is RFC 3339; ReadableTime is the display form.
type JournalEntry struct {
	ID           string  `json:"id" bson:"id"`
	Timestamp    string  `json:"timestamp" bson:"timestamp"`
	Emotion      string  `json:"emotion" bson:"emotion"`
	Confidence   float64 `json:"confidence" bson:"confidence"`
	Prompt       string  `json:"prompt,omitempty" bson:"prompt,omitempty"`
	EntryText    string  `json:"entryText" bson:"entry_text"`
	AIResponse   string  `json:"aiResponse,omitempty" bson:"ai_response,omitempty"`
	VoiceData    string  `json:"voiceData,omitempty" bson:"voice_data,omitempty"`
	ReadableTime string  `json:"readableTime" bson:"readable_time"`
}

// FramePayload carries one webcam frame from the browser over the socket,
// as a base64-encoded JPEG or PNG.
type FramePayload struct {
	Image string `json:"image"`
}

// JournalEntryRequest is the POST body for saving a journal entry. When
// WantAIResponse is set the companion reply is generated before persisting.
type JournalEntryRequest struct {
	Emotion        string  `json:"emotion"`
	Confidence     float64 `json:"confidence"`
	Prompt         string  `json:"prompt,omitempty"`
	EntryText      string  `json:"entryText"`
	VoiceData      string  `json:"voiceData,omitempty"`
	WantAIResponse bool    `json:"wantAiResponse,omitempty"`
}

// CompanionRequest is the POST body for a standalone companion reply.
type CompanionRequest struct {
	EntryText  string  `json:"entryText"`
	Emotion    string  `json:"emotion"`
	Confidence float64 `json:"confidence"`
	VoiceData  string  `json:"voiceData,omitempty"`
}
