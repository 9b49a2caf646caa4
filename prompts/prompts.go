// Package prompts maps detected emotions to writing prompts and display
// attributes. Every lookup switches exhaustively over the closed emotion set
// with a neutral fallback arm, so an unrecognized classifier label degrades
// to the neutral presentation instead of a missing-key surprise.
package prompts

import (
	"math/rand"

	"sentioai/emotion"
)

var promptPools = map[string][]string{
	emotion.Happy: {
		"What's bringing you joy today? Let's capture this positive moment...",
		"You seem bright today! What would you like to celebrate or remember?",
		"There's positive energy around you. What's going well in your life right now?",
		"Your happiness is showing! What experience or thought is lifting your spirits?",
	},
	emotion.Sad: {
		"It looks like something is weighing on your heart. What would you like to share?",
		"Sometimes writing helps lighten emotional burdens. What's on your mind?",
		"I notice you might be feeling down. Would you like to explore what's happening?",
		"Your feelings are valid. What's making this moment difficult for you?",
	},
	emotion.Angry: {
		"I can sense some tension. What's frustrating you right now?",
		"Strong emotions often carry important messages. What's triggering this feeling?",
		"It's okay to feel angry. What situation or thought is bothering you?",
		"Sometimes writing helps process intense feelings. What's stirring this energy in you?",
	},
	emotion.Surprise: {
		"You look surprised! What unexpected thing just happened or crossed your mind?",
		"Something seems to have caught your attention. What's the surprising moment about?",
		"Life has a way of surprising us. What's the unexpected element you're processing?",
		"Your expression suggests something unexpected. What's this new development?",
	},
	emotion.Fear: {
		"I notice some apprehension. What's making you feel uncertain right now?",
		"Fear often points to something important to us. What's causing this worry?",
		"It's natural to feel anxious sometimes. What's creating this unease?",
		"You seem concerned about something. What thoughts are making you feel unsettled?",
	},
	emotion.Disgust: {
		"Something seems to be bothering you. What's creating this negative reaction?",
		"You look like something doesn't sit right with you. What's the source of this feeling?",
		"Sometimes we encounter things that don't align with our values. What's troubling you?",
		"I can see something has put you off. What's causing this strong reaction?",
	},
	emotion.Neutral: {
		"How are you feeling in this moment? What's present for you right now?",
		"Sometimes the quiet moments are perfect for reflection. What's on your mind?",
		"You seem calm and centered. What would you like to explore or share today?",
		"This feels like a good moment for some gentle self-reflection. What's stirring within you?",
	},
}

// canonical folds any label into the closed emotion set; unrecognized labels
// present as neutral while the raw label stays untouched in logs and storage.
func canonical(label string) string {
	switch label {
	case emotion.Happy, emotion.Sad, emotion.Angry, emotion.Surprise,
		emotion.Fear, emotion.Disgust, emotion.Neutral:
		return label
	default:
		return emotion.Neutral
	}
}

// For picks a random writing prompt for the given emotion.
func For(label string) string {
	pool := promptPools[canonical(label)]
	return pool[rand.Intn(len(pool))]
}

// Pool returns all prompts for the given emotion.
func Pool(label string) []string {
	pool := promptPools[canonical(label)]
	out := make([]string, len(pool))
	copy(out, pool)
	return out
}

// Emoji returns the display emoji for an emotion.
func Emoji(label string) string {
	switch canonical(label) {
	case emotion.Happy:
		return "😊"
	case emotion.Sad:
		return "😢"
	case emotion.Angry:
		return "😠"
	case emotion.Surprise:
		return "😲"
	case emotion.Fear:
		return "😰"
	case emotion.Disgust:
		return "🤢"
	default:
		return "😐"
	}
}

// Color returns the display color (hex) for an emotion.
func Color(label string) string {
	switch canonical(label) {
	case emotion.Happy:
		return "#4CAF50"
	case emotion.Sad:
		return "#2196F3"
	case emotion.Angry:
		return "#F44336"
	case emotion.Surprise:
		return "#FFC107"
	case emotion.Fear:
		return "#9C27B0"
	case emotion.Disgust:
		return "#795548"
	default:
		return "#9E9E9E"
	}
}
