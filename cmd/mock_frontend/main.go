// Posts sample journal entries against a running server and prints what
// comes back, standing in for the browser during backend work.
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"sentioai/chat"
	"sentioai/models"
	"sentioai/prompts"
)

type sample struct {
	emotion    string
	confidence float64
	text       string
}

var samples = []sample{
	{"happy", 91.2, "Got the internship offer this morning. I keep rereading the email."},
	{"sad", 78.4, "Grandma's birthday would have been today. Missing her a lot."},
	{"angry", 83.0, "My roommate ate my leftovers again. It's such a small thing but it got to me."},
	{"neutral", 55.6, "Nothing much happened today. Work, gym, dinner."},
	{"fear", 74.9, "The presentation is tomorrow and I can't stop imagining it going wrong."},
}

func main() {
	base := flag.String("url", "http://localhost:5001", "Server base URL")
	delay := flag.Duration("delay", 2*time.Second, "Delay between entry uploads")
	wantAI := flag.Bool("ai", false, "Request a companion reply for each entry")
	flag.Parse()

	fmt.Printf("Posting %d journal entries to %s\n\n", len(samples), *base)
	for idx, s := range samples {
		if err := postEntry(*base, s, *wantAI); err != nil {
			log.Printf("upload failed for entry %d: %v\n", idx, err)
		}
		if idx < len(samples)-1 && *delay > 0 {
			time.Sleep(*delay)
		}
	}

	if err := printEntries(*base); err != nil {
		log.Printf("failed to list entries: %v\n", err)
	}
	if err := printCompanionProbe(*base); err != nil {
		log.Printf("companion probe failed: %v\n", err)
	}
}

func postEntry(base string, s sample, wantAI bool) error {
	fmt.Printf("→ [%s %s] %s\n", prompts.Emoji(s.emotion), s.emotion, s.text)

	req := models.JournalEntryRequest{
		Emotion:        s.emotion,
		Confidence:     s.confidence,
		Prompt:         prompts.For(s.emotion),
		EntryText:      s.text,
		WantAIResponse: wantAI,
	}
	payload, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	resp, err := http.Post(base+"/api/journal/entries", "application/json", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("post journal entry: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode >= 300 {
		return fmt.Errorf("server returned %d: %s", resp.StatusCode, string(body))
	}

	var entry models.JournalEntry
	if err := json.Unmarshal(body, &entry); err != nil {
		return fmt.Errorf("decode entry response: %w", err)
	}

	fmt.Printf("   stored as %s at %s\n", entry.ID, entry.ReadableTime)
	if entry.AIResponse != "" {
		fmt.Printf("   companion: %s\n", entry.AIResponse)
	}
	return nil
}

func printEntries(base string) error {
	resp, err := http.Get(base + "/api/journal/entries")
	if err != nil {
		return fmt.Errorf("list entries: %w", err)
	}
	defer resp.Body.Close()

	var entries []models.JournalEntry
	if err := json.NewDecoder(resp.Body).Decode(&entries); err != nil {
		return fmt.Errorf("decode entries: %w", err)
	}

	fmt.Printf("\nJournal now holds %d entries:\n", len(entries))
	for _, e := range entries {
		fmt.Printf("   %s %-8s %.0f%%  %s\n", prompts.Emoji(e.Emotion), e.Emotion, e.Confidence, e.ReadableTime)
	}
	return nil
}

func printCompanionProbe(base string) error {
	req := models.CompanionRequest{
		EntryText:  "Just checking in after a long day.",
		Emotion:    "neutral",
		Confidence: 60,
	}
	payload, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	resp, err := http.Post(base+"/api/companion/respond", "application/json", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("post companion request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusServiceUnavailable {
		fmt.Println("\nCompanion is not configured on the server; skipping probe.")
		return nil
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode >= 300 {
		return fmt.Errorf("server returned %d: %s", resp.StatusCode, string(body))
	}

	var reply chat.CompanionResponse
	if err := json.Unmarshal(body, &reply); err != nil {
		return fmt.Errorf("decode companion response: %w", err)
	}

	fmt.Printf("\nCompanion probe (success=%v fallback=%v):\n   %s\n", reply.Success, reply.Fallback, reply.Response)
	return nil
}
