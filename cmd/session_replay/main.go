// Replays a scripted emotion sequence through the detector offline, then
// prints the session summary and writes the session log. Useful for tuning
// the smoothing window without a camera or the analysis service.
package main

import (
	"flag"
	"fmt"
	"image"
	"log"
	"strings"
	"time"

	"sentioai/emotion"
	"sentioai/prompts"
)

// scriptedClassifier replays a fixed label sequence, repeating the last one.
type scriptedClassifier struct {
	labels []string
	next   int
}

func (s *scriptedClassifier) Classify(_ *image.NRGBA) (emotion.Classification, error) {
	label := s.labels[s.next]
	if s.next < len(s.labels)-1 {
		s.next++
	}
	return emotion.Classification{
		DominantEmotion: label,
		Emotions:        map[string]float64{label: 85},
		FaceDetected:    true,
	}, nil
}

func main() {
	script := flag.String("script", "neutral,neutral,happy,happy,happy,sad,happy,happy",
		"Comma-separated emotion sequence to replay")
	window := flag.Int("window", emotion.DefaultSmoothingWindow, "Smoothing window size")
	interval := flag.Duration("interval", emotion.DefaultDetectionInterval, "Detection interval between frames")
	out := flag.String("out", "", "Export path for the session log (default: timestamped file)")
	flag.Parse()

	labels := strings.Split(*script, ",")
	for i := range labels {
		labels[i] = strings.TrimSpace(strings.ToLower(labels[i]))
	}

	now := time.Now()
	clock := func() time.Time { return now }

	detector, err := emotion.NewDetector(&scriptedClassifier{labels: labels}, *window, *interval,
		emotion.WithClock(clock))
	if err != nil {
		log.Fatalf("failed to build detector: %v", err)
	}

	frame := emotion.Frame{Width: 2, Height: 2, BGR: make([]byte, 12)}
	fmt.Printf("Replaying %d frames (window=%d interval=%s)\n\n", len(labels), *window, *interval)

	for i := 0; i < len(labels); i++ {
		result := detector.DetectEmotion(frame)
		fmt.Printf("%3d  raw=%-8s smoothed=%-8s %s\n",
			i+1, result.Emotion, result.SmoothedEmotion, prompts.Emoji(result.SmoothedEmotion))
		now = now.Add(*interval)
	}

	summary, ok := detector.SessionSummary()
	if !ok {
		fmt.Println("\nNo emotions were logged.")
		return
	}

	fmt.Printf("\nSession summary:\n")
	fmt.Printf("   duration:     %.1f minutes\n", summary.DurationMinutes)
	fmt.Printf("   logged:       %d\n", summary.TotalEmotionsLogged)
	fmt.Printf("   most common:  %s %s\n", summary.MostCommonEmotion, prompts.Emoji(summary.MostCommonEmotion))
	for label, count := range summary.EmotionBreakdown {
		fmt.Printf("   %-10s %d\n", label, count)
	}

	path, err := detector.ExportLog(*out)
	if err != nil {
		log.Fatalf("failed to export session log: %v", err)
	}
	fmt.Printf("\nSession log written to %s\n", path)
}
