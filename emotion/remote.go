package emotion

import (
	"bytes"
	"encoding/json"
	"fmt"
	"image"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/disintegration/imaging"
)

// RemoteClassifier communicates with the Python DeepFace analysis service.
type RemoteClassifier struct {
	serviceURL string
	client     *http.Client
}

// analyzeResponse represents the response from the analysis service. The
// service returns one entry per detected face, in its own ordering.
type analyzeResponse struct {
	Results []Classification `json:"results"`
}

// NewRemoteClassifier creates a classifier client. An empty URL falls back to
// the local development sidecar.
func NewRemoteClassifier(serviceURL string) *RemoteClassifier {
	if serviceURL == "" {
		serviceURL = "http://localhost:5003"
	}

	return &RemoteClassifier{
		serviceURL: serviceURL,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// HealthCheck verifies the analysis service is running.
func (rc *RemoteClassifier) HealthCheck() error {
	resp, err := rc.client.Get(rc.serviceURL + "/health")
	if err != nil {
		return fmt.Errorf("emotion service not reachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("emotion service unhealthy: status %d", resp.StatusCode)
	}

	return nil
}

// Classify uploads one RGB frame as JPEG and returns the verdict for the
// first detected face. A frame without a face yields a neutral verdict with
// FaceDetected=false, not an error.
func (rc *RemoteClassifier) Classify(img *image.NRGBA) (Classification, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("frame", "frame.jpg")
	if err != nil {
		return Classification{}, fmt.Errorf("failed to create form file: %w", err)
	}
	if err := imaging.Encode(part, img, imaging.JPEG, imaging.JPEGQuality(85)); err != nil {
		return Classification{}, fmt.Errorf("failed to encode frame: %w", err)
	}
	if err := writer.Close(); err != nil {
		return Classification{}, fmt.Errorf("failed to finalize form: %w", err)
	}

	req, err := http.NewRequest(http.MethodPost, rc.serviceURL+"/analyze", &body)
	if err != nil {
		return Classification{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := rc.client.Do(req)
	if err != nil {
		return Classification{}, fmt.Errorf("emotion service request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return Classification{}, fmt.Errorf("emotion service returned status %d: %s", resp.StatusCode, payload)
	}

	var analysis analyzeResponse
	if err := json.NewDecoder(resp.Body).Decode(&analysis); err != nil {
		return Classification{}, fmt.Errorf("failed to decode emotion response: %w", err)
	}

	if len(analysis.Results) == 0 {
		return Classification{
			DominantEmotion: DefaultEmotion,
			Emotions:        map[string]float64{},
			FaceDetected:    false,
		}, nil
	}

	// Multiple faces: always use the first result in the service's ordering.
	first := analysis.Results[0]
	if first.Emotions == nil {
		first.Emotions = map[string]float64{}
	}
	return first, nil
}
