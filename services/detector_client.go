// services/detector_client.go
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"sync/atomic"

	"trash-detect-system/models"
	"trash-detect-system/utils"
)

// Detector is the black-box inference service as seen by the classify
// pipeline: normalized JPEG bytes in, labeled bounding boxes out.
type Detector interface {
	Predict(ctx context.Context, imageBytes []byte) ([]models.Detection, error)
	Available() bool
}

// DetectorClient talks to the external YOLO inference service over HTTP.
// Availability is an explicit state (loaded/unavailable) maintained by the
// health poller, so callers can refuse uploads up front instead of
// discovering a dead model mid-request.
type DetectorClient struct {
	BaseURL    string
	HTTPClient *http.Client

	available atomic.Bool
}

func NewDetectorClient(baseURL string) *DetectorClient {
	return &DetectorClient{
		BaseURL:    baseURL,
		HTTPClient: utils.HTTPClient,
	}
}

// Predict posts the image as multipart form-data to the inference service
// and decodes its predictions.
func (d *DetectorClient) Predict(ctx context.Context, imageBytes []byte) ([]models.Detection, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	part, err := writer.CreateFormFile("file", "image.jpg")
	if err != nil {
		return nil, fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := part.Write(imageBytes); err != nil {
		return nil, fmt.Errorf("failed to write image data: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", d.BaseURL+"/predict", body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := d.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call inference service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("inference service returned status %d: %s", resp.StatusCode, string(snippet))
	}

	var result struct {
		Predictions []models.Detection `json:"predictions"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode inference response: %w", err)
	}
	return result.Predictions, nil
}

// CheckHealth pings the inference service and records the result.
func (d *DetectorClient) CheckHealth(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, "GET", d.BaseURL+"/health", nil)
	if err != nil {
		return fmt.Errorf("failed to create health request: %w", err)
	}

	resp, err := d.HTTPClient.Do(req)
	if err != nil {
		d.available.Store(false)
		return fmt.Errorf("inference service unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		d.available.Store(false)
		return fmt.Errorf("inference service unhealthy: status %d", resp.StatusCode)
	}

	d.available.Store(true)
	return nil
}

// Available reports the last known health state of the model.
func (d *DetectorClient) Available() bool {
	return d.available.Load()
}
