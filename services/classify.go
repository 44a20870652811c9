// services/classify.go
package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"trash-detect-system/models"
	"trash-detect-system/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const inferenceTimeout = 60 * time.Second

// ClassifyService runs the submission pipeline:
// spool → normalize → fingerprint → insert-if-absent → detect → award.
// The insert-if-absent comes BEFORE the detector call: a duplicate
// short-circuits without ever touching the model, and a slow or failing
// model can never reopen the double-award race.
type ClassifyService struct {
	DB          *gorm.DB
	Users       *UserService
	Submissions *SubmissionService
	Detector    Detector

	// Admission limit on concurrent inference calls. Inference is the
	// long pole; everything else in the pipeline is cheap.
	inferenceSlots chan struct{}
}

func NewClassifyService(db *gorm.DB, users *UserService, subs *SubmissionService, detector Detector, maxInflight int) *ClassifyService {
	if maxInflight <= 0 {
		maxInflight = 4
	}
	return &ClassifyService{
		DB:             db,
		Users:          users,
		Submissions:    subs,
		Detector:       detector,
		inferenceSlots: make(chan struct{}, maxInflight),
	}
}

// Classify handles POST /classify (multipart: username, file)
func (s *ClassifyService) Classify(c *fiber.Ctx) error {
	username := c.FormValue("username")
	if username == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "missing 'username' in form-data"})
	}

	if _, err := s.Users.GetUser(username); err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": fmt.Sprintf("user '%s' does not exist, please register first", username),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to look up user"})
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "no 'file' field in form-data"})
	}
	if fileHeader.Filename == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "empty filename"})
	}

	// Refuse up front while nothing has been mutated. Once the fingerprint
	// is committed a failure leaves it consumed, so this check only makes
	// sense before the insert.
	if !s.Detector.Available() {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": ErrDetectorUnavailable.Error()})
	}

	// Spool the upload to disk; removed on every exit path.
	spoolPath := utils.TempPath(uuid.NewString() + "_" + filepath.Base(fileHeader.Filename))
	if err := utils.SaveFile(fileHeader, spoolPath); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to save uploaded file"})
	}
	defer func() {
		if err := os.Remove(spoolPath); err != nil && !os.IsNotExist(err) {
			log.Printf("[Classify] failed to remove spool file %s: %v", spoolPath, err)
		}
	}()

	raw, err := os.ReadFile(spoolPath)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to read uploaded file"})
	}

	normalized, err := utils.NormalizeJPEG(raw)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": ErrUnsupportedImage.Error()})
	}

	fingerprint := utils.Fingerprint(normalized)

	// The photo key is derived before the insert so the submission row is
	// written complete and never updated afterwards.
	photoKey := ""
	if utils.R2Enabled() {
		photoKey = utils.PhotoKey(fingerprint, fileHeader.Filename)
	}

	outcome, err := s.Submissions.RegisterIfAbsent(fingerprint, username, photoKey)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to record submission"})
	}
	if outcome == AlreadyExists {
		// Not an error: somebody (possibly this user) already earned the
		// point for this content. The detector is never invoked here.
		return c.JSON(models.ClassifyResponse{
			Predictions: []models.Detection{},
			Message:     "duplicate image detected - no points awarded",
			Awarded:     0,
			Duplicate:   true,
		})
	}

	predictions, err := s.runInference(c.UserContext(), normalized)
	if err != nil {
		// Fail-forward: the fingerprint stays consumed. Rolling it back
		// would reopen the double-submission race.
		log.Printf("[Classify] inference failed for %s (fingerprint %s): %v", username, fingerprint, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "inference failed"})
	}

	if err := s.Users.AwardPoints(username, 1); err != nil {
		log.Printf("[Classify] failed to award point to %s after insert of %s: %v", username, fingerprint, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to award points"})
	}

	if photoKey != "" {
		go s.archivePhoto(photoKey, normalized)
	}

	if predictions == nil {
		predictions = []models.Detection{}
	}
	return c.JSON(models.ClassifyResponse{
		Predictions: predictions,
		Message:     fmt.Sprintf("1 point awarded to '%s'", username),
		Awarded:     1,
		Duplicate:   false,
	})
}

// runInference calls the detector under the admission limit and a bounded
// timeout.
func (s *ClassifyService) runInference(ctx context.Context, imageBytes []byte) ([]models.Detection, error) {
	select {
	case s.inferenceSlots <- struct{}{}:
		defer func() { <-s.inferenceSlots }()
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	ctx, cancel := context.WithTimeout(ctx, inferenceTimeout)
	defer cancel()

	return s.Detector.Predict(ctx, imageBytes)
}

// archivePhoto uploads the normalized JPEG to R2 in the background.
// Archive failures are logged and never affect the award result.
func (s *ClassifyService) archivePhoto(key string, jpegBytes []byte) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if err := utils.UploadPhoto(ctx, key, jpegBytes); err != nil {
		log.Printf("[Archive] failed to archive photo %s: %v", key, err)
	}
}

// Health handles GET /health
func (s *ClassifyService) Health(c *fiber.Ctx) error {
	detector := "unavailable"
	if s.Detector.Available() {
		detector = "loaded"
	}
	return c.JSON(fiber.Map{"status": "ok", "detector": detector})
}
