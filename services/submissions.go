// services/submissions.go
package services

import (
	"errors"
	"fmt"

	"trash-detect-system/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RegisterResult is the outcome of an insert-if-absent on a fingerprint.
type RegisterResult int

const (
	Inserted RegisterResult = iota
	AlreadyExists
)

type SubmissionService struct {
	DB *gorm.DB
}

func NewSubmissionService(db *gorm.DB) *SubmissionService {
	return &SubmissionService{DB: db}
}

// RegisterIfAbsent records the fingerprint for username in a single
// INSERT. Atomicity lives in the unique index on fingerprint: under
// concurrent calls with the same fingerprint exactly one caller gets
// Inserted and everyone else gets AlreadyExists, regardless of arrival
// order. No exists-then-insert sequence anywhere; that pattern races.
func (s *SubmissionService) RegisterIfAbsent(fingerprint, username, photoKey string) (RegisterResult, error) {
	sub := &models.Submission{
		ID:          uuid.NewString(),
		Fingerprint: fingerprint,
		Username:    username,
		PhotoKey:    photoKey,
	}
	if err := s.DB.Create(sub).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return AlreadyExists, nil
		}
		return AlreadyExists, fmt.Errorf("failed to record submission: %w", err)
	}
	return Inserted, nil
}

// Exists reports whether a fingerprint has been seen. Diagnostics only;
// the award decision goes through RegisterIfAbsent.
func (s *SubmissionService) Exists(fingerprint string) (bool, error) {
	var count int64
	err := s.DB.Model(&models.Submission{}).
		Where("fingerprint = ?", fingerprint).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to query submissions: %w", err)
	}
	return count > 0, nil
}

// CountForUser returns how many submissions are credited to username.
// Under sequential operation this always equals the user's points.
func (s *SubmissionService) CountForUser(username string) (int64, error) {
	var count int64
	err := s.DB.Model(&models.Submission{}).
		Where("username = ?", username).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count submissions: %w", err)
	}
	return count, nil
}
