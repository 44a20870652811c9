// services/users.go
package services

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"trash-detect-system/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const defaultLeaderboardSize = 10

type UserService struct {
	DB *gorm.DB
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{DB: db}
}

// CreateUser registers a new user with zero points. The username is
// trimmed; uniqueness is enforced by the DB index, not a pre-check.
func (s *UserService) CreateUser(username string) (*models.User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, ErrEmptyUsername
	}

	user := &models.User{
		ID:       uuid.NewString(),
		Username: username,
		Points:   0,
	}
	if err := s.DB.Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrUsernameTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}

// GetUser looks a user up by exact (case-sensitive) username.
func (s *UserService) GetUser(username string) (*models.User, error) {
	var user models.User
	if err := s.DB.Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to fetch user: %w", err)
	}
	return &user, nil
}

// AwardPoints increments the user's points in a single in-place update.
// The increment happens inside the UPDATE itself, never read-then-write
// in application code, so concurrent awards to the same user cannot lose
// counts.
func (s *UserService) AwardPoints(username string, amount int64) error {
	if amount <= 0 {
		return fmt.Errorf("award amount must be positive, got %d", amount)
	}

	res := s.DB.Model(&models.User{}).
		Where("username = ?", username).
		UpdateColumn("points", gorm.Expr("points + ?", amount))
	if res.Error != nil {
		return fmt.Errorf("failed to award points: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

// TopUsers returns up to limit users ordered by points descending.
// Username ascending breaks ties so the ordering is reproducible.
func (s *UserService) TopUsers(limit int) ([]models.LeaderboardRow, error) {
	if limit <= 0 {
		limit = defaultLeaderboardSize
	}

	var rows []models.LeaderboardRow
	err := s.DB.Model(&models.User{}).
		Select("username, points").
		Order("points DESC, username ASC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch leaderboard: %w", err)
	}
	return rows, nil
}

// Register handles POST /register
func (s *UserService) Register(c *fiber.Ctx) error {
	var body struct {
		Username string `json:"username"`
	}
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "missing 'username' in JSON body"})
	}

	user, err := s.CreateUser(body.Username)
	if err != nil {
		switch {
		case errors.Is(err, ErrEmptyUsername):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "username cannot be empty"})
		case errors.Is(err, ErrUsernameTaken):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": fmt.Sprintf("username '%s' is taken", strings.TrimSpace(body.Username)),
			})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to create user"})
		}
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"user_id": user.ID,
		"message": fmt.Sprintf("user '%s' created successfully", user.Username),
	})
}

// Leaderboard handles GET /leaderboard
func (s *UserService) Leaderboard(c *fiber.Ctx) error {
	limit, err := strconv.Atoi(c.Query("limit", strconv.Itoa(defaultLeaderboardSize)))
	if err != nil || limit <= 0 || limit > 100 {
		limit = defaultLeaderboardSize
	}

	rows, err := s.TopUsers(limit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to fetch leaderboard"})
	}
	if rows == nil {
		rows = []models.LeaderboardRow{}
	}
	return c.JSON(rows)
}
