package handler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"

	"github.com/saturnino-fabrica-de-software/pontoface/internal/domain"
	"github.com/saturnino-fabrica-de-software/pontoface/internal/imaging"
	"github.com/saturnino-fabrica-de-software/pontoface/internal/service"
)

const (
	// DefaultMaxImageSize is used when no upload limit is configured
	DefaultMaxImageSize = 10 * 1024 * 1024 // 10MB

	fileField = "file"
	nameField = "name"
)

// FaceService interface for the service
type FaceService interface {
	Register(ctx context.Context, name string, image []byte) (*domain.Profile, error)
	Update(ctx context.Context, name string, image []byte) (*domain.Profile, error)
	Delete(ctx context.Context, name string) error
	Identify(ctx context.Context, image []byte) (domain.MatchResult, error)
	ClockIn(ctx context.Context, image []byte) (*service.ClockResult, error)
	ClockOut(ctx context.Context, image []byte) (*service.ClockResult, error)
	List(ctx context.Context) ([]string, error)
}

// FaceHandler handles face-related requests
type FaceHandler struct {
	service      FaceService
	logger       *slog.Logger
	maxImageSize int64
}

// NewFaceHandler creates a new FaceHandler instance
func NewFaceHandler(service FaceService, logger *slog.Logger, maxImageSize int64) *FaceHandler {
	if maxImageSize <= 0 {
		maxImageSize = DefaultMaxImageSize
	}
	return &FaceHandler{
		service:      service,
		logger:       logger,
		maxImageSize: maxImageSize,
	}
}

// RegisterResponse response for register endpoint
type RegisterResponse struct {
	Registered bool   `json:"registered"`
	Name       string `json:"name"`
	Message    string `json:"message"`
}

// UpdateResponse response for update endpoint
type UpdateResponse struct {
	Updated bool   `json:"updated"`
	Name    string `json:"name"`
	Message string `json:"message"`
}

// DeleteResponse response for delete endpoint
type DeleteResponse struct {
	Deleted bool   `json:"deleted"`
	Name    string `json:"name"`
	Message string `json:"message"`
}

// CheckUserResponse response for check-user endpoint. Score is a percentage.
type CheckUserResponse struct {
	Recognized bool    `json:"recognized"`
	Name       string  `json:"name,omitempty"`
	Score      float64 `json:"score"`
	Message    string  `json:"message"`
}

// ProfilesResponse response for the profile listing
type ProfilesResponse struct {
	Profiles []string `json:"profiles"`
	Count    int      `json:"count"`
}

// Register POST /register-face - enroll a new person
func (h *FaceHandler) Register(c *fiber.Ctx) error {
	name, err := requiredName(c)
	if err != nil {
		return err
	}

	imageBytes, err := h.extractAndValidateImage(c)
	if err != nil {
		return fmt.Errorf("register face: %w", err)
	}

	profile, err := h.service.Register(c.Context(), name, imageBytes)
	if err != nil {
		return err
	}

	return c.JSON(RegisterResponse{
		Registered: true,
		Name:       profile.Name,
		Message:    "User was registered successfully!",
	})
}

// Update POST /update-face - replace the stored face of an enrolled person
func (h *FaceHandler) Update(c *fiber.Ctx) error {
	name, err := requiredName(c)
	if err != nil {
		return err
	}

	imageBytes, err := h.extractAndValidateImage(c)
	if err != nil {
		return fmt.Errorf("update face: %w", err)
	}

	profile, err := h.service.Update(c.Context(), name, imageBytes)
	if err != nil {
		return notFoundFor(name, err)
	}

	return c.JSON(UpdateResponse{
		Updated: true,
		Name:    profile.Name,
		Message: fmt.Sprintf("User %s was updated successfully!", profile.Name),
	})
}

// Delete POST /delete-face - remove an enrolled person
func (h *FaceHandler) Delete(c *fiber.Ctx) error {
	name, err := requiredName(c)
	if err != nil {
		return err
	}

	if err := h.service.Delete(c.Context(), name); err != nil {
		return notFoundFor(name, err)
	}

	return c.JSON(DeleteResponse{
		Deleted: true,
		Name:    name,
		Message: fmt.Sprintf("User %s was deleted successfully!", name),
	})
}

// CheckUser POST /check-user - identify the face without logging an event
func (h *FaceHandler) CheckUser(c *fiber.Ctx) error {
	imageBytes, err := h.extractAndValidateImage(c)
	if err != nil {
		return fmt.Errorf("check user: %w", err)
	}

	result, err := h.service.Identify(c.Context(), imageBytes)
	if err != nil {
		return err
	}

	switch result.Status {
	case domain.MatchNoFace:
		return domain.ErrNoFaceDetected
	case domain.MatchUnknown:
		return c.Status(fiber.StatusNotFound).JSON(CheckUserResponse{
			Recognized: false,
			Score:      result.ScorePercent(),
			Message:    domain.ErrUnknownUser.Message,
		})
	}

	return c.JSON(CheckUserResponse{
		Recognized: true,
		Name:       result.Name,
		Score:      result.ScorePercent(),
		Message:    fmt.Sprintf("User %s recognized", result.Name),
	})
}

// ClockIn POST /clockin - identify and log an "in" event
func (h *FaceHandler) ClockIn(c *fiber.Ctx) error {
	imageBytes, err := h.extractAndValidateImage(c)
	if err != nil {
		return fmt.Errorf("clock in: %w", err)
	}

	result, err := h.service.ClockIn(c.Context(), imageBytes)
	if err != nil {
		return err
	}

	return c.JSON(result)
}

// ClockOut POST /clockout - identify and log an "out" event
func (h *FaceHandler) ClockOut(c *fiber.Ctx) error {
	imageBytes, err := h.extractAndValidateImage(c)
	if err != nil {
		return fmt.Errorf("clock out: %w", err)
	}

	result, err := h.service.ClockOut(c.Context(), imageBytes)
	if err != nil {
		return err
	}

	return c.JSON(result)
}

// List GET /profiles - enrolled names in lexical order
func (h *FaceHandler) List(c *fiber.Ctx) error {
	names, err := h.service.List(c.Context())
	if err != nil {
		return err
	}
	if names == nil {
		names = []string{}
	}

	return c.JSON(ProfilesResponse{
		Profiles: names,
		Count:    len(names),
	})
}

func requiredName(c *fiber.Ctx) (string, error) {
	name := strings.TrimSpace(utils.CopyString(c.FormValue(nameField)))
	if name == "" {
		return "", domain.ErrValidationFailed.WithError(errors.New("name is required"))
	}
	return name, nil
}

func notFoundFor(name string, err error) error {
	if errors.Is(err, domain.ErrProfileNotFound) {
		return domain.ErrProfileNotFound.WithError(fmt.Errorf("user %s not found", name))
	}
	return err
}

// extractAndValidateImage reads the uploaded file and checks that it is a
// decodable image within the size limit.
func (h *FaceHandler) extractAndValidateImage(c *fiber.Ctx) ([]byte, error) {
	file, err := c.FormFile(fileField)
	if err != nil {
		return nil, domain.ErrValidationFailed.WithError(errors.New("file is required"))
	}

	if file.Filename == "" {
		return nil, domain.ErrValidationFailed.WithError(errors.New("no selected file"))
	}

	if file.Size == 0 {
		return nil, domain.ErrInvalidImage.WithError(errors.New("file is empty"))
	}

	if file.Size > h.maxImageSize {
		return nil, domain.ErrInvalidImage.WithError(
			fmt.Errorf("file exceeds %d bytes", h.maxImageSize))
	}

	f, err := file.Open()
	if err != nil {
		return nil, domain.ErrInvalidImage.WithError(err)
	}
	defer func() {
		_ = f.Close()
	}()

	imageBytes, err := io.ReadAll(f)
	if err != nil {
		return nil, domain.ErrInvalidImage.WithError(err)
	}

	if _, _, err := imaging.DecodeConfig(imageBytes); err != nil {
		return nil, domain.ErrInvalidImage.WithError(err)
	}

	return imageBytes, nil
}
