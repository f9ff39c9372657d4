package server

import (
	"fmt"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"bazaar/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const maxUploadSize = 5 << 20 // 5 MB

var allowedImageExts = map[string]struct{}{
	".jpg":  {},
	".jpeg": {},
	".png":  {},
	".gif":  {},
	".webp": {},
}

// UploadAvatar handles POST /api/upload/avatar. Stores the image and sets
// it as the caller's avatar.
func (s *Server) UploadAvatar(c *fiber.Ctx) error {
	file, err := c.FormFile("avatar")
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Avatar file is required"))
	}

	url, err := s.saveUpload(c, file, "avatars")
	if err != nil {
		return respondServiceError(c, err)
	}

	user, err := s.userRepo.GetByID(c.Context(), currentUserID(c))
	if err != nil {
		return respondServiceError(c, err)
	}
	user.AvatarURL = url
	if err := s.userRepo.Update(c.Context(), user); err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{"avatar_url": url})
}

// saveUpload validates and stores an uploaded image under the configured
// upload directory, returning its public URL path. Filenames are random so
// uploads never collide or leak original names.
func (s *Server) saveUpload(c *fiber.Ctx, file *multipart.FileHeader, subdir string) (string, error) {
	if file.Size > maxUploadSize {
		return "", models.NewValidationError("File exceeds the 5 MB upload limit")
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if _, ok := allowedImageExts[ext]; !ok {
		return "", models.NewValidationError("Unsupported image type")
	}

	dir := filepath.Join(s.config.UploadDir, subdir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", models.NewInternalError(err)
	}

	name := uuid.New().String() + ext
	if err := c.SaveFile(file, filepath.Join(dir, name)); err != nil {
		return "", models.NewInternalError(err)
	}

	return fmt.Sprintf("/uploads/%s/%s", subdir, name), nil
}
