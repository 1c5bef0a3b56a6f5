package handlers

import (
	"bytes"
	"fmt"
	"io"
	"mime"
	"path/filepath"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/sharein/backend/internal/mail"
	"github.com/sharein/backend/internal/middleware"
	"github.com/sharein/backend/internal/models"
	"github.com/sharein/backend/internal/services"
	"github.com/sharein/backend/internal/storage"
	"github.com/sharein/backend/pkg/logger"
	"github.com/sharein/backend/pkg/utils"
	"gorm.io/gorm"
)

type FilesHandler struct {
	DB           *gorm.DB
	Storage      storage.ObjectStore
	Access       *services.AccessService
	Thumbnails   *services.ThumbnailService
	Mailer       mail.Mailer
	ShareBaseURL string
}

func NewFilesHandler(db *gorm.DB, storageClient storage.ObjectStore, access *services.AccessService, thumbnails *services.ThumbnailService, mailer mail.Mailer, shareBaseURL string) *FilesHandler {
	return &FilesHandler{
		DB:           db,
		Storage:      storageClient,
		Access:       access,
		Thumbnails:   thumbnails,
		Mailer:       mailer,
		ShareBaseURL: strings.TrimRight(shareBaseURL, "/"),
	}
}

func (h *FilesHandler) Upload(c *fiber.Ctx) error {
	currentUser := middleware.GetCurrentUser(c)
	if currentUser == nil {
		return utils.Error(c, fiber.StatusUnauthorized, utils.CodeUnauthorized, "unauthorized")
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return utils.Error(c, fiber.StatusBadRequest, utils.CodeBadRequest, "file is required")
	}

	filename := filepath.Base(strings.TrimSpace(fileHeader.Filename))
	if filename == "" || filename == "." {
		return utils.Error(c, fiber.StatusBadRequest, utils.CodeBadRequest, "invalid filename")
	}

	name := strings.TrimSpace(c.FormValue("name"))
	if name == "" {
		name = filename
	}

	deleteAt, err := parseDeleteDate(c.FormValue("scheduledDeleteDate"))
	if err != nil {
		return utils.Error(c, fiber.StatusBadRequest, utils.CodeBadRequest, "invalid scheduledDeleteDate")
	}

	entries := services.SplitAccessEntries(services.NormalizeAccessList(c.FormValue("access")))

	contentType := fileHeader.Header.Get("Content-Type")
	if contentType == "" {
		contentType = mime.TypeByExtension(filepath.Ext(filename))
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	stream, err := fileHeader.Open()
	if err != nil {
		return utils.Error(c, fiber.StatusInternalServerError, utils.CodeServerError, "failed opening uploaded file")
	}
	defer stream.Close()

	// The payload is buffered because image uploads are read twice: once for
	// the object store and once for thumbnail derivation.
	data, err := io.ReadAll(stream)
	if err != nil {
		return utils.Error(c, fiber.StatusInternalServerError, utils.CodeServerError, "failed reading uploaded file")
	}

	fileType := services.Classify(contentType, filename)

	objectName := fmt.Sprintf("%s/%s%s", currentUser.ID.String(), uuid.New().String(), strings.ToLower(filepath.Ext(filename)))
	fileURL, err := h.Storage.Upload(c.Context(), objectName, bytes.NewReader(data), int64(len(data)), contentType)
	if err != nil {
		return utils.Error(c, fiber.StatusBadGateway, utils.CodeUploadFailed, "failed uploading file")
	}

	// Thumbnail failure is non-fatal: the file proceeds with no preview.
	var previewPath, previewURL *string
	if h.Thumbnails.Supports(contentType) {
		path, url, thumbErr := h.Thumbnails.Generate(c.Context(), data, currentUser.ID)
		if thumbErr != nil {
			logger.WarnWithUser(currentUser.ID.String(), "thumbnail_failed", map[string]interface{}{
				"file_name": filename,
				"error":     thumbErr.Error(),
			})
		} else {
			previewPath = &path
			previewURL = &url
		}
	}

	entry := models.File{
		Name:              name,
		MimeType:          contentType,
		Size:              int64(len(data)),
		Type:              fileType,
		OwnerID:           currentUser.ID,
		StoragePath:       objectName,
		FileURL:           fileURL,
		PreviewPath:       previewPath,
		PreviewURL:        previewURL,
		ScheduledDeleteAt: deleteAt,
	}
	for _, userID := range entries.UserIDs {
		if userID == currentUser.ID {
			continue
		}
		entry.Grants = append(entry.Grants, models.Grant{UserID: userID})
	}
	for _, email := range entries.Emails {
		entry.Invites = append(entry.Invites, models.Invite{Email: email})
	}

	if err := h.DB.Create(&entry).Error; err != nil {
		_ = h.Storage.Delete(c.Context(), objectName)
		if previewPath != nil {
			_ = h.Storage.Delete(c.Context(), *previewPath)
		}
		return utils.Error(c, fiber.StatusInternalServerError, utils.CodeServerError, "failed creating file record")
	}

	logger.InfoWithUser(currentUser.ID.String(), "file_uploaded", map[string]interface{}{
		"file_id":      entry.ID.String(),
		"file_name":    name,
		"file_size":    entry.Size,
		"mime_type":    contentType,
		"type":         fileType,
		"storage_path": objectName,
	})

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"file": entry})
}

// List returns every file the caller owns or holds a grant on, newest first,
// optionally filtered by type, name substring and exact grantee value.
func (h *FilesHandler) List(c *fiber.Ctx) error {
	currentUser := middleware.GetCurrentUser(c)
	if currentUser == nil {
		return utils.Error(c, fiber.StatusUnauthorized, utils.CodeUnauthorized, "unauthorized")
	}

	query := h.DB.Model(&models.File{}).
		Preload("Grants").
		Preload("Invites").
		Where("owner_id = ? OR id IN (?)",
			currentUser.ID,
			h.DB.Model(&models.Grant{}).Select("file_id").Where("user_id = ?", currentUser.ID),
		)

	if typeFilter := strings.TrimSpace(c.Query("type")); typeFilter != "" {
		if !models.FileType(typeFilter).Valid() {
			return utils.Error(c, fiber.StatusBadRequest, utils.CodeBadRequest, "invalid type filter")
		}
		query = query.Where("type = ?", typeFilter)
	}

	if nameFilter := strings.TrimSpace(c.Query("name")); nameFilter != "" {
		query = query.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(nameFilter)+"%")
	}

	if accessFilter := strings.TrimSpace(c.Query("access")); accessFilter != "" {
		if granteeID, err := uuid.Parse(accessFilter); err == nil {
			query = query.Where("id IN (?)",
				h.DB.Model(&models.Grant{}).Select("file_id").Where("user_id = ?", granteeID))
		} else {
			query = query.Where("id IN (?)",
				h.DB.Model(&models.Invite{}).Select("file_id").Where("email = ?", accessFilter))
		}
	}

	var files []models.File
	if err := query.Order("created_at DESC").Find(&files).Error; err != nil {
		return utils.Error(c, fiber.StatusInternalServerError, utils.CodeServerError, "failed listing files")
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"files": files})
}

func (h *FilesHandler) Get(c *fiber.Ctx) error {
	currentUser := middleware.GetCurrentUser(c)
	if currentUser == nil {
		return utils.Error(c, fiber.StatusUnauthorized, utils.CodeUnauthorized, "unauthorized")
	}

	fileID, err := parseUUID(c.Params("id"))
	if err != nil {
		return utils.Error(c, fiber.StatusBadRequest, utils.CodeBadRequest, "invalid file id")
	}

	var file models.File
	if err := h.DB.Preload("Grants").Preload("Invites").First(&file, "id = ?", fileID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return utils.Error(c, fiber.StatusNotFound, utils.CodeNotFound, "file not found")
		}
		return utils.Error(c, fiber.StatusInternalServerError, utils.CodeServerError, "failed loading file")
	}

	if !h.Access.CanAccess(c.Context(), currentUser.ID, &file) {
		return utils.Error(c, fiber.StatusForbidden, utils.CodeForbidden, "access denied")
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"file": file})
}

// ReplaceAccess swaps the grant and invite sets wholesale. Owner only.
func (h *FilesHandler) ReplaceAccess(c *fiber.Ctx) error {
	currentUser := middleware.GetCurrentUser(c)
	if currentUser == nil {
		return utils.Error(c, fiber.StatusUnauthorized, utils.CodeUnauthorized, "unauthorized")
	}

	var raw struct {
		Access interface{} `json:"access"`
	}
	if err := c.BodyParser(&raw); err != nil {
		return utils.Error(c, fiber.StatusBadRequest, utils.CodeBadRequest, "invalid request body")
	}
	if raw.Access == nil {
		return utils.Error(c, fiber.StatusBadRequest, utils.CodeBadRequest, "access list required")
	}

	var entries services.AccessEntries
	switch value := raw.Access.(type) {
	case string:
		entries = services.SplitAccessEntries(services.NormalizeAccessList(value))
	case []interface{}:
		tokens := make([]string, 0, len(value))
		for _, item := range value {
			if s, ok := item.(string); ok {
				tokens = append(tokens, strings.TrimSpace(s))
			}
		}
		entries = services.SplitAccessEntries(tokens)
	default:
		return utils.Error(c, fiber.StatusBadRequest, utils.CodeBadRequest, "access must be a list or string")
	}

	fileID, err := parseUUID(c.Params("id"))
	if err != nil {
		return utils.Error(c, fiber.StatusBadRequest, utils.CodeBadRequest, "invalid file id")
	}

	var file models.File
	if err := h.DB.Preload("Grants").Preload("Invites").First(&file, "id = ?", fileID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return utils.Error(c, fiber.StatusNotFound, utils.CodeNotFound, "file not found")
		}
		return utils.Error(c, fiber.StatusInternalServerError, utils.CodeServerError, "failed loading file")
	}

	if file.OwnerID != currentUser.ID {
		return utils.Error(c, fiber.StatusForbidden, utils.CodeForbidden, "only the file creator can update access")
	}

	if err := h.Access.ReplaceAccess(c.Context(), &file, entries); err != nil {
		return utils.Error(c, fiber.StatusInternalServerError, utils.CodeServerError, "failed updating file access")
	}

	var updated models.File
	if err := h.DB.Preload("Grants").Preload("Invites").First(&updated, "id = ?", file.ID).Error; err != nil {
		return utils.Error(c, fiber.StatusInternalServerError, utils.CodeServerError, "failed reloading file")
	}

	logger.InfoWithUser(currentUser.ID.String(), "file_access_replaced", map[string]interface{}{
		"file_id": file.ID.String(),
		"grants":  len(updated.Grants),
		"invites": len(updated.Invites),
	})

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"file": updated})
}

// Delete removes the binary, then the preview, then the metadata record, in
// that order. An adapter failure aborts before metadata removal so an
// orphaned record is preferred over an inaccessible binary.
func (h *FilesHandler) Delete(c *fiber.Ctx) error {
	currentUser := middleware.GetCurrentUser(c)
	if currentUser == nil {
		return utils.Error(c, fiber.StatusUnauthorized, utils.CodeUnauthorized, "unauthorized")
	}

	fileID, err := parseUUID(c.Params("id"))
	if err != nil {
		return utils.Error(c, fiber.StatusBadRequest, utils.CodeBadRequest, "invalid file id")
	}

	var file models.File
	if err := h.DB.Preload("Grants").Preload("Invites").First(&file, "id = ?", fileID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return utils.Error(c, fiber.StatusNotFound, utils.CodeNotFound, "file not found")
		}
		return utils.Error(c, fiber.StatusInternalServerError, utils.CodeServerError, "failed loading file")
	}

	if file.OwnerID != currentUser.ID {
		return utils.Error(c, fiber.StatusForbidden, utils.CodeForbidden, "only the file creator can delete this file")
	}

	if err := h.Storage.Delete(c.Context(), file.StoragePath); err != nil {
		return utils.Error(c, fiber.StatusBadGateway, utils.CodeDeleteFailed, "failed deleting file from storage")
	}
	if file.PreviewPath != nil {
		if err := h.Storage.Delete(c.Context(), *file.PreviewPath); err != nil {
			return utils.Error(c, fiber.StatusBadGateway, utils.CodeDeleteFailed, "failed deleting preview from storage")
		}
	}

	err = h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("file_id = ?", file.ID).Delete(&models.Grant{}).Error; err != nil {
			return err
		}
		if err := tx.Where("file_id = ?", file.ID).Delete(&models.Invite{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.File{}, "id = ?", file.ID).Error
	})
	if err != nil {
		return utils.Error(c, fiber.StatusInternalServerError, utils.CodeServerError, "failed deleting file record")
	}

	logger.InfoWithUser(currentUser.ID.String(), "file_deleted", map[string]interface{}{
		"file_id":   file.ID.String(),
		"file_name": file.Name,
	})

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "file deleted successfully"})
}

type shareEmailRequest struct {
	EmailAddress string `json:"emailAddress"`
}

// ShareEmail mails a shareable link. The actor must be the owner or an
// existing grantee; only owner-initiated shares append a pending invite.
func (h *FilesHandler) ShareEmail(c *fiber.Ctx) error {
	currentUser := middleware.GetCurrentUser(c)
	if currentUser == nil {
		return utils.Error(c, fiber.StatusUnauthorized, utils.CodeUnauthorized, "unauthorized")
	}

	var req shareEmailRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.Error(c, fiber.StatusBadRequest, utils.CodeBadRequest, "invalid request body")
	}

	emailAddress := strings.TrimSpace(req.EmailAddress)
	if emailAddress == "" {
		return utils.Error(c, fiber.StatusBadRequest, utils.CodeBadRequest, "email address is required")
	}
	if !services.ValidEmail(emailAddress) {
		return utils.Error(c, fiber.StatusBadRequest, utils.CodeBadRequest, "invalid email format")
	}

	fileID, err := parseUUID(c.Params("id"))
	if err != nil {
		return utils.Error(c, fiber.StatusBadRequest, utils.CodeBadRequest, "invalid file id")
	}

	var file models.File
	if err := h.DB.Preload("Grants").Preload("Invites").First(&file, "id = ?", fileID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return utils.Error(c, fiber.StatusNotFound, utils.CodeNotFound, "file not found")
		}
		return utils.Error(c, fiber.StatusInternalServerError, utils.CodeServerError, "failed loading file")
	}

	if !h.Access.CanAccess(c.Context(), currentUser.ID, &file) {
		return utils.Error(c, fiber.StatusForbidden, utils.CodeForbidden, "you do not have permission to share this file")
	}

	shareURL := fmt.Sprintf("%s/%s", h.ShareBaseURL, file.ID.String())
	if err := h.Mailer.SendShareNotification(emailAddress, currentUser, &file, shareURL); err != nil {
		return utils.Error(c, fiber.StatusInternalServerError, utils.CodeServerError, "failed sending share email")
	}

	if file.OwnerID == currentUser.ID {
		var count int64
		if err := h.DB.Model(&models.Invite{}).
			Where("file_id = ? AND email = ?", file.ID, emailAddress).
			Count(&count).Error; err == nil && count == 0 {
			if err := h.DB.Create(&models.Invite{FileID: file.ID, Email: emailAddress}).Error; err != nil {
				logger.Error("invite_create_failed", err, map[string]interface{}{
					"file_id": file.ID.String(),
					"email":   emailAddress,
				})
			}
		}
	}

	logger.InfoWithUser(currentUser.ID.String(), "file_shared_by_email", map[string]interface{}{
		"file_id": file.ID.String(),
		"to":      emailAddress,
	})

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "email sent successfully"})
}
