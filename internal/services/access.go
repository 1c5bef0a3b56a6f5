package services

import (
	"context"
	"encoding/json"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/sharein/backend/internal/models"
	"github.com/sharein/backend/pkg/logger"
	"gorm.io/gorm"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ValidEmail reports whether value passes the syntactic local@domain.tld check.
func ValidEmail(value string) bool {
	return emailPattern.MatchString(value)
}

type AccessService struct {
	DB *gorm.DB
}

func NewAccessService(db *gorm.DB) *AccessService {
	return &AccessService{DB: db}
}

// CanAccess reports whether the user owns the file or holds a grant on it.
// Ownership always implies access; invites never do.
func (a *AccessService) CanAccess(ctx context.Context, userID uuid.UUID, file *models.File) bool {
	if file.OwnerID == userID {
		return true
	}

	var count int64
	if err := a.DB.WithContext(ctx).Model(&models.Grant{}).
		Where("file_id = ? AND user_id = ?", file.ID, userID).
		Count(&count).Error; err != nil {
		return false
	}
	return count > 0
}

// AccessEntries is a normalized access-grant input split into the two typed
// collections the data model keeps: confirmed user grants and pending e-mail
// invitations.
type AccessEntries struct {
	UserIDs []uuid.UUID
	Emails  []string
}

// NormalizeAccessList parses the dual-format access input: a JSON-encoded
// array is tried first, and on parse failure the value is treated as a
// comma-separated list of raw tokens. Entries are trimmed and empties dropped.
func NormalizeAccessList(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}

	var decoded []string
	if err := json.Unmarshal([]byte(raw), &decoded); err != nil {
		decoded = strings.Split(raw, ",")
	}

	entries := make([]string, 0, len(decoded))
	for _, entry := range decoded {
		entry = strings.TrimSpace(entry)
		if entry != "" {
			entries = append(entries, entry)
		}
	}
	return entries
}

// SplitAccessEntries routes each normalized entry by shape: values parsing as
// a UUID become user grants, e-mail-shaped values become invites, and
// anything else is dropped with a warning. The input is a set, so repeated
// entries collapse to one.
func SplitAccessEntries(entries []string) AccessEntries {
	var result AccessEntries
	seenIDs := make(map[uuid.UUID]bool)
	seenEmails := make(map[string]bool)
	for _, entry := range entries {
		if id, err := uuid.Parse(entry); err == nil {
			if !seenIDs[id] {
				seenIDs[id] = true
				result.UserIDs = append(result.UserIDs, id)
			}
			continue
		}
		if ValidEmail(entry) {
			if !seenEmails[entry] {
				seenEmails[entry] = true
				result.Emails = append(result.Emails, entry)
			}
			continue
		}
		logger.Warn("access_entry_dropped", map[string]interface{}{
			"entry": entry,
		})
	}
	return result
}

// ReplaceAccess swaps the full grant and invite sets for a file in one
// transaction. Replacement is wholesale, not additive.
func (a *AccessService) ReplaceAccess(ctx context.Context, file *models.File, entries AccessEntries) error {
	return a.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("file_id = ?", file.ID).Delete(&models.Grant{}).Error; err != nil {
			return err
		}
		if err := tx.Where("file_id = ?", file.ID).Delete(&models.Invite{}).Error; err != nil {
			return err
		}
		for _, userID := range entries.UserIDs {
			if userID == file.OwnerID {
				continue
			}
			if err := tx.Create(&models.Grant{FileID: file.ID, UserID: userID}).Error; err != nil {
				return err
			}
		}
		for _, email := range entries.Emails {
			if err := tx.Create(&models.Invite{FileID: file.ID, Email: email}).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
