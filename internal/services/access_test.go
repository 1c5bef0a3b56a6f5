package services

import (
	"context"
	"reflect"
	"testing"

	"github.com/google/uuid"
	"github.com/sharein/backend/internal/models"
	"gorm.io/gorm"
)

func TestNormalizeAccessList(t *testing.T) {
	cases := []struct {
		name     string
		raw      string
		expected []string
	}{
		{"json array", `["a@test.com","b@test.com"]`, []string{"a@test.com", "b@test.com"}},
		{"json array with padding", `[" a@test.com ", ""]`, []string{"a@test.com"}},
		{"comma separated", "a@test.com, b@test.com", []string{"a@test.com", "b@test.com"}},
		{"single token", "a@test.com", []string{"a@test.com"}},
		{"empty string", "", nil},
		{"whitespace only", "   ", nil},
		{"empty segments dropped", "a@test.com,,  ,b@test.com", []string{"a@test.com", "b@test.com"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := NormalizeAccessList(tc.raw)
			if !reflect.DeepEqual(got, tc.expected) {
				t.Fatalf("NormalizeAccessList(%q) = %v, want %v", tc.raw, got, tc.expected)
			}
		})
	}
}

func TestSplitAccessEntries(t *testing.T) {
	id := uuid.New()
	entries := SplitAccessEntries([]string{
		id.String(),
		"friend@test.com",
		"not a uuid or email",
	})

	if len(entries.UserIDs) != 1 || entries.UserIDs[0] != id {
		t.Fatalf("expected the uuid routed to UserIDs, got %v", entries.UserIDs)
	}
	if len(entries.Emails) != 1 || entries.Emails[0] != "friend@test.com" {
		t.Fatalf("expected the email routed to Emails, got %v", entries.Emails)
	}
}

func TestSplitAccessEntriesCollapsesDuplicates(t *testing.T) {
	id := uuid.New()
	entries := SplitAccessEntries([]string{
		id.String(),
		id.String(),
		"friend@test.com",
		"friend@test.com",
		id.String(),
	})

	if len(entries.UserIDs) != 1 {
		t.Fatalf("expected repeated user ids collapsed to one, got %v", entries.UserIDs)
	}
	if len(entries.Emails) != 1 {
		t.Fatalf("expected repeated emails collapsed to one, got %v", entries.Emails)
	}
}

func TestValidEmail(t *testing.T) {
	valid := []string{"a@b.co", "user.name+tag@example.org"}
	invalid := []string{"", "plain", "a@b", "a @b.co", "@b.co"}

	for _, v := range valid {
		if !ValidEmail(v) {
			t.Errorf("expected %q to be valid", v)
		}
	}
	for _, v := range invalid {
		if ValidEmail(v) {
			t.Errorf("expected %q to be invalid", v)
		}
	}
}

func createUser(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()
	user := &models.User{Email: email, PasswordHash: "x"}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed creating user %s: %v", email, err)
	}
	return user
}

func createFile(t *testing.T, db *gorm.DB, owner *models.User, name string) *models.File {
	t.Helper()
	file := &models.File{
		Name:        name,
		MimeType:    "text/plain",
		Size:        4,
		Type:        models.FileTypeDocs,
		OwnerID:     owner.ID,
		StoragePath: owner.ID.String() + "/" + uuid.New().String() + ".txt",
		FileURL:     "https://objects.test/" + name,
	}
	if err := db.Create(file).Error; err != nil {
		t.Fatalf("failed creating file %s: %v", name, err)
	}
	return file
}

func TestCanAccess(t *testing.T) {
	db := openTestDB(t)
	svc := NewAccessService(db)
	ctx := context.Background()

	owner := createUser(t, db, "owner@test.com")
	grantee := createUser(t, db, "grantee@test.com")
	stranger := createUser(t, db, "stranger@test.com")
	file := createFile(t, db, owner, "shared.txt")

	if err := db.Create(&models.Grant{FileID: file.ID, UserID: grantee.ID}).Error; err != nil {
		t.Fatalf("failed creating grant: %v", err)
	}

	if !svc.CanAccess(ctx, owner.ID, file) {
		t.Fatalf("owner should always have access")
	}
	if !svc.CanAccess(ctx, grantee.ID, file) {
		t.Fatalf("grantee should have access")
	}
	if svc.CanAccess(ctx, stranger.ID, file) {
		t.Fatalf("stranger should not have access")
	}
}

func TestInviteDoesNotGrantAccess(t *testing.T) {
	db := openTestDB(t)
	svc := NewAccessService(db)

	owner := createUser(t, db, "owner@test.com")
	invited := createUser(t, db, "invited@test.com")
	file := createFile(t, db, owner, "pending.txt")

	if err := db.Create(&models.Invite{FileID: file.ID, Email: invited.Email}).Error; err != nil {
		t.Fatalf("failed creating invite: %v", err)
	}

	if svc.CanAccess(context.Background(), invited.ID, file) {
		t.Fatalf("a pending invite must not grant access")
	}
}

func TestReplaceAccess(t *testing.T) {
	db := openTestDB(t)
	svc := NewAccessService(db)
	ctx := context.Background()

	owner := createUser(t, db, "owner@test.com")
	oldGrantee := createUser(t, db, "old@test.com")
	newGrantee := createUser(t, db, "new@test.com")
	file := createFile(t, db, owner, "rotating.txt")

	if err := svc.ReplaceAccess(ctx, file, AccessEntries{
		UserIDs: []uuid.UUID{oldGrantee.ID},
		Emails:  []string{"pending@test.com"},
	}); err != nil {
		t.Fatalf("initial ReplaceAccess failed: %v", err)
	}

	t.Run("replacement is wholesale", func(t *testing.T) {
		if err := svc.ReplaceAccess(ctx, file, AccessEntries{
			UserIDs: []uuid.UUID{newGrantee.ID},
		}); err != nil {
			t.Fatalf("ReplaceAccess failed: %v", err)
		}

		var grants []models.Grant
		if err := db.Where("file_id = ?", file.ID).Find(&grants).Error; err != nil {
			t.Fatalf("failed loading grants: %v", err)
		}
		if len(grants) != 1 || grants[0].UserID != newGrantee.ID {
			t.Fatalf("expected only the new grantee, got %+v", grants)
		}

		var inviteCount int64
		db.Model(&models.Invite{}).Where("file_id = ?", file.ID).Count(&inviteCount)
		if inviteCount != 0 {
			t.Fatalf("expected previous invites removed, got %d", inviteCount)
		}
	})

	t.Run("owner is never stored as a grant", func(t *testing.T) {
		if err := svc.ReplaceAccess(ctx, file, AccessEntries{
			UserIDs: []uuid.UUID{owner.ID, newGrantee.ID},
		}); err != nil {
			t.Fatalf("ReplaceAccess failed: %v", err)
		}

		var count int64
		db.Model(&models.Grant{}).Where("file_id = ? AND user_id = ?", file.ID, owner.ID).Count(&count)
		if count != 0 {
			t.Fatalf("owner must not appear in the grant list")
		}
	})

	t.Run("empty entries clear everything", func(t *testing.T) {
		if err := svc.ReplaceAccess(ctx, file, AccessEntries{}); err != nil {
			t.Fatalf("ReplaceAccess failed: %v", err)
		}

		var grantCount, inviteCount int64
		db.Model(&models.Grant{}).Where("file_id = ?", file.ID).Count(&grantCount)
		db.Model(&models.Invite{}).Where("file_id = ?", file.ID).Count(&inviteCount)
		if grantCount != 0 || inviteCount != 0 {
			t.Fatalf("expected no grants or invites, got %d/%d", grantCount, inviteCount)
		}
	})
}
