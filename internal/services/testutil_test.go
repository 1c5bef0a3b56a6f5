package services

import (
	"context"
	"fmt"
	"io"
	"sync"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/sharein/backend/internal/database"
	"github.com/sharein/backend/pkg/logger"
	"gorm.io/gorm"
)

var loggerOnce sync.Once

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	loggerOnce.Do(logger.Init)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed opening in-memory sqlite database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed getting sql.DB from gorm: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() {
		_ = sqlDB.Close()
	})

	if err := database.Migrate(db); err != nil {
		t.Fatalf("failed automigrating models: %v", err)
	}

	return db
}

type fakeStore struct {
	mu          sync.Mutex
	uploads     []string
	deletes     []string
	failObjects map[string]bool
	failUpload  bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{failObjects: map[string]bool{}}
}

func (f *fakeStore) Upload(ctx context.Context, objectName string, reader io.Reader, size int64, contentType string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failUpload {
		return "", fmt.Errorf("upload failed")
	}
	if _, err := io.Copy(io.Discard, reader); err != nil {
		return "", err
	}
	f.uploads = append(f.uploads, objectName)
	return "https://objects.test/" + objectName, nil
}

func (f *fakeStore) Delete(ctx context.Context, objectName string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failObjects[objectName] {
		return fmt.Errorf("delete failed for %s", objectName)
	}
	f.deletes = append(f.deletes, objectName)
	return nil
}
