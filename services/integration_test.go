package services

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"testing"

	"github.com/unilink-app/unilink-api/model"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB opens the integration test database and resets the tables used
// by the service tests. Tests calling this are skipped unless
// RUN_INTEGRATION_TESTS=true.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	if os.Getenv("RUN_INTEGRATION_TESTS") != "true" {
		t.Skip("Skipping integration test. Set RUN_INTEGRATION_TESTS=true to run")
	}

	dsn := os.Getenv("TEST_DATABASE_DSN")
	if dsn == "" {
		dsn = "host=localhost user=postgres password=postgres dbname=unilink_test port=5432 sslmode=disable TimeZone=UTC"
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to connect to test database: %v", err)
	}

	err = db.AutoMigrate(
		&model.User{},
		&model.Device{},
		&model.Friendship{},
		&model.UserNotification{},
		&model.University{},
		&model.Faculty{},
		&model.Program{},
		&model.Module{},
		&model.Document{},
		&model.Post{},
		&model.Building{},
		&model.Employee{},
	)
	if err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	tables := []string{
		"friendships", "devices", "user_notifications", "documents",
		"modules", "programs", "faculties", "posts", "buildings",
		"employees", "universities", "users",
	}
	if err := db.Exec("TRUNCATE " + strings.Join(tables, ", ") + " RESTART IDENTITY CASCADE").Error; err != nil {
		t.Fatalf("failed to reset test tables: %v", err)
	}

	return db
}

func createTestUser(t *testing.T, db *gorm.DB, email, firstName, lastName, role string) *model.User {
	t.Helper()

	user := model.User{
		Email:        email,
		PasswordHash: "x",
		FirstName:    firstName,
		LastName:     lastName,
		Role:         role,
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("failed to create test user %s: %v", email, err)
	}
	return &user
}

// fakeBlobStorage is an in-memory BlobStorage used to observe which blobs the
// cascades upload and remove.
type fakeBlobStorage struct {
	mu       sync.Mutex
	uploaded map[string]bool
	deleted  []string
}

func newFakeBlobStorage() *fakeBlobStorage {
	return &fakeBlobStorage{uploaded: make(map[string]bool)}
}

func (f *fakeBlobStorage) UploadFile(ctx context.Context, key string, data io.Reader, contentType string) (string, error) {
	if _, err := io.Copy(io.Discard, data); err != nil {
		return "", err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.uploaded[key] = true
	return "https://cdn.test/" + key, nil
}

func (f *fakeBlobStorage) DeleteFile(ctx context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.uploaded[key] {
		return fmt.Errorf("unknown key %s", key)
	}
	delete(f.uploaded, key)
	f.deleted = append(f.deleted, key)
	return nil
}

func (f *fakeBlobStorage) deletedCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.deleted)
}

func (f *fakeBlobStorage) remaining() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.uploaded)
}
