package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"sync"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/sharein/backend/internal/database"
	"github.com/sharein/backend/internal/middleware"
	"github.com/sharein/backend/internal/models"
	"github.com/sharein/backend/internal/services"
	"github.com/sharein/backend/pkg/logger"
	"github.com/sharein/backend/pkg/utils"
	"gorm.io/gorm"
)

type testEnv struct {
	app    *fiber.App
	db     *gorm.DB
	store  *fakeObjectStore
	mailer *fakeMailer
}

var testSetupOnce sync.Once

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()

	testSetupOnce.Do(func() {
		logger.Init()
		utils.ConfigureJWT("test-secret", "test-refresh-secret", time.Hour, 24*time.Hour)
	})

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

	store := newFakeObjectStore()
	mailer := &fakeMailer{}

	accessService := services.NewAccessService(db)
	thumbnailService := services.NewThumbnailService(store)

	authHandler := NewAuthHandler(db)
	filesHandler := NewFilesHandler(db, store, accessService, thumbnailService, mailer, "https://sharein.test")
	authMiddleware := middleware.NewAuthMiddleware(db)

	app := fiber.New(fiber.Config{BodyLimit: 10 * 1024 * 1024})
	app.Use(recover.New(recover.Config{EnableStackTrace: true}))
	app.Use(middleware.CORS())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "ok"})
	})

	api := app.Group("/api")

	authRoutes := api.Group("/auth")
	authRoutes.Get("/profile/:uid", authHandler.Profile)
	authRoutes.Post("/signup", authHandler.Signup)
	authRoutes.Post("/signin", authHandler.Signin)
	authRoutes.Post("/refresh-token", authHandler.Refresh)
	authRoutes.Post("/verify-token", authMiddleware.RequireAuth, authHandler.VerifyToken)

	fileRoutes := api.Group("/files", authMiddleware.RequireAuth)
	fileRoutes.Post("/upload", filesHandler.Upload)
	fileRoutes.Get("/", filesHandler.List)
	fileRoutes.Get("/:id", filesHandler.Get)
	fileRoutes.Put("/:id/access", filesHandler.ReplaceAccess)
	fileRoutes.Delete("/:id", filesHandler.Delete)
	fileRoutes.Post("/:id/share-email", filesHandler.ShareEmail)

	return &testEnv{app: app, db: db, store: store, mailer: mailer}
}

type fakeObjectStore struct {
	mu         sync.Mutex
	objects    map[string][]byte
	uploads    []string
	deletes    []string
	failUpload bool
	failDelete bool
}

func newFakeObjectStore() *fakeObjectStore {
	return &fakeObjectStore{objects: map[string][]byte{}}
}

func (f *fakeObjectStore) Upload(ctx context.Context, objectName string, reader io.Reader, size int64, contentType string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failUpload {
		return "", fmt.Errorf("upload failed")
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		return "", err
	}
	f.objects[objectName] = data
	f.uploads = append(f.uploads, objectName)
	return "https://objects.test/" + objectName, nil
}

func (f *fakeObjectStore) Delete(ctx context.Context, objectName string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failDelete {
		return fmt.Errorf("delete failed")
	}
	delete(f.objects, objectName)
	f.deletes = append(f.deletes, objectName)
	return nil
}

type fakeMailer struct {
	mu       sync.Mutex
	sent     []sentMail
	failSend bool
}

type sentMail struct {
	To       string
	FileName string
	ShareURL string
}

func (f *fakeMailer) SendShareNotification(to string, sharer *models.User, file *models.File, shareURL string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failSend {
		return fmt.Errorf("smtp unavailable")
	}
	f.sent = append(f.sent, sentMail{To: to, FileName: file.Name, ShareURL: shareURL})
	return nil
}

func createTestUser(t *testing.T, db *gorm.DB, email, password string) (*models.User, string) {
	t.Helper()

	hash, err := utils.HashPassword(password)
	if err != nil {
		t.Fatalf("failed hashing password: %v", err)
	}

	user := &models.User{
		Email:        email,
		Name:         "Test User",
		PasswordHash: hash,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed creating test user: %v", err)
	}

	token, err := utils.GenerateAccessToken(user.ID)
	if err != nil {
		t.Fatalf("failed generating auth token: %v", err)
	}

	return user, token
}

func authHeaders(token string) map[string]string {
	return map[string]string{"Authorization": "Bearer " + token}
}

func performRequest(t *testing.T, app *fiber.App, method, path string, body io.Reader, headers map[string]string) *http.Response {
	t.Helper()

	req := httptest.NewRequest(method, path, body)
	for key, value := range headers {
		req.Header.Set(key, value)
	}

	resp, err := app.Test(req, int((10 * time.Second).Milliseconds()))
	if err != nil {
		t.Fatalf("request %s %s failed: %v", method, path, err)
	}

	return resp
}

func performJSONRequest(t *testing.T, app *fiber.App, method, path string, payload any, headers map[string]string) *http.Response {
	t.Helper()

	var body io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("failed to marshal payload: %v", err)
		}
		body = bytes.NewReader(encoded)
	}

	requestHeaders := map[string]string{}
	for key, value := range headers {
		requestHeaders[key] = value
	}
	if payload != nil {
		requestHeaders["Content-Type"] = "application/json"
	}

	return performRequest(t, app, method, path, body, requestHeaders)
}

func performUpload(t *testing.T, app *fiber.App, token string, fields map[string]string, filename, contentType string, content []byte) *http.Response {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	for key, value := range fields {
		if err := writer.WriteField(key, value); err != nil {
			t.Fatalf("failed writing form field %s: %v", key, err)
		}
	}

	partHeader := textproto.MIMEHeader{}
	partHeader.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`, filename))
	partHeader.Set("Content-Type", contentType)
	part, err := writer.CreatePart(partHeader)
	if err != nil {
		t.Fatalf("failed creating file part: %v", err)
	}
	if _, err := part.Write(content); err != nil {
		t.Fatalf("failed writing file content: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("failed closing multipart writer: %v", err)
	}

	headers := authHeaders(token)
	headers["Content-Type"] = writer.FormDataContentType()

	return performRequest(t, app, http.MethodPost, "/api/files/upload", &buf, headers)
}

func decodeJSONMap(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("failed reading response body: %v", err)
	}

	var payload map[string]any
	if err := json.Unmarshal(raw, &payload); err != nil {
		t.Fatalf("failed decoding JSON response: %v body=%q", err, string(raw))
	}

	return payload
}

func assertStatus(t *testing.T, resp *http.Response, expected int) {
	t.Helper()
	if resp.StatusCode != expected {
		t.Fatalf("expected status %d, got %d", expected, resp.StatusCode)
	}
}

func assertErrorMessage(t *testing.T, body map[string]any, expected string) {
	t.Helper()
	if got, _ := body["message"].(string); got != expected {
		t.Fatalf("expected error message %q, got %q", expected, got)
	}
	if code, _ := body["code"].(string); code == "" {
		t.Fatalf("expected a machine-readable error code, got %+v", body)
	}
}

func makePNG(t *testing.T, width, height int) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for x := 0; x < width; x++ {
		for y := 0; y < height; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), B: 100, A: 255})
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("failed encoding test png: %v", err)
	}
	return buf.Bytes()
}
