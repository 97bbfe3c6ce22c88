package services

import (
	"bytes"
	"errors"
	"fmt"
	"mime/multipart"
	"net/textproto"
	"testing"

	"github.com/google/uuid"
	"github.com/talash/backend/internal/firebase"
	"github.com/talash/backend/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	if err := db.AutoMigrate(&models.User{}, &models.Item{}, &models.SystemLog{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return db
}

func createUser(t *testing.T, db *gorm.DB, email string, role models.Role) *models.User {
	t.Helper()
	user := &models.User{
		ID:    uuid.New(),
		Name:  "Test User",
		Email: email,
		Role:  role,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create user: %v", err)
	}
	return user
}

// makeUpload fabricates a multipart file header with the given content type
// and payload size, the same shape a Fiber handler hands to the service.
func makeUpload(t *testing.T, filename, contentType string, size int) *multipart.FileHeader {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`, filename))
	header.Set("Content-Type", contentType)
	part, err := w.CreatePart(header)
	if err != nil {
		t.Fatalf("failed to create part: %v", err)
	}
	if _, err := part.Write(bytes.Repeat([]byte{0xAB}, size)); err != nil {
		t.Fatalf("failed to write part: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("failed to close writer: %v", err)
	}

	form, err := multipart.NewReader(&buf, w.Boundary()).ReadForm(32 << 20)
	if err != nil {
		t.Fatalf("failed to parse form: %v", err)
	}
	t.Cleanup(func() { form.RemoveAll() })

	files := form.File["file"]
	if len(files) != 1 {
		t.Fatalf("expected one file, got %d", len(files))
	}
	return files[0]
}

// stubVerifier resolves fixed token strings without touching the network.
type stubVerifier struct {
	tokens       map[string]*firebase.Token
	upstreamDown bool
}

func (s *stubVerifier) Verify(idToken string) (*firebase.Token, error) {
	if s.upstreamDown {
		return nil, fmt.Errorf("%w: connection refused", firebase.ErrUpstream)
	}
	if tok, ok := s.tokens[idToken]; ok {
		return tok, nil
	}
	return nil, errors.New("invalid identity token")
}
