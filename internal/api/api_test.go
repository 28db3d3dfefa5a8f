package api

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"socpeak-bot/internal/config"
	"socpeak-bot/internal/models"
)

type stubSubmissions struct {
	subs []models.Submission
}

func (s *stubSubmissions) Get(userID int64) (*models.Submission, error)    { return nil, nil }
func (s *stubSubmissions) Create(userID int64, platform string) (bool, error) { return false, nil }
func (s *stubSubmissions) SetAccountID(userID int64, accountID string) (bool, error) {
	return false, nil
}
func (s *stubSubmissions) SetAccountPhoto(userID int64, path string) (bool, error) {
	return false, nil
}
func (s *stubSubmissions) SetPackage(userID int64, pkg string) (bool, error) { return false, nil }
func (s *stubSubmissions) SetPaymentScreenshot(userID int64, path string) (bool, error) {
	return false, nil
}
func (s *stubSubmissions) Decide(userID int64, status string) (bool, error) { return false, nil }
func (s *stubSubmissions) Delete(userID int64) error                        { return nil }
func (s *stubSubmissions) List() ([]models.Submission, error)               { return s.subs, nil }

type stubPlatforms struct {
	platforms []models.Platform
}

func (s *stubPlatforms) List() ([]models.Platform, error)             { return s.platforms, nil }
func (s *stubPlatforms) Add(name string) error                        { return nil }
func (s *stubPlatforms) Rename(oldName, newName string) (bool, error) { return false, nil }
func (s *stubPlatforms) Delete(name string) (bool, error)             { return false, nil }
func (s *stubPlatforms) SetActive(name string, active bool) (bool, error) {
	return false, nil
}

type stubPricing struct {
	packages []models.Package
}

func (s *stubPricing) List() ([]models.Package, error)    { return s.packages, nil }
func (s *stubPricing) Add(p models.Package) (bool, error) { return false, nil }
func (s *stubPricing) Update(oldName string, p models.Package) (bool, error) {
	return false, nil
}
func (s *stubPricing) Delete(name string) (bool, error)        { return false, nil }
func (s *stubPricing) SetLink(name, link string) (bool, error) { return false, nil }

type stubAdmins struct {
	admins []models.Admin
}

func (s *stubAdmins) IsAdmin(userID int64) (bool, error)  { return false, nil }
func (s *stubAdmins) List() ([]models.Admin, error)       { return s.admins, nil }
func (s *stubAdmins) Add(userID, addedBy int64) error     { return nil }
func (s *stubAdmins) Remove(userID int64) (bool, error)   { return false, nil }
func (s *stubAdmins) InitialAdminID() int64               { return 1 }

const testToken = "secret-token"

func newTestRouter(t *testing.T, imagesDir string) chi.Router {
	t.Helper()
	deps := ApiDependencies{
		Config: &config.Config{AdminAPIToken: testToken, ImagesDir: imagesDir},
		Submissions: &stubSubmissions{subs: []models.Submission{{
			UserID:                100,
			Platform:              sql.NullString{String: "Instagram", Valid: true},
			AccountID:             sql.NullString{String: "https://instagram.com/x", Valid: true},
			Package:               sql.NullString{String: "1000", Valid: true},
			PhotoPath:             sql.NullString{String: "/data/images/100_account_a.jpg", Valid: true},
			PaymentScreenshotPath: sql.NullString{String: "/data/images/100_payment_b.jpg", Valid: true},
			Status:                "pending",
			PaymentNotified:       true,
			CreatedAt:             time.Now(),
			UpdatedAt:             time.Now(),
		}}},
		Platforms: &stubPlatforms{platforms: []models.Platform{{Name: "Instagram", Active: true}}},
		Pricing:   &stubPricing{packages: []models.Package{{Name: "500", Price: 29, PaymentLink: "https://paypal.com/500"}}},
		Admins:    &stubAdmins{admins: []models.Admin{{UserID: 1, AddedBy: 1}}},
	}
	r := chi.NewRouter()
	SetupRoutes(r, deps)
	return r
}

func doRequest(t *testing.T, r chi.Router, path, token string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("X-Api-Token", token)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestAuthRejectsMissingAndWrongToken(t *testing.T) {
	r := newTestRouter(t, t.TempDir())

	for _, token := range []string{"", "wrong-token"} {
		rec := doRequest(t, r, "/api/admin/submissions", token)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("токен %q: статус %d, ожидался 401", token, rec.Code)
		}
	}
}

func TestAuthEmptySecretRejectsEverything(t *testing.T) {
	handler := AuthMiddleware("")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatalf("запрос прошел сквозь выключенное API")
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/admin/submissions", nil)
	req.Header.Set("X-Api-Token", "")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("статус %d, ожидался 401", rec.Code)
	}
}

func TestListSubmissions(t *testing.T) {
	r := newTestRouter(t, t.TempDir())

	rec := doRequest(t, r, "/api/admin/submissions", testToken)
	if rec.Code != http.StatusOK {
		t.Fatalf("статус %d, ожидался 200", rec.Code)
	}

	var dtos []submissionDTO
	if err := json.Unmarshal(rec.Body.Bytes(), &dtos); err != nil {
		t.Fatalf("ответ не разбирается как JSON: %v", err)
	}
	if len(dtos) != 1 {
		t.Fatalf("заявок %d, ожидалась 1", len(dtos))
	}
	dto := dtos[0]
	if dto.UserID != 100 || dto.Platform != "Instagram" || dto.Package != "1000" {
		t.Fatalf("неожиданный DTO: %+v", dto)
	}
	if dto.Stage != "payment_photo" {
		t.Fatalf("stage = %q, ожидалось payment_photo", dto.Stage)
	}
	// Наружу уходят только имена файлов, не пути на диске.
	// Only filenames leave the server, never on-disk paths.
	if dto.AccountPhoto != "100_account_a.jpg" || dto.PaymentScreenshot != "100_payment_b.jpg" {
		t.Fatalf("пути скриншотов не зачищены: %+v", dto)
	}
}

func TestListCatalogEndpoints(t *testing.T) {
	r := newTestRouter(t, t.TempDir())

	rec := doRequest(t, r, "/api/admin/platforms", testToken)
	if rec.Code != http.StatusOK {
		t.Fatalf("platforms: статус %d", rec.Code)
	}
	var platforms []models.Platform
	if err := json.Unmarshal(rec.Body.Bytes(), &platforms); err != nil {
		t.Fatalf("platforms: %v", err)
	}
	if len(platforms) != 1 || platforms[0].Name != "Instagram" {
		t.Fatalf("platforms: %+v", platforms)
	}

	rec = doRequest(t, r, "/api/admin/pricing", testToken)
	if rec.Code != http.StatusOK {
		t.Fatalf("pricing: статус %d", rec.Code)
	}
	var packages []models.Package
	if err := json.Unmarshal(rec.Body.Bytes(), &packages); err != nil {
		t.Fatalf("pricing: %v", err)
	}
	if len(packages) != 1 || packages[0].Name != "500" || packages[0].Price != 29 {
		t.Fatalf("pricing: %+v", packages)
	}

	rec = doRequest(t, r, "/api/admin/admins", testToken)
	if rec.Code != http.StatusOK {
		t.Fatalf("admins: статус %d", rec.Code)
	}
	var admins []models.Admin
	if err := json.Unmarshal(rec.Body.Bytes(), &admins); err != nil {
		t.Fatalf("admins: %v", err)
	}
	if len(admins) != 1 || admins[0].UserID != 1 {
		t.Fatalf("admins: %+v", admins)
	}
}

func TestServeMedia(t *testing.T) {
	imagesDir := t.TempDir()
	content := []byte("jpeg-bytes")
	if err := os.WriteFile(filepath.Join(imagesDir, "100_account_a.jpg"), content, 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	r := newTestRouter(t, imagesDir)

	rec := doRequest(t, r, "/api/media/100_account_a.jpg", testToken)
	if rec.Code != http.StatusOK {
		t.Fatalf("статус %d, ожидался 200", rec.Code)
	}
	if rec.Body.String() != string(content) {
		t.Fatalf("тело ответа не совпадает с файлом")
	}

	rec = doRequest(t, r, "/api/media/100_account_a.jpg", "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("медиа отдано без токена: статус %d", rec.Code)
	}

	rec = doRequest(t, r, "/api/media/missing.jpg", testToken)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("отсутствующий файл: статус %d, ожидался 404", rec.Code)
	}
}
