// Файл: internal/api/handlers.go
package api

import (
	"encoding/json"
	"log"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"socpeak-bot/internal/models"
)

type apiHandlers struct {
	deps ApiDependencies
}

// submissionDTO — представление заявки для JSON: NULL-поля БД отдаются
// пустыми строками вместо вложенных структур database/sql.
// submissionDTO is the JSON view of a submission: database NULL fields come
// out as empty strings instead of nested database/sql structs.
type submissionDTO struct {
	UserID            int64     `json:"user_id"`
	Platform          string    `json:"platform"`
	AccountID         string    `json:"account_id"`
	Package           string    `json:"package"`
	AccountPhoto      string    `json:"account_photo"`
	PaymentScreenshot string    `json:"payment_screenshot"`
	Status            string    `json:"status"`
	PaymentNotified   bool      `json:"payment_notified"`
	Stage             string    `json:"stage"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

func toDTO(s models.Submission) submissionDTO {
	return submissionDTO{
		UserID:            s.UserID,
		Platform:          s.Platform.String,
		AccountID:         s.AccountID.String,
		Package:           s.Package.String,
		AccountPhoto:      filepath.Base(s.PhotoPath.String),
		PaymentScreenshot: filepath.Base(s.PaymentScreenshotPath.String),
		Status:            s.Status,
		PaymentNotified:   s.PaymentNotified,
		Stage:             s.Stage(),
		CreatedAt:         s.CreatedAt,
		UpdatedAt:         s.UpdatedAt,
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("[API] Ошибка сериализации ответа: %v", err)
	}
}

func (h *apiHandlers) listSubmissions(w http.ResponseWriter, r *http.Request) {
	subs, err := h.deps.Submissions.List()
	if err != nil {
		http.Error(w, "storage error", http.StatusInternalServerError)
		return
	}
	dtos := make([]submissionDTO, 0, len(subs))
	for _, s := range subs {
		dtos = append(dtos, toDTO(s))
	}
	writeJSON(w, dtos)
}

func (h *apiHandlers) listPlatforms(w http.ResponseWriter, r *http.Request) {
	platforms, err := h.deps.Platforms.List()
	if err != nil {
		http.Error(w, "storage error", http.StatusInternalServerError)
		return
	}
	if platforms == nil {
		platforms = []models.Platform{}
	}
	writeJSON(w, platforms)
}

func (h *apiHandlers) listPricing(w http.ResponseWriter, r *http.Request) {
	pricing, err := h.deps.Pricing.List()
	if err != nil {
		http.Error(w, "storage error", http.StatusInternalServerError)
		return
	}
	if pricing == nil {
		pricing = []models.Package{}
	}
	writeJSON(w, pricing)
}

func (h *apiHandlers) listAdmins(w http.ResponseWriter, r *http.Request) {
	admins, err := h.deps.Admins.List()
	if err != nil {
		http.Error(w, "storage error", http.StatusInternalServerError)
		return
	}
	if admins == nil {
		admins = []models.Admin{}
	}
	writeJSON(w, admins)
}

// serveMedia отдает сохраненный скриншот по имени файла. Имя зачищается от
// любых элементов пути, чтобы наружу нельзя было выйти из каталога изображений.
// serveMedia serves a stored screenshot by filename. The name is stripped of
// any path elements so the images directory cannot be escaped.
func (h *apiHandlers) serveMedia(w http.ResponseWriter, r *http.Request) {
	filename := chi.URLParam(r, "filename")
	filename = filepath.Base(filename)
	if filename == "" || filename == "." || strings.HasPrefix(filename, "..") {
		http.Error(w, "bad filename", http.StatusBadRequest)
		return
	}
	http.ServeFile(w, r, filepath.Join(h.deps.Config.ImagesDir, filename))
}
