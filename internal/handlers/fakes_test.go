package handlers

import (
	"database/sql"
	"strings"
	"sync"
	"time"

	tgbotapi "github.com/OvyFlash/telegram-bot-api"

	"socpeak-bot/internal/constants"
	"socpeak-bot/internal/models"
	"socpeak-bot/internal/storage"
)

// In-memory fakes mirroring the conditional-update contracts of the Postgres
// stores, so the handler flow can be driven end to end without a database.

type fakeSubmissions struct {
	mu   sync.Mutex
	subs map[int64]*models.Submission
}

func newFakeSubmissions() *fakeSubmissions {
	return &fakeSubmissions{subs: make(map[int64]*models.Submission)}
}

func (f *fakeSubmissions) Get(userID int64) (*models.Submission, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.subs[userID]
	if !ok {
		return nil, nil
	}
	cp := *s
	return &cp, nil
}

func (f *fakeSubmissions) Create(userID int64, platform string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if s, ok := f.subs[userID]; ok {
		if s.AccountID.Valid {
			return false, nil
		}
		s.Platform = sql.NullString{String: platform, Valid: true}
		return true, nil
	}
	f.subs[userID] = &models.Submission{
		UserID:    userID,
		Platform:  sql.NullString{String: platform, Valid: true},
		Status:    constants.STATUS_PENDING,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	return true, nil
}

func (f *fakeSubmissions) SetAccountID(userID int64, accountID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.subs[userID]
	if !ok || !s.Platform.Valid || s.AccountID.Valid {
		return false, nil
	}
	s.AccountID = sql.NullString{String: accountID, Valid: true}
	return true, nil
}

func (f *fakeSubmissions) SetAccountPhoto(userID int64, path string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.subs[userID]
	if !ok || !s.AccountID.Valid || s.Package.Valid {
		return false, nil
	}
	s.PhotoPath = sql.NullString{String: path, Valid: true}
	return true, nil
}

func (f *fakeSubmissions) SetPackage(userID int64, pkg string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.subs[userID]
	if !ok || !s.PhotoPath.Valid || s.PaymentScreenshotPath.Valid || s.PaymentNotified {
		return false, nil
	}
	s.Package = sql.NullString{String: pkg, Valid: true}
	return true, nil
}

func (f *fakeSubmissions) SetPaymentScreenshot(userID int64, path string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.subs[userID]
	if !ok || !s.Package.Valid || s.PaymentScreenshotPath.Valid || s.PaymentNotified {
		return false, nil
	}
	s.PaymentScreenshotPath = sql.NullString{String: path, Valid: true}
	s.PaymentNotified = true
	return true, nil
}

func (f *fakeSubmissions) Decide(userID int64, status string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.subs[userID]
	if !ok || !s.PaymentScreenshotPath.Valid || s.Status != constants.STATUS_PENDING {
		return false, nil
	}
	s.Status = status
	return true, nil
}

func (f *fakeSubmissions) Delete(userID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.subs, userID)
	return nil
}

func (f *fakeSubmissions) List() ([]models.Submission, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Submission
	for _, s := range f.subs {
		out = append(out, *s)
	}
	return out, nil
}

type fakePlatforms struct {
	mu        sync.Mutex
	platforms []models.Platform
	subs      *fakeSubmissions // Для каскадов / for cascades
}

func (f *fakePlatforms) List() ([]models.Platform, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.Platform(nil), f.platforms...), nil
}

func (f *fakePlatforms) Add(name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.platforms {
		if p.Name == name {
			return nil
		}
	}
	f.platforms = append(f.platforms, models.Platform{Name: name, Active: true})
	return nil
}

func (f *fakePlatforms) Rename(oldName, newName string) (bool, error) {
	f.mu.Lock()
	found := false
	for i := range f.platforms {
		if f.platforms[i].Name == oldName {
			f.platforms[i].Name = newName
			found = true
		}
	}
	f.mu.Unlock()
	if !found {
		return false, nil
	}
	f.subs.mu.Lock()
	for _, s := range f.subs.subs {
		if s.Platform.String == oldName {
			s.Platform.String = newName
		}
	}
	f.subs.mu.Unlock()
	return true, nil
}

func (f *fakePlatforms) Delete(name string) (bool, error) {
	f.mu.Lock()
	found := false
	kept := f.platforms[:0]
	for _, p := range f.platforms {
		if p.Name == name {
			found = true
			continue
		}
		kept = append(kept, p)
	}
	f.platforms = kept
	f.mu.Unlock()
	if !found {
		return false, nil
	}
	f.subs.mu.Lock()
	for id, s := range f.subs.subs {
		if s.Platform.String == name {
			delete(f.subs.subs, id)
		}
	}
	f.subs.mu.Unlock()
	return true, nil
}

func (f *fakePlatforms) SetActive(name string, active bool) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.platforms {
		if f.platforms[i].Name == name {
			f.platforms[i].Active = active
			return true, nil
		}
	}
	return false, nil
}

type fakePricing struct {
	mu       sync.Mutex
	packages []models.Package
}

func (f *fakePricing) List() ([]models.Package, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.Package(nil), f.packages...), nil
}

func (f *fakePricing) Add(p models.Package) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.packages {
		if existing.Name == p.Name {
			return false, nil
		}
	}
	f.packages = append(f.packages, p)
	return true, nil
}

func (f *fakePricing) Update(oldName string, p models.Package) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.packages {
		if f.packages[i].Name == oldName {
			f.packages[i] = p
			return true, nil
		}
	}
	return false, nil
}

func (f *fakePricing) Delete(name string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.packages {
		if f.packages[i].Name == name {
			f.packages = append(f.packages[:i], f.packages[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (f *fakePricing) SetLink(name, link string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.packages {
		if f.packages[i].Name == name {
			f.packages[i].PaymentLink = link
			return true, nil
		}
	}
	return false, nil
}

type fakeAdmins struct {
	mu        sync.Mutex
	initialID int64
	ids       map[int64]models.Admin
}

func newFakeAdmins(initialID int64, extra ...int64) *fakeAdmins {
	f := &fakeAdmins{initialID: initialID, ids: make(map[int64]models.Admin)}
	f.ids[initialID] = models.Admin{UserID: initialID, AddedBy: initialID}
	for _, id := range extra {
		f.ids[id] = models.Admin{UserID: id, AddedBy: initialID}
	}
	return f
}

func (f *fakeAdmins) InitialAdminID() int64 { return f.initialID }

func (f *fakeAdmins) IsAdmin(userID int64) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.ids[userID]
	return ok, nil
}

func (f *fakeAdmins) List() ([]models.Admin, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Admin
	for _, a := range f.ids {
		out = append(out, a)
	}
	return out, nil
}

func (f *fakeAdmins) Add(userID, addedBy int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.ids[userID]; !ok {
		f.ids[userID] = models.Admin{UserID: userID, AddedBy: addedBy, AddedDate: time.Now()}
	}
	return nil
}

func (f *fakeAdmins) Remove(userID int64) (bool, error) {
	if userID == f.initialID {
		return false, storage.ErrInitialAdmin
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.ids[userID]; !ok {
		return false, nil
	}
	delete(f.ids, userID)
	return true, nil
}

// fakeSender записывает все исходящие сообщения и подменяет скачивание файлов.
// fakeSender records all outbound messages and stubs file downloads.
type fakeSender struct {
	mu   sync.Mutex
	sent []tgbotapi.Chattable
}

func (f *fakeSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, c)
	return tgbotapi.Message{MessageID: len(f.sent)}, nil
}

func (f *fakeSender) Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	return &tgbotapi.APIResponse{Ok: true}, nil
}

func (f *fakeSender) DownloadFile(fileID string) ([]byte, error) {
	return []byte("jpeg-bytes"), nil
}

// textsTo возвращает тексты всех MessageConfig, отправленных в указанный чат.
// textsTo returns the texts of all MessageConfigs sent to the given chat.
func (f *fakeSender) textsTo(chatID int64) []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []string
	for _, c := range f.sent {
		if msg, ok := c.(tgbotapi.MessageConfig); ok && msg.ChatID == chatID {
			out = append(out, msg.Text)
		}
	}
	return out
}

// photosTo считает PhotoConfig, отправленные в указанный чат.
// photosTo counts the PhotoConfigs sent to the given chat.
func (f *fakeSender) photosTo(chatID int64) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.sent {
		if photo, ok := c.(tgbotapi.PhotoConfig); ok && photo.ChatID == chatID {
			n++
		}
	}
	return n
}

// documentsTo считает DocumentConfig, отправленные в указанный чат.
// documentsTo counts the DocumentConfigs sent to the given chat.
func (f *fakeSender) documentsTo(chatID int64) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.sent {
		if doc, ok := c.(tgbotapi.DocumentConfig); ok && doc.ChatID == chatID {
			n++
		}
	}
	return n
}

func containsText(texts []string, substr string) bool {
	for _, t := range texts {
		if strings.Contains(t, substr) {
			return true
		}
	}
	return false
}
