package storage

import (
	"errors"
	"testing"

	"socpeak-bot/internal/models"
)

type stubPlatforms struct {
	platforms []models.Platform
	err       error
}

func (s *stubPlatforms) List() ([]models.Platform, error)            { return s.platforms, s.err }
func (s *stubPlatforms) Add(name string) error                       { return nil }
func (s *stubPlatforms) Rename(oldName, newName string) (bool, error) { return false, nil }
func (s *stubPlatforms) Delete(name string) (bool, error)            { return false, nil }
func (s *stubPlatforms) SetActive(name string, active bool) (bool, error) {
	return false, nil
}

type stubPricing struct {
	packages []models.Package
	err      error
}

func (s *stubPricing) List() ([]models.Package, error)                  { return s.packages, s.err }
func (s *stubPricing) Add(p models.Package) (bool, error)               { return false, nil }
func (s *stubPricing) Update(oldName string, p models.Package) (bool, error) { return false, nil }
func (s *stubPricing) Delete(name string) (bool, error)                 { return false, nil }
func (s *stubPricing) SetLink(name, link string) (bool, error)          { return false, nil }

func TestCatalogRefreshFiltersInactive(t *testing.T) {
	platforms := &stubPlatforms{platforms: []models.Platform{
		{Name: "Instagram", Active: true},
		{Name: "TikTok", Active: false},
		{Name: "Facebook Followers", Active: true},
	}}
	pricing := &stubPricing{packages: []models.Package{
		{Name: "500", Price: 29, PaymentLink: "https://paypal.com/500"},
		{Name: "1000", Price: 49, PaymentLink: "https://paypal.com/1000"},
	}}

	c := NewCatalog(platforms, pricing)
	if err := c.Refresh(); err != nil {
		t.Fatalf("Refresh: %v", err)
	}

	active := c.ActivePlatforms()
	if len(active) != 2 {
		t.Fatalf("активных платформ %d, ожидалось 2: %+v", len(active), active)
	}
	for _, p := range active {
		if p.Name == "TikTok" {
			t.Fatalf("неактивная платформа попала в снимок")
		}
	}

	if _, ok := c.PlatformBySlug("tiktok"); ok {
		t.Fatalf("неактивная платформа находима по slug")
	}
	p, ok := c.PlatformBySlug("facebook_followers")
	if !ok {
		t.Fatalf("активная платформа не находима по slug")
	}
	if p.Name != "Facebook Followers" {
		t.Fatalf("slug вернул %q вместо канонического имени", p.Name)
	}

	if got := len(c.Packages()); got != 2 {
		t.Fatalf("тарифов %d, ожидалось 2", got)
	}
	pkg, ok := c.Package("1000")
	if !ok || pkg.Price != 49 {
		t.Fatalf("Package(1000) = (%+v, %v)", pkg, ok)
	}
	if _, ok := c.Package("9000"); ok {
		t.Fatalf("несуществующий тариф найден")
	}
}

func TestCatalogRefreshReplacesSnapshot(t *testing.T) {
	platforms := &stubPlatforms{platforms: []models.Platform{{Name: "Instagram", Active: true}}}
	pricing := &stubPricing{packages: []models.Package{{Name: "500", Price: 29}}}

	c := NewCatalog(platforms, pricing)
	if err := c.Refresh(); err != nil {
		t.Fatalf("Refresh: %v", err)
	}

	platforms.platforms = []models.Platform{{Name: "TikTok", Active: true}}
	pricing.packages = []models.Package{{Name: "3000", Price: 99}}
	if err := c.Refresh(); err != nil {
		t.Fatalf("Refresh: %v", err)
	}

	if _, ok := c.PlatformBySlug("instagram"); ok {
		t.Fatalf("старая платформа пережила Refresh")
	}
	if _, ok := c.PlatformBySlug("tiktok"); !ok {
		t.Fatalf("новая платформа не попала в снимок")
	}
	if _, ok := c.Package("500"); ok {
		t.Fatalf("старый тариф пережил Refresh")
	}
}

func TestCatalogRefreshErrorKeepsSnapshot(t *testing.T) {
	platforms := &stubPlatforms{platforms: []models.Platform{{Name: "Instagram", Active: true}}}
	pricing := &stubPricing{packages: []models.Package{{Name: "500", Price: 29}}}

	c := NewCatalog(platforms, pricing)
	if err := c.Refresh(); err != nil {
		t.Fatalf("Refresh: %v", err)
	}

	platforms.err = errors.New("db down")
	if err := c.Refresh(); err == nil {
		t.Fatalf("ожидалась ошибка Refresh")
	}

	// Прежний снимок продолжает обслуживать чтения.
	// The previous snapshot keeps serving reads.
	if _, ok := c.PlatformBySlug("instagram"); !ok {
		t.Fatalf("снимок потерян после ошибки Refresh")
	}
	if _, ok := c.Package("500"); !ok {
		t.Fatalf("тарифы потеряны после ошибки Refresh")
	}
}
