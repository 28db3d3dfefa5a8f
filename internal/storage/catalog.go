package storage

import (
	"log"
	"sync"

	"socpeak-bot/internal/models"
	"socpeak-bot/internal/utils"
)

// Catalog — кэш платформ и тарифов в памяти. Читается на каждом событии,
// поэтому держим снимок под RWMutex и перечитываем его из БД явным Refresh()
// после каждой мутации каталога, а не глобальным переприсваиванием.
// Catalog is the in-memory snapshot of platforms and pricing. It is read on
// every event, so the snapshot lives behind an RWMutex and is reloaded from the
// database by an explicit Refresh() after every catalog mutation, not by global
// reassignment.
type Catalog struct {
	platforms PlatformStore
	pricing   PricingStore

	mu        sync.RWMutex
	active    []models.Platform // Только активные, в порядке имен / Active only, name order
	bySlug    map[string]models.Platform
	packages  []models.Package // В порядке цены / Price order
	byPackage map[string]models.Package
}

func NewCatalog(platforms PlatformStore, pricing PricingStore) *Catalog {
	return &Catalog{
		platforms: platforms,
		pricing:   pricing,
		bySlug:    make(map[string]models.Platform),
		byPackage: make(map[string]models.Package),
	}
}

// Refresh перечитывает снимок каталога из хранилища. Вызывается при старте и
// после каждой команды администратора, меняющей платформы или тарифы.
// Refresh reloads the catalog snapshot from storage. Called at startup and
// after every admin command mutating platforms or pricing.
func (c *Catalog) Refresh() error {
	platforms, err := c.platforms.List()
	if err != nil {
		return err
	}
	packages, err := c.pricing.List()
	if err != nil {
		return err
	}

	active := make([]models.Platform, 0, len(platforms))
	bySlug := make(map[string]models.Platform, len(platforms))
	for _, p := range platforms {
		if !p.Active {
			continue
		}
		active = append(active, p)
		bySlug[utils.PlatformSlug(p.Name)] = p
	}

	byPackage := make(map[string]models.Package, len(packages))
	for _, p := range packages {
		byPackage[p.Name] = p
	}

	c.mu.Lock()
	c.active = active
	c.bySlug = bySlug
	c.packages = packages
	c.byPackage = byPackage
	c.mu.Unlock()

	log.Printf("Каталог обновлен: %d активных платформ, %d тарифов.", len(active), len(packages))
	return nil
}

// ActivePlatforms возвращает активные платформы из снимка.
// ActivePlatforms returns the active platforms from the snapshot.
func (c *Catalog) ActivePlatforms() []models.Platform {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]models.Platform(nil), c.active...)
}

// PlatformBySlug находит активную платформу по slug из callback data и
// возвращает ее каноническое имя (с исходным регистром).
// PlatformBySlug resolves an active platform from its callback-data slug and
// yields the canonical name (original casing preserved).
func (c *Catalog) PlatformBySlug(slug string) (models.Platform, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	p, ok := c.bySlug[slug]
	return p, ok
}

// Packages возвращает тарифы из снимка, отсортированные по цене.
// Packages returns the pricing snapshot sorted by price.
func (c *Catalog) Packages() []models.Package {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]models.Package(nil), c.packages...)
}

// Package находит тариф по имени пакета.
// Package looks a tier up by package name.
func (c *Catalog) Package(name string) (models.Package, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	p, ok := c.byPackage[name]
	return p, ok
}
