// Файл: internal/api/router.go
package api

import (
	"github.com/go-chi/chi/v5"

	"socpeak-bot/internal/config"
	"socpeak-bot/internal/storage"
)

// ApiDependencies содержит зависимости для обработчиков API.
// ApiDependencies contains the dependencies for the API handlers.
type ApiDependencies struct {
	Config      *config.Config
	Submissions storage.SubmissionStore
	Platforms   storage.PlatformStore
	Pricing     storage.PricingStore
	Admins      storage.AdminStore
}

// SetupRoutes настраивает все маршруты API. Весь API закрыт токеном:
// это служебная поверхность только для администраторов.
// SetupRoutes wires all API routes. The whole API sits behind the token:
// it is an admin-only operational surface.
func SetupRoutes(r chi.Router, deps ApiDependencies) {
	h := &apiHandlers{deps: deps}

	r.Group(func(r chi.Router) {
		r.Use(AuthMiddleware(deps.Config.AdminAPIToken))

		r.Route("/api/admin", func(r chi.Router) {
			r.Get("/submissions", h.listSubmissions)
			r.Get("/platforms", h.listPlatforms)
			r.Get("/pricing", h.listPricing)
			r.Get("/admins", h.listAdmins)
		})

		r.Get("/api/media/{filename}", h.serveMedia)
	})
}
