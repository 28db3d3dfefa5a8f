// Файл: internal/api/middleware.go
package api

import (
	"crypto/subtle"
	"log"
	"net/http"
)

// AuthMiddleware проверяет заголовок X-Api-Token. Пустой секрет означает, что
// API выключено: все запросы отклоняются. Сравнение — за постоянное время.
// AuthMiddleware checks the X-Api-Token header. An empty secret means the API
// is disabled: every request is rejected. The comparison is constant-time.
func AuthMiddleware(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := r.Header.Get("X-Api-Token")
			if secret == "" || subtle.ConstantTimeCompare([]byte(token), []byte(secret)) != 1 {
				log.Printf("[API] Отклонен неавторизованный запрос %s %s от %s", r.Method, r.URL.Path, r.RemoteAddr)
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
