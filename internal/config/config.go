// Файл: internal/config/config.go
package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
)

// Config хранит все конфигурационные параметры приложения.
// Config stores all application configuration parameters.
type Config struct {
	TelegramToken  string
	DatabaseURL    string
	AppEnv         string
	InitialAdminID int64  // ID начального администратора, не может быть удален / Initial admin ID, cannot be removed
	AdminAPIToken  string // Секрет для доступа к HTTP API админки / Secret for admin HTTP API access
	ImagesDir      string // Каталог для скриншотов пользователей / Directory for user screenshots
	Port           string
}

// LoadConfig загружает конфигурацию из переменных окружения.
// LoadConfig loads configuration from environment variables.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		TelegramToken: os.Getenv("TELEGRAM_APITOKEN"),
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		AppEnv:        os.Getenv("ENV"),
		AdminAPIToken: os.Getenv("ADMIN_API_TOKEN"),
		ImagesDir:     os.Getenv("IMAGES_DIR"),
		Port:          os.Getenv("PORT"),
	}

	if cfg.TelegramToken == "" {
		return nil, fmt.Errorf("TELEGRAM_APITOKEN не установлен")
	}
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL не установлена")
	}

	var err error
	cfg.InitialAdminID, err = strconv.ParseInt(os.Getenv("ADMIN_ID"), 10, 64)
	if err != nil || cfg.InitialAdminID == 0 {
		return nil, fmt.Errorf("ADMIN_ID не установлен или некорректен: %v", err)
	}

	if cfg.ImagesDir == "" {
		cfg.ImagesDir = "user_images"
		log.Printf("Предупреждение: IMAGES_DIR не установлен, используется значение по умолчанию %q.", cfg.ImagesDir)
	}
	if cfg.Port == "" {
		cfg.Port = "8080"
	}
	if cfg.AdminAPIToken == "" {
		log.Println("Предупреждение: ADMIN_API_TOKEN не установлен. HTTP API админки будет недоступно.")
	}

	log.Println("Конфигурация загружена.")
	return cfg, nil
}
