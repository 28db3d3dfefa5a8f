package config

import "testing"

func setFullEnv(t *testing.T) {
	t.Helper()
	t.Setenv("TELEGRAM_APITOKEN", "test-token")
	t.Setenv("DATABASE_URL", "postgres://localhost/socpeak?sslmode=disable")
	t.Setenv("ADMIN_ID", "1")
	t.Setenv("ADMIN_API_TOKEN", "api-secret")
	t.Setenv("IMAGES_DIR", "/tmp/images")
	t.Setenv("PORT", "9090")
	t.Setenv("ENV", "dev")
}

func TestLoadConfig(t *testing.T) {
	setFullEnv(t)

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.TelegramToken != "test-token" || cfg.InitialAdminID != 1 {
		t.Fatalf("неожиданная конфигурация: %+v", cfg)
	}
	if cfg.ImagesDir != "/tmp/images" || cfg.Port != "9090" || cfg.AppEnv != "dev" {
		t.Fatalf("неожиданная конфигурация: %+v", cfg)
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	setFullEnv(t)
	t.Setenv("IMAGES_DIR", "")
	t.Setenv("PORT", "")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.ImagesDir != "user_images" {
		t.Fatalf("ImagesDir = %q, ожидалось значение по умолчанию user_images", cfg.ImagesDir)
	}
	if cfg.Port != "8080" {
		t.Fatalf("Port = %q, ожидалось 8080", cfg.Port)
	}
}

func TestLoadConfigMissingRequired(t *testing.T) {
	cases := []struct {
		name string
		env  string
	}{
		{"без токена", "TELEGRAM_APITOKEN"},
		{"без БД", "DATABASE_URL"},
		{"без администратора", "ADMIN_ID"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			setFullEnv(t)
			t.Setenv(tc.env, "")
			if _, err := LoadConfig(); err == nil {
				t.Fatalf("ожидалась ошибка при пустом %s", tc.env)
			}
		})
	}
}

func TestLoadConfigBadAdminID(t *testing.T) {
	setFullEnv(t)
	t.Setenv("ADMIN_ID", "not-a-number")
	if _, err := LoadConfig(); err == nil {
		t.Fatalf("ожидалась ошибка для нечислового ADMIN_ID")
	}
}
