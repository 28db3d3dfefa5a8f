// Файл: internal/storage/db.go
package storage

import (
	"database/sql"
	"fmt"
	"log"
	"time"

	_ "github.com/lib/pq" // PostgreSQL driver
)

// Open открывает соединение с базой данных и проверяет его.
// Open opens the database connection and verifies it.
func Open(databaseURL string) (*sql.DB, error) {
	if databaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL не установлена")
	}

	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("ошибка подключения к базе данных: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ошибка проверки соединения с базой данных: %w", err)
	}

	log.Println("Успешное подключение к базе данных.")
	return db, nil
}

// Migrate создает таблицы, если их еще нет.
// Migrate creates the tables if they do not exist yet.
func Migrate(db *sql.DB) error {
	createTablesSQL := `
        CREATE TABLE IF NOT EXISTS submissions (
            user_id BIGINT PRIMARY KEY,
            platform TEXT,
            account_id TEXT,
            package TEXT,
            photo_path TEXT,
            payment_screenshot_path TEXT,
            status TEXT NOT NULL DEFAULT 'pending',
            payment_notified BOOLEAN NOT NULL DEFAULT FALSE,
            created_at TIMESTAMP NOT NULL DEFAULT NOW(),
            updated_at TIMESTAMP NOT NULL DEFAULT NOW()
        );
        CREATE TABLE IF NOT EXISTS platforms (
            name TEXT PRIMARY KEY,
            active BOOLEAN NOT NULL DEFAULT TRUE
        );
        CREATE TABLE IF NOT EXISTS pricing (
            package TEXT PRIMARY KEY,
            price INTEGER NOT NULL,
            payment_link TEXT NOT NULL DEFAULT ''
        );
        CREATE TABLE IF NOT EXISTS admins (
            user_id BIGINT PRIMARY KEY,
            added_by BIGINT,
            added_date TIMESTAMP NOT NULL DEFAULT NOW()
        );`

	if _, err := db.Exec(createTablesSQL); err != nil {
		return fmt.Errorf("ошибка создания таблиц: %w", err)
	}

	log.Println("Схема базы данных проверена.")
	return nil
}

// Seed идемпотентно добавляет начального администратора и стартовые тарифы.
// Повторный запуск существующие строки не трогает.
// Seed idempotently inserts the initial admin and the starter pricing rows.
// Re-running never touches existing rows.
func Seed(db *sql.DB, initialAdminID int64) error {
	if _, err := db.Exec(
		"INSERT INTO admins (user_id, added_by) VALUES ($1, $1) ON CONFLICT (user_id) DO NOTHING",
		initialAdminID,
	); err != nil {
		return fmt.Errorf("ошибка добавления начального администратора: %w", err)
	}

	// Стартовые тарифы из первой версии бота. Дальше администраторы правят их командами.
	// Starter pricing from the first bot revision. Admins maintain it via commands afterwards.
	seedPricing := []struct {
		pkg   string
		price int
		link  string
	}{
		{"500", 29, "https://www.paypal.com/ncp/payment/TU4RSPCQYUWKJ"},
		{"1000", 49, "https://www.paypal.com/ncp/payment/8PGZ73P6UYPGY"},
		{"3000", 99, "https://www.paypal.com/ncp/payment/AQUTD44LAPXHA"},
		{"5000", 149, "https://www.paypal.com/ncp/payment/L37GZY752UVLY"},
	}
	for _, p := range seedPricing {
		if _, err := db.Exec(
			"INSERT INTO pricing (package, price, payment_link) VALUES ($1, $2, $3) ON CONFLICT (package) DO NOTHING",
			p.pkg, p.price, p.link,
		); err != nil {
			return fmt.Errorf("ошибка добавления тарифа %s: %w", p.pkg, err)
		}
	}

	log.Println("Начальные данные загружены.")
	return nil
}
