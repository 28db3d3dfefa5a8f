package main

import (
	"log"
	"net/http"

	tgbotapi "github.com/OvyFlash/telegram-bot-api"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"

	"socpeak-bot/internal/api"
	"socpeak-bot/internal/config"
	"socpeak-bot/internal/handlers"
	"socpeak-bot/internal/session"
	"socpeak-bot/internal/storage"
	"socpeak-bot/internal/telegram_api"
)

func main() {
	// --- Блок инициализации / Initialization ---
	if err := godotenv.Load(); err != nil {
		log.Println("Предупреждение: не удалось загрузить файл .env. Переменные окружения должны быть установлены иным способом.")
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Критическая ошибка: не удалось загрузить конфигурацию: %v", err)
	}

	db, err := storage.Open(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Критическая ошибка: не удалось подключиться к базе данных: %v", err)
	}
	defer db.Close()

	if err := storage.Migrate(db); err != nil {
		log.Fatalf("Критическая ошибка: не удалось выполнить миграции: %v", err)
	}
	if err := storage.Seed(db, cfg.InitialAdminID); err != nil {
		log.Fatalf("Критическая ошибка: не удалось загрузить начальные данные: %v", err)
	}

	submissions := storage.NewPostgresSubmissions(db)
	platforms := storage.NewPostgresPlatforms(db)
	pricing := storage.NewPostgresPricing(db)
	admins := storage.NewPostgresAdmins(db, cfg.InitialAdminID)

	catalog := storage.NewCatalog(platforms, pricing)
	if err := catalog.Refresh(); err != nil {
		log.Fatalf("Критическая ошибка: не удалось загрузить каталог: %v", err)
	}

	botClient, err := telegram_api.InitBot(cfg.TelegramToken, cfg.AppEnv == "dev")
	if err != nil {
		log.Fatalf("Критическая ошибка: не удалось инициализировать Telegram бота: %v", err)
	}

	botHandler := handlers.NewBotHandler(handlers.HandlerDependencies{
		Config:      cfg,
		BotClient:   botClient,
		Sessions:    session.NewManager(),
		Submissions: submissions,
		Platforms:   platforms,
		Pricing:     pricing,
		Admins:      admins,
		Catalog:     catalog,
	})

	// --- Настройка HTTP API админки / Admin HTTP API setup ---
	apiRouter := chi.NewRouter()
	apiRouter.Use(middleware.Logger)
	apiRouter.Use(middleware.Recoverer)
	apiRouter.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"https://*", "http://*"},
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Api-Token"},
		MaxAge:         300,
	}))

	api.SetupRoutes(apiRouter, api.ApiDependencies{
		Config:      cfg,
		Submissions: submissions,
		Platforms:   platforms,
		Pricing:     pricing,
		Admins:      admins,
	})

	go func() {
		log.Printf("Запуск HTTP-сервера админки на порту %s", cfg.Port)
		if err := http.ListenAndServe(":"+cfg.Port, apiRouter); err != nil {
			log.Fatalf("КРИТИЧЕСКАЯ ОШИБКА: не удалось запустить HTTP-сервер: %v", err)
		}
	}()

	// --- Запуск самого бота / Start the bot itself ---
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := botClient.GetUpdatesChan(u)

	log.Println("Бот и API-сервер запущены и готовы к работе...")

	for update := range updates {
		if update.Message != nil {
			go safeHandle(func() { botHandler.HandleMessage(update) })
		} else if update.CallbackQuery != nil {
			go safeHandle(func() { botHandler.HandleCallback(update) })
		}
	}
}

// safeHandle не дает панике в обработчике одного события уронить весь цикл
// обработки обновлений.
// safeHandle keeps a panic in one event's handler from taking down the whole
// update loop.
func safeHandle(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("ПАНИКА в обработчике обновления: %v", r)
		}
	}()
	fn()
}
