package handlers

import (
	"log"

	tgbotapi "github.com/OvyFlash/telegram-bot-api"

	"socpeak-bot/internal/config"
	"socpeak-bot/internal/constants"
	"socpeak-bot/internal/session"
	"socpeak-bot/internal/storage"
)

// Sender — интерфейс шлюза сообщений, который нужен обработчикам. Реализуется
// telegram_api.BotClient; в тестах подменяется фейком.
// Sender is the messaging gateway interface the handlers need. Implemented by
// telegram_api.BotClient; faked in tests.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	DownloadFile(fileID string) ([]byte, error)
}

// HandlerDependencies содержит все зависимости, необходимые для обработчиков.
// HandlerDependencies contains all dependencies required for handlers.
type HandlerDependencies struct {
	Config      *config.Config
	BotClient   Sender
	Sessions    *session.Manager
	Submissions storage.SubmissionStore
	Platforms   storage.PlatformStore
	Pricing     storage.PricingStore
	Admins      storage.AdminStore
	Catalog     *storage.Catalog
}

// BotHandler инкапсулирует логику обработки сообщений и коллбэков.
// BotHandler encapsulates the logic for handling messages and callbacks.
type BotHandler struct {
	Deps HandlerDependencies
}

// NewBotHandler создает новый экземпляр BotHandler.
// NewBotHandler creates a new instance of BotHandler.
func NewBotHandler(deps HandlerDependencies) *BotHandler {
	if deps.Config == nil || deps.BotClient == nil || deps.Sessions == nil ||
		deps.Submissions == nil || deps.Platforms == nil || deps.Pricing == nil ||
		deps.Admins == nil || deps.Catalog == nil {
		// Это критическая ошибка конфигурации, приложение не сможет работать корректно.
		// This is a critical configuration error; the application cannot work correctly.
		panic("Не все зависимости для BotHandler были предоставлены.")
	}
	return &BotHandler{Deps: deps}
}

// sendMarkdown отправляет Markdown-сообщение с опциональной inline-клавиатурой.
// sendMarkdown sends a Markdown message with an optional inline keyboard.
func (bh *BotHandler) sendMarkdown(chatID int64, text string, keyboard *tgbotapi.InlineKeyboardMarkup) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	if keyboard != nil {
		msg.ReplyMarkup = keyboard
	}
	if _, err := bh.Deps.BotClient.Send(msg); err != nil {
		log.Printf("Ошибка отправки сообщения в чат %d: %v", chatID, err)
	}
}

// sendErrorMessageHelper отправляет пользователю общее уведомление об ошибке.
// sendErrorMessageHelper sends the user a generic failure notice.
func (bh *BotHandler) sendErrorMessageHelper(chatID int64) {
	bh.sendMarkdown(chatID, constants.MSG_GENERIC_FAILURE, nil)
}

// isAdmin проверяет права администратора; ошибки хранилища трактуются как отказ.
// isAdmin checks admin rights; storage errors are treated as denial.
func (bh *BotHandler) isAdmin(userID int64) bool {
	ok, err := bh.Deps.Admins.IsAdmin(userID)
	if err != nil {
		log.Printf("isAdmin: ошибка проверки прав пользователя %d: %v", userID, err)
		return false
	}
	return ok
}
