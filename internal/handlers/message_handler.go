// Файл: internal/handlers/message_handler.go
package handlers

import (
	"log"
	"strings"

	tgbotapi "github.com/OvyFlash/telegram-bot-api"

	"socpeak-bot/internal/constants"
)

// HandleMessage обрабатывает входящие сообщения от Telegram: команды,
// свободный текст и фотографии.
// HandleMessage processes incoming Telegram messages: commands, free text
// and photos.
func (bh *BotHandler) HandleMessage(update tgbotapi.Update) {
	if update.Message == nil {
		return
	}

	message := update.Message
	chatID := message.Chat.ID
	userID := message.From.ID
	text := strings.TrimSpace(message.Text)

	log.Printf("[MESSAGE_HANDLER] ChatID=%d, UserID=%d, Text='%.80s', Photo=%v",
		chatID, userID, text, len(message.Photo) > 0)

	switch {
	case message.IsCommand():
		bh.dispatchCommand(message)
	case len(message.Photo) > 0:
		bh.handlePhoto(message)
	case text != "":
		bh.handleText(message)
	}
}

// dispatchCommand маршрутизирует команды. Команды администратора сами
// проверяют права вызывающего.
// dispatchCommand routes commands. Admin commands verify the caller's rights
// themselves.
func (bh *BotHandler) dispatchCommand(message *tgbotapi.Message) {
	chatID := message.Chat.ID
	userID := message.From.ID
	args := strings.Fields(message.CommandArguments())

	switch message.Command() {
	case "start":
		bh.handleStart(chatID, userID)
	case "help":
		bh.handleHelp(chatID)
	case "cancel":
		bh.handleCancelRequest(chatID, userID)
	case "admin":
		bh.handleAdminPanel(chatID, userID)
	case "add_price":
		bh.handleAddPrice(chatID, userID, args)
	case "edit_price":
		bh.handleEditPrice(chatID, userID, args)
	case "delete_price":
		bh.handleDeletePrice(chatID, userID, args)
	case "update_qr":
		bh.handleUpdateQR(chatID, userID, args)
	case "add_platform":
		bh.handleAddPlatform(chatID, userID, args)
	case "edit_platform":
		bh.handleEditPlatform(chatID, userID, args)
	case "delete_platform":
		bh.handleDeletePlatform(chatID, userID, args)
	case "toggle_platform":
		bh.handleTogglePlatform(chatID, userID, args)
	case "add_admin":
		bh.handleAddAdmin(chatID, userID, args)
	case "remove_admin":
		bh.handleRemoveAdmin(chatID, userID, args)
	case "list_admins":
		bh.handleListAdmins(chatID, userID)
	default:
		bh.sendMarkdown(chatID, "ℹ️ *Unknown command.* Use /help to see what I can do.", nil)
	}
}

// handleText обрабатывает свободный текст. Единственный легальный момент для
// текста — ожидание ссылки после выбора платформы; в остальных этапах это
// ошибка последовательности, заявка не меняется.
// handleText processes free text. The only legal moment for text is waiting for
// the link after the platform was chosen; at any other stage it is a sequence
// error and the submission stays untouched.
func (bh *BotHandler) handleText(message *tgbotapi.Message) {
	bh.handleTextInput(message.Chat.ID, message.From.ID, strings.TrimSpace(message.Text))
}

func (bh *BotHandler) handleTextInput(chatID, userID int64, text string) {
	bh.Deps.Sessions.Lock(userID)
	defer bh.Deps.Sessions.Unlock(userID)

	sub, err := bh.Deps.Submissions.Get(userID)
	if err != nil {
		bh.sendErrorMessageHelper(chatID)
		return
	}

	if sub.Stage() != constants.STAGE_PLATFORM_CHOSEN {
		bh.sendMarkdown(chatID, "ℹ️ *Please select a platform first!* Use `/start` to begin.", nil)
		return
	}

	ok, err := bh.Deps.Submissions.SetAccountID(userID, text)
	if err != nil {
		bh.sendErrorMessageHelper(chatID)
		return
	}
	if !ok {
		// Условная запись проиграла гонку — этап уже сдвинулся.
		// The conditional write lost a race, the stage already moved on.
		bh.sendMarkdown(chatID, "ℹ️ *Please select a platform first!* Use `/start` to begin.", nil)
		return
	}

	keyboard := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📸 Upload Screenshot", constants.CALLBACK_UPLOAD_SCREENSHOT_PROMPT),
		),
	)
	bh.sendMarkdown(chatID,
		"✅ *Link saved!*\n"+
			"📸 *Step 3:* Please upload a screenshot of your current account using the button below:",
		&keyboard)
}
