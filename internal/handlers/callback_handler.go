// Файл: internal/handlers/callback_handler.go
package handlers

import (
	"log"
	"strconv"
	"strings"

	tgbotapi "github.com/OvyFlash/telegram-bot-api"

	"socpeak-bot/internal/constants"
)

// HandleCallback обрабатывает входящие callback query от Telegram. Личность
// нажавшего берется из query.From, а не из чата: это важно для подтверждения
// отмены и решений администраторов.
// HandleCallback processes incoming Telegram callback queries. The presser's
// identity comes from query.From, not from the chat: this matters for cancel
// confirmations and admin decisions.
func (bh *BotHandler) HandleCallback(update tgbotapi.Update) {
	query := update.CallbackQuery
	if query == nil {
		log.Println("[CALLBACK_HANDLER] Получен пустой CallbackQuery.")
		return
	}

	chatID := query.Message.Chat.ID
	userID := query.From.ID
	data := query.Data

	log.Printf("[CALLBACK_HANDLER] ChatID=%d, UserID=%d, Data='%s'", chatID, userID, data)

	// Сразу отвечаем на callback, чтобы у пользователя не «крутилась» кнопка.
	// Answer the callback right away so the button stops spinning.
	if _, err := bh.Deps.BotClient.Request(tgbotapi.NewCallback(query.ID, "")); err != nil {
		log.Printf("[CALLBACK_HANDLER] Ошибка ответа на CallbackQuery ID %s: %v. Продолжаем.", query.ID, err)
	}

	switch {
	case data == constants.CALLBACK_START_ORDER:
		bh.handleStart(chatID, userID)

	case data == constants.CALLBACK_CANCEL_ORDER:
		bh.handleCancelRequest(chatID, userID)

	case strings.HasPrefix(data, constants.CALLBACK_PREFIX_CONFIRM_CANCEL):
		target, ok := parseIDSuffix(data, constants.CALLBACK_PREFIX_CONFIRM_CANCEL)
		if !ok {
			return
		}
		bh.handleConfirmCancel(chatID, userID, target)

	case data == constants.CALLBACK_KEEP_ORDER:
		bh.sendMarkdown(chatID, "✅ *Order kept!* Continue where you left off.", nil)

	case strings.HasPrefix(data, constants.CALLBACK_PREFIX_PLATFORM):
		bh.handleChoosePlatform(chatID, userID, strings.TrimPrefix(data, constants.CALLBACK_PREFIX_PLATFORM))

	case data == constants.CALLBACK_ENTER_LINK_PROMPT:
		bh.sendMarkdown(chatID, "📝 *Please send the link you want to BOOST:*", nil)

	case data == constants.CALLBACK_UPLOAD_SCREENSHOT_PROMPT:
		bh.sendMarkdown(chatID, "📸 *Please upload a screenshot of your current account:*", nil)

	case strings.HasPrefix(data, constants.CALLBACK_PREFIX_PACKAGE):
		bh.handlePackageSelection(chatID, userID, strings.TrimPrefix(data, constants.CALLBACK_PREFIX_PACKAGE))

	case data == constants.CALLBACK_UPLOAD_PAYMENT_PROMPT:
		bh.sendMarkdown(chatID, "📸 *Please upload a screenshot of your payment confirmation:*", nil)

	case strings.HasPrefix(data, constants.CALLBACK_PREFIX_APPROVE):
		target, ok := parseIDSuffix(data, constants.CALLBACK_PREFIX_APPROVE)
		if !ok {
			return
		}
		bh.handleDecision(chatID, userID, target, constants.STATUS_APPROVED)

	case strings.HasPrefix(data, constants.CALLBACK_PREFIX_REJECT):
		target, ok := parseIDSuffix(data, constants.CALLBACK_PREFIX_REJECT)
		if !ok {
			return
		}
		bh.handleDecision(chatID, userID, target, constants.STATUS_REJECTED)

	case strings.HasPrefix(data, "admin_"):
		bh.dispatchAdminCallback(chatID, userID, data)

	default:
		log.Printf("[CALLBACK_HANDLER] Неизвестный callback '%s' от пользователя %d.", data, userID)
	}
}

// dispatchAdminCallback обрабатывает кнопки админ-панели. Большинство пунктов —
// подсказки по командам; просмотр и выгрузка заявок выполняются сразу.
// dispatchAdminCallback handles the admin panel buttons. Most entries are
// command hints; submission review and export run immediately.
func (bh *BotHandler) dispatchAdminCallback(chatID, userID int64, data string) {
	if !bh.isAdmin(userID) {
		bh.sendMarkdown(chatID, constants.MSG_ACCESS_DENIED, nil)
		return
	}

	switch data {
	case constants.CALLBACK_ADMIN_ADD_PRICE:
		bh.sendMarkdown(chatID,
			"➕ *Add a new package:* Send `/add_price <package> <price> <link>`\n"+
				"e.g., `/add_price 500 29 https://paypal.com/xyz`", nil)
	case constants.CALLBACK_ADMIN_EDIT_PRICE:
		bh.sendMarkdown(chatID,
			"✏️ *Edit a package:* Send `/edit_price <old_package> <new_package> <new_price> <new_link>`\n"+
				"e.g., `/edit_price 500 600 35 https://paypal.com/new`", nil)
	case constants.CALLBACK_ADMIN_DELETE_PRICE:
		bh.sendMarkdown(chatID,
			"🗑️ *Delete a package:* Send `/delete_price <package>`\n"+
				"e.g., `/delete_price 500`", nil)
	case constants.CALLBACK_ADMIN_UPDATE_QR:
		bh.sendMarkdown(chatID, "🔗 *Update payment link:* Send `/update_qr <package> <new payment link>`", nil)
	case constants.CALLBACK_ADMIN_VIEW:
		bh.handleViewSubmissions(chatID, userID)
	case constants.CALLBACK_ADMIN_EXPORT:
		bh.handleExportSubmissions(chatID, userID)
	case constants.CALLBACK_ADMIN_ADD_PLATFORM:
		bh.sendMarkdown(chatID,
			"➕ *Add a new platform:* Send `/add_platform <platform_name>` (e.g., 'Facebook Followers')", nil)
	case constants.CALLBACK_ADMIN_EDIT_PLATFORM:
		bh.sendMarkdown(chatID, "✏️ *Edit a platform:* Send `/edit_platform <old_name> <new_name>`", nil)
	case constants.CALLBACK_ADMIN_DELETE_PLATFORM:
		bh.sendMarkdown(chatID, "🗑️ *Delete a platform:* Send `/delete_platform <platform_name>`", nil)
	case constants.CALLBACK_ADMIN_TOGGLE_PLATFORM:
		bh.sendMarkdown(chatID, "📴 *Toggle a platform:* Send `/toggle_platform <platform_name> <on|off>`", nil)
	case constants.CALLBACK_ADMIN_ADD_ADMIN:
		bh.sendMarkdown(chatID, "➕ *Add a new admin:* Send `/add_admin <user_id>`", nil)
	case constants.CALLBACK_ADMIN_REMOVE_ADMIN:
		bh.sendMarkdown(chatID, "🗑️ *Remove an admin:* Send `/remove_admin <user_id>`", nil)
	default:
		log.Printf("dispatchAdminCallback: неизвестный admin callback '%s'.", data)
	}
}

// parseIDSuffix извлекает числовой ID из callback data вида <prefix><id>.
// parseIDSuffix extracts the numeric ID from callback data of the form <prefix><id>.
func parseIDSuffix(data, prefix string) (int64, bool) {
	id, err := strconv.ParseInt(strings.TrimPrefix(data, prefix), 10, 64)
	if err != nil {
		log.Printf("parseIDSuffix: некорректный callback '%s': %v", data, err)
		return 0, false
	}
	return id, true
}
