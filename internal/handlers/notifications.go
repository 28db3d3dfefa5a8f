// Файл: internal/handlers/notifications.go
package handlers

import (
	"fmt"
	"log"

	tgbotapi "github.com/OvyFlash/telegram-bot-api"

	"socpeak-bot/internal/constants"
	"socpeak-bot/internal/models"
)

// notifyAdminsOfPayment рассылает каждому администратору уведомление о новой
// оплате: текст заявки и скриншот с кнопками Approve/Reject. Доставка
// best-effort: сбой по одному получателю логируется с его ID и не мешает
// остальным — пользователь к этому моменту уже получил подтверждение.
// notifyAdminsOfPayment fans a new-payment notification out to every admin:
// the submission text plus the screenshot with Approve/Reject buttons.
// Delivery is best-effort: a failure for one recipient is logged with that
// admin's ID and does not block the others — the user was already acknowledged.
func (bh *BotHandler) notifyAdminsOfPayment(sub *models.Submission, screenshot []byte, filename string) {
	admins, err := bh.Deps.Admins.List()
	if err != nil {
		log.Printf("notifyAdminsOfPayment: ошибка получения списка администраторов: %v", err)
		return
	}

	text := fmt.Sprintf("📋 *New Payment Submission*\n"+
		"👤 User ID: %d\n"+
		"- Platform: *%s*\n"+
		"- Account ID: *%s*\n"+
		"- Package: *%s SocPeak*\n"+
		"Please review the payment screenshot:",
		sub.UserID, sub.Platform.String, sub.AccountID.String, sub.Package.String)

	keyboard := decisionKeyboard(sub.UserID)

	delivered := 0
	for _, admin := range admins {
		msg := tgbotapi.NewMessage(admin.UserID, text)
		msg.ParseMode = tgbotapi.ModeMarkdown
		if _, err := bh.Deps.BotClient.Send(msg); err != nil {
			log.Printf("notifyAdminsOfPayment: ошибка отправки уведомления администратору %d: %v", admin.UserID, err)
			continue
		}

		photo := tgbotapi.NewPhoto(admin.UserID, tgbotapi.FileBytes{Name: filename, Bytes: screenshot})
		photo.ReplyMarkup = keyboard
		if _, err := bh.Deps.BotClient.Send(photo); err != nil {
			log.Printf("notifyAdminsOfPayment: ошибка отправки скриншота администратору %d: %v", admin.UserID, err)
			continue
		}
		delivered++
	}
	log.Printf("notifyAdminsOfPayment: заявка пользователя %d доставлена %d из %d администраторов.",
		sub.UserID, delivered, len(admins))
}

// decisionKeyboard строит кнопки Approve/Reject для заявки пользователя.
// decisionKeyboard builds the Approve/Reject buttons for a user's submission.
func decisionKeyboard(userID int64) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✅ Approve",
				fmt.Sprintf("%s%d", constants.CALLBACK_PREFIX_APPROVE, userID)),
			tgbotapi.NewInlineKeyboardButtonData("❌ Reject",
				fmt.Sprintf("%s%d", constants.CALLBACK_PREFIX_REJECT, userID)),
		),
	)
}
