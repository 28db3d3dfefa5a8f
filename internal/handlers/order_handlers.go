// Файл: internal/handlers/order_handlers.go
//
// Пользовательский поток оформления заказа: платформа -> ссылка -> скриншот
// аккаунта -> пакет -> скриншот оплаты. Этап всегда выводится из заявки через
// Submission.Stage(), а записи с предусловиями идут через условные обновления
// хранилища — вне очереди пришедшее событие не меняет заявку.
//
// The user-facing order flow: platform -> link -> account screenshot ->
// package -> payment screenshot. The stage is always derived via
// Submission.Stage(), and guarded writes go through conditional store updates,
// so an out-of-order event never mutates the submission.
package handlers

import (
	"fmt"
	"log"
	"path/filepath"

	tgbotapi "github.com/OvyFlash/telegram-bot-api"

	"socpeak-bot/internal/constants"
	"socpeak-bot/internal/models"
	"socpeak-bot/internal/utils"
)

// handleStart сбрасывает предыдущую заявку пользователя и предлагает выбрать
// платформу. Вызывается командой /start и кнопкой "Start Order".
// handleStart drops the user's previous submission and offers the platform
// choice. Triggered by /start and the "Start Order" button.
func (bh *BotHandler) handleStart(chatID, userID int64) {
	bh.Deps.Sessions.Lock(userID)
	err := bh.Deps.Submissions.Delete(userID)
	bh.Deps.Sessions.Unlock(userID)
	if err != nil {
		bh.sendMarkdown(chatID, "⚠️ Database error. Please try again.", nil)
		return
	}

	platforms := bh.Deps.Catalog.ActivePlatforms()
	if len(platforms) == 0 {
		bh.sendMarkdown(chatID,
			"🌟 *Welcome to SocPeak Boost Bot!* 🌟\n"+
				"I'm here to boost your social media presence!\n\n"+
				"⚠️ *No platforms available yet!* \n"+
				"Please contact an admin to add platforms.", nil)
		return
	}

	keyboard := platformKeyboard(platforms)
	bh.sendMarkdown(chatID,
		"🌟 *Welcome to SocPeak Boost Bot!* 🌟\n"+
			"I'm here to boost your social media presence!\n\n"+
			"📌 *Step 1: Select Your Platform*\n"+
			"Choose from the options below:",
		&keyboard)
}

// platformKeyboard строит клавиатуру выбора платформы, по две кнопки в ряду.
// platformKeyboard builds the platform keyboard, two buttons per row.
func platformKeyboard(platforms []models.Platform) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	for i := 0; i < len(platforms); i += 2 {
		row := []tgbotapi.InlineKeyboardButton{
			tgbotapi.NewInlineKeyboardButtonData(platforms[i].Name,
				constants.CALLBACK_PREFIX_PLATFORM+utils.PlatformSlug(platforms[i].Name)),
		}
		if i+1 < len(platforms) {
			row = append(row, tgbotapi.NewInlineKeyboardButtonData(platforms[i+1].Name,
				constants.CALLBACK_PREFIX_PLATFORM+utils.PlatformSlug(platforms[i+1].Name)))
		}
		rows = append(rows, row)
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// packageKeyboard строит клавиатуру выбора пакета по живому каталогу.
// packageKeyboard builds the package keyboard from the live catalog.
func packageKeyboard(packages []models.Package) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	for _, p := range packages {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(
				fmt.Sprintf("%s SocPeak - %d USD", p.Name, p.Price),
				constants.CALLBACK_PREFIX_PACKAGE+p.Name),
		))
	}
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("❌ Cancel", constants.CALLBACK_CANCEL_ORDER),
	))
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func (bh *BotHandler) handleHelp(chatID int64) {
	keyboard := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📝 Start Order", constants.CALLBACK_START_ORDER)),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("❌ Cancel Order", constants.CALLBACK_CANCEL_ORDER)),
	)
	bh.sendMarkdown(chatID,
		"👋 *Welcome to SocPeak Boost Bot!* Here's how to use me:\n\n"+
			"1. Start with the 'Start Order' button to place an order.\n"+
			"2. Specify your platform.\n"+
			"3. Provide your link and upload a screenshot.\n"+
			"4. Choose a package and pay via QR code.\n"+
			"5. Upload payment screenshot for admin approval.\n\n"+
			"Use the buttons below to proceed:",
		&keyboard)
}

// handleCancelRequest запрашивает подтверждение отмены. Payload кнопки
// подтверждения содержит ID инициатора, чтобы чужой пользователь не мог
// подтвердить отмену повтором payload'а.
// handleCancelRequest asks for cancellation confirmation. The confirm button
// payload carries the initiator's ID so a different user cannot confirm the
// cancellation by replaying the payload.
func (bh *BotHandler) handleCancelRequest(chatID, userID int64) {
	keyboard := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✅ Yes, Cancel",
				fmt.Sprintf("%s%d", constants.CALLBACK_PREFIX_CONFIRM_CANCEL, userID)),
			tgbotapi.NewInlineKeyboardButtonData("❌ No, Keep", constants.CALLBACK_KEEP_ORDER),
		),
	)
	bh.sendMarkdown(chatID, "⚠️ *Are you sure you want to cancel your order?*", &keyboard)
}

// handleConfirmCancel удаляет заявку, если подтверждение нажал тот же
// пользователь, который запросил отмену.
// handleConfirmCancel deletes the submission when the confirmation was pressed
// by the same user who requested the cancel.
func (bh *BotHandler) handleConfirmCancel(chatID, userID, targetUserID int64) {
	if userID != targetUserID {
		log.Printf("handleConfirmCancel: пользователь %d попытался подтвердить отмену заявки %d.", userID, targetUserID)
		return
	}

	bh.Deps.Sessions.Lock(userID)
	err := bh.Deps.Submissions.Delete(userID)
	bh.Deps.Sessions.Unlock(userID)
	if err != nil {
		bh.sendErrorMessageHelper(chatID)
		return
	}
	bh.sendMarkdown(chatID, "✅ *Order cancelled!* Start again with `/start`.", nil)
}

// handleChoosePlatform создает заявку с выбранной платформой. Slug из callback
// data разрешается через каталог в каноническое имя; неактивная или
// несуществующая платформа отклоняется.
// handleChoosePlatform creates the submission with the chosen platform. The
// callback-data slug is resolved via the catalog into the canonical name; an
// inactive or unknown platform is rejected.
func (bh *BotHandler) handleChoosePlatform(chatID, userID int64, slug string) {
	platform, ok := bh.Deps.Catalog.PlatformBySlug(slug)
	if !ok {
		bh.sendMarkdown(chatID, "⚠️ *This platform is no longer available.* Use `/start` to see the current options.", nil)
		return
	}

	bh.Deps.Sessions.Lock(userID)
	created, err := bh.Deps.Submissions.Create(userID, platform.Name)
	bh.Deps.Sessions.Unlock(userID)
	if err != nil {
		bh.sendErrorMessageHelper(chatID)
		return
	}
	if !created {
		bh.sendMarkdown(chatID, "ℹ️ *You already have an order in progress!* Finish it or use `/cancel` to start over.", nil)
		return
	}

	keyboard := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📝 Enter Link", constants.CALLBACK_ENTER_LINK_PROMPT)),
	)
	bh.sendMarkdown(chatID,
		fmt.Sprintf("✅ *Platform %s saved!*\n"+
			"📝 *Step 2:* Please send the link you want to BOOST using the button below:", platform.Name),
		&keyboard)
}

// handlePhoto обрабатывает загрузку фотографии: скриншот аккаунта или скриншот
// оплаты, в зависимости от этапа заявки. Блокировка пользователя держится
// только на чтении и выборе ветки; скачивание файла идет вне блокировки, а
// финальная запись — условная и сама разрешает гонку двух быстрых загрузок.
// handlePhoto processes a photo upload: account screenshot or payment
// screenshot depending on the submission stage. The user lock covers only the
// read and branch choice; the file download runs outside of it, and the final
// write is conditional, resolving the race of two rapid uploads by itself.
func (bh *BotHandler) handlePhoto(message *tgbotapi.Message) {
	// Берем самый крупный вариант фотографии.
	// Take the largest photo size.
	fileID := message.Photo[len(message.Photo)-1].FileID
	bh.handlePhotoInput(message.Chat.ID, message.From.ID, fileID)
}

func (bh *BotHandler) handlePhotoInput(chatID, userID int64, fileID string) {
	bh.Deps.Sessions.Lock(userID)
	sub, err := bh.Deps.Submissions.Get(userID)
	bh.Deps.Sessions.Unlock(userID)
	if err != nil {
		bh.sendErrorMessageHelper(chatID)
		return
	}

	stage := sub.Stage()
	switch stage {
	case constants.STAGE_NO_ORDER, constants.STAGE_PLATFORM_CHOSEN:
		bh.sendMarkdown(chatID, "⚠️ *Please complete the previous steps first!* Use `/start` to begin.", nil)
		return
	case constants.STAGE_PAYMENT_PHOTO, constants.STAGE_DECIDED:
		bh.sendAlreadySubmitted(chatID)
		return
	}

	data, err := bh.Deps.BotClient.DownloadFile(fileID)
	if err != nil {
		log.Printf("handlePhoto: ошибка скачивания фото пользователя %d: %v", userID, err)
		bh.sendErrorMessageHelper(chatID)
		return
	}

	if stage == constants.STAGE_PACKAGE_CHOSEN {
		bh.handlePaymentPhoto(chatID, userID, data)
		return
	}
	bh.handleAccountPhoto(chatID, userID, data)
}

// handleAccountPhoto сохраняет скриншот аккаунта и предлагает выбрать пакет.
// handleAccountPhoto stores the account screenshot and offers the packages.
func (bh *BotHandler) handleAccountPhoto(chatID, userID int64, data []byte) {
	path, err := utils.SaveImage(bh.Deps.Config.ImagesDir, userID, "account", data)
	if err != nil {
		bh.sendErrorMessageHelper(chatID)
		return
	}

	ok, err := bh.Deps.Submissions.SetAccountPhoto(userID, path)
	if err != nil {
		bh.sendErrorMessageHelper(chatID)
		return
	}
	if !ok {
		// Этап успел сдвинуться (например, параллельная загрузка выбрала пакет).
		// The stage moved on meanwhile (e.g. a parallel upload chose a package).
		bh.sendAlreadySubmitted(chatID)
		return
	}

	packages := bh.Deps.Catalog.Packages()
	if len(packages) == 0 {
		bh.sendMarkdown(chatID, "⚠️ *No packages available yet!* Please contact an admin.", nil)
		return
	}
	keyboard := packageKeyboard(packages)
	bh.sendMarkdown(chatID,
		"✅ *Screenshot received!*\n"+
			"💰 *Step 4:* Select your SocPeak package below:",
		&keyboard)
}

// handlePaymentPhoto сохраняет скриншот оплаты. Условная запись взводит
// payment_notified ровно один раз; выигравший поток подтверждает пользователю
// и запускает рассылку администраторам, проигравший дубль получает ответ
// "уже отправлено".
// handlePaymentPhoto stores the payment screenshot. The conditional write flips
// payment_notified exactly once; the winning flow acknowledges the user and
// starts the admin fan-out, a losing duplicate gets the "already submitted"
// answer.
func (bh *BotHandler) handlePaymentPhoto(chatID, userID int64, data []byte) {
	path, err := utils.SaveImage(bh.Deps.Config.ImagesDir, userID, "payment", data)
	if err != nil {
		bh.sendErrorMessageHelper(chatID)
		return
	}

	won, err := bh.Deps.Submissions.SetPaymentScreenshot(userID, path)
	if err != nil {
		bh.sendErrorMessageHelper(chatID)
		return
	}
	if !won {
		bh.sendAlreadySubmitted(chatID)
		return
	}

	bh.sendMarkdown(chatID,
		"✅ *Payment screenshot received!*\n"+
			"⏳ Your order is under review. We'll notify you once it's processed.", nil)

	sub, err := bh.Deps.Submissions.Get(userID)
	if err != nil || sub == nil {
		log.Printf("handlePaymentPhoto: не удалось перечитать заявку пользователя %d для рассылки: %v", userID, err)
		return
	}
	bh.notifyAdminsOfPayment(sub, data, filepath.Base(path))
}

// sendAlreadySubmitted отвечает на повторную загрузку после отправки оплаты.
// Существующий скриншот оплаты никогда не перезаписывается.
// sendAlreadySubmitted answers a re-upload after the payment was sent. An
// existing payment screenshot is never overwritten.
func (bh *BotHandler) sendAlreadySubmitted(chatID int64) {
	keyboard := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🔄 Start Over", constants.CALLBACK_START_ORDER)),
	)
	bh.sendMarkdown(chatID,
		"ℹ️ *Order already submitted or under review!* Please wait for admin approval or start over:",
		&keyboard)
}

// handlePackageSelection проверяет пакет по живому каталогу и сохраняет выбор.
// Неизвестный или удаленный пакет — видимая ошибка с актуальной клавиатурой,
// а не тихий no-op.
// handlePackageSelection validates the package against the live catalog and
// stores the choice. An unknown or deleted package is a visible error carrying
// the current keyboard, not a silent no-op.
func (bh *BotHandler) handlePackageSelection(chatID, userID int64, pkgName string) {
	pkg, ok := bh.Deps.Catalog.Package(pkgName)
	if !ok {
		packages := bh.Deps.Catalog.Packages()
		if len(packages) == 0 {
			bh.sendMarkdown(chatID, "⚠️ *No packages available yet!* Please contact an admin.", nil)
			return
		}
		keyboard := packageKeyboard(packages)
		bh.sendMarkdown(chatID, "⚠️ *That package is no longer available.* Please pick one of the current packages:", &keyboard)
		return
	}

	bh.Deps.Sessions.Lock(userID)
	defer bh.Deps.Sessions.Unlock(userID)

	ok, err := bh.Deps.Submissions.SetPackage(userID, pkg.Name)
	if err != nil {
		bh.sendErrorMessageHelper(chatID)
		return
	}
	if !ok {
		bh.sendMarkdown(chatID, "⚠️ *Please complete the previous steps first!* Use `/start` to begin.", nil)
		return
	}

	sub, err := bh.Deps.Submissions.Get(userID)
	if err != nil || sub == nil {
		bh.sendErrorMessageHelper(chatID)
		return
	}
	bh.sendOrderSummary(chatID, sub.Platform.String, pkg)
}

// sendOrderSummary отправляет итог заказа со ссылкой на оплату, QR-кодом и
// кнопкой загрузки скриншота оплаты.
// sendOrderSummary sends the order summary with the payment link, a QR code
// and the payment screenshot button.
func (bh *BotHandler) sendOrderSummary(chatID int64, platform string, pkg models.Package) {
	keyboard := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📸 Upload Payment Screenshot", constants.CALLBACK_UPLOAD_PAYMENT_PROMPT)),
	)
	bh.sendMarkdown(chatID,
		fmt.Sprintf("🎉 *Order Summary*\n"+
			"- Platform: *%s*\n"+
			"- Package: *%s SocPeak*\n"+
			"- Price: *%d USD*\n\n"+
			"💳 *Complete your payment here:*\n%s\n\n"+
			"📸 *After payment, upload a screenshot of the payment confirmation using the button below:*",
			platform, pkg.Name, pkg.Price, pkg.PaymentLink),
		&keyboard)

	qrBytes, err := utils.GeneratePaymentQR(pkg.PaymentLink)
	if err != nil {
		// Ссылка уже отправлена текстом, заказ продолжается и без QR-кода.
		// The link was already sent as text, the order proceeds without the QR.
		log.Printf("sendOrderSummary: ошибка генерации QR-кода для пакета %s: %v", pkg.Name, err)
		return
	}
	photo := tgbotapi.NewPhoto(chatID, tgbotapi.FileBytes{Name: "payment_qr.png", Bytes: qrBytes})
	photo.Caption = "📱 Scan to pay"
	if _, err := bh.Deps.BotClient.Send(photo); err != nil {
		log.Printf("sendOrderSummary: ошибка отправки QR-кода в чат %d: %v", chatID, err)
	}
}
