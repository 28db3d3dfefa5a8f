// Файл: internal/handlers/admin_handlers.go
//
// Команды администратора: решения по заявкам, управление тарифами, платформами
// и списком администраторов, просмотр и выгрузка заявок. Каждый обработчик сам
// проверяет права вызывающего; отказ всегда одинаковый и не раскрывает, какие
// ID являются администраторами.
//
// Admin commands: submission decisions, pricing/platform/admin management,
// submission review and export. Every handler verifies the caller itself; the
// denial is always the same and leaks no valid admin IDs.
package handlers

import (
	"database/sql"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"

	tgbotapi "github.com/OvyFlash/telegram-bot-api"
	"github.com/xuri/excelize/v2"

	"socpeak-bot/internal/constants"
	"socpeak-bot/internal/models"
	"socpeak-bot/internal/storage"
)

// handleAdminPanel показывает панель управления с inline-кнопками.
// handleAdminPanel shows the admin control panel with inline buttons.
func (bh *BotHandler) handleAdminPanel(chatID, userID int64) {
	if !bh.isAdmin(userID) {
		bh.sendMarkdown(chatID, constants.MSG_ACCESS_DENIED, nil)
		return
	}

	keyboard := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("➕ Add Package", constants.CALLBACK_ADMIN_ADD_PRICE),
			tgbotapi.NewInlineKeyboardButtonData("✏️ Edit Package", constants.CALLBACK_ADMIN_EDIT_PRICE)),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🗑️ Delete Package", constants.CALLBACK_ADMIN_DELETE_PRICE),
			tgbotapi.NewInlineKeyboardButtonData("🔗 Update QR", constants.CALLBACK_ADMIN_UPDATE_QR)),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📋 View Submissions", constants.CALLBACK_ADMIN_VIEW),
			tgbotapi.NewInlineKeyboardButtonData("📊 Export Excel", constants.CALLBACK_ADMIN_EXPORT)),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("➕ Add Platform", constants.CALLBACK_ADMIN_ADD_PLATFORM),
			tgbotapi.NewInlineKeyboardButtonData("✏️ Edit Platform", constants.CALLBACK_ADMIN_EDIT_PLATFORM)),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🗑️ Delete Platform", constants.CALLBACK_ADMIN_DELETE_PLATFORM),
			tgbotapi.NewInlineKeyboardButtonData("📴 Toggle Platform", constants.CALLBACK_ADMIN_TOGGLE_PLATFORM)),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("➕ Add Admin", constants.CALLBACK_ADMIN_ADD_ADMIN),
			tgbotapi.NewInlineKeyboardButtonData("🗑️ Remove Admin", constants.CALLBACK_ADMIN_REMOVE_ADMIN)),
	)
	bh.sendMarkdown(chatID, "🔧 *Admin Control Panel*\nSelect an option below:", &keyboard)
}

// handleDecision атомарно фиксирует решение approve/reject по заявке и
// уведомляет пользователя. При одновременных решениях двух администраторов
// выигрывает ровно одно; проигравший получает уведомление о конфликте,
// пользователю уходит ровно одно финальное сообщение.
// handleDecision atomically records an approve/reject decision and notifies
// the user. Of two concurrent admin decisions exactly one wins; the loser gets
// a conflict notice, and exactly one terminal message reaches the user.
func (bh *BotHandler) handleDecision(chatID, adminID, targetUserID int64, status string) {
	if !bh.isAdmin(adminID) {
		bh.sendMarkdown(chatID, constants.MSG_ACCESS_DENIED, nil)
		return
	}

	won, err := bh.Deps.Submissions.Decide(targetUserID, status)
	if err != nil {
		bh.sendErrorMessageHelper(chatID)
		return
	}
	if !won {
		sub, err := bh.Deps.Submissions.Get(targetUserID)
		if err == nil && sub != nil && sub.Status != constants.STATUS_PENDING {
			bh.sendMarkdown(chatID,
				fmt.Sprintf("⚠️ *Submission of User ID %d was already decided:* _%s_.", targetUserID, sub.Status), nil)
			return
		}
		bh.sendMarkdown(chatID,
			fmt.Sprintf("⚠️ *No pending submission for User ID %d.*", targetUserID), nil)
		return
	}

	sub, err := bh.Deps.Submissions.Get(targetUserID)
	if err != nil || sub == nil {
		log.Printf("handleDecision: заявка пользователя %d пропала после решения: %v", targetUserID, err)
		bh.sendErrorMessageHelper(chatID)
		return
	}

	if status == constants.STATUS_APPROVED {
		keyboard := tgbotapi.NewInlineKeyboardMarkup(
			tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData("🏠 Back to Main Menu", constants.CALLBACK_START_ORDER)),
		)
		bh.sendMarkdown(targetUserID,
			fmt.Sprintf("🎉 *Payment Approved!*\n"+
				"Your *%s SocPeak* boost for *%s* is now being processed.\n"+
				"Thank you for choosing SocPeak!", sub.Package.String, sub.Platform.String),
			&keyboard)
		bh.sendMarkdown(chatID, fmt.Sprintf("✅ *Approved payment for User ID %d!*", targetUserID), nil)
		return
	}

	keyboard := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🔄 Try Again", constants.CALLBACK_START_ORDER)),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🏠 Back to Main Menu", constants.CALLBACK_START_ORDER)),
	)
	bh.sendMarkdown(targetUserID,
		"❌ *Payment Rejected!*\n"+
			"Your payment screenshot was not approved. Please try again or contact support@socpeak.com.",
		&keyboard)
	bh.sendMarkdown(chatID, fmt.Sprintf("❌ *Rejected payment for User ID %d!*", targetUserID), nil)
}

// refreshCatalog перечитывает кэш каталога после мутации платформ или тарифов.
// refreshCatalog reloads the catalog cache after a platform or pricing mutation.
func (bh *BotHandler) refreshCatalog() {
	if err := bh.Deps.Catalog.Refresh(); err != nil {
		log.Printf("refreshCatalog: ошибка обновления каталога: %v", err)
	}
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	_, err := strconv.Atoi(s)
	return err == nil
}

// --- Тарифы / Pricing ---

func (bh *BotHandler) handleAddPrice(chatID, userID int64, args []string) {
	if !bh.isAdmin(userID) {
		bh.sendMarkdown(chatID, constants.MSG_ACCESS_DENIED, nil)
		return
	}
	if len(args) < 3 || !isDigits(args[0]) || !isDigits(args[1]) {
		bh.sendMarkdown(chatID,
			"⚠️ *Usage:* `/add_price <package> <price> <link>`\n"+
				"e.g., `/add_price 500 29 https://paypal.com/xyz`", nil)
		return
	}
	price, _ := strconv.Atoi(args[1])
	pkg := models.Package{Name: args[0], Price: price, PaymentLink: strings.Join(args[2:], " ")}

	added, err := bh.Deps.Pricing.Add(pkg)
	if err != nil {
		bh.sendErrorMessageHelper(chatID)
		return
	}
	if !added {
		bh.sendMarkdown(chatID,
			fmt.Sprintf("⚠️ *Package %s already exists!* Use `/edit_price` to modify it.", pkg.Name), nil)
		return
	}
	bh.refreshCatalog()
	bh.sendMarkdown(chatID,
		fmt.Sprintf("✅ *Added:* %s SocPeak = %d USD with link %s", pkg.Name, pkg.Price, pkg.PaymentLink), nil)
}

func (bh *BotHandler) handleEditPrice(chatID, userID int64, args []string) {
	if !bh.isAdmin(userID) {
		bh.sendMarkdown(chatID, constants.MSG_ACCESS_DENIED, nil)
		return
	}
	if len(args) < 4 || !isDigits(args[1]) || !isDigits(args[2]) {
		bh.sendMarkdown(chatID,
			"⚠️ *Usage:* `/edit_price <old_package> <new_package> <new_price> <new_link>`\n"+
				"e.g., `/edit_price 500 600 35 https://paypal.com/new`", nil)
		return
	}
	oldName, newName := args[0], args[1]
	price, _ := strconv.Atoi(args[2])
	link := strings.Join(args[3:], " ")

	if oldName != newName {
		if _, exists := bh.Deps.Catalog.Package(newName); exists {
			bh.sendMarkdown(chatID, fmt.Sprintf("⚠️ *Package %s already exists!*", newName), nil)
			return
		}
	}

	updated, err := bh.Deps.Pricing.Update(oldName, models.Package{Name: newName, Price: price, PaymentLink: link})
	if err != nil {
		bh.sendErrorMessageHelper(chatID)
		return
	}
	if !updated {
		bh.sendMarkdown(chatID, fmt.Sprintf("⚠️ *Package %s not found!*", oldName), nil)
		return
	}
	bh.refreshCatalog()
	bh.sendMarkdown(chatID,
		fmt.Sprintf("✅ *Updated:* %s → %s SocPeak = %d USD with link %s", oldName, newName, price, link), nil)
}

func (bh *BotHandler) handleDeletePrice(chatID, userID int64, args []string) {
	if !bh.isAdmin(userID) {
		bh.sendMarkdown(chatID, constants.MSG_ACCESS_DENIED, nil)
		return
	}
	if len(args) != 1 {
		bh.sendMarkdown(chatID,
			"⚠️ *Usage:* `/delete_price <package>`\n"+
				"e.g., `/delete_price 500`", nil)
		return
	}

	// Заявки с уже выбранным пакетом не трогаем: висячий ключ пакета —
	// принятый краевой случай, администратор видит его при проверке.
	// Submissions already referencing the package are left alone: a dangling
	// package key is an accepted edge case, visible to the reviewing admin.
	deleted, err := bh.Deps.Pricing.Delete(args[0])
	if err != nil {
		bh.sendErrorMessageHelper(chatID)
		return
	}
	if !deleted {
		bh.sendMarkdown(chatID, fmt.Sprintf("⚠️ *Package %s not found!*", args[0]), nil)
		return
	}
	bh.refreshCatalog()
	bh.sendMarkdown(chatID, fmt.Sprintf("✅ *Deleted:* %s SocPeak package", args[0]), nil)
}

func (bh *BotHandler) handleUpdateQR(chatID, userID int64, args []string) {
	if !bh.isAdmin(userID) {
		bh.sendMarkdown(chatID, constants.MSG_ACCESS_DENIED, nil)
		return
	}
	if len(args) != 2 {
		bh.sendMarkdown(chatID, "⚠️ *Usage:* `/update_qr <package> <new payment link>`", nil)
		return
	}

	updated, err := bh.Deps.Pricing.SetLink(args[0], args[1])
	if err != nil {
		bh.sendErrorMessageHelper(chatID)
		return
	}
	if !updated {
		bh.sendMarkdown(chatID, fmt.Sprintf("⚠️ *Package %s not found!*", args[0]), nil)
		return
	}
	bh.refreshCatalog()
	bh.sendMarkdown(chatID, fmt.Sprintf("✅ *Payment link updated for package %s:* %s", args[0], args[1]), nil)
}

// --- Платформы / Platforms ---

func (bh *BotHandler) handleAddPlatform(chatID, userID int64, args []string) {
	if !bh.isAdmin(userID) {
		bh.sendMarkdown(chatID, constants.MSG_ACCESS_DENIED, nil)
		return
	}
	if len(args) == 0 || len(args) > 3 {
		bh.sendMarkdown(chatID,
			"⚠️ *Usage:* `/add_platform <platform_name>` (1-3 words, e.g., 'Facebook Followers')", nil)
		return
	}
	platform := strings.Join(args, " ")

	if err := bh.Deps.Platforms.Add(platform); err != nil {
		bh.sendErrorMessageHelper(chatID)
		return
	}
	bh.refreshCatalog()
	bh.sendMarkdown(chatID, fmt.Sprintf("✅ *Added platform:* %s", platform), nil)
}

func (bh *BotHandler) handleEditPlatform(chatID, userID int64, args []string) {
	if !bh.isAdmin(userID) {
		bh.sendMarkdown(chatID, constants.MSG_ACCESS_DENIED, nil)
		return
	}
	if len(args) < 2 {
		bh.sendMarkdown(chatID, "⚠️ *Usage:* `/edit_platform <old_name> <new_name>`", nil)
		return
	}
	oldName := strings.Join(args[:len(args)-1], " ")
	newName := args[len(args)-1]

	// Rename каскадно переписывает платформу во всех незавершенных заявках.
	// Rename cascades the new name into every in-flight submission.
	renamed, err := bh.Deps.Platforms.Rename(oldName, newName)
	if err != nil {
		bh.sendErrorMessageHelper(chatID)
		return
	}
	if !renamed {
		bh.sendMarkdown(chatID, fmt.Sprintf("⚠️ *Platform %s not found!*", oldName), nil)
		return
	}
	bh.refreshCatalog()
	bh.sendMarkdown(chatID, fmt.Sprintf("✅ *Edited platform:* %s → %s", oldName, newName), nil)
}

func (bh *BotHandler) handleDeletePlatform(chatID, userID int64, args []string) {
	if !bh.isAdmin(userID) {
		bh.sendMarkdown(chatID, constants.MSG_ACCESS_DENIED, nil)
		return
	}
	if len(args) == 0 {
		bh.sendMarkdown(chatID, "⚠️ *Usage:* `/delete_platform <platform_name>`", nil)
		return
	}
	platform := strings.Join(args, " ")

	// Delete каскадно удаляет заявки этой платформы (принудительная отмена).
	// Delete cascades to the platform's submissions (forced cancellation).
	deleted, err := bh.Deps.Platforms.Delete(platform)
	if err != nil {
		bh.sendErrorMessageHelper(chatID)
		return
	}
	if !deleted {
		bh.sendMarkdown(chatID, fmt.Sprintf("⚠️ *Platform %s not found!*", platform), nil)
		return
	}
	bh.refreshCatalog()
	bh.sendMarkdown(chatID, fmt.Sprintf("✅ *Deleted platform:* %s", platform), nil)
}

func (bh *BotHandler) handleTogglePlatform(chatID, userID int64, args []string) {
	if !bh.isAdmin(userID) {
		bh.sendMarkdown(chatID, constants.MSG_ACCESS_DENIED, nil)
		return
	}
	if len(args) < 2 || (strings.ToLower(args[len(args)-1]) != "on" && strings.ToLower(args[len(args)-1]) != "off") {
		bh.sendMarkdown(chatID, "⚠️ *Usage:* `/toggle_platform <platform_name> <on|off>`", nil)
		return
	}
	platform := strings.Join(args[:len(args)-1], " ")
	active := strings.ToLower(args[len(args)-1]) == "on"

	toggled, err := bh.Deps.Platforms.SetActive(platform, active)
	if err != nil {
		bh.sendErrorMessageHelper(chatID)
		return
	}
	if !toggled {
		bh.sendMarkdown(chatID, fmt.Sprintf("⚠️ *Platform %s not found!*", platform), nil)
		return
	}
	bh.refreshCatalog()
	state := "deactivated"
	if active {
		state = "activated"
	}
	bh.sendMarkdown(chatID, fmt.Sprintf("✅ *Platform %s %s!*", platform, state), nil)
}

// --- Администраторы / Admins ---

func (bh *BotHandler) handleAddAdmin(chatID, userID int64, args []string) {
	if !bh.isAdmin(userID) {
		bh.sendMarkdown(chatID, constants.MSG_ACCESS_DENIED, nil)
		return
	}
	if len(args) != 1 || !isDigits(args[0]) {
		bh.sendMarkdown(chatID, "⚠️ *Usage:* `/add_admin <user_id>`", nil)
		return
	}
	newAdminID, _ := strconv.ParseInt(args[0], 10, 64)

	if err := bh.Deps.Admins.Add(newAdminID, userID); err != nil {
		bh.sendErrorMessageHelper(chatID)
		return
	}
	bh.sendMarkdown(chatID, fmt.Sprintf("✅ *Added new admin:* User ID %d", newAdminID), nil)
}

func (bh *BotHandler) handleRemoveAdmin(chatID, userID int64, args []string) {
	if !bh.isAdmin(userID) {
		bh.sendMarkdown(chatID, constants.MSG_ACCESS_DENIED, nil)
		return
	}
	if len(args) != 1 || !isDigits(args[0]) {
		bh.sendMarkdown(chatID, "⚠️ *Usage:* `/remove_admin <user_id>`", nil)
		return
	}
	adminToRemove, _ := strconv.ParseInt(args[0], 10, 64)

	removed, err := bh.Deps.Admins.Remove(adminToRemove)
	if errors.Is(err, storage.ErrInitialAdmin) {
		bh.sendMarkdown(chatID, "⚠️ *Cannot remove the initial admin!*", nil)
		return
	}
	if err != nil {
		bh.sendErrorMessageHelper(chatID)
		return
	}
	if !removed {
		bh.sendMarkdown(chatID, fmt.Sprintf("⚠️ *User ID %d is not an admin!*", adminToRemove), nil)
		return
	}
	bh.sendMarkdown(chatID, fmt.Sprintf("✅ *Removed admin:* User ID %d", adminToRemove), nil)
}

func (bh *BotHandler) handleListAdmins(chatID, userID int64) {
	if !bh.isAdmin(userID) {
		bh.sendMarkdown(chatID, constants.MSG_ACCESS_DENIED, nil)
		return
	}

	admins, err := bh.Deps.Admins.List()
	if err != nil {
		bh.sendErrorMessageHelper(chatID)
		return
	}

	var b strings.Builder
	b.WriteString("👥 *Admins:*\n")
	for _, a := range admins {
		if a.UserID == bh.Deps.Admins.InitialAdminID() {
			fmt.Fprintf(&b, "- `%d` (initial)\n", a.UserID)
			continue
		}
		fmt.Fprintf(&b, "- `%d` (added by %d on %s)\n", a.UserID, a.AddedBy, a.AddedDate.Format("2006-01-02"))
	}
	bh.sendMarkdown(chatID, b.String(), nil)
}

// --- Просмотр и выгрузка заявок / Submission review and export ---

// handleViewSubmissions отправляет администратору каждую заявку отдельным
// сообщением с кнопками решения и приложенными скриншотами.
// handleViewSubmissions sends the admin every submission as its own message
// with decision buttons and the attached screenshots.
func (bh *BotHandler) handleViewSubmissions(chatID, userID int64) {
	if !bh.isAdmin(userID) {
		bh.sendMarkdown(chatID, constants.MSG_ACCESS_DENIED, nil)
		return
	}

	subs, err := bh.Deps.Submissions.List()
	if err != nil {
		bh.sendErrorMessageHelper(chatID)
		return
	}
	if len(subs) == 0 {
		bh.sendMarkdown(chatID, "ℹ️ *No submissions yet!*", nil)
		return
	}

	for _, sub := range subs {
		text := fmt.Sprintf("📋 *Submission Details:*\n"+
			"👤 *User ID:* %d\n"+
			"- Platform: _%s_\n"+
			"- Account ID: _%s_\n"+
			"- Package: _%s SocPeak_\n"+
			"- Status: _%s_\n"+
			"- Account Photo: _%s_\n"+
			"- Payment Screenshot: _%s_",
			sub.UserID, sub.Platform.String, sub.AccountID.String,
			orNA(sub.Package), sub.Status,
			uploadedLabel(sub.PhotoPath.Valid), uploadedLabel(sub.PaymentScreenshotPath.Valid))

		keyboard := decisionKeyboard(sub.UserID)
		bh.sendMarkdown(chatID, text, &keyboard)

		for _, path := range []string{sub.PhotoPath.String, sub.PaymentScreenshotPath.String} {
			if path == "" {
				continue
			}
			photo := tgbotapi.NewPhoto(chatID, tgbotapi.FilePath(path))
			if _, err := bh.Deps.BotClient.Send(photo); err != nil {
				log.Printf("handleViewSubmissions: ошибка отправки скриншота %q администратору %d: %v", path, chatID, err)
			}
		}
	}
}

func orNA(v sql.NullString) string {
	if v.Valid {
		return v.String
	}
	return "N/A"
}

func uploadedLabel(uploaded bool) string {
	if uploaded {
		return "Uploaded"
	}
	return "Not Uploaded"
}

// handleExportSubmissions выгружает все заявки в Excel-файл и отправляет его
// администратору документом.
// handleExportSubmissions exports all submissions into an Excel file and sends
// it to the admin as a document.
func (bh *BotHandler) handleExportSubmissions(chatID, userID int64) {
	if !bh.isAdmin(userID) {
		bh.sendMarkdown(chatID, constants.MSG_ACCESS_DENIED, nil)
		return
	}

	subs, err := bh.Deps.Submissions.List()
	if err != nil {
		bh.sendErrorMessageHelper(chatID)
		return
	}

	f := excelize.NewFile()
	sheetName := "Submissions"
	index, _ := f.NewSheet(sheetName)
	f.DeleteSheet("Sheet1")
	f.SetActiveSheet(index)

	headers := []string{"User ID", "Platform", "Account ID", "Package", "Price USD", "Status",
		"Account Photo", "Payment Screenshot", "Notified", "Created", "Updated"}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheetName, cell, header)
	}

	for i, sub := range subs {
		row := i + 2
		f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), sub.UserID)
		f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), sub.Platform.String)
		f.SetCellValue(sheetName, fmt.Sprintf("C%d", row), sub.AccountID.String)
		f.SetCellValue(sheetName, fmt.Sprintf("D%d", row), sub.Package.String)
		// Для висячего ключа пакета (тариф удален) цена остается пустой.
		// A dangling package key (tier deleted) leaves the price blank.
		if pkg, ok := bh.Deps.Catalog.Package(sub.Package.String); ok {
			f.SetCellValue(sheetName, fmt.Sprintf("E%d", row), pkg.Price)
		}
		f.SetCellValue(sheetName, fmt.Sprintf("F%d", row), sub.Status)
		f.SetCellValue(sheetName, fmt.Sprintf("G%d", row), uploadedLabel(sub.PhotoPath.Valid))
		f.SetCellValue(sheetName, fmt.Sprintf("H%d", row), uploadedLabel(sub.PaymentScreenshotPath.Valid))
		f.SetCellValue(sheetName, fmt.Sprintf("I%d", row), sub.PaymentNotified)
		f.SetCellValue(sheetName, fmt.Sprintf("J%d", row), sub.CreatedAt.Format("2006-01-02 15:04"))
		f.SetCellValue(sheetName, fmt.Sprintf("K%d", row), sub.UpdatedAt.Format("2006-01-02 15:04"))
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		log.Printf("handleExportSubmissions: ошибка генерации Excel-файла: %v", err)
		bh.sendErrorMessageHelper(chatID)
		return
	}

	doc := tgbotapi.NewDocument(chatID, tgbotapi.FileBytes{Name: "submissions.xlsx", Bytes: buf.Bytes()})
	doc.Caption = fmt.Sprintf("📊 Submissions export (%d rows)", len(subs))
	if _, err := bh.Deps.BotClient.Send(doc); err != nil {
		log.Printf("handleExportSubmissions: ошибка отправки документа администратору %d: %v", chatID, err)
		bh.sendErrorMessageHelper(chatID)
	}
}
