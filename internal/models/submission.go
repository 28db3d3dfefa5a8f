package models

import (
	"database/sql"
	"time"

	"socpeak-bot/internal/constants"
)

// Submission — одна активная заявка пользователя на буст. Ключ — user_id,
// у пользователя может быть не более одной заявки одновременно.
// Submission is a user's single in-flight boost order. Keyed by user_id,
// a user holds at most one submission at a time.
type Submission struct {
	UserID                int64
	Platform              sql.NullString
	AccountID             sql.NullString
	Package               sql.NullString
	PhotoPath             sql.NullString // Скриншот аккаунта / Account screenshot
	PaymentScreenshotPath sql.NullString // Скриншот оплаты / Payment screenshot
	Status                string         // pending | approved | rejected
	PaymentNotified       bool           // Админы уже уведомлены об оплате / Admins already notified about the payment
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

// Stage выводит текущий этап оформления из заполненности полей заявки.
// Поля заполняются строго слева направо, поэтому достаточно найти первое
// незаполненное. Вся маршрутизация обязана опираться на эту функцию,
// а не проверять отдельные поля на месте.
// Stage derives the current flow stage from which fields are populated.
// Fields are filled strictly left to right, so the first unset one decides.
// All routing must rely on this function instead of ad hoc field checks.
func (s *Submission) Stage() string {
	switch {
	case s == nil || !s.Platform.Valid:
		return constants.STAGE_NO_ORDER
	case !s.AccountID.Valid:
		return constants.STAGE_PLATFORM_CHOSEN
	case !s.PhotoPath.Valid:
		return constants.STAGE_LINK_PROVIDED
	case !s.Package.Valid:
		return constants.STAGE_ACCOUNT_PHOTO
	case !s.PaymentScreenshotPath.Valid && !s.PaymentNotified:
		return constants.STAGE_PACKAGE_CHOSEN
	case s.Status == constants.STATUS_PENDING:
		return constants.STAGE_PAYMENT_PHOTO
	default:
		return constants.STAGE_DECIDED
	}
}
