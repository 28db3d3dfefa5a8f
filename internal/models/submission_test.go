package models

import (
	"database/sql"
	"testing"

	"socpeak-bot/internal/constants"
)

func ns(s string) sql.NullString {
	return sql.NullString{String: s, Valid: true}
}

func TestSubmissionStage(t *testing.T) {
	cases := []struct {
		name string
		sub  *Submission
		want string
	}{
		{"nil-заявка", nil, constants.STAGE_NO_ORDER},
		{"пустая заявка", &Submission{Status: constants.STATUS_PENDING}, constants.STAGE_NO_ORDER},
		{
			"выбрана платформа",
			&Submission{Platform: ns("Instagram"), Status: constants.STATUS_PENDING},
			constants.STAGE_PLATFORM_CHOSEN,
		},
		{
			"получена ссылка",
			&Submission{Platform: ns("Instagram"), AccountID: ns("https://instagram.com/x"), Status: constants.STATUS_PENDING},
			constants.STAGE_LINK_PROVIDED,
		},
		{
			"скриншот аккаунта",
			&Submission{Platform: ns("Instagram"), AccountID: ns("x"), PhotoPath: ns("a.jpg"), Status: constants.STATUS_PENDING},
			constants.STAGE_ACCOUNT_PHOTO,
		},
		{
			"выбран пакет",
			&Submission{Platform: ns("Instagram"), AccountID: ns("x"), PhotoPath: ns("a.jpg"), Package: ns("1000"), Status: constants.STATUS_PENDING},
			constants.STAGE_PACKAGE_CHOSEN,
		},
		{
			"скриншот оплаты",
			&Submission{Platform: ns("Instagram"), AccountID: ns("x"), PhotoPath: ns("a.jpg"), Package: ns("1000"),
				PaymentScreenshotPath: ns("p.jpg"), PaymentNotified: true, Status: constants.STATUS_PENDING},
			constants.STAGE_PAYMENT_PHOTO,
		},
		{
			"решение принято",
			&Submission{Platform: ns("Instagram"), AccountID: ns("x"), PhotoPath: ns("a.jpg"), Package: ns("1000"),
				PaymentScreenshotPath: ns("p.jpg"), PaymentNotified: true, Status: constants.STATUS_APPROVED},
			constants.STAGE_DECIDED,
		},
		{
			"отклонена",
			&Submission{Platform: ns("Instagram"), AccountID: ns("x"), PhotoPath: ns("a.jpg"), Package: ns("1000"),
				PaymentScreenshotPath: ns("p.jpg"), PaymentNotified: true, Status: constants.STATUS_REJECTED},
			constants.STAGE_DECIDED,
		},
		{
			// Рассылка уже ушла, хотя путь скриншота не записан: этап не
			// откатывается к выбору пакета.
			// The fan-out already happened even though the screenshot path is
			// missing: the stage must not fall back to package selection.
			"уведомление без пути скриншота",
			&Submission{Platform: ns("Instagram"), AccountID: ns("x"), PhotoPath: ns("a.jpg"), Package: ns("1000"),
				PaymentNotified: true, Status: constants.STATUS_PENDING},
			constants.STAGE_PAYMENT_PHOTO,
		},
	}

	for _, tc := range cases {
		if got := tc.sub.Stage(); got != tc.want {
			t.Fatalf("%s: Stage() = %q, ожидалось %q", tc.name, got, tc.want)
		}
	}
}
