package storage

import (
	"database/sql"
	"fmt"
	"log"

	"socpeak-bot/internal/constants"
	"socpeak-bot/internal/models"
)

// PostgresSubmissions — реализация SubmissionStore поверх PostgreSQL.
// PostgresSubmissions implements SubmissionStore on top of PostgreSQL.
type PostgresSubmissions struct {
	db *sql.DB
}

func NewPostgresSubmissions(db *sql.DB) *PostgresSubmissions {
	return &PostgresSubmissions{db: db}
}

const submissionColumns = `user_id, platform, account_id, package, photo_path,
        payment_screenshot_path, status, payment_notified, created_at, updated_at`

func scanSubmission(row interface{ Scan(...any) error }) (*models.Submission, error) {
	var s models.Submission
	err := row.Scan(
		&s.UserID, &s.Platform, &s.AccountID, &s.Package, &s.PhotoPath,
		&s.PaymentScreenshotPath, &s.Status, &s.PaymentNotified, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// Get возвращает заявку пользователя или nil, если ее нет.
// Get returns the user's submission or nil when there is none.
func (ps *PostgresSubmissions) Get(userID int64) (*models.Submission, error) {
	row := ps.db.QueryRow(
		"SELECT "+submissionColumns+" FROM submissions WHERE user_id = $1", userID)
	s, err := scanSubmission(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		log.Printf("PostgresSubmissions.Get: ошибка чтения заявки пользователя %d: %v", userID, err)
		return nil, err
	}
	return s, nil
}

// Create создает заявку с выбранной платформой. Если заявка уже есть, платформу
// можно перевыбрать только до отправки ссылки — иначе запись не проходит.
// Create inserts a submission with the chosen platform. An existing submission
// may only re-pick the platform before the link was sent.
func (ps *PostgresSubmissions) Create(userID int64, platform string) (bool, error) {
	res, err := ps.db.Exec(`
        INSERT INTO submissions (user_id, platform, status, created_at, updated_at)
        VALUES ($1, $2, $3, NOW(), NOW())
        ON CONFLICT (user_id) DO UPDATE
            SET platform = EXCLUDED.platform, updated_at = NOW()
            WHERE submissions.account_id IS NULL`,
		userID, platform, constants.STATUS_PENDING)
	if err != nil {
		log.Printf("PostgresSubmissions.Create: ошибка для пользователя %d: %v", userID, err)
		return false, err
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

// SetAccountID сохраняет ссылку/идентификатор аккаунта. Разрешено только когда
// платформа выбрана, а ссылка еще не отправлялась.
// SetAccountID stores the link/account identifier. Legal only when the platform
// is set and no link was sent yet.
func (ps *PostgresSubmissions) SetAccountID(userID int64, accountID string) (bool, error) {
	return ps.conditionalUpdate(userID, `
        UPDATE submissions SET account_id = $2, updated_at = NOW()
        WHERE user_id = $1 AND platform IS NOT NULL AND account_id IS NULL`, accountID)
}

// SetAccountPhoto сохраняет путь к скриншоту аккаунта. Пока пакет не выбран,
// повторная загрузка заменяет предыдущий скриншот — как и в ранних версиях бота.
// SetAccountPhoto stores the account screenshot path. Until the package is
// chosen a re-upload replaces the previous screenshot, as in early revisions.
func (ps *PostgresSubmissions) SetAccountPhoto(userID int64, path string) (bool, error) {
	return ps.conditionalUpdate(userID, `
        UPDATE submissions SET photo_path = $2, updated_at = NOW()
        WHERE user_id = $1 AND account_id IS NOT NULL AND package IS NULL`, path)
}

// SetPackage сохраняет выбранный пакет. Пакет можно сменить до загрузки
// скриншота оплаты.
// SetPackage stores the chosen package. It may be changed until the payment
// screenshot is uploaded.
func (ps *PostgresSubmissions) SetPackage(userID int64, pkg string) (bool, error) {
	return ps.conditionalUpdate(userID, `
        UPDATE submissions SET package = $2, updated_at = NOW()
        WHERE user_id = $1 AND photo_path IS NOT NULL
          AND payment_screenshot_path IS NULL AND payment_notified = FALSE`, pkg)
}

// SetPaymentScreenshot сохраняет скриншот оплаты и взводит payment_notified.
// Условие гарантирует ровно одно успешное срабатывание на заявку: проигравший
// дубль (два быстрых фото подряд) получает false и не вызывает повторную
// рассылку администраторам.
// SetPaymentScreenshot stores the payment screenshot and flips payment_notified.
// The condition guarantees exactly one winner per submission: a losing duplicate
// (two rapid photos) gets false and triggers no second admin fan-out.
func (ps *PostgresSubmissions) SetPaymentScreenshot(userID int64, path string) (bool, error) {
	return ps.conditionalUpdate(userID, `
        UPDATE submissions
        SET payment_screenshot_path = $2, payment_notified = TRUE, updated_at = NOW()
        WHERE user_id = $1 AND package IS NOT NULL
          AND payment_screenshot_path IS NULL AND payment_notified = FALSE`, path)
}

// Decide атомарно фиксирует решение администратора. Из двух одновременных
// решений по одной заявке выигрывает ровно одно; проигравшему возвращается
// false, и его подтверждение превращается в уведомление о конфликте.
// Decide atomically records the admin decision. Of two concurrent decisions on
// the same submission exactly one wins; the loser gets false and its
// acknowledgment becomes a conflict notice.
func (ps *PostgresSubmissions) Decide(userID int64, status string) (bool, error) {
	if status != constants.STATUS_APPROVED && status != constants.STATUS_REJECTED {
		return false, fmt.Errorf("недопустимый статус решения: %q", status)
	}
	return ps.conditionalUpdate(userID, `
        UPDATE submissions SET status = $2, updated_at = NOW()
        WHERE user_id = $1 AND payment_screenshot_path IS NOT NULL AND status = 'pending'`, status)
}

// Delete удаляет заявку пользователя. Отсутствие заявки ошибкой не считается.
// Delete removes the user's submission. A missing submission is not an error.
func (ps *PostgresSubmissions) Delete(userID int64) error {
	if _, err := ps.db.Exec("DELETE FROM submissions WHERE user_id = $1", userID); err != nil {
		log.Printf("PostgresSubmissions.Delete: ошибка для пользователя %d: %v", userID, err)
		return err
	}
	return nil
}

// List возвращает все заявки для просмотра администратором.
// List returns all submissions for admin review.
func (ps *PostgresSubmissions) List() ([]models.Submission, error) {
	rows, err := ps.db.Query(
		"SELECT " + submissionColumns + " FROM submissions ORDER BY created_at")
	if err != nil {
		log.Printf("PostgresSubmissions.List: ошибка запроса: %v", err)
		return nil, err
	}
	defer rows.Close()

	var result []models.Submission
	for rows.Next() {
		s, err := scanSubmission(rows)
		if err != nil {
			log.Printf("PostgresSubmissions.List: ошибка сканирования строки: %v", err)
			return nil, err
		}
		result = append(result, *s)
	}
	return result, rows.Err()
}

func (ps *PostgresSubmissions) conditionalUpdate(userID int64, query string, arg any) (bool, error) {
	res, err := ps.db.Exec(query, userID, arg)
	if err != nil {
		log.Printf("PostgresSubmissions: ошибка условного обновления для пользователя %d: %v", userID, err)
		return false, err
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}
