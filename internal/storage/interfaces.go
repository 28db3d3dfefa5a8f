package storage

import (
	"errors"

	"socpeak-bot/internal/models"
)

// ErrInitialAdmin возвращается при попытке удалить начального администратора.
// ErrInitialAdmin is returned when trying to remove the initial admin.
var ErrInitialAdmin = errors.New("начальный администратор не может быть удален")

// SubmissionStore — хранилище заявок. Все записи с предусловиями выполнены как
// одиночные условные UPDATE: возвращаемый bool говорит, прошла ли запись.
// Это гарантирует, что из двух гонящихся событий для одного user_id выигрывает
// ровно одно, независимо от блокировок на уровне обработчиков.
// SubmissionStore persists submissions. Guarded writes are single conditional
// UPDATEs: the returned bool tells whether the write went through. Of two racing
// events for the same user_id exactly one wins, regardless of handler-level locks.
type SubmissionStore interface {
	Get(userID int64) (*models.Submission, error) // nil, nil если заявки нет / nil, nil when absent
	Create(userID int64, platform string) (bool, error)
	SetAccountID(userID int64, accountID string) (bool, error)
	SetAccountPhoto(userID int64, path string) (bool, error)
	SetPackage(userID int64, pkg string) (bool, error)
	SetPaymentScreenshot(userID int64, path string) (bool, error)
	Decide(userID int64, status string) (bool, error)
	Delete(userID int64) error
	List() ([]models.Submission, error)
}

// PlatformStore — хранилище платформ. Rename и Delete каскадно обновляют
// незавершенные заявки, ссылающиеся на платформу.
// PlatformStore persists platforms. Rename and Delete cascade to in-flight
// submissions referencing the platform.
type PlatformStore interface {
	List() ([]models.Platform, error)
	Add(name string) error
	Rename(oldName, newName string) (bool, error)
	Delete(name string) (bool, error)
	SetActive(name string, active bool) (bool, error)
}

// PricingStore — хранилище тарифов (пакетов).
// PricingStore persists pricing packages.
type PricingStore interface {
	List() ([]models.Package, error)
	Add(p models.Package) (bool, error) // false, если пакет уже существует / false if the package already exists
	Update(oldName string, p models.Package) (bool, error)
	Delete(name string) (bool, error)
	SetLink(name, link string) (bool, error)
}

// AdminStore — реестр администраторов. Remove отклоняет начального админа
// с ошибкой ErrInitialAdmin.
// AdminStore is the admin registry. Remove rejects the initial admin with
// ErrInitialAdmin.
type AdminStore interface {
	IsAdmin(userID int64) (bool, error)
	List() ([]models.Admin, error)
	Add(userID, addedBy int64) error
	Remove(userID int64) (bool, error)
	InitialAdminID() int64
}
