package storage

import (
	"database/sql"
	"log"

	"socpeak-bot/internal/models"
)

// PostgresPlatforms — реализация PlatformStore поверх PostgreSQL.
// PostgresPlatforms implements PlatformStore on top of PostgreSQL.
type PostgresPlatforms struct {
	db *sql.DB
}

func NewPostgresPlatforms(db *sql.DB) *PostgresPlatforms {
	return &PostgresPlatforms{db: db}
}

// List возвращает все платформы, включая выключенные.
// List returns all platforms, inactive ones included.
func (pp *PostgresPlatforms) List() ([]models.Platform, error) {
	rows, err := pp.db.Query("SELECT name, active FROM platforms ORDER BY name")
	if err != nil {
		log.Printf("PostgresPlatforms.List: ошибка запроса: %v", err)
		return nil, err
	}
	defer rows.Close()

	var result []models.Platform
	for rows.Next() {
		var p models.Platform
		if err := rows.Scan(&p.Name, &p.Active); err != nil {
			return nil, err
		}
		result = append(result, p)
	}
	return result, rows.Err()
}

// Add добавляет платформу. Повторное добавление существующей — no-op.
// Add inserts a platform. Re-adding an existing one is a no-op.
func (pp *PostgresPlatforms) Add(name string) error {
	_, err := pp.db.Exec(
		"INSERT INTO platforms (name, active) VALUES ($1, TRUE) ON CONFLICT (name) DO NOTHING", name)
	if err != nil {
		log.Printf("PostgresPlatforms.Add: ошибка добавления платформы %q: %v", name, err)
	}
	return err
}

// Rename переименовывает платформу и каскадно обновляет все заявки со старым
// именем. Обе записи выполняются в одной транзакции.
// Rename renames a platform and cascades to every submission carrying the old
// name. Both writes run in one transaction.
func (pp *PostgresPlatforms) Rename(oldName, newName string) (bool, error) {
	tx, err := pp.db.Begin()
	if err != nil {
		return false, err
	}
	defer tx.Rollback()

	res, err := tx.Exec("UPDATE platforms SET name = $1 WHERE name = $2", newName, oldName)
	if err != nil {
		log.Printf("PostgresPlatforms.Rename: ошибка переименования %q -> %q: %v", oldName, newName, err)
		return false, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return false, nil
	}

	if _, err := tx.Exec("UPDATE submissions SET platform = $1 WHERE platform = $2", newName, oldName); err != nil {
		log.Printf("PostgresPlatforms.Rename: ошибка каскадного обновления заявок: %v", err)
		return false, err
	}

	return true, tx.Commit()
}

// Delete удаляет платформу и каскадно удаляет все заявки, ссылающиеся на нее
// (фактически принудительная отмена этих заказов).
// Delete removes a platform and cascades to every submission referencing it
// (effectively force-cancelling those orders).
func (pp *PostgresPlatforms) Delete(name string) (bool, error) {
	tx, err := pp.db.Begin()
	if err != nil {
		return false, err
	}
	defer tx.Rollback()

	res, err := tx.Exec("DELETE FROM platforms WHERE name = $1", name)
	if err != nil {
		log.Printf("PostgresPlatforms.Delete: ошибка удаления платформы %q: %v", name, err)
		return false, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return false, nil
	}

	if _, err := tx.Exec("DELETE FROM submissions WHERE platform = $1", name); err != nil {
		log.Printf("PostgresPlatforms.Delete: ошибка каскадного удаления заявок: %v", err)
		return false, err
	}

	return true, tx.Commit()
}

// SetActive включает или выключает платформу.
// SetActive toggles a platform on or off.
func (pp *PostgresPlatforms) SetActive(name string, active bool) (bool, error) {
	res, err := pp.db.Exec("UPDATE platforms SET active = $1 WHERE name = $2", active, name)
	if err != nil {
		log.Printf("PostgresPlatforms.SetActive: ошибка для платформы %q: %v", name, err)
		return false, err
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}
