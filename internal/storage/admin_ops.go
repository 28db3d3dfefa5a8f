package storage

import (
	"database/sql"
	"log"

	"socpeak-bot/internal/models"
)

// PostgresAdmins — реализация AdminStore поверх PostgreSQL. Начальный
// администратор передается при создании и защищен от удаления.
// PostgresAdmins implements AdminStore on top of PostgreSQL. The initial admin
// is supplied at construction and protected from removal.
type PostgresAdmins struct {
	db             *sql.DB
	initialAdminID int64
}

func NewPostgresAdmins(db *sql.DB, initialAdminID int64) *PostgresAdmins {
	return &PostgresAdmins{db: db, initialAdminID: initialAdminID}
}

func (pa *PostgresAdmins) InitialAdminID() int64 {
	return pa.initialAdminID
}

func (pa *PostgresAdmins) IsAdmin(userID int64) (bool, error) {
	var one int
	err := pa.db.QueryRow("SELECT 1 FROM admins WHERE user_id = $1", userID).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		log.Printf("PostgresAdmins.IsAdmin: ошибка проверки пользователя %d: %v", userID, err)
		return false, err
	}
	return true, nil
}

func (pa *PostgresAdmins) List() ([]models.Admin, error) {
	rows, err := pa.db.Query("SELECT user_id, COALESCE(added_by, 0), added_date FROM admins ORDER BY added_date")
	if err != nil {
		log.Printf("PostgresAdmins.List: ошибка запроса: %v", err)
		return nil, err
	}
	defer rows.Close()

	var result []models.Admin
	for rows.Next() {
		var a models.Admin
		if err := rows.Scan(&a.UserID, &a.AddedBy, &a.AddedDate); err != nil {
			return nil, err
		}
		result = append(result, a)
	}
	return result, rows.Err()
}

// Add добавляет администратора. Повторное добавление — no-op.
// Add inserts an admin. Re-adding is a no-op.
func (pa *PostgresAdmins) Add(userID, addedBy int64) error {
	_, err := pa.db.Exec(
		"INSERT INTO admins (user_id, added_by) VALUES ($1, $2) ON CONFLICT (user_id) DO NOTHING",
		userID, addedBy)
	if err != nil {
		log.Printf("PostgresAdmins.Add: ошибка добавления администратора %d: %v", userID, err)
	}
	return err
}

// Remove удаляет администратора; false — такого администратора не было.
// Попытка удалить начального администратора всегда отклоняется без записи в БД.
// Remove deletes an admin; false means there was no such admin. Removing the
// initial admin is always rejected with no database write.
func (pa *PostgresAdmins) Remove(userID int64) (bool, error) {
	if userID == pa.initialAdminID {
		return false, ErrInitialAdmin
	}
	res, err := pa.db.Exec("DELETE FROM admins WHERE user_id = $1", userID)
	if err != nil {
		log.Printf("PostgresAdmins.Remove: ошибка удаления администратора %d: %v", userID, err)
		return false, err
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}
