package storage

import (
	"database/sql"
	"log"

	"socpeak-bot/internal/models"
)

// PostgresPricing — реализация PricingStore поверх PostgreSQL. Удаление пакета
// намеренно не трогает заявки, которые уже ссылаются на него: висячий ключ
// пакета — принятый краевой случай, его разбирает администратор при проверке.
// PostgresPricing implements PricingStore on top of PostgreSQL. Deleting a
// package deliberately leaves submissions already referencing it untouched:
// a dangling package key is an accepted edge case resolved by the reviewing admin.
type PostgresPricing struct {
	db *sql.DB
}

func NewPostgresPricing(db *sql.DB) *PostgresPricing {
	return &PostgresPricing{db: db}
}

func (pr *PostgresPricing) List() ([]models.Package, error) {
	rows, err := pr.db.Query("SELECT package, price, payment_link FROM pricing ORDER BY price")
	if err != nil {
		log.Printf("PostgresPricing.List: ошибка запроса: %v", err)
		return nil, err
	}
	defer rows.Close()

	var result []models.Package
	for rows.Next() {
		var p models.Package
		if err := rows.Scan(&p.Name, &p.Price, &p.PaymentLink); err != nil {
			return nil, err
		}
		result = append(result, p)
	}
	return result, rows.Err()
}

// Add добавляет пакет; false — пакет с таким именем уже существует.
// Add inserts a package; false means the name is already taken.
func (pr *PostgresPricing) Add(p models.Package) (bool, error) {
	res, err := pr.db.Exec(
		"INSERT INTO pricing (package, price, payment_link) VALUES ($1, $2, $3) ON CONFLICT (package) DO NOTHING",
		p.Name, p.Price, p.PaymentLink)
	if err != nil {
		log.Printf("PostgresPricing.Add: ошибка добавления пакета %q: %v", p.Name, err)
		return false, err
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

// Update заменяет пакет oldName новым содержимым (имя, цена, ссылка).
// Update replaces package oldName with new contents (name, price, link).
func (pr *PostgresPricing) Update(oldName string, p models.Package) (bool, error) {
	res, err := pr.db.Exec(
		"UPDATE pricing SET package = $1, price = $2, payment_link = $3 WHERE package = $4",
		p.Name, p.Price, p.PaymentLink, oldName)
	if err != nil {
		log.Printf("PostgresPricing.Update: ошибка обновления пакета %q: %v", oldName, err)
		return false, err
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

func (pr *PostgresPricing) Delete(name string) (bool, error) {
	res, err := pr.db.Exec("DELETE FROM pricing WHERE package = $1", name)
	if err != nil {
		log.Printf("PostgresPricing.Delete: ошибка удаления пакета %q: %v", name, err)
		return false, err
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

// SetLink обновляет только ссылку на оплату пакета.
// SetLink updates only the package's payment link.
func (pr *PostgresPricing) SetLink(name, link string) (bool, error) {
	res, err := pr.db.Exec("UPDATE pricing SET payment_link = $1 WHERE package = $2", link, name)
	if err != nil {
		log.Printf("PostgresPricing.SetLink: ошибка для пакета %q: %v", name, err)
		return false, err
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}
