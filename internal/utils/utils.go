package utils

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/skip2/go-qrcode"
)

// PlatformSlug превращает имя платформы в slug для callback data
// ("Facebook Followers" -> "facebook_followers"). Обратное преобразование не
// используется: каноническое имя восстанавливается поиском по каталогу.
// PlatformSlug turns a platform name into a callback-data slug
// ("Facebook Followers" -> "facebook_followers"). There is no reverse mapping:
// the canonical name is recovered via a catalog lookup.
func PlatformSlug(name string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), " ", "_")
}

// GeneratePaymentQR кодирует ссылку на оплату в QR-код.
// GeneratePaymentQR encodes a payment link into a QR code.
func GeneratePaymentQR(link string) ([]byte, error) {
	if link == "" {
		return nil, fmt.Errorf("ссылка на оплату пуста")
	}
	// qrcode.Medium — уровень коррекции ошибок, 256 — размер QR-кода в пикселях.
	// qrcode.Medium is the error correction level, 256 the pixel size.
	qrBytes, err := qrcode.Encode(link, qrcode.Medium, 256)
	if err != nil {
		log.Printf("GeneratePaymentQR: ошибка кодирования QR-кода для ссылки '%s': %v", link, err)
		return nil, err
	}
	return qrBytes, nil
}

// SaveImage сохраняет скриншот в каталог изображений под уникальным именем
// вида <userID>_<kind>_<uuid>.jpg и возвращает путь к файлу. Уникальный суффикс
// исключает перезапись при повторных загрузках.
// SaveImage stores a screenshot in the images directory under a unique name of
// the form <userID>_<kind>_<uuid>.jpg and returns the file path. The unique
// suffix prevents overwrites on repeated uploads.
func SaveImage(imagesDir string, userID int64, kind string, data []byte) (string, error) {
	if err := os.MkdirAll(imagesDir, 0o755); err != nil {
		log.Printf("SaveImage: ошибка создания каталога %q: %v", imagesDir, err)
		return "", err
	}
	filename := fmt.Sprintf("%d_%s_%s.jpg", userID, kind, uuid.New().String())
	path := filepath.Join(imagesDir, filename)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		log.Printf("SaveImage: ошибка записи файла %q: %v", path, err)
		return "", err
	}
	return path, nil
}
