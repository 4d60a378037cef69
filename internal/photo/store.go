package photo

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Store - файловое хранилище фотографий инцидентов.
// Наружу отдаются и принимаются только имена файлов, без путей.
type Store struct {
	dir string
}

// NewStore создает хранилище и гарантирует существование каталога
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create uploads directory: %w", err)
	}
	return &Store{dir: dir}, nil
}

// Save записывает загруженный файл под уникальным именем и возвращает это имя
func (s *Store) Save(src io.Reader, originalName string) (string, error) {
	ext := strings.ToLower(filepath.Ext(originalName))
	name := uuid.New().String() + ext

	dst, err := os.Create(filepath.Join(s.dir, name))
	if err != nil {
		return "", fmt.Errorf("failed to create photo file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		os.Remove(dst.Name())
		return "", fmt.Errorf("failed to write photo file: %w", err)
	}
	return name, nil
}

// Path возвращает абсолютный путь к файлу по его имени.
// filepath.Base отсекает попытки выхода за пределы каталога.
func (s *Store) Path(filename string) string {
	return filepath.Join(s.dir, filepath.Base(filename))
}

// Exists проверяет наличие файла в хранилище
func (s *Store) Exists(filename string) bool {
	info, err := os.Stat(s.Path(filename))
	return err == nil && !info.IsDir()
}
