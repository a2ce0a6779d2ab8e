package repository

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/natefinch/atomic"
	"github.com/shenikar/activity_tracker/internal/models"
)

// ErrDocumentNotFound - документ ещё не создан
var ErrDocumentNotFound = errors.New("activity document not found")

// Storage - хранилище документа с активностями.
// Open возвращает ErrDocumentNotFound, если документа нет.
type Storage interface {
	Open() (io.ReadCloser, error)
	Write(data []byte) error
}

// FileStorage хранит документ в локальном JSON-файле
type FileStorage struct {
	path string
}

func NewFileStorage(path string) *FileStorage {
	return &FileStorage{path: path}
}

func (s *FileStorage) Path() string { return s.path }

func (s *FileStorage) Open() (io.ReadCloser, error) {
	f, err := os.Open(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrDocumentNotFound
		}
		return nil, fmt.Errorf("failed to open %s: %w", s.path, err)
	}
	return f, nil
}

// Write атомарно заменяет файл: читатель видит либо старый, либо новый документ
func (s *FileStorage) Write(data []byte) error {
	if err := atomic.WriteFile(s.path, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("failed to write %s: %w", s.path, err)
	}
	return nil
}

// EncodeDocument пишет документ: JSON-массив записей с отступом в 2 пробела
func EncodeDocument(w io.Writer, activities []models.Activity) error {
	if activities == nil {
		activities = []models.Activity{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(activities); err != nil {
		return fmt.Errorf("failed to encode activity document: %w", err)
	}
	return nil
}

// DecodeDocument читает документ и проверяет инварианты каждой записи
func DecodeDocument(r io.Reader) ([]models.Activity, error) {
	var activities []models.Activity
	dec := json.NewDecoder(r)
	if err := dec.Decode(&activities); err != nil {
		return nil, fmt.Errorf("failed to decode activity document: %w", err)
	}
	// После массива допустимы только пробельные символы
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, errors.New("unexpected data after activity document")
	}

	seen := make(map[string]struct{}, len(activities))
	for i, a := range activities {
		if a.ID == "" {
			return nil, fmt.Errorf("activity #%d has an empty id", i)
		}
		if _, dup := seen[a.ID]; dup {
			return nil, fmt.Errorf("duplicate activity id %s", a.ID)
		}
		seen[a.ID] = struct{}{}
		if err := models.ValidateActivity(a); err != nil {
			return nil, fmt.Errorf("activity %s: %w", a.ID, err)
		}
	}
	return activities, nil
}
