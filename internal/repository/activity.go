package repository

import (
	"bytes"
	"errors"
	"io"
	"slices"
	"sync"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/shenikar/activity_tracker/internal/models"
)

// Store - единственный владелец записей об активностях.
// Каждая мутация сначала сохраняется через Storage и только потом видна в памяти,
// поэтому при ошибке записи состояние не меняется.
type Store struct {
	mu         sync.RWMutex
	activities []models.Activity
	index      map[string]int
	storage    Storage
	clock      clockwork.Clock
}

// NewStore создает пустое хранилище. storage может быть nil - тогда изменения не сохраняются.
func NewStore(storage Storage, clock clockwork.Clock) *Store {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Store{
		index:   make(map[string]int),
		storage: storage,
		clock:   clock,
	}
}

// Load читает документ из Storage. Отсутствие документа не ошибка: found=false,
// решение о демо-данных принимает вызывающий код.
func (s *Store) Load() (found bool, err error) {
	if s.storage == nil {
		return false, nil
	}
	rc, err := s.storage.Open()
	if err != nil {
		if errors.Is(err, ErrDocumentNotFound) {
			return false, nil
		}
		return false, &models.PersistenceError{Op: "load", Err: err}
	}
	defer rc.Close()

	if err := s.LoadFrom(rc); err != nil {
		return false, err
	}
	return true, nil
}

// LoadFrom заменяет всё содержимое хранилища документом из r
func (s *Store) LoadFrom(r io.Reader) error {
	activities, err := DecodeDocument(r)
	if err != nil {
		return &models.PersistenceError{Op: "load", Err: err}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.replace(activities)
	return nil
}

// SaveTo пишет текущий снимок в w
func (s *Store) SaveTo(w io.Writer) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if err := EncodeDocument(w, s.activities); err != nil {
		return &models.PersistenceError{Op: "save", Err: err}
	}
	return nil
}

// Create регистрирует новую активность со статусом Active
func (s *Store) Create(input models.ActivityInput) (models.Activity, error) {
	activity := input.ToActivity()
	if err := models.ValidateActivity(activity); err != nil {
		return models.Activity{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	activity.ID = s.newID()
	activity.CreatedAt = s.clock.Now()

	candidate := append(slices.Clip(s.activities), activity)
	if err := s.persist(candidate); err != nil {
		return models.Activity{}, err
	}
	s.activities = candidate
	s.index[activity.ID] = len(candidate) - 1
	return activity.Clone(), nil
}

// Seed добавляет заготовки записей одной операцией записи.
// ID и время создания назначает хранилище, пустой статус означает Active.
func (s *Store) Seed(drafts []models.Activity) ([]models.Activity, error) {
	created := make([]models.Activity, 0, len(drafts))
	for _, d := range drafts {
		activity := d.Clone()
		if activity.Status == "" {
			activity.Status = models.StatusActive
		}
		if err := models.ValidateActivity(activity); err != nil {
			return nil, err
		}
		created = append(created, activity)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock.Now()
	for i := range created {
		created[i].ID = s.newID()
		created[i].CreatedAt = now
	}

	candidate := append(slices.Clip(s.activities), created...)
	if err := s.persist(candidate); err != nil {
		return nil, err
	}
	s.replace(candidate)

	out := make([]models.Activity, len(created))
	for i, a := range created {
		out[i] = a.Clone()
	}
	return out, nil
}

// Update применяет patch к записи с указанным id. previous - состояние записи
// непосредственно перед этим изменением, снятое под той же блокировкой.
func (s *Store) Update(id string, patch models.ActivityPatch) (updated, previous models.Activity, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.index[id]
	if !ok {
		return models.Activity{}, models.Activity{}, &models.NotFoundError{ID: id}
	}

	previous = s.activities[i].Clone()
	updated = s.activities[i].Apply(patch)
	if err := models.ValidateActivity(updated); err != nil {
		return models.Activity{}, models.Activity{}, err
	}

	if err := s.commit(i, updated); err != nil {
		return models.Activity{}, models.Activity{}, err
	}
	return updated.Clone(), previous, nil
}

// Close переводит запись в статус Closed. Повторный вызов ничего не меняет.
func (s *Store) Close(id string) (models.Activity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.index[id]
	if !ok {
		return models.Activity{}, &models.NotFoundError{ID: id}
	}
	if s.activities[i].Status == models.StatusClosed {
		return s.activities[i].Clone(), nil
	}

	closed := s.activities[i].Clone()
	closed.Status = models.StatusClosed
	if err := s.commit(i, closed); err != nil {
		return models.Activity{}, err
	}
	return closed.Clone(), nil
}

// Get возвращает копию записи по id
func (s *Store) Get(id string) (models.Activity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i, ok := s.index[id]
	if !ok {
		return models.Activity{}, &models.NotFoundError{ID: id}
	}
	return s.activities[i].Clone(), nil
}

// List возвращает копию всех записей в порядке добавления
func (s *Store) List() []models.Activity {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Activity, len(s.activities))
	for i, a := range s.activities {
		out[i] = a.Clone()
	}
	return out
}

// commit сохраняет коллекцию с заменённой i-й записью и только затем применяет её
func (s *Store) commit(i int, updated models.Activity) error {
	candidate := slices.Clone(s.activities)
	candidate[i] = updated
	if err := s.persist(candidate); err != nil {
		return err
	}
	s.activities = candidate
	return nil
}

func (s *Store) persist(activities []models.Activity) error {
	if s.storage == nil {
		return nil
	}
	var buf bytes.Buffer
	if err := EncodeDocument(&buf, activities); err != nil {
		return &models.PersistenceError{Op: "save", Err: err}
	}
	if err := s.storage.Write(buf.Bytes()); err != nil {
		return &models.PersistenceError{Op: "save", Err: err}
	}
	return nil
}

func (s *Store) replace(activities []models.Activity) {
	s.activities = activities
	s.index = make(map[string]int, len(activities))
	for i, a := range activities {
		s.index[a.ID] = i
	}
}

// newID генерирует id, не встречавшийся в хранилище
func (s *Store) newID() string {
	for {
		id := uuid.NewString()
		if _, taken := s.index[id]; !taken {
			return id
		}
	}
}

