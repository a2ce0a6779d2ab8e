// Package query строит отображаемое представление списка активностей:
// фильтрацию, порядок сортировки и сводные счётчики. Входные данные не изменяются.
package query

import (
	"slices"

	"github.com/shenikar/activity_tracker/internal/models"
)

// All - значение фильтра, пропускающее любые записи
const All = "All"

// Criteria - фильтр по статусу и приоритету; пустое значение означает All
type Criteria struct {
	Status   models.Status
	Priority models.Priority
}

// ParseCriteria проверяет значения фильтров. Допустимы All, пустая строка
// или точное значение перечисления.
func ParseCriteria(status, priority string) (Criteria, error) {
	var c Criteria
	if status != "" && status != All {
		c.Status = models.Status(status)
		if !c.Status.Valid() {
			return Criteria{}, &models.ValidationError{Field: "status", Reason: "unknown status filter " + status}
		}
	}
	if priority != "" && priority != All {
		c.Priority = models.Priority(priority)
		if !c.Priority.Valid() {
			return Criteria{}, &models.ValidationError{Field: "priority", Reason: "unknown priority filter " + priority}
		}
	}
	return c, nil
}

// Match сообщает, проходит ли запись фильтр
func (c Criteria) Match(a models.Activity) bool {
	if c.Status != "" && a.Status != c.Status {
		return false
	}
	if c.Priority != "" && a.Priority != c.Priority {
		return false
	}
	return true
}

// Filter возвращает записи, прошедшие фильтр, в исходном порядке
func Filter(records []models.Activity, c Criteria) []models.Activity {
	out := make([]models.Activity, 0, len(records))
	for _, a := range records {
		if c.Match(a) {
			out = append(out, a)
		}
	}
	return out
}

// Sort упорядочивает записи: сначала Critical, затем High, Medium, Low и неизвестные;
// при равном приоритете более новые идут первыми. Сортировка устойчивая.
func Sort(records []models.Activity) []models.Activity {
	out := slices.Clone(records)
	slices.SortStableFunc(out, compare)
	return out
}

func compare(a, b models.Activity) int {
	if ra, rb := a.Priority.Rank(), b.Priority.Rank(); ra != rb {
		return ra - rb
	}
	return b.CreatedAt.Compare(a.CreatedAt)
}

// View - отфильтрованные и отсортированные строки плюс сводка по всему набору
type View struct {
	Activities []models.Activity
	Summary    Summary
	Shown      int
	Total      int
}

// BuildView - проекция для отображения списка
func BuildView(records []models.Activity, c Criteria) View {
	visible := Sort(Filter(records, c))
	return View{
		Activities: visible,
		Summary:    Summarize(records),
		Shown:      len(visible),
		Total:      len(records),
	}
}
