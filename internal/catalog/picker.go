// Package catalog holds the exercise library and the multi-select picker
// that turns library items into training plan exercises.
package catalog

import (
	"errors"
	"strings"
	"sync"

	"github.com/google/uuid"

	"paggie/trainer-app/internal/domain"
)

// AllCategories is the pseudo category that disables the category filter.
const AllCategories = "Todos"

var (
	ErrUnknownCategory = errors.New("catalog: unknown category")
	ErrUnknownItem     = errors.New("catalog: unknown library item")
)

// Category is a library category with the number of items in it.
type Category struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// Categories lists the categories of items in first-appearance order,
// preceded by AllCategories.
func Categories(items []domain.LibraryItem) []Category {
	out := []Category{{Name: AllCategories, Count: len(items)}}
	pos := make(map[string]int)
	for _, it := range items {
		i, ok := pos[it.Category]
		if !ok {
			i = len(out)
			pos[it.Category] = i
			out = append(out, Category{Name: it.Category})
		}
		out[i].Count++
	}
	return out
}

// Filter keeps the items of category whose name contains search,
// case-insensitively. An empty search matches everything.
func Filter(items []domain.LibraryItem, category, search string) []domain.LibraryItem {
	needle := strings.ToLower(search)
	out := make([]domain.LibraryItem, 0, len(items))
	for _, it := range items {
		if category != AllCategories && category != "" && it.Category != category {
			continue
		}
		if !strings.Contains(strings.ToLower(it.Name), needle) {
			continue
		}
		out = append(out, it)
	}
	return out
}

// Batch is the prescription applied to every imported exercise.
type Batch struct {
	Sets string `json:"sets"`
	Reps string `json:"reps"`
	Rest string `json:"rest"`
}

// DefaultBatch is 3 sets of 10-12 with 60s rest.
func DefaultBatch() Batch {
	return Batch{Sets: "3", Reps: "10-12", Rest: "60s"}
}

// View is a snapshot of the picker.
type View struct {
	Category   string               `json:"category"`
	Search     string               `json:"search"`
	Categories []Category           `json:"categories"`
	Items      []domain.LibraryItem `json:"items"`
	Selected   []string             `json:"selected"`
	Batch      Batch                `json:"batch"`
}

// Picker is the library browsing state of one session. It is safe for
// concurrent use.
type Picker struct {
	mu       sync.Mutex
	items    []domain.LibraryItem
	category string
	search   string
	selected []domain.LibraryItem
	batch    Batch
	newID    func() string
}

// NewPicker browses items. newID defaults to uuid.NewString.
func NewPicker(items []domain.LibraryItem, newID func() string) *Picker {
	if newID == nil {
		newID = uuid.NewString
	}
	return &Picker{
		items:    items,
		category: AllCategories,
		batch:    DefaultBatch(),
		newID:    newID,
	}
}

// SetItems swaps the browsable items, e.g. after a custom item is added.
// Selected items that no longer exist are dropped.
func (p *Picker) SetItems(items []domain.LibraryItem) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.items = items
	kept := p.selected[:0:0]
	for _, s := range p.selected {
		if _, ok := find(items, s.ID); ok {
			kept = append(kept, s)
		}
	}
	p.selected = kept
}

// SetCategory changes the category filter.
func (p *Picker) SetCategory(category string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if category == "" {
		category = AllCategories
	}
	if category != AllCategories && !hasCategory(p.items, category) {
		return ErrUnknownCategory
	}
	p.category = category
	return nil
}

// SetSearch changes the name filter.
func (p *Picker) SetSearch(search string) {
	p.mu.Lock()
	p.search = search
	p.mu.Unlock()
}

// Toggle adds the item to the selection, or removes it if already there.
// It returns whether the item ends up selected.
func (p *Picker) Toggle(id string) (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if i, ok := find(p.selected, id); ok {
		p.selected = append(p.selected[:i:i], p.selected[i+1:]...)
		return false, nil
	}
	i, ok := find(p.items, id)
	if !ok {
		return false, ErrUnknownItem
	}
	p.selected = append(p.selected, p.items[i])
	return true, nil
}

// SetBatch replaces the batch prescription. Blank fields keep their value.
func (p *Picker) SetBatch(b Batch) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if b.Sets != "" {
		p.batch.Sets = b.Sets
	}
	if b.Reps != "" {
		p.batch.Reps = b.Reps
	}
	if b.Rest != "" {
		p.batch.Rest = b.Rest
	}
}

// Import turns the selection into exercises with fresh ids and clears it.
// Nothing is returned when the selection is empty.
func (p *Picker) Import() []domain.Exercise {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.selected) == 0 {
		return nil
	}
	out := make([]domain.Exercise, len(p.selected))
	for i, it := range p.selected {
		out[i] = domain.Exercise{
			ID:   p.newID(),
			Name: it.Name,
			Sets: p.batch.Sets,
			Reps: p.batch.Reps,
			Rest: p.batch.Rest,
		}
	}
	p.selected = nil
	return out
}

// View returns the filtered items and current selection.
func (p *Picker) View() View {
	p.mu.Lock()
	defer p.mu.Unlock()
	ids := make([]string, len(p.selected))
	for i, s := range p.selected {
		ids[i] = s.ID
	}
	return View{
		Category:   p.category,
		Search:     p.search,
		Categories: Categories(p.items),
		Items:      Filter(p.items, p.category, p.search),
		Selected:   ids,
		Batch:      p.batch,
	}
}

func find(items []domain.LibraryItem, id string) (int, bool) {
	for i, it := range items {
		if it.ID == id {
			return i, true
		}
	}
	return -1, false
}

func hasCategory(items []domain.LibraryItem, category string) bool {
	for _, it := range items {
		if it.Category == category {
			return true
		}
	}
	return false
}
