// Package category holds the fixed set of task categories.
package category

import "github.com/abatilo/taskflow/internal/task"

// Category groups tasks under a display name and color.
type Category struct {
	ID    string `json:"id"    yaml:"id"`
	Name  string `json:"name"  yaml:"name"`
	Color string `json:"color" yaml:"color"`
}

// Registry is an immutable, ordered list of categories.
type Registry struct {
	items []Category
	byID  map[string]Category
}

// Seed returns the four built-in categories in display order.
func Seed() []Category {
	return []Category{
		{ID: task.DefaultCategoryID, Name: "Work", Color: "#6366f1"},
		{ID: "2", Name: "Personal", Color: "#06b6d4"},
		{ID: "3", Name: "Health", Color: "#10b981"},
		{ID: "4", Name: "Learning", Color: "#f59e0b"},
	}
}

// NewRegistry builds a registry from the given categories.
func NewRegistry(items []Category) *Registry {
	r := &Registry{
		items: make([]Category, len(items)),
		byID:  make(map[string]Category, len(items)),
	}
	copy(r.items, items)
	for _, c := range items {
		r.byID[c.ID] = c
	}
	return r
}

// Default returns a registry over the seeded categories.
func Default() *Registry {
	return NewRegistry(Seed())
}

// All returns a copy of the categories in display order.
func (r *Registry) All() []Category {
	out := make([]Category, len(r.items))
	copy(out, r.items)
	return out
}

// Lookup returns the category with the given id. Tasks may reference ids
// that are not registered; those simply have no category.
func (r *Registry) Lookup(id string) (Category, bool) {
	c, ok := r.byID[id]
	return c, ok
}
