// Package export writes tasks as markdown files with YAML frontmatter.
package export

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/abatilo/taskflow/internal/category"
	tferrors "github.com/abatilo/taskflow/internal/errors"
	"github.com/abatilo/taskflow/internal/task"
)

const (
	frontmatterDelimiter = "---"
	fileExt              = ".md"
)

// taskFrontmatter is the YAML-serializable portion of a task.
type taskFrontmatter struct {
	ID         string        `yaml:"id"`
	Title      string        `yaml:"title"`
	Status     task.Status   `yaml:"status"`
	Priority   task.Priority `yaml:"priority"`
	CategoryID string        `yaml:"category_id"`
	Category   string        `yaml:"category,omitempty"`
	DueDate    *string       `yaml:"due_date,omitempty"`
	CreatedAt  string        `yaml:"created_at"`
	UpdatedAt  string        `yaml:"updated_at"`
}

// SerializeMarkdown converts a Task to markdown with YAML frontmatter.
func SerializeMarkdown(t *task.Task, categories *category.Registry) ([]byte, error) {
	fm := taskFrontmatter{
		ID:         t.ID,
		Title:      t.Title,
		Status:     t.Status,
		Priority:   t.Priority,
		CategoryID: t.CategoryID,
		CreatedAt:  t.CreatedAt.Format(time.RFC3339),
		UpdatedAt:  t.UpdatedAt.Format(time.RFC3339),
	}
	if c, ok := categories.Lookup(t.CategoryID); ok {
		fm.Category = c.Name
	}
	if t.DueDate != nil {
		s := t.DueDate.String()
		fm.DueDate = &s
	}

	var buf bytes.Buffer
	buf.WriteString(frontmatterDelimiter + "\n")

	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(fm); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}

	buf.WriteString(frontmatterDelimiter + "\n")

	if t.Description != "" {
		buf.WriteString("\n")
		buf.WriteString(t.Description)
		buf.WriteString("\n")
	}

	return buf.Bytes(), nil
}

// WriteDir writes one <id>.md file per task into dir and returns the number
// of files written. It stops at the first task whose id is not a valid task id.
func WriteDir(dir string, tasks []*task.Task, categories *category.Registry) (int, error) {
	//nolint:gosec // G301: 0755 is appropriate for user-accessible export directory
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return 0, err
	}
	for i, t := range tasks {
		if !task.IsValidID(t.ID) {
			return i, tferrors.ValidationError{Field: "id", Reason: fmt.Sprintf("%q is not a task id", t.ID)}
		}
		content, err := SerializeMarkdown(t, categories)
		if err != nil {
			return i, err
		}
		//nolint:gosec // G306: 0644 is appropriate for user-readable markdown files
		if err := os.WriteFile(filepath.Join(dir, t.ID+fileExt), content, 0o644); err != nil {
			return i, err
		}
	}
	return len(tasks), nil
}
