package state

import (
	"strconv"
	"strings"
	"sync"
)

// Column is one extraction column of a template.
type Column struct {
	Name string
	Path string
}

// Template is the column template of the current project.
type Template struct {
	mu         sync.Mutex
	autoModify bool
	columns    []Column
}

// NewTemplate returns an empty template. When autoModify is false the
// template refuses columns added from the tree.
func NewTemplate(autoModify bool) *Template {
	return &Template{autoModify: autoModify}
}

func (t *Template) CanAutoModify() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.autoModify
}

// AddColumn appends a column for path. Adding a path twice returns the
// existing column.
func (t *Template) AddColumn(path string) Column {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, col := range t.columns {
		if col.Path == path {
			return col
		}
	}
	col := Column{Name: t.uniqueName(columnName(path)), Path: path}
	t.columns = append(t.columns, col)
	return col
}

// Columns returns a copy of the template columns.
func (t *Template) Columns() []Column {
	t.mu.Lock()
	defer t.mu.Unlock()
	if len(t.columns) == 0 {
		return nil
	}
	dup := make([]Column, len(t.columns))
	copy(dup, t.columns)
	return dup
}

func (t *Template) uniqueName(base string) string {
	name := base
	for n := 2; t.hasName(name); n++ {
		name = base + "_" + strconv.Itoa(n)
	}
	return name
}

func (t *Template) hasName(name string) bool {
	for _, col := range t.columns {
		if col.Name == name {
			return true
		}
	}
	return false
}

// columnName derives a readable name from the last meaningful step of path.
func columnName(path string) string {
	steps := strings.Split(strings.Trim(path, "/"), "/")
	for i := len(steps) - 1; i >= 0; i-- {
		step := steps[i]
		if idx := strings.IndexByte(step, '['); idx >= 0 {
			step = step[:idx]
		}
		step = strings.TrimPrefix(step, "@")
		if step == "" || step == "text()" {
			continue
		}
		return step
	}
	return "column"
}
