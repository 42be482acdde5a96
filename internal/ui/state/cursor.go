package state

// MoveCursorUp moves the cursor one row up.
func (t *Tree) MoveCursorUp() bool {
	return t.moveCursorBy(-1)
}

// MoveCursorDown moves the cursor one row down.
func (t *Tree) MoveCursorDown() bool {
	return t.moveCursorBy(1)
}

// MoveCursorHome moves the cursor to the first row.
func (t *Tree) MoveCursorHome() bool {
	if len(t.Rows) == 0 {
		return false
	}
	old := t.Cursor
	t.Cursor = 0
	return t.moved(old)
}

// MoveCursorEnd moves the cursor to the last row.
func (t *Tree) MoveCursorEnd() bool {
	n := len(t.Rows)
	if n == 0 {
		return false
	}
	old := t.Cursor
	t.Cursor = n - 1
	return t.moved(old)
}

// MoveCursorPageUp moves the cursor up by the given page size.
func (t *Tree) MoveCursorPageUp(maxVisible int) bool {
	return t.moveCursorBy(-t.pageSize(maxVisible))
}

// MoveCursorPageDown moves the cursor down by the given page size.
func (t *Tree) MoveCursorPageDown(maxVisible int) bool {
	return t.moveCursorBy(t.pageSize(maxVisible))
}

// MoveCursorTo puts the cursor on row.
func (t *Tree) MoveCursorTo(row int) bool {
	if row < 0 || row >= len(t.Rows) {
		return false
	}
	old := t.Cursor
	t.Cursor = row
	return t.moved(old)
}

func (t *Tree) moveCursorBy(delta int) bool {
	if len(t.Rows) == 0 {
		return false
	}
	old := t.Cursor
	if t.Cursor < 0 {
		// The first move from an unselected tree lands on the first row.
		t.Cursor = 0
		return t.moved(old)
	}
	t.Cursor += delta
	if t.Cursor < 0 {
		t.Cursor = 0
	}
	if t.Cursor >= len(t.Rows) {
		t.Cursor = len(t.Rows) - 1
	}
	return t.moved(old)
}

func (t *Tree) moved(old int) bool {
	if t.Cursor == old {
		return false
	}
	t.touch()
	return true
}

func (t *Tree) pageSize(maxVisible int) int {
	total := len(t.Rows)
	if total == 0 {
		return 0
	}
	size := maxVisible
	if size <= 0 || size > total {
		size = total
	}
	if size < 1 {
		size = 1
	}
	return size
}

// EnsureCursorVisible adjusts the viewport offset so the cursor stays visible.
func (t *Tree) EnsureCursorVisible(maxVisible int) {
	if len(t.Rows) == 0 {
		t.ViewportOffset = 0
		return
	}
	if t.Cursor >= len(t.Rows) {
		t.Cursor = len(t.Rows) - 1
	}
	if maxVisible <= 0 {
		t.ViewportOffset = 0
		return
	}
	maxOffset := len(t.Rows) - maxVisible
	if maxOffset < 0 {
		maxOffset = 0
	}
	if t.ViewportOffset > maxOffset {
		t.ViewportOffset = maxOffset
	}
	if t.ViewportOffset < 0 {
		t.ViewportOffset = 0
	}
	if t.Cursor < 0 {
		return
	}
	if t.Cursor < t.ViewportOffset {
		t.ViewportOffset = t.Cursor
	}
	upper := t.ViewportOffset + maxVisible - 1
	if t.Cursor > upper {
		t.ViewportOffset = t.Cursor - maxVisible + 1
		if t.ViewportOffset < 0 {
			t.ViewportOffset = 0
		}
		if t.ViewportOffset > maxOffset {
			t.ViewportOffset = maxOffset
		}
	}
}
