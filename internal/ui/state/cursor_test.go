package state

import "testing"

func TestMoveCursorFromUnselected(t *testing.T) {
	tree, _ := newTestTree(t, sample)
	if !tree.MoveCursorDown() {
		t.Fatalf("expected first move to select a row")
	}
	if tree.Cursor != 0 {
		t.Fatalf("expected cursor 0, got %d", tree.Cursor)
	}
	if tree.MoveCursorUp() {
		t.Fatalf("expected no movement above first row")
	}
}

func TestMoveCursorHomeEnd(t *testing.T) {
	tree, _ := newTestTree(t, sample)
	if !tree.MoveCursorEnd() {
		t.Fatalf("expected movement to end")
	}
	if tree.Cursor != 3 {
		t.Fatalf("expected cursor 3, got %d", tree.Cursor)
	}
	if tree.MoveCursorEnd() {
		t.Fatalf("expected no movement when already at end")
	}
	if !tree.MoveCursorHome() || tree.Cursor != 0 {
		t.Fatalf("expected cursor 0, got %d", tree.Cursor)
	}

	empty := NewTree()
	if empty.MoveCursorHome() || empty.MoveCursorEnd() {
		t.Fatalf("expected no movement for empty tree")
	}
}

func TestMoveCursorPaging(t *testing.T) {
	tree, _ := newTestTree(t, sample)
	tree.Cursor = 0
	if !tree.MoveCursorPageDown(2) {
		t.Fatalf("expected movement on page down")
	}
	if tree.Cursor != 2 {
		t.Fatalf("expected cursor 2, got %d", tree.Cursor)
	}
	if !tree.MoveCursorPageDown(2) || tree.Cursor != 3 {
		t.Fatalf("expected cursor clamped to 3, got %d", tree.Cursor)
	}
	if !tree.MoveCursorPageUp(10) || tree.Cursor != 0 {
		t.Fatalf("expected cursor 0 after large page up, got %d", tree.Cursor)
	}
}

func TestMoveCursorTo(t *testing.T) {
	tree, _ := newTestTree(t, sample)
	if tree.MoveCursorTo(9) {
		t.Fatalf("expected out of range row to be ignored")
	}
	if !tree.MoveCursorTo(2) || tree.Selected().Path != "/a/b" {
		t.Fatalf("expected /a/b selected")
	}
}

func TestEnsureCursorVisible(t *testing.T) {
	tree, _ := newTestTree(t, sample)
	tree.ExpandAll()
	tree.Cursor = 4
	tree.EnsureCursorVisible(2)
	if tree.ViewportOffset != 3 {
		t.Fatalf("expected offset 3, got %d", tree.ViewportOffset)
	}
	tree.Cursor = 0
	tree.EnsureCursorVisible(2)
	if tree.ViewportOffset != 0 {
		t.Fatalf("expected offset 0, got %d", tree.ViewportOffset)
	}
	tree.ViewportOffset = 9
	tree.EnsureCursorVisible(0)
	if tree.ViewportOffset != 0 {
		t.Fatalf("expected offset reset without viewport, got %d", tree.ViewportOffset)
	}
}
