// Package ui contains the Bubble Tea program that browses a document tree.
// The Model focuses on message orchestration, while dedicated helpers own
// navigation, the jump prompt, rendering and side-effecting commands.
//
// Message flow:
//   - Bubble Tea invokes Model.Update with incoming messages, which are routed
//     through a typed handler registry so each tea.Msg is handled by a focused
//     function.
//   - A tickMsg runs one poll cycle through docview.View.Tick and arms the next
//     tick only after the current one finished, so polls never overlap.
//   - Selection changes published by the shared state.Session arrive through
//     a waiting command and are applied to the tree by
//     docview.View.ApplySelectedNode.
//   - Cursor moves, clicks and jumps go the other way: the widget selection is
//     written to the session through docview.View.SelectNode.
//
// State ownership:
//   - Tree widget state (rows, cursor, viewport) lives in
//     internal/ui/state.Tree.
//   - The selected path and the column template belong to internal/state and
//     outlive the model.
//   - Clipboard writes run off the update goroutine via the command bus in
//     internal/ui/command.
package ui
