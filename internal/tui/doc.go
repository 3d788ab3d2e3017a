// Package tui is the interactive quiz management screen.
//
// [Model] is a thin Bubble Tea adapter over a [coordinator.Coordinator]:
// key presses become coordinator intents (request, confirm, cancel, dismiss,
// refresh), coordinator commands run on the Bubble Tea scheduler, and every
// frame is rendered from a fresh coordinator snapshot by package view.
// Selection, the state filter and the detail pane are the only state the
// model keeps itself.
//
// When the store is a local SQLite file, a [Watcher] reloads the list after
// edits made by other processes.
package tui
