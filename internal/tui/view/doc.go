// Package view renders the quiz management screen.
//
// Each component takes a small state struct and the active [styles.Styles]
// and returns a string; none of them hold state or talk to the coordinator.
// The Bubble Tea model in package tui assembles them:
//
//   - [RenderHeader] and [RenderTable]: the filtered quiz list with state badges
//   - [RenderActions]: the actions the selected quiz's state permits
//   - [RenderDialog]: the pending confirmation, disabled while a mutation runs
//   - [RenderFeedback] and [RenderNotice]: the banner and local hints
//   - [RenderDetail]: the read-only detail pane
package view
