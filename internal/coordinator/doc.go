// Package coordinator owns the quiz list, the confirmation gate and the
// single-flight mutation guard.
//
// A Coordinator is driven from one goroutine (the Bubble Tea Update loop or
// [Drive]). Methods that need I/O return a tea.Cmd; the command runs the
// gateway call off-loop and reports back with a message that must be passed
// to [Coordinator.Update]. Commands never touch coordinator state.
//
// # Mutation sequence
//
//	RequestTransition / RequestDeletion   gate opens
//	Confirm                               guard acquired, gateway call issued
//	MutationDoneMsg (success)             success feedback, reload issued, gate closed
//	ListLoadedMsg (after mutation)        list replaced, guard released
//
// A failed mutation sets error feedback, releases the guard and closes the
// gate in one step. The list is not reloaded.
package coordinator
