package coordinator

import tea "github.com/charmbracelet/bubbletea"

// Drive runs cmd and every follow-up command on the calling goroutine,
// feeding each message back into c until nothing is left to run. Batches are
// flattened. It is meant for headless use, where no Bubble Tea program owns
// the loop; configure FeedbackTTL to zero or Drive will wait out the banner.
func Drive(c *Coordinator, cmd tea.Cmd) {
	queue := []tea.Cmd{cmd}
	for len(queue) > 0 {
		next := queue[0]
		queue = queue[1:]
		if next == nil {
			continue
		}
		switch msg := next().(type) {
		case nil:
		case tea.BatchMsg:
			queue = append(queue, msg...)
		default:
			if follow := c.Update(msg); follow != nil {
				queue = append(queue, follow)
			}
		}
	}
}
