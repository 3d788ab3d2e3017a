package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/Iron-Ham/quizdesk/internal/confirm"
	"github.com/Iron-Ham/quizdesk/internal/errors"
)

// errNotInteractive is returned when a confirmation is needed but stdin is
// not a terminal.
var errNotInteractive = errors.New("confirmation required: stdin is not a terminal, pass --yes to proceed")

// isTerminal reports whether r is an interactive terminal. Tests replace it.
var isTerminal = func(r io.Reader) bool {
	f, ok := r.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// promptConfirm asks the user to acknowledge req on the terminal. assumeYes
// skips the prompt.
func promptConfirm(in io.Reader, out io.Writer, req confirm.Request, assumeYes bool) (bool, error) {
	if assumeYes {
		return true, nil
	}
	if !isTerminal(in) {
		return false, errNotInteractive
	}

	fmt.Fprintf(out, "%s\n%s\n", req.Title, req.Message)
	if req.Destructive {
		fmt.Fprint(out, "Type \"yes\" to confirm: ")
	} else {
		fmt.Fprint(out, "Proceed? [y/N]: ")
	}

	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && line == "" {
		return false, nil
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	if req.Destructive {
		return answer == "yes", nil
	}
	return answer == "y" || answer == "yes", nil
}
