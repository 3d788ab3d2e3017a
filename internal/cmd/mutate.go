package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Iron-Ham/quizdesk/internal/coordinator"
	"github.com/Iron-Ham/quizdesk/internal/errors"
	"github.com/Iron-Ham/quizdesk/internal/lifecycle"
)

var (
	publishYes bool
	deleteYes  bool
)

var publishCmd = &cobra.Command{
	Use:   "publish <quiz-id>",
	Short: "Publish a draft quiz",
	Long: `Publish a draft quiz so students can see it.

Published quizzes cannot be edited. You are asked to confirm unless
--yes is given.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMutation(cmd, args[0], publishYes, func(c *coordinator.Coordinator) error {
			return c.RequestTransition(args[0], lifecycle.Published)
		})
	},
}

var deleteCmd = &cobra.Command{
	Use:   "delete <quiz-id>",
	Short: "Delete a draft or closed quiz",
	Long: `Delete a draft or closed quiz permanently.

Published quizzes cannot be deleted. You are asked to confirm unless
--yes is given.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMutation(cmd, args[0], deleteYes, func(c *coordinator.Coordinator) error {
			return c.RequestDeletion(args[0])
		})
	},
}

func init() {
	rootCmd.AddCommand(publishCmd)
	rootCmd.AddCommand(deleteCmd)
	publishCmd.Flags().BoolVarP(&publishYes, "yes", "y", false, "skip the confirmation prompt")
	deleteCmd.Flags().BoolVarP(&deleteYes, "yes", "y", false, "skip the confirmation prompt")
}

// runMutation drives the same request/confirm pipeline as the interactive
// screen, with the terminal prompt standing in for the dialog.
func runMutation(cmd *cobra.Command, id string, assumeYes bool, request func(*coordinator.Coordinator) error) error {
	rt, err := loadRuntime()
	if err != nil {
		return err
	}
	defer func() { _ = rt.Close() }()

	if err := rt.checkAccess(); err != nil {
		return err
	}

	// Zero FeedbackTTL: Drive must not block on a banner timer.
	coord := coordinator.New(rt.gateway, coordinator.Options{Logger: rt.logger})
	coordinator.Drive(coord, coord.LoadEntities())
	if fb := coord.Snapshot().Feedback; fb.IsError() {
		return errors.New(fb.Message)
	}

	if err := request(coord); err != nil {
		return err
	}
	pending := coord.Snapshot().Pending
	if pending == nil {
		return fmt.Errorf("no confirmation opened for quiz %s", id)
	}

	ok, err := promptConfirm(cmd.InOrStdin(), cmd.OutOrStdout(), *pending, assumeYes)
	if err != nil || !ok {
		_ = coord.Cancel()
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Cancelled.")
		return nil
	}

	coordinator.Drive(coord, coord.Confirm())
	fb := coord.Snapshot().Feedback
	if fb.IsError() {
		return errors.New(fb.Message)
	}
	fmt.Fprintln(cmd.OutOrStdout(), fb.Message)
	return nil
}
