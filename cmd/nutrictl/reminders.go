package main

import (
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/fdg312/nutrilog/internal/reminders"
)

func newRemindersCmd() *cobra.Command {
	remindersCmd := &cobra.Command{Use: "reminders", Short: "Reminder operations"}

	// list
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List reminders in insertion order",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := openSession(cmd.Context(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer sess.Close()

			items := reminders.NewService(sess.store).List(cmd.Context())
			if jsonOutput {
				return printJSON(cmd.OutOrStdout(), items)
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tTIME\tACTIVE\tTITLE")
			for _, r := range items {
				fmt.Fprintf(tw, "%s\t%s\t%t\t%s\n", r.ID, r.Time, r.Active, r.Title)
			}
			return tw.Flush()
		},
	}
	remindersCmd.AddCommand(listCmd)

	// add
	var title, at string
	addCmd := &cobra.Command{
		Use:   "add",
		Short: "Add an active reminder",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := openSession(cmd.Context(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer sess.Close()

			created, err := reminders.NewService(sess.store).Create(cmd.Context(), title, at)
			if err != nil {
				return err
			}
			if jsonOutput {
				return printJSON(cmd.OutOrStdout(), created)
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), created.ID)
			return nil
		},
	}
	addCmd.Flags().StringVarP(&title, "title", "t", "", "Reminder title (required)")
	addCmd.Flags().StringVar(&at, "at", "", "Time of day, HH:MM (required)")
	_ = addCmd.MarkFlagRequired("title")
	_ = addCmd.MarkFlagRequired("at")
	remindersCmd.AddCommand(addCmd)

	// toggle
	toggleCmd := &cobra.Command{
		Use:   "toggle REMINDER_ID",
		Short: "Flip a reminder on or off (unknown ids are left unchanged)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := openSession(cmd.Context(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer sess.Close()

			updated, err := reminders.NewService(sess.store).Toggle(cmd.Context(), args[0])
			if errors.Is(err, reminders.ErrNotFound) {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s not found, unchanged\n", args[0])
				return nil
			}
			if err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}
			if jsonOutput {
				return printJSON(cmd.OutOrStdout(), updated)
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s active=%t\n", updated.ID, updated.Active)
			return nil
		},
	}
	remindersCmd.AddCommand(toggleCmd)

	// delete
	deleteCmd := &cobra.Command{
		Use:   "delete REMINDER_ID",
		Short: "Delete a reminder (unknown ids are ignored)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := openSession(cmd.Context(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer sess.Close()

			reminders.NewService(sess.store).Delete(cmd.Context(), args[0])
			return nil
		},
	}
	remindersCmd.AddCommand(deleteCmd)

	return remindersCmd
}
