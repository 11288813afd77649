package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fdg312/nutrilog/internal/settings"
)

func newThemeCmd() *cobra.Command {
	themeCmd := &cobra.Command{Use: "theme", Short: "UI theme preference"}

	getCmd := &cobra.Command{
		Use:   "get",
		Short: "Print the stored theme",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := openSession(cmd.Context(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer sess.Close()

			resp, err := settings.NewService(sess.kv).GetOrDefault(cmd.Context())
			if err != nil {
				return err
			}
			if jsonOutput {
				return printJSON(cmd.OutOrStdout(), resp)
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), resp.Theme)
			return nil
		},
	}
	themeCmd.AddCommand(getCmd)

	setCmd := &cobra.Command{
		Use:       "set light|dark",
		Short:     "Store the theme",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{settings.ThemeLight, settings.ThemeDark},
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := openSession(cmd.Context(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer sess.Close()

			updated, err := settings.NewService(sess.kv).SetTheme(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), updated.Theme)
			return nil
		},
	}
	themeCmd.AddCommand(setCmd)

	return themeCmd
}
