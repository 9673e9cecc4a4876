package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var (
		addr    string
		timeout time.Duration
	)

	client := func() *apiClient { return newAPIClient(addr, nil) }
	withTimeout := func(cmd *cobra.Command) (context.Context, context.CancelFunc) {
		return context.WithTimeout(cmd.Context(), timeout)
	}

	root := &cobra.Command{
		Use:           "todo-client",
		Short:         "Command line client for the todo REST API",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&addr, "addr", "http://localhost:3001", "REST API base URL")
	root.PersistentFlags().DurationVar(&timeout, "timeout", 3*time.Second, "request timeout")

	root.AddCommand(&cobra.Command{
		Use:   "ping",
		Short: "Check that the server is reachable",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := withTimeout(cmd)
			defer cancel()

			msg, err := client().Ping(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), msg)
			return nil
		},
	})

	root.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List todos, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := withTimeout(cmd)
			defer cancel()

			todos, err := client().List(ctx)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(todos) == 0 {
				fmt.Fprintln(out, "no todos")
				return nil
			}
			fmt.Fprintln(out, "todos:")
			for _, t := range todos {
				fmt.Fprintf(out, "- id=%s text=%s completed=%v\n", t.ID, t.Text, t.Completed)
			}
			return nil
		},
	})

	var createText string
	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Create a todo",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := withTimeout(cmd)
			defer cancel()

			t, err := client().Create(ctx, createText)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created: id=%s text=%s completed=%v\n", t.ID, t.Text, t.Completed)
			return nil
		},
	}
	createCmd.Flags().StringVar(&createText, "text", "", "todo text")
	root.AddCommand(createCmd)

	var (
		updateText      string
		updateCompleted bool
	)
	updateCmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update the given fields of a todo",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := withTimeout(cmd)
			defer cancel()

			// フラグが明示されたものだけ送る
			var text *string
			var completed *bool
			if cmd.Flags().Changed("text") {
				text = &updateText
			}
			if cmd.Flags().Changed("completed") {
				completed = &updateCompleted
			}

			t, err := client().Update(ctx, args[0], text, completed)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "updated: id=%s text=%s completed=%v\n", t.ID, t.Text, t.Completed)
			return nil
		},
	}
	updateCmd.Flags().StringVar(&updateText, "text", "", "new text")
	updateCmd.Flags().BoolVar(&updateCompleted, "completed", false, "completed flag")
	root.AddCommand(updateCmd)

	root.AddCommand(&cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a todo",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := withTimeout(cmd)
			defer cancel()

			msg, err := client().Delete(ctx, args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "delete result: %s\n", msg)
			return nil
		},
	})

	return root
}
