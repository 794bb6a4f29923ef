package cli

import (
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/phanxgames/arbor/internal/outline"
	"github.com/phanxgames/arbor/internal/tui"
)

func newTUICmd() *cobra.Command {
	var logPath string
	cmd := &cobra.Command{
		Use:   "tui FILE",
		Short: "Edit an outline in the terminal",
		Long:  `Edit an outline with the mouse in the terminal. Press w to write the document back, esc to cancel a drag and q to quit.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg := configFromContext(ctx)
			path := args[0]

			doc, err := outline.Load(path)
			if err != nil {
				return err
			}

			// The terminal belongs to the program, so logs go to a file or nowhere.
			var w io.Writer = io.Discard
			if logPath != "" {
				f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
				if err != nil {
					return fmt.Errorf("open log: %w", err)
				}
				defer f.Close()
				w = f
			}
			logger := newLogger(w, loggerFromContext(ctx).GetLevel())

			model, err := tui.New(tui.Options{
				Doc:    doc,
				Config: cfg.Sortable,
				Logger: logger,
				Save:   func(d *outline.Document) error { return d.Save(path) },
			})
			if err != nil {
				return err
			}
			defer model.Sortable().Close()

			p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseAllMotion(), tea.WithContext(ctx))
			if _, err := p.Run(); err != nil {
				return fmt.Errorf("tui: %w", err)
			}
			logger.Info("closed", "path", path)
			return nil
		},
	}
	cmd.Flags().StringVar(&logPath, "log", "", "append logs to this file")
	cmd.Flags().Bool("nest", true, "allow changing nesting levels")
	cmd.Flags().Int("max-levels", 0, "maximum nesting depth, 0 for unlimited")
	return cmd
}
