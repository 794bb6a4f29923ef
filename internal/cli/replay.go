package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/phanxgames/arbor"
	"github.com/phanxgames/arbor/internal/outline"
)

const replayStep = 1.0 / 60

func newReplayCmd() *cobra.Command {
	var (
		outPath   string
		maxFrames int
	)
	cmd := &cobra.Command{
		Use:   "replay FILE SCRIPT",
		Short: "Run a drag script against an outline without a window",
		Long: `Replay a JSON input script (press, move, release, drag, wait and snapshot
steps) against an outline and print the resulting document. Each snapshot
step prints the outline as the scene shows it at that frame.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)
			cfg := configFromContext(ctx)
			out := cmd.OutOrStdout()

			doc, err := outline.Load(args[0])
			if err != nil {
				return err
			}
			data, err := os.ReadFile(args[1])
			if err != nil {
				return fmt.Errorf("read script: %w", err)
			}
			runner, err := arbor.LoadTestScript(data)
			if err != nil {
				return err
			}

			b, err := newBoard(doc, cfg, logger)
			if err != nil {
				return err
			}
			defer b.sortable.Close()

			runner.OnSnapshot = func(label string, _ *arbor.Node) {
				fmt.Fprintf(out, "== %s\n%s", label, b.tree.FromScene())
			}
			b.scene.SetTestRunner(runner)

			prog := newProgress(logger)
			frames := 0
			for !runner.Done() {
				if frames >= maxFrames {
					return fmt.Errorf("replay: script not finished after %d frames", maxFrames)
				}
				b.scene.Step(replayStep)
				frames++
			}
			if err := b.tree.Verify(); err != nil {
				return err
			}
			prog.done(fmt.Sprintf("replayed %d frames", frames))

			fmt.Fprintf(out, "== result\n%s", doc)
			if outPath != "" {
				if err := doc.Save(outPath); err != nil {
					return err
				}
				logger.Info("written", "path", outPath)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "write the resulting document to this file")
	cmd.Flags().IntVar(&maxFrames, "max-frames", 6000, "give up after this many frames")
	cmd.Flags().Bool("nest", true, "allow changing nesting levels")
	cmd.Flags().Int("max-levels", 0, "maximum nesting depth, 0 for unlimited")
	return cmd
}
