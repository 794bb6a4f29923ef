package cli

import (
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/tanema/gween/ease"

	"github.com/phanxgames/arbor"
	"github.com/phanxgames/arbor/internal/outline"
)

const boardMargin = 16

func newViewCmd() *cobra.Command {
	var write bool
	cmd := &cobra.Command{
		Use:   "view FILE",
		Short: "Edit an outline in a window",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)
			cfg := configFromContext(ctx)
			path := args[0]

			doc, err := outline.Load(path)
			if err != nil {
				return err
			}
			b, err := newBoard(doc, cfg, logger)
			if err != nil {
				return err
			}
			defer b.sortable.Close()

			err = arbor.Run(b.scene, arbor.RunConfig{
				Title:     "arbor - " + filepath.Base(path),
				Width:     cfg.Window.Width,
				Height:    cfg.Window.Height,
				ShowFPS:   cfg.Window.ShowFPS,
				Resizable: true,
			})
			if err != nil {
				return err
			}
			if write {
				if err := doc.Save(path); err != nil {
					return err
				}
				logger.Info("written", "path", path)
			}
			return nil
		},
	}
	cmd.Flags().BoolVarP(&write, "write", "w", false, "write the document back when the window closes")
	cmd.Flags().Int("width", 640, "window width")
	cmd.Flags().Int("height", 480, "window height")
	cmd.Flags().Bool("fps", false, "show the frame rate")
	cmd.Flags().Bool("nest", true, "allow changing nesting levels")
	cmd.Flags().Int("max-levels", 0, "maximum nesting depth, 0 for unlimited")
	return cmd
}

// autoScroll is how long the camera takes to bring the placeholder into view.
const autoScroll = 0.2

// board is an outline tree hosted in a scene with a sortable bound to it.
// The camera scrolls to keep the placeholder visible while dragging.
type board struct {
	tree     *outline.Tree
	scene    *arbor.Scene
	camera   *arbor.Camera
	sortable *arbor.Sortable
}

func newBoard(doc *outline.Document, cfg Config, logger *log.Logger) (*board, error) {
	tree := outline.Build(doc, outline.DefaultStyle())
	tree.Root.SetPosition(boardMargin, boardMargin)

	scene := arbor.NewScene()
	scene.SetLogger(logger)
	scene.ClearColor = arbor.Color{R: 0.07, G: 0.07, B: 0.1, A: 1}
	scene.Root().AddChild(tree.Root)
	cam := scene.NewCamera(arbor.Rect{Width: float64(cfg.Window.Width), Height: float64(cfg.Window.Height)})
	cam.AlignOrigin()

	opts, err := tree.SortableOptions(cfg.Sortable, logger)
	if err != nil {
		return nil, err
	}
	opts.OnMove = func(ev arbor.MoveEvent) {
		cam.ScrollIntoView(ev.Placeholder, autoScroll, ease.OutQuad)
	}
	sortable, err := scene.NewSortable(opts)
	if err != nil {
		return nil, err
	}
	return &board{tree: tree, scene: scene, camera: cam, sortable: sortable}, nil
}
