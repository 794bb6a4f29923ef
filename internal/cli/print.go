package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/phanxgames/arbor/internal/outline"
)

func newPrintCmd() *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "print FILE",
		Short: "Print an outline document",
		Long:  `Print an outline as an indented list (text), or re-encode it as yaml or toml. Missing ids are filled in with UUIDs.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := outline.Load(args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			switch format {
			case "text", "":
				_, err = fmt.Fprint(out, doc.String())
				return err
			default:
				return doc.Encode(out, format)
			}
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "text", "output format: text, yaml or toml")
	return cmd
}
