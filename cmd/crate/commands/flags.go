package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func (c *CLI) newFlagsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "flags <platform>",
		Short: "Show the command, flags and inputs of a platform's build without running it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			release, _ := cmd.Flags().GetBool("release")
			report, err := c.app.Flags(cmd.Context(), projectDir(cmd), args[0], release)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(out, "node:     %s\n", report.Node)
			_, _ = fmt.Fprintf(out, "command:  %s\n", strings.Join(report.Command, " "))
			_, _ = fmt.Fprintf(out, "env:      %s\n", report.Flags.Env())
			_, _ = fmt.Fprintf(out, "artifact: %s\n", report.Artifact)
			_, _ = fmt.Fprintf(out, "output:   %s\n", report.Output)
			if report.MapFile != "" {
				_, _ = fmt.Fprintf(out, "map:      %s\n", report.MapFile)
			}
			_, _ = fmt.Fprintln(out, "inputs:")
			for _, in := range report.Inputs {
				_, _ = fmt.Fprintf(out, "  %s\n", in)
			}
			return nil
		},
	}
	cmd.Flags().BoolP("release", "r", false, "Use the release profile")
	return cmd
}
