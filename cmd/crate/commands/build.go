package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/crate/internal/app"
)

func (c *CLI) newBuildCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build [platforms...]",
		Short: "Build the package for the given platforms, or for every configured one",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			release, _ := cmd.Flags().GetBool("release")
			noCache, _ := cmd.Flags().GetBool("no-cache")
			jobs, _ := cmd.Flags().GetInt("jobs")
			return c.app.Build(cmd.Context(), projectDir(cmd), app.BuildOptions{
				Platforms:   args,
				Release:     release,
				NoCache:     noCache,
				Parallelism: jobs,
			})
		},
	}
	cmd.Flags().BoolP("release", "r", false, "Build with the release profile")
	cmd.Flags().BoolP("no-cache", "n", false, "Bypass the build cache and force execution")
	cmd.Flags().IntP("jobs", "j", 0, "Maximum number of platforms built at once (0 means one per CPU)")
	return cmd
}
