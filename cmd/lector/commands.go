package main

import (
	"github.com/spf13/cobra"

	"lector/internal/driver"
)

var checkCmd = &cobra.Command{
	Use:   "check [flags] [path...]",
	Short: "Report spelling mistakes in comments and markdown",
	Long: `Report spelling mistakes in doc comments and markdown files. Directories
are searched for .rs and .md files; with no path the working directory is checked.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runLector(cmd, args, driver.ModeCheck)
	},
}

var fixCmd = &cobra.Command{
	Use:   "fix [flags] [path...]",
	Short: "Apply the first suggestion of every finding",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runLector(cmd, args, driver.ModeFix)
	},
}

var reflowCmd = &cobra.Command{
	Use:   "reflow [flags] [path...]",
	Short: "Rewrap comment paragraphs to the configured width",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runLector(cmd, args, driver.ModeReflow)
	},
}

func init() {
	for _, c := range []*cobra.Command{checkCmd, fixCmd, reflowCmd} {
		c.Flags().Bool("dev-comments", false, "also check plain // and /* */ comments")
	}
	for _, c := range []*cobra.Command{checkCmd, fixCmd} {
		c.Flags().StringSlice("checkers", nil, "checkers to run, overriding the config (wordlist,repeat,dummy)")
		c.Flags().Bool("no-cache", false, "do not read or write the result cache")
		c.Flags().Bool("clear-cache", false, "drop cached checker results before the run")
	}
	for _, c := range []*cobra.Command{fixCmd, reflowCmd} {
		c.Flags().Bool("dry-run", false, "list the patches without writing files")
	}
	reflowCmd.Flags().Int("max-width", 0, "maximum comment line width (0=config)")
}
