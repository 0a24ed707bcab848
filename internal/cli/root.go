package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"instafetch/internal/config"
	"instafetch/internal/version"
)

var (
	tool    string
	jsonOut bool
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:     "instafetch [url]",
	Short:   "Resolve Instagram post, reel, story, and profile links to direct media URLs",
	Version: version.Version,
	Args:    cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) == 0 {
			cmd.Help()
			return
		}

		cfg := config.LoadOrDefault()
		if !config.Exists() {
			fmt.Fprintln(os.Stderr, "\033[33mNo config file found. Run 'instafetch init' to create one.\033[0m")
		}

		if err := runExtract(cfg, args[0]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.Flags().StringVarP(&tool, "tool", "t", "", "requesting tool intent (video, photo, story, profile, ...)")
	rootCmd.Flags().BoolVar(&jsonOut, "json", false, "print the result as JSON")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log every strategy attempt")
}

func Execute() error {
	return rootCmd.Execute()
}
