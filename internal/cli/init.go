package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"instafetch/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create instafetch config file",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.Init(); err != nil {
			return err
		}
		path, _ := config.ConfigPath()
		fmt.Printf("Saved %s\n", path)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
