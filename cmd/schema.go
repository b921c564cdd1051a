package cmd

import (
	"encoding/json"

	"github.com/spf13/cobra"
	"github.com/vidplay-cli/vidplay/video"
)

func init() {
	rootCmd.AddCommand(schemaCmd)
}

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the JSON schema of descriptor files",
	Run: func(cmd *cobra.Command, args []string) {
		encoder := json.NewEncoder(cmd.OutOrStdout())
		encoder.SetIndent("", "  ")
		handleErr(encoder.Encode(video.Schema()))
	},
}
