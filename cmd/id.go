package cmd

import (
	"github.com/spf13/cobra"
	"github.com/vidplay-cli/vidplay/hosting"
	"github.com/vidplay-cli/vidplay/open"
)

func init() {
	rootCmd.AddCommand(idCmd)
	idCmd.Flags().BoolP("url", "u", false, "Print the canonical watch URL instead of the id")
	idCmd.Flags().BoolP("open", "o", false, "Open the watch URL in the default browser")
}

var idCmd = &cobra.Command{
	Use:     "id <link>",
	Short:   "Extract the video id from a video hosting link",
	Example: "  vidplay id https://youtu.be/rWbo_sJSZJ0",
	Args:    cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		id, err := hosting.ExtractID(args[0])
		handleErr(err)

		if browse, _ := cmd.Flags().GetBool("open"); browse {
			handleErr(open.Start(hosting.WatchURL(id)))
			return
		}

		if asURL, _ := cmd.Flags().GetBool("url"); asURL {
			cmd.Println(hosting.WatchURL(id))
			return
		}
		cmd.Println(id)
	},
}
