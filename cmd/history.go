package cmd

import (
	"fmt"
	"sort"
	"time"

	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/vidplay-cli/vidplay/color"
	"github.com/vidplay-cli/vidplay/history"
	"github.com/vidplay-cli/vidplay/style"
)

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().StringP("remove", "r", "", "Forget the saved position of the given source")
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List saved playback positions",
	Run: func(cmd *cobra.Command, args []string) {
		if source := lo.Must(cmd.Flags().GetString("remove")); source != "" {
			handleErr(history.Remove(source))
			fmt.Printf("%s %s forgotten\n", style.Success, source)
			return
		}

		saved, err := history.All()
		handleErr(err)

		entries := lo.Values(saved)
		sort.Slice(entries, func(i, j int) bool {
			return entries[i].UpdatedAt.After(entries[j].UpdatedAt)
		})

		for _, e := range entries {
			fmt.Printf(
				"%s %s %s\n",
				style.Fg(color.Purple)(e.Key),
				e.Position.Truncate(time.Second),
				style.Faint(fmt.Sprintf("/ %s (%.0f%%)", e.Duration.Truncate(time.Second), e.Progress()*100)),
			)
		}
	},
}
