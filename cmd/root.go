// Package cmd implements the vidplay command-line interface.
package cmd

import (
	"fmt"
	"os"
	"strings"

	cc "github.com/ivanpirog/coloredcobra"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/vidplay-cli/vidplay/color"
	"github.com/vidplay-cli/vidplay/constant"
	"github.com/vidplay-cli/vidplay/key"
	"github.com/vidplay-cli/vidplay/log"
	"github.com/vidplay-cli/vidplay/style"
	"github.com/vidplay-cli/vidplay/video"
)

func init() {
	flags := rootCmd.Flags()

	flags.BoolP("version", "v", false, "Print the application version")

	flags.String("kind", "", "Source kind: network, file, asset or video_hosting. Inferred when empty")
	lo.Must0(rootCmd.RegisterFlagCompletionFunc("kind", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return lo.Map(video.Kinds(), func(k video.Kind, _ int) string { return k.String() }), cobra.ShellCompDirectiveNoFileComp
	}))

	flags.StringP("descriptor", "d", "", "Read the video from a json, toml or yaml descriptor file")
	flags.StringSliceP("quality", "q", nil, "Quality rules, tried in order (off, =exact, ~fuzzy, @substring@)")
	flags.StringSlice("audio-rule", nil, "Audio track rules, tried in order")
	flags.StringSlice("subtitle-rule", nil, "Subtitle track rules, tried in order")
	flags.StringSliceP("subtitle", "s", nil, "Attach a subtitle file or URL")
	flags.StringSliceP("audio", "a", nil, "Attach an audio file or URL")
	flags.Duration("start", 0, "Seek to this position once playback starts, e.g. 1m30s")
	flags.Bool("pick", false, "Choose the quality interactively")
	flags.BoolP("continue", "c", false, "Resume from the saved position")

	flags.BoolP("fetch-qualities", "F", false, "Enumerate every quality of a hosted video")
	lo.Must0(viper.BindPFlag(key.HostingFetchQualities, flags.Lookup("fetch-qualities")))

	flags.Bool("allow-sleep", false, "Let the screen sleep during playback")
	lo.Must0(viper.BindPFlag(key.PlayerAllowScreenSleep, flags.Lookup("allow-sleep")))

	flags.Bool("no-auto-pause", false, "Keep playing while the player window is minimized")

	rootCmd.PersistentFlags().BoolP("write-history", "H", true, "Save the playback position for --continue")
	lo.Must0(viper.BindPFlag(key.HistorySave, rootCmd.PersistentFlags().Lookup("write-history")))
}

var rootCmd = &cobra.Command{
	Use:   constant.Vidplay + " [source]",
	Short: "Play a video from a URL, a file, an asset or a video hosting link",
	Long: style.New().Bold(true).Foreground(color.HiPurple).Render(constant.Vidplay) + "\n" +
		style.New().Italic(true).Foreground(color.HiRed).Render("    - Play any video source through mpv, with quality and track selection"),
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if cmd.Flags().Changed("version") {
			versionCmd.Run(versionCmd, args)
			return
		}

		opts, err := playOptionsFromFlags(cmd)
		handleErr(err)

		if len(args) == 0 && opts.descriptor == "" {
			handleErr(cmd.Help())
			return
		}

		CheckDependencies()
		handleErr(play(cmd.Context(), args, opts))
	},
}

// Execute runs the CLI.
func Execute() {
	if viper.GetBool(key.CliColored) {
		cc.Init(&cc.Config{
			RootCmd:       rootCmd,
			Headings:      cc.HiCyan + cc.Bold + cc.Underline,
			Commands:      cc.HiYellow + cc.Bold,
			Example:       cc.Italic,
			ExecName:      cc.Bold,
			Flags:         cc.Bold,
			FlagsDataType: cc.Italic + cc.HiBlue,
		})
	}

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func handleErr(err error) {
	if err != nil {
		log.Error(err)
		_, _ = fmt.Fprintf(os.Stderr, "%s %s\n", style.Fail, strings.Trim(err.Error(), " \n"))
		os.Exit(1)
	}
}
