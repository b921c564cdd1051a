package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/vidplay-cli/vidplay/color"
	"github.com/vidplay-cli/vidplay/hosting"
	"github.com/vidplay-cli/vidplay/style"
	"github.com/vidplay-cli/vidplay/util"
)

func init() {
	rootCmd.AddCommand(qualitiesCmd)
	qualitiesCmd.Flags().BoolP("json", "j", false, "Print the manifest as JSON")
}

var qualitiesCmd = &cobra.Command{
	Use:   "qualities <link>",
	Short: "List the streams available for a hosted video",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		id, err := hosting.ExtractID(args[0])
		handleErr(err)

		manifest, err := hosting.New().Manifest(cmd.Context(), id)
		handleErr(err)

		if lo.Must(cmd.Flags().GetBool("json")) {
			encoder := json.NewEncoder(cmd.OutOrStdout())
			encoder.SetIndent("", "  ")
			handleErr(encoder.Encode(manifest))
			return
		}

		printManifest(cmd.OutOrStdout(), manifest)
	},
}

func printManifest(w io.Writer, m *hosting.Manifest) {
	header := style.New().Bold(true).Foreground(color.HiPurple).Render
	faint := style.Faint

	_, _ = fmt.Fprintln(w, style.Bold(m.Title))

	section := func(name string, count int) {
		_, _ = fmt.Fprintf(w, "\n%s %s\n", header(name), faint(util.Quantify(count, "stream", "streams")))
	}

	section("Muxed", len(m.Muxed))
	for _, s := range m.Muxed {
		_, _ = fmt.Fprintf(w, "  %-8s %s\n", s.QualityLabel, faint(fmt.Sprintf("%d kbps  %s", s.Bitrate/1000, s.MimeType)))
	}

	section("Video only", len(m.VideoOnly))
	for _, s := range m.VideoOnly {
		_, _ = fmt.Fprintf(w, "  %-8s %s\n", s.QualityLabel, faint(fmt.Sprintf("%d kbps  %s", s.Bitrate/1000, s.MimeType)))
	}

	section("Audio only", len(m.AudioOnly))
	for _, s := range m.AudioOnly {
		_, _ = fmt.Fprintf(w, "  %-8s %s\n", fmt.Sprintf("%dk", s.Bitrate/1000), faint(s.MimeType))
	}
}
