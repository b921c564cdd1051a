// Package hosting talks to the video hosting service: it extracts canonical video
// identifiers from links and fetches stream manifests for them.
package hosting

import (
	"errors"
	"regexp"
	"strings"

	"github.com/vidplay-cli/vidplay/constant"
	"github.com/vidplay-cli/vidplay/util"
)

// ErrNoVideoID is returned when no 11-character identifier can be found.
var ErrNoVideoID = errors.New("no video id found")

var (
	validID = regexp.MustCompile(`^[A-Za-z0-9_-]{11}$`)

	// Handles youtu.be/<id>, /v/<id>, /u/<n>/<id>, /embed/<id>, /shorts/<id>, /live/<id>,
	// watch?v=<id> and v=<id> following another query parameter or a #! fragment.
	idInURL = regexp.MustCompile(`(?:youtu\.be/|/v/|/u/\w+/|/embed/|/shorts/|/live/|watch\?v=|[&?!]v=)(?P<id>[^#&?/]*)`)
)

// ExtractID returns the canonical identifier for a raw id or a hosting URL.
func ExtractID(s string) (string, error) {
	s = strings.TrimSpace(s)
	if validID.MatchString(s) {
		return s, nil
	}

	id := util.ReGroups(idInURL, s)["id"]
	if len(id) != constant.HostingIDLength || !validID.MatchString(id) {
		return "", ErrNoVideoID
	}
	return id, nil
}

// WatchURL returns the canonical watch page for id.
func WatchURL(id string) string {
	return "https://www.youtube.com/watch?v=" + id
}
