// Package video defines the declarative description of a playable video: one or more
// labeled renditions, each pointing at a source of a given kind, plus auxiliary tracks.
package video

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

// Kind determines how a Source locator is interpreted.
type Kind string

const (
	Network      Kind = "network"
	File         Kind = "file"
	Asset        Kind = "asset"
	VideoHosting Kind = "video_hosting"
)

// Kinds lists every known kind in display order.
func Kinds() []Kind {
	return []Kind{Network, File, Asset, VideoHosting}
}

// Valid reports whether k is one of the known kinds.
func (k Kind) Valid() bool {
	switch k {
	case Network, File, Asset, VideoHosting:
		return true
	default:
		return false
	}
}

func (k Kind) String() string {
	return string(k)
}

// ParseKind accepts the canonical names case-insensitively plus a few aliases.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "network", "url", "http":
		return Network, nil
	case "file", "local":
		return File, nil
	case "asset":
		return Asset, nil
	case "video_hosting", "videohosting", "hosting", "youtube":
		return VideoHosting, nil
	default:
		return "", fmt.Errorf("unknown source kind %q", s)
	}
}

var (
	hostingHosts = []string{"youtube.com", "youtu.be", "youtube-nocookie.com"}
	rawHostingID = regexp.MustCompile(`^[A-Za-z0-9_-]{11}$`)
)

// InferKind guesses the kind of a bare locator given on the command line.
// Hosting URLs and raw 11-character identifiers are VideoHosting, other http(s)
// URLs are Network, and anything else is treated as a File path.
func InferKind(source string) Kind {
	s := strings.TrimSpace(source)

	lower := strings.ToLower(s)
	for _, h := range hostingHosts {
		if strings.HasPrefix(lower, h+"/") || strings.HasPrefix(lower, "www."+h+"/") || strings.HasPrefix(lower, "m."+h+"/") {
			return VideoHosting
		}
	}

	if u, err := url.Parse(s); err == nil && u.Host != "" {
		host := strings.ToLower(u.Hostname())
		for _, h := range hostingHosts {
			if host == h || strings.HasSuffix(host, "."+h) {
				return VideoHosting
			}
		}
		if u.Scheme == "http" || u.Scheme == "https" {
			return Network
		}
	}

	if rawHostingID.MatchString(s) && !strings.Contains(s, ".") {
		return VideoHosting
	}

	return File
}
