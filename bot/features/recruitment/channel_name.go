package recruitment

import (
	"strings"

	"xenory/bot/common"
)

const maxChannelNameLength = 100

// ApplicationChannelName derives the application channel name for a username
func ApplicationChannelName(username string) string {
	var b strings.Builder
	lastDash := false
	for _, r := range strings.ToLower(username) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '_':
			b.WriteRune(r)
			lastDash = false
		default:
			// '-' and anything unsupported collapse into a single dash
			if !lastDash {
				b.WriteRune('-')
				lastDash = true
			}
		}
	}

	slug := strings.Trim(b.String(), "-")
	if slug == "" {
		slug = "applicant"
	}

	name := common.ApplicationChannelPrefix + slug
	if len(name) > maxChannelNameLength {
		name = strings.TrimRight(name[:maxChannelNameLength], "-")
	}
	return name
}

// IsApplicationChannel reports whether a channel name belongs to an application channel
func IsApplicationChannel(name string) bool {
	return strings.HasPrefix(name, common.ApplicationChannelPrefix)
}
