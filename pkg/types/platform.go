package domain

import "strings"

// platformKeywords is the canonical platform vocabulary, in match-priority
// order. Inference takes the first keyword found as a substring of the
// title, so more specific tokens come before generic ones.
var platformKeywords = []string{
	"ps1", "ps2", "ps3", "ps4", "ps5", "playstation",
	"xbox", "nintendo 64", "n64", "snes", "super nintendo", "nes",
	"switch", "wii", "gamecube", "game boy", "gameboy", "3ds", "ds",
	"genesis", "dreamcast", "saturn", "sega",
}

// PlatformKeywords returns the canonical platform vocabulary.
func PlatformKeywords() []string {
	out := make([]string, len(platformKeywords))
	copy(out, platformKeywords)
	return out
}

// InferPlatform heuristically assigns a platform tag by scanning the title
// for known platform keywords. The first keyword matched wins; an empty
// string means no keyword was found.
func InferPlatform(title string) string {
	lower := strings.ToLower(title)
	for _, kw := range platformKeywords {
		if strings.Contains(lower, kw) {
			return kw
		}
	}
	return ""
}
