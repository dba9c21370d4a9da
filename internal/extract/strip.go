package extract

import "strings"

// StripPrefix removes prefix from s when s starts with it and has
// something after it. A string equal to the prefix is returned unchanged.
//
//	StripPrefix("ffh264", "ff") == "h264"
//	StripPrefix("h264", "ff")   == "h264"
//	StripPrefix("ff", "ff")     == "ff"
func StripPrefix(s, prefix string) string {
	if len(s) > len(prefix) && strings.HasPrefix(s, prefix) {
		return s[len(prefix):]
	}
	return s
}
