// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package render

// FormatPubDate converts a compact publication date for display:
// YYYYMMDD becomes YYYY-MM-DD and YYYYMM becomes YYYY-MM. Any other length
// is returned unchanged. Length is counted in characters, not bytes.
func FormatPubDate(s string) string {
	r := []rune(s)
	switch len(r) {
	case 8:
		return string(r[:4]) + "-" + string(r[4:6]) + "-" + string(r[6:])
	case 6:
		return string(r[:4]) + "-" + string(r[4:])
	default:
		return s
	}
}
