package validator

import "unicode/utf8"

// MaxRunes counts characters, not bytes, so accented names are not penalised.
func MaxRunes(value string, n int) bool {
	return utf8.RuneCountInString(value) <= n
}
