// Package strutil provides small string conversion helpers for query parameters.
package strutil

import "strconv"

// ConvertToInt parses s as an int.
func ConvertToInt(s string) (int, error) {
	return strconv.Atoi(s)
}

// ConvertToInt64 parses s as an int64.
func ConvertToInt64(s string) (int64, error) {
	return strconv.ParseInt(s, 10, 64)
}
