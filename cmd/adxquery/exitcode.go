package main

import (
	"errors"

	"adxquery/filter"
	"adxquery/snapshot"
)

// Exit codes per the core's documented convention: 0 match-with-results,
// 1 no-matches, 2 usage/parse error, 3 snapshot I/O or corruption.
// exitCodeFor maps only filter parse errors to 2; command-line usage
// errors reported by cobra (wrong argument count, unknown flags) are not
// told apart from other failures and exit with 3.
const (
	exitMatched    = 0
	exitNoMatches  = 1
	exitUsageError = 2
	exitIOError    = 3
)

func exitCodeFor(err error) int {
	if err == nil {
		return exitMatched
	}
	var parseErr *filter.ParseError
	if errors.As(err, &parseErr) {
		return exitUsageError
	}
	var corrupt *snapshot.CorruptSnapshot
	if errors.As(err, &corrupt) {
		return exitIOError
	}
	var unsupported *snapshot.UnsupportedVersion
	if errors.As(err, &unsupported) {
		return exitIOError
	}
	var noMatches *noMatchesError
	if errors.As(err, &noMatches) {
		return exitNoMatches
	}
	return exitIOError
}
