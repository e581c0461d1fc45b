package feed

import "errors"

// Sentinel error kinds for this package. These allow errors.Is/As from callers.
var (
	ErrFetchFeed = errors.New("feed fetch failed")
	ErrParseFeed = errors.New("feed parse failed")
)
