package botforge

import (
	_ "embed"
	"strings"
)

//go:embed VERSION
var rawVersion string

// Version is the release of the generator. It is part of every cache key, so
// a new release never serves programs produced by an older one.
var Version = strings.TrimSpace(rawVersion)
