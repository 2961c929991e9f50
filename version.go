package analysistools

import (
	_ "embed"
	"strings"
)

//go:embed VERSION
var rawVersion string

// Version is the release version of the module.
var Version = strings.TrimSpace(rawVersion)
