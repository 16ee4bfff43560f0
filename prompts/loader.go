package prompts

import (
	_ "embed"
)

// Report takes the cadence word, the keyword and the newline-joined URLs.
//
//go:embed report.txt
var Report string

//go:embed system.txt
var System string
