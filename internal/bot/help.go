package bot

import _ "embed"

// helpText is the static command reference sent verbatim on `.quote help`.
//
//go:embed help.txt
var helpText string
