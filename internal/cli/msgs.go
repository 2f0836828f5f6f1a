package cli

import (
	_ "embed"
	"strings"
)

// Short messages (one-liners)
const (
	// Command descriptions
	MsgRootShort       = "Prefix and relocate Composer dependencies"
	MsgComposeShort    = "Relocate and prefix the configured packages"
	MsgListShort       = "List the packages compose would relocate"
	MsgConfigShort     = "Print the effective configuration"
	MsgVersionShort    = "Print version information"
	MsgVersionLong     = "Print detailed version information including commit hash and build date"
	MsgCompletionShort = "Generate shell completion script"

	// Version output
	MsgVersionFormat = "mozart version %s\n"
	MsgCommitFormat  = "Commit: %s\n"
	MsgBuiltFormat   = "Built:  %s\n"

	// Error messages
	MsgErrWorkingDir = "could not determine working directory"

	// Flag descriptions
	MsgFlagVerbose      = "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)"
	MsgFlagWorkingDir   = "Project directory holding composer.json (default is the current directory)"
	MsgFlagConfig       = "Extra configuration file layered over composer.json"
	MsgFlagNoEnv        = "Ignore MOZART_* environment variables"
	MsgFlagFormat       = "Output format (auto, term, text, json, yaml)"
	MsgFlagConfigFormat = "Output format (toml, json, yaml)"
	MsgFlagTemplate     = "Print a commented .mozart.toml template"
)

// Long messages from embedded files
var (
	//go:embed msgs/root-long.txt
	msgRootLongRaw string
	MsgRootLong    = strings.TrimSpace(msgRootLongRaw)

	//go:embed msgs/compose-long.txt
	msgComposeLongRaw string
	MsgComposeLong    = strings.TrimSpace(msgComposeLongRaw)

	//go:embed msgs/compose-example.txt
	msgComposeExampleRaw string
	MsgComposeExample    = strings.TrimRight(msgComposeExampleRaw, "\n")

	//go:embed msgs/list-example.txt
	msgListExampleRaw string
	MsgListExample    = strings.TrimRight(msgListExampleRaw, "\n")

	//go:embed msgs/config-long.txt
	msgConfigLongRaw string
	MsgConfigLong    = strings.TrimSpace(msgConfigLongRaw)

	//go:embed msgs/completion-long.txt
	msgCompletionLongRaw string
	MsgCompletionLong    = strings.TrimSpace(msgCompletionLongRaw)
)
