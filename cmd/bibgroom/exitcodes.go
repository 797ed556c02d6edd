package main

// Exit codes shared by all subcommands.
const (
	ExitSuccess     = 0 // Success (advisory findings included)
	ExitError       = 1 // General error (invalid arguments, runtime failure)
	ExitConfigError = 2 // Configuration error (bad config, duplicate templates)
	ExitDataError   = 3 // Data error (malformed bib input)
)
