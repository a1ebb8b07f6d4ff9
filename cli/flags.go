package cli

var (
	verbose    bool
	configPath string
	ephemeral  bool

	// for commands that can print a rendered view instead of json
	pretty bool

	// for swipe and gesture commands
	threshold float64
	dryRun    bool

	// for votes command
	remoteVotes bool

	// for auth key command
	revealKey bool
)
