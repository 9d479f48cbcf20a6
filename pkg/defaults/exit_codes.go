package defaults

// ============================================================================
// EXIT CODES
// ============================================================================
//
// Use these for os.Exit() so operators can script around failures.
// ============================================================================

const (
	// ExitOK is a clean shutdown (0).
	ExitOK = 0

	// ExitError is a generic runtime failure (1).
	ExitError = 1

	// ExitConfig is an invalid or incomplete configuration (2).
	ExitConfig = 2

	// ExitTransport is a transport startup/connect failure (3).
	ExitTransport = 3
)
