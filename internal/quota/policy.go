package quota

// Resource types
const (
	ResourceReport = "report"
)

// ResourceDisplayName returns a user-friendly name for error messages
func ResourceDisplayName(resource string) string {
	switch resource {
	case ResourceReport:
		return "reports"
	default:
		return resource
	}
}

// Limits (defaults, can be overridden by env vars)
const (
	DefaultReportsPerMinute = 10

	// Per client address, across all of its sessions.
	DefaultClientReportsPerMinute = 30
)
