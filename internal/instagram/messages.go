package instagram

// MessageFor returns the user-facing explanation for an exhausted search,
// worded for the caller's tool intent. Raw upstream errors never reach the
// user; this is the only text that crosses the boundary.
func MessageFor(tool string) string {
	switch tool {
	case "story", "stories":
		return "This story could not be retrieved. It may have expired or the account may be private."
	case "profile", "profile-picture", "dp":
		return "Could not find a profile picture for this account. Check the username and try again."
	case "private":
		return "Private content is not supported. Only public posts can be downloaded."
	default:
		return "Could not locate downloadable media at this link. The post may be private, removed, or temporarily unavailable."
	}
}

// RetryLaterMessage is the generic wording for unexpected internal failures.
const RetryLaterMessage = "Something went wrong on our side. Please try again in a moment."
