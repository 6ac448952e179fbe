package importer

// State is a step of the import workflow.
type State string

const (
	StateAwaitingInput State = "awaiting-input"
	StateValidating    State = "validating"
	StateCalling       State = "calling"
	StatePersisting    State = "persisting"
	StateDone          State = "done"
	StateError         State = "error"
)

// Status is the outcome code reported to the admin surface.
type Status string

const (
	StatusNoURL                Status = "no-url"
	StatusBadURL               Status = "bad-url"
	StatusInvalidKey           Status = "invalid-key"
	StatusBadKey               Status = "bad-key"
	StatusNoPrivs              Status = "no-privs"
	StatusCreatePostFailed     Status = "create-post-failed"
	StatusCreatePostSuccessful Status = "create-post-successful"
)

var messages = map[Status]string{
	StatusNoURL:                "No product URL was provided.",
	StatusBadURL:               "The product URL is not a valid http(s) URL.",
	StatusInvalidKey:           "The provided API key is invalid.",
	StatusBadKey:               "The Diffbot API token stored in the settings is not valid, or Diffbot could not extract the page.",
	StatusNoPrivs:              "You do not have permission to import products.",
	StatusCreatePostFailed:     "Unable to create a new Product post from the returned Diffbot data.",
	StatusCreatePostSuccessful: "New Product post created successfully.",
}

// Message returns the human-readable notice for s.
func Message(s Status) string {
	return messages[s]
}

// Notice is "updated" for success and "error" for everything else, matching
// the two notice styles the admin UI renders.
func Notice(s Status) string {
	if s == StatusCreatePostSuccessful {
		return "updated"
	}
	return "error"
}

// ParseStatus recognizes the fixed status enumeration.
func ParseStatus(s string) (Status, bool) {
	st := Status(s)
	_, ok := messages[st]
	return st, ok
}
