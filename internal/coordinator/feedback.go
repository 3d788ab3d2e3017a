package coordinator

// FeedbackKind tells success banners from error banners.
type FeedbackKind int

const (
	FeedbackNone FeedbackKind = iota
	FeedbackSuccess
	FeedbackError
)

// String returns the kind name.
func (k FeedbackKind) String() string {
	switch k {
	case FeedbackSuccess:
		return "success"
	case FeedbackError:
		return "error"
	default:
		return "none"
	}
}

// Feedback is the single banner shown to the user. A new event replaces it.
type Feedback struct {
	Kind    FeedbackKind
	Message string
}

// Empty reports whether there is nothing to show.
func (f Feedback) Empty() bool {
	return f.Kind == FeedbackNone
}

// IsError reports whether the banner describes a failure.
func (f Feedback) IsError() bool {
	return f.Kind == FeedbackError
}
