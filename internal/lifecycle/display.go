package lifecycle

// Category groups states for rendering. CategoryUnknown covers any value
// outside the closed set.
type Category int

const (
	CategoryUnknown Category = iota
	CategoryDraft
	CategoryPublished
	CategoryClosed
)

// Display is the presentation metadata for a state.
type Display struct {
	Label    string
	Category Category
}

// Describe returns display metadata for s.
func Describe(s State) Display {
	switch s {
	case Draft:
		return Display{Label: "Draft", Category: CategoryDraft}
	case Published:
		return Display{Label: "Published", Category: CategoryPublished}
	case Closed:
		return Display{Label: "Closed", Category: CategoryClosed}
	default:
		return Display{Label: "Unknown", Category: CategoryUnknown}
	}
}
