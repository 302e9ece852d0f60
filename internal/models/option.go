package models

// Option is one choice of a selector: the submitted value and the text shown for it
type Option struct {
	Value string
	Label string
}

// FindOptionByLabel returns the option whose label matches the displayed name exactly
func FindOptionByLabel(options []Option, label string) (Option, bool) {
	for _, option := range options {
		if option.Label == label {
			return option, true
		}
	}
	return Option{}, false
}

// ResolveOptionLabel maps a submitted value to its label. Unknown values are
// assumed to already be labels.
func ResolveOptionLabel(options []Option, value string) string {
	for _, option := range options {
		if option.Value == value {
			return option.Label
		}
	}
	return value
}
