package diag

// Severity defines the importance of a diagnostic. Only SevError stops a
// stage; warnings and infos ride along in the Bag.
type Severity uint8

const (
	SevInfo Severity = iota
	SevWarning
	SevError
)

// String is the upper-case form used by pretty and JSON output.
func (s Severity) String() string {
	switch s {
	case SevInfo:
		return "INFO"
	case SevWarning:
		return "WARNING"
	case SevError:
		return "ERROR"
	}
	return "UNKNOWN"
}

// Label is the lower-case form of the short (golden) format.
func (s Severity) Label() string {
	switch s {
	case SevError:
		return "error"
	case SevWarning:
		return "warning"
	}
	return "info"
}
