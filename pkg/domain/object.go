package domain

// ObjectKind classifies an object reported by a traversal driver.
type ObjectKind int

const (
	KindUnknown ObjectKind = iota
	KindGroup
	KindDataset
	KindNamedDatatype
)

func (k ObjectKind) String() string {
	switch k {
	case KindGroup:
		return "group"
	case KindDataset:
		return "dataset"
	case KindNamedDatatype:
		return "datatype"
	default:
		return "unknown"
	}
}

// RootPath is the path drivers use for the traversal root.
const RootPath = "."

// IsRoot reports whether path denotes the traversal root.
// Drivers disagree on spelling, so "/" and "" are accepted too.
func IsRoot(path string) bool {
	return path == RootPath || path == "/" || path == ""
}

// VisitedObject is a single object handed to the classifier.
type VisitedObject struct {
	Path string     `json:"path"`
	Kind ObjectKind `json:"kind"`
}
