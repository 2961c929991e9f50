package domain

import "errors"

// File-open failures. Each one is recoverable: the caller may pick another file.
var (
	// ErrFileNotFound is returned before traversal when the file does not exist.
	ErrFileNotFound = errors.New("file not found")

	// ErrPermissionDenied is returned before traversal when the file cannot be read.
	ErrPermissionDenied = errors.New("permission denied")

	// ErrNotHDF5 is returned when the file lacks the HDF5 signature.
	ErrNotHDF5 = errors.New("not an HDF5 file")

	// ErrCorruptFile is returned when the HDF5 structure cannot be decoded.
	ErrCorruptFile = errors.New("corrupt HDF5 file")

	// ErrTraversal is returned when the driver aborts mid-walk.
	ErrTraversal = errors.New("traversal failed")
)

var (
	// ErrNoFileOpen is returned by operations that need an open file.
	ErrNoFileOpen = errors.New("no file open")

	// ErrChannelNotFound is returned when a channel path is not part of the tree.
	ErrChannelNotFound = errors.New("channel not found")

	// ErrUnknownPlot is returned for a plot kind outside PlotKinds.
	ErrUnknownPlot = errors.New("unknown plot kind")

	// ErrSessionNotFound is returned when a session ID cannot be found in the store.
	ErrSessionNotFound = errors.New("session not found")
)

// IsOpenFailure reports whether err belongs to the file-open taxonomy.
func IsOpenFailure(err error) bool {
	return errors.Is(err, ErrFileNotFound) ||
		errors.Is(err, ErrPermissionDenied) ||
		errors.Is(err, ErrNotHDF5) ||
		errors.Is(err, ErrCorruptFile) ||
		errors.Is(err, ErrTraversal)
}
