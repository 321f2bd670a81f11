package domain

import "errors"

// Sentinel errors for domain operations
var (
	// ErrChartNotFound indicates no local chart has the requested path
	ErrChartNotFound = errors.New("chart not found")

	// ErrFolderNotFound indicates the requested favorites folder does not exist
	ErrFolderNotFound = errors.New("folder not found")

	// ErrFolderExists indicates a folder with the requested name already exists
	ErrFolderExists = errors.New("folder name already exists")

	// ErrEmptyFolderName indicates a blank folder name
	ErrEmptyFolderName = errors.New("folder name is empty")

	// ErrReservedFolder indicates an operation that the default folder does not allow
	ErrReservedFolder = errors.New("default folder cannot be renamed or deleted")

	// ErrStorageUnavailable indicates a chart storage area could not be listed.
	// The index cannot be trusted when this is returned.
	ErrStorageUnavailable = errors.New("chart storage unavailable")

	// ErrNotFound indicates no persisted root object exists yet
	ErrNotFound = errors.New("no saved data")

	// ErrCorrupt indicates the persisted root object could not be decoded
	ErrCorrupt = errors.New("saved data is corrupt")

	// ErrInvalidChart indicates a storage entry is not a readable chart
	ErrInvalidChart = errors.New("not a valid chart")
)
