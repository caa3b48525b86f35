package merge

import "errors"

// Load and write failures, matched with errors.Is
var (
	ErrTemplateNotFound   = errors.New("template file does not exist")
	ErrTemplateUnreadable = errors.New("template file is empty or not readable")
	ErrTemplateInvalid    = errors.New("template file cannot be parsed")

	ErrDataNotFound   = errors.New("CSV data file does not exist")
	ErrDataUnreadable = errors.New("CSV data file is not readable")
	ErrDataEmpty      = errors.New("CSV data file is empty once parsed (invalid or empty csv?)")

	ErrShortRow = errors.New("row is shorter than the name columns")

	ErrOutputOpen = errors.New("error while opening output file")
)
