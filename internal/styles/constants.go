package styles

const (
	H_PADDING = 1

	// PREVIEW_WIDTH is the number of cells of a question shown in the menu.
	PREVIEW_WIDTH = 30

	// NAME_COLUMN_WIDTH aligns the second column of the --list output.
	NAME_COLUMN_WIDTH = 18
)
