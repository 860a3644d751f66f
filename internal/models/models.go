package models

// Row is one data line of the classification CSV.
type Row struct {
	Dimension   string
	Code        string
	Term        string
	Description string
	Synonyms    string

	// Line is the 1-based line in the source file, for diagnostics.
	Line int
}

// Entry is the descriptive payload attached to the node a code ends on.
type Entry struct {
	Term string   `json:"term"`
	Desc string   `json:"desc"`
	Syns []string `json:"syns"`
}

type Level struct {
	Code string `json:"code"`
	Term string `json:"term"`
}

type DimensionSummary struct {
	Name    string `json:"name"`
	Entries int    `json:"entries"`
}

type CodeView struct {
	Dimension string   `json:"dimension"`
	Code      string   `json:"code"`
	Entry     *Entry   `json:"entry,omitempty"`
	Children  []string `json:"children"`
}

type TermMatch struct {
	Dimension string   `json:"dimension"`
	Code      string   `json:"code"`
	Levels    []Level  `json:"levels"`
	Entry     Entry    `json:"entry"`
	Path      string   `json:"path"`
	Synonyms  []string `json:"synonyms"`
}
