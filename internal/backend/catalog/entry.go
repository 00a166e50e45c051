package catalog

// Columns names the catalog columns the pipeline reads
type Columns struct {
	ID  string `yaml:"id" validate:"required"`
	RA  string `yaml:"ra" validate:"required"`
	Dec string `yaml:"dec" validate:"required"`
}

// DefaultColumns matches the Kepler stellar table export
func DefaultColumns() Columns {
	return Columns{ID: "kepid", RA: "ra", Dec: "dec"}
}

// Record is one raw catalog row as read from the file
type Record struct {
	Seq       int    // zero-based position in the input
	ID        string // trimmed identifier text
	IDPresent bool   // false when the identifier cell is empty or absent
	RA        string
	Dec       string
}

// Table holds the raw rows of a catalog file in input order
type Table struct {
	Header  []string
	Records []Record
}

// Entry is a cleaned catalog row with numeric equatorial coordinates in degrees
type Entry struct {
	Seq       int
	ID        string
	IDPresent bool
	RA        float64
	Dec       float64
}

// GalacticEntry is an Entry with its galactic longitude and latitude in degrees
type GalacticEntry struct {
	Entry
	L float64
	B float64
}
