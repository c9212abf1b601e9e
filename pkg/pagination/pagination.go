package pagination

const (
	// DefaultLimit is the standard page size when a limit is not provided.
	DefaultLimit = 100
	// MaxLimit caps how many rows any listing call can request.
	MaxLimit = 500
)

// NormalizeLimit enforces the configured default and maximum limits.
func NormalizeLimit(limit int) int {
	if limit <= 0 {
		return DefaultLimit
	}
	if limit > MaxLimit {
		return MaxLimit
	}
	return limit
}

// Cursor tracks progress through an offset-paged remote collection. Total is
// unknown until the first page response arrives and is then fixed for the
// run; the offset only moves forward.
type Cursor struct {
	Offset   int
	PageSize int

	total      int
	totalKnown bool
}

// NewCursor starts a cursor at offset zero with a normalized page size.
func NewCursor(pageSize int) *Cursor {
	return &Cursor{PageSize: NormalizeLimit(pageSize)}
}

// FixTotal records the collection size reported by the first page. Later
// pages do not move it; the remote may mutate mid-run and the run sticks
// with its first answer.
func (c *Cursor) FixTotal(total int) {
	if c.totalKnown {
		return
	}
	c.total = total
	c.totalKnown = true
}

// Advance moves the offset by the number of rows a page actually returned,
// which may be fewer than the page size on the final page.
func (c *Cursor) Advance(count int) {
	if count < 0 {
		return
	}
	c.Offset += count
}

// Total returns the fixed collection size and whether it is known yet.
func (c *Cursor) Total() (int, bool) {
	return c.total, c.totalKnown
}

// Done reports whether the run has covered the fixed total. A cursor with an
// unknown total is never done; a fixed total of zero is done immediately.
func (c *Cursor) Done() bool {
	return c.totalKnown && c.Offset >= c.total
}
