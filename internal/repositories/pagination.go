package repositories

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Page selects a window of a listing. Number starts at 1.
type Page struct {
	Number int
	Size   int
}

// NewPage clamps number and size into the accepted range.
func NewPage(number, size int) Page {
	if number < 1 {
		number = 1
	}
	if size < 1 {
		size = DefaultPageSize
	}
	if size > MaxPageSize {
		size = MaxPageSize
	}
	return Page{Number: number, Size: size}
}

func (p Page) normalized() Page { return NewPage(p.Number, p.Size) }

func (p Page) Offset() int {
	p = p.normalized()
	return (p.Number - 1) * p.Size
}

func (p Page) Limit() int {
	return p.normalized().Size
}

// TransactionFilter narrows a transaction listing. An empty UserID lists
// every transaction.
type TransactionFilter struct {
	UserID string
	Page   Page
}
