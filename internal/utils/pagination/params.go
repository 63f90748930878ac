// Package pagination normalizes offset/limit paging parameters for listing
// endpoints.
package pagination

const (
	DefaultPage     = 1
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// Params holds validated pagination parameters.
type Params struct {
	Page     int
	PageSize int
	Offset   int
}

// Normalize clamps page and pageSize into their allowed ranges and computes
// the offset.
func Normalize(page, pageSize int) Params {
	if page < 1 {
		page = DefaultPage
	}
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}
	return Params{
		Page:     page,
		PageSize: pageSize,
		Offset:   (page - 1) * pageSize,
	}
}
