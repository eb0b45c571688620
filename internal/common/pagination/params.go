package pagination

// Params represents the optional page/limit pair of a listing request.
// Zero means "not provided".
type Params struct {
	Page  int // 1-based page number
	Limit int // Items per page
}

// IsSet reports whether the caller asked for any paging at all.
func (p Params) IsSet() bool {
	return p.Page != 0 || p.Limit != 0
}

// Window resolves the params into an offset/limit pair.
//
// Rules:
//   - Neither page nor limit: offset 0, limit 0 (everything)
//   - Limit without page: page defaults to config.DefaultPage
//   - Page without limit: limit defaults to config.DefaultLimit
//   - Limit above config.MaxLimit is capped
//
// Call Validate first; Window assumes non-negative values.
func (p Params) Window(config Config) (offset, limit int) {
	if !p.IsSet() {
		return 0, 0
	}
	p = p.WithDefaults(config)
	return CalculateOffset(p.Page, p.Limit), p.Limit
}
