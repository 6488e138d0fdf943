package dto

// PageRequest carries list pagination parsed from the query string.
// Page is zero-based; Sort is a whitelisted "column direction" pair ready to
// pass to ORDER BY.
type PageRequest struct {
	Page int
	Size int
	Sort string
}

func (p PageRequest) Offset() int { return p.Page * p.Size }

// CountResponse is the envelope of every independent /count endpoint.
// List and count are two decoupled queries — the pair is not transactional.
type CountResponse struct {
	Total int64 `json:"total"`
}
