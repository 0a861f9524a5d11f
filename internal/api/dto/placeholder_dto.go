package dto

// PlaceholderResponse is returned for read requests to an unfinished module.
type PlaceholderResponse struct {
	Message string `json:"message"`
	Status  string `json:"status"`
	Data    []any  `json:"data"`
}

// PlaceholderNotImplementedResponse is returned for write requests to an unfinished module.
type PlaceholderNotImplementedResponse struct {
	Message string `json:"message"`
	Status  string `json:"status"`
}
