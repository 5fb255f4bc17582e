package shared

// wire types shared by the HTTP API and the CLI

// Envelope is the body of every successful API response.
type Envelope[T any] struct {
	Message string `json:"message"`
	Data    T      `json:"data"`
}

// ErrorBody is the body of every failed API response.
type ErrorBody struct {
	Message string `json:"message"`
}
