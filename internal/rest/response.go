package rest

// ResponseError is the error envelope every handler returns.
type ResponseError struct {
	Message string `json:"message"`
}
