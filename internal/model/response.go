package model

type ErrorResponse struct {
	Error string `json:"error"`
}

type PingResponse struct {
	Message string `json:"message"`
}

type RootResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// IDResponse is returned by register, login, refresh and the CRUD mutations.
type IDResponse struct {
	ID int64 `json:"id"`
}
