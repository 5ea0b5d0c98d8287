package model

type ErrorResponse struct {
	Detail string `json:"detail"`
}

type DetailResponse struct {
	Detail string `json:"detail"`
}

type MessageResponse struct {
	Message string `json:"message"`
}
