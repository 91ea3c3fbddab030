package dto

// Request DTOs

type ChatRequest struct {
	Message string `json:"message" validate:"required,max=500"`
}

// Response DTOs

type ChatResponse struct {
	Reply string `json:"reply"`
}
