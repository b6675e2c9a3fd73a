package dto

// ChatRequest is the body of POST /agent/chat.
type ChatRequest struct {
	Message string `json:"message" binding:"required"`
}

// DispatchRequest is the body of POST /agent/dispatch.
type DispatchRequest struct {
	Text string `json:"text" binding:"required"`
}

// ActionInfo describes one registered action.
type ActionInfo struct {
	Name        string   `json:"name"`
	Kind        string   `json:"kind"`
	Collections []string `json:"collections"`
	Description string   `json:"description"`
}
