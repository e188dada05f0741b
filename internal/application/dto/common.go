package dto

// ErrorResponse cuerpo de error HTTP. Reasons lista los umbrales que dispararon la compuerta de aprobación.
type ErrorResponse struct {
	Code    string   `json:"code"`
	Message string   `json:"message"`
	Reasons []string `json:"reasons,omitempty"`
}
