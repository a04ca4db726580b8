package domain

// Общий конверт ответа: {success, statusCode, message, data?, error?}
type APIError struct {
	Code    string `json:"code"`
	Details string `json:"details,omitempty"`
}

type APIEnvelope struct {
	Success    bool      `json:"success"`
	StatusCode int       `json:"statusCode"`
	Message    string    `json:"message"`
	Data       any       `json:"data,omitempty"`
	Error      *APIError `json:"error,omitempty"`
}

// Утилиты для сборки конвертов
func Ok(status int, message string, data any) APIEnvelope {
	return APIEnvelope{Success: true, StatusCode: status, Message: message, Data: data}
}

func Fail(status int, message, code, details string) APIEnvelope {
	return APIEnvelope{
		Success:    false,
		StatusCode: status,
		Message:    message,
		Error:      &APIError{Code: code, Details: details},
	}
}
