package transport

import (
	"github.com/labstack/echo/v4"
)

// Envelope is the response shape shared by every resource endpoint:
// {success, data?, message?, count?}.
type Envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
	Count   *int   `json:"count,omitempty"`
}

func OK(c echo.Context, code int, data any) error {
	return c.JSON(code, Envelope{Success: true, Data: data})
}

func OKCount(c echo.Context, code int, data any, count int) error {
	return c.JSON(code, Envelope{Success: true, Data: data, Count: &count})
}

func OKMessage(c echo.Context, code int, message string) error {
	return c.JSON(code, Envelope{Success: true, Message: message})
}

func Fail(c echo.Context, code int, message string) error {
	return c.JSON(code, Envelope{Success: false, Message: message})
}
