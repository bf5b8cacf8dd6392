package serverutils

import "github.com/gofiber/fiber/v2"

// Response is the envelope every collector endpoint answers with.
type Response struct {
	OK      bool        `json:"ok"`
	Key     string      `json:"key,omitempty"`
	Error   string      `json:"error,omitempty"`
	Details interface{} `json:"details,omitempty"`
}

func ErrorResponse(message string) Response {
	return Response{OK: false, Error: message}
}

func ErrorResponseWithDetails(message string, details interface{}) Response {
	return Response{OK: false, Error: message, Details: details}
}

func KeyResponse(key string) Response {
	return Response{OK: true, Key: key}
}

// Fail writes an error envelope with the given status.
func Fail(ctx *fiber.Ctx, status int, message string) error {
	return ctx.Status(status).JSON(ErrorResponse(message))
}
