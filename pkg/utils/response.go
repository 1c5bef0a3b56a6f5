package utils

import "github.com/gofiber/fiber/v2"

// Stable machine-readable error codes returned alongside the human message.
const (
	CodeBadRequest   = "bad_request"
	CodeUnauthorized = "unauthorized"
	CodeForbidden    = "forbidden"
	CodeNotFound     = "not_found"
	CodeConflict     = "conflict"
	CodeUploadFailed = "upload_failed"
	CodeDeleteFailed = "delete_failed"
	CodeServerError  = "server_error"
)

func Error(c *fiber.Ctx, status int, code, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"code":    code,
		"message": message,
	})
}
