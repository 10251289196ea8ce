package middleware

import (
	"strings"

	"github.com/ApranavC/mypcf/internal/types"
	"github.com/gofiber/fiber/v2"
)

// APIVersion is the only API version this server speaks
const APIVersion = "1.0.0"

// VersionMiddleware normalizes X-Api-Version, rejects unknown major versions
// and echoes the served version back on the response.
func VersionMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		version := strings.TrimPrefix(strings.TrimSpace(c.Get("X-Api-Version", APIVersion)), "v")

		// Support version aliases
		switch version {
		case "1", "1.0":
			version = APIVersion
		}

		if version != APIVersion {
			return types.NewCustomError(fiber.StatusBadRequest, "version", "Unsupported API version %q", version)
		}

		c.Locals("apiVersion", version)
		c.Set("X-Api-Version", version)

		return c.Next()
	}
}
