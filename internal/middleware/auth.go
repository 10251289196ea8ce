// auth.go
//
// Daily nutrition intake tracking service
// Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC
//
// This file is part of mypcf.
// mypcf is free software: you can redistribute it and/or modify it
// under the terms of the GNU Affero General Public License as published by the Free Software
// Foundation, either version 3 of the License, or (at your option) any later version.
// mypcf is distributed in the hope that it will be useful, but WITHOUT ANY WARRANTY;
// without even the implied warranty of MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.
// See the GNU Affero General Public License for more details.
// You should have received a copy of the GNU Affero General Public License along with mypcf.
// If not, see <https://www.gnu.org/licenses/>.
// Additional terms under GNU AGPL version 3 section 7:
// a) The reasonable legal notice of original copyright and author attribution must be preserved
//    by including the string: "Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC"
//    in this material, copies, or source code of derived works.

package middleware

import (
	"strings"

	"github.com/ApranavC/mypcf/internal/services"
	"github.com/ApranavC/mypcf/internal/types"
	"github.com/gofiber/fiber/v2"
)

const (
	// UserIDKey is the fiber.Ctx locals key holding the authenticated user id
	UserIDKey = "userID"

	// UserIDHeader carries the user id in header auth mode
	UserIDHeader = "X-User-ID"

	sessionCookie = "cookie_session"
)

// RequireUser resolves the request credential for mode through verifier and
// stores the user id in locals. Requests without a valid credential get 401.
func RequireUser(verifier services.Verifier, mode string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		credential, source := credentialFor(c, mode)
		if credential == "" {
			return types.NewCustomError(fiber.StatusUnauthorized, "auth.credential", "%s not found", source)
		}

		userID, err := verifier.Verify(c.UserContext(), credential)
		if err != nil {
			return types.NewCustomError(fiber.StatusUnauthorized, "auth.session", "Invalid credential: %v", err)
		}

		c.Locals(UserIDKey, userID)
		return c.Next()
	}
}

func credentialFor(c *fiber.Ctx, mode string) (string, string) {
	switch mode {
	case "authorizer":
		return c.Cookies(sessionCookie), "Authorizer cookie \"" + sessionCookie + "\""
	case "header":
		return strings.TrimSpace(c.Get(UserIDHeader)), UserIDHeader + " header"
	}

	auth := c.Get(fiber.HeaderAuthorization)
	if len(auth) > 7 && strings.EqualFold(auth[:7], "bearer ") {
		return strings.TrimSpace(auth[7:]), "Bearer token"
	}
	return "", "Bearer token"
}

// UserID returns the authenticated user id stored by RequireUser
func UserID(c *fiber.Ctx) (string, bool) {
	userID, ok := c.Locals(UserIDKey).(string)
	return userID, ok && userID != ""
}
