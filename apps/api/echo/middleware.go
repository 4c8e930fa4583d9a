package echoapi

import (
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// roleMiddleware lets a request through when its claims satisfy any of the checks.
func roleMiddleware(checks ...func(Claims) bool) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			claims, err := getContextClaims(ctx)
			if err != nil {
				return errors.Wrap(err, "getting context claims")
			}
			for _, check := range checks {
				if check(claims) {
					return next(ctx)
				}
			}
			return errHttpForbidden
		}
	}
}

func isAdmin(c Claims) bool   { return c.IsAdmin }
func isTeacher(c Claims) bool { return c.IsTeacher }
func isStudent(c Claims) bool { return c.IsStudent }

func adminMiddleware() echo.MiddlewareFunc   { return roleMiddleware(isAdmin) }
func staffMiddleware() echo.MiddlewareFunc   { return roleMiddleware(isAdmin, isTeacher) }
func teacherMiddleware() echo.MiddlewareFunc { return roleMiddleware(isTeacher) }
func studentMiddleware() echo.MiddlewareFunc { return roleMiddleware(isStudent) }
