package handlers

import "github.com/labstack/echo/v4"

// fail writes the API's failure envelope. Every error response carries
// success:false plus a human-readable message the frontend can surface.
func fail(c echo.Context, code int, message string) error {
	return c.JSON(code, echo.Map{"success": false, "message": message})
}
