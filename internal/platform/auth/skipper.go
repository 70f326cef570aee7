package auth

import (
	"github.com/labstack/echo/v4"
)

// Endpoints that must answer without credentials. Everything else the
// server registers sits behind auth.
var publicPaths = map[string]bool{
	"/health":    true,
	"/health/db": true,
}

// AuthSkipper reports whether the request may bypass authentication. Wire
// it as the Skipper on both the JWT and the dev middleware so health
// probes work before any token exists.
func AuthSkipper(c echo.Context) bool {
	return publicPaths[c.Path()]
}
