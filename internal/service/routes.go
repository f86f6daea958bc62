package service

import (
	"net/url"
	"strings"

	"github.com/marzhmallo/baranex-community-connect-sub002/models"
)

// Routes of the portal.
const (
	RouteRoot      = "/"
	RouteLogin     = "/login"
	RouteHub       = "/hub"
	RouteDashboard = "/dashboard"
	RouteEchelon   = "/echelon"
	RoutePlaza     = "/plaza"
)

// RouteForRole returns the landing route of role. The second result is false
// for roles outside the known set, which must not navigate.
func RouteForRole(role models.Role) (string, bool) {
	switch role {
	case models.RoleUser:
		return RouteHub, true
	case models.RoleAdmin, models.RoleStaff:
		return RouteDashboard, true
	case models.RoleGlyph:
		return RouteEchelon, true
	case models.RoleOverseer:
		return RoutePlaza, true
	default:
		return "", false
	}
}

// IsRecoveryFragment reports whether a URL fragment carries a password
// recovery token ("type=recovery").
func IsRecoveryFragment(fragment string) bool {
	fragment = strings.TrimPrefix(fragment, "#")
	if fragment == "" {
		return false
	}

	values, err := url.ParseQuery(fragment)
	if err != nil {
		return strings.Contains(fragment, "type=recovery")
	}
	for _, v := range values["type"] {
		if v == "recovery" {
			return true
		}
	}
	return false
}
