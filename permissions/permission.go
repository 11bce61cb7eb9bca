package permissions

import (
	_ "embed"
	"encoding/json"
	"slices"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"
)

//go:embed permissions.json
var permissionsData []byte

// Permission lists the roles allowed on one route pattern and method.
type Permission struct {
	Permissions []string `json:"permissions"`
	Path        string   `json:"path"`
	Method      string   `json:"method"`
	Skip        bool     `json:"skip"`
}

// Allows reports whether role may call the endpoint. An endpoint without
// roles is open to every authenticated actor.
func (p Permission) Allows(role string) bool {
	return p.Skip || len(p.Permissions) == 0 || slices.Contains(p.Permissions, role)
}

type PermissionData struct {
	Endpoints []Permission `json:"endpoints"`
	Skip      bool         `json:"skip"`
}

// FindPermissions looks up the endpoint registered for the route pattern.
// A trailing slash is ignored, so /v1/bookings/ matches /v1/bookings.
// Nothing is found in a nil table.
func (r *PermissionData) FindPermissions(path, method string) Permission {
	if r == nil {
		return Permission{}
	}

	path = strings.TrimSuffix(path, "/")

	for _, endpoint := range r.Endpoints {
		if endpoint.Method == method && strings.TrimSuffix(endpoint.Path, "/") == path {
			return endpoint
		}
	}

	return Permission{}
}

var embedded = sync.OnceValue(func() *PermissionData {
	var table PermissionData

	if err := json.Unmarshal(permissionsData, &table); err != nil {
		log.Error().Err(err).Msg("Failed to decode embedded permissions")

		return nil
	}

	log.Info().Int("endpoints", len(table.Endpoints)).Msg("Loaded embedded permissions")

	return &table
})

// Get returns the embedded permission table, or nil when it does not decode.
func Get() *PermissionData {
	return embedded()
}
