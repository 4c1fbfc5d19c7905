package handle

import (
	"net/url"
	"strings"
)

// Handle protocol constants. The registry validates them, they are not configurable.
const (
	URLIndex         = 1
	AdminIndex       = 100
	AdminValueIndex  = 200
	AdminPermissions = "011111110011"
	EntryTypeURL     = "URL"
	EntryTypeAdmin   = "HS_ADMIN"
	FormatString     = "string"
	FormatAdmin      = "admin"
)

// Payload is the value set sent to the registry for one handle
type Payload struct {
	Values []PayloadEntry `json:"values"`
}

// PayloadEntry is a single indexed handle value
type PayloadEntry struct {
	Index int         `json:"index"`
	Type  string      `json:"type"`
	Data  PayloadData `json:"data"`
}

// PayloadData holds a value and its format. Value is a string or an AdminValue.
type PayloadData struct {
	Format string `json:"format"`
	Value  any    `json:"value"`
}

// AdminValue grants the admin handle control over the created handle
type AdminValue struct {
	Handle      string `json:"handle"`
	Index       int    `json:"index"`
	Permissions string `json:"permissions"`
}

// BuildPayload builds the URL and HS_ADMIN entries for a handle.
// The URL entry points at the landing page, not at the resolver URL of the handle itself.
func BuildPayload(server *RegistryServer, identifierURL, landingPage string) *Payload {
	return &Payload{
		Values: []PayloadEntry{
			{
				Index: URLIndex,
				Type:  EntryTypeURL,
				Data: PayloadData{
					Format: FormatString,
					Value:  landingPage,
				},
			},
			{
				Index: AdminIndex,
				Type:  EntryTypeAdmin,
				Data: PayloadData{
					Format: FormatAdmin,
					Value: AdminValue{
						Handle:      DecodeAdminHandle(server.Username),
						Index:       AdminValueIndex,
						Permissions: AdminPermissions,
					},
				},
			},
		},
	}
}

// DecodeAdminHandle extracts the admin id from a "<prefix>:<adminId>" username.
// The username is URL-decoded first; a value that does not decode is used as is.
// Without a colon, or with a trailing one, the whole decoded value is returned.
func DecodeAdminHandle(username string) string {
	if username == "" {
		return ""
	}
	decoded, err := url.QueryUnescape(username)
	if err != nil {
		decoded = username
	}
	idx := strings.Index(decoded, ":")
	if idx >= 0 && idx < len(decoded)-1 {
		return decoded[idx+1:]
	}
	return decoded
}
