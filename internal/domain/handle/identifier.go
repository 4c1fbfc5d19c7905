package handle

import (
	"strings"
)

// Placeholders recognised in server patterns and landing page templates
const (
	PlaceholderUUID       = "{{uuid}}"
	PlaceholderUUIDShort  = "{uuid}"
	PlaceholderID         = "{{id}}"
	PlaceholderIDShort    = "{id}"
	defaultRecordAPIRoute = "api/records/"
)

// BuildIdentifier returns prefix + "/" + suffix where the suffix is the pattern with the
// record placeholders substituted. The result must never depend on anything but its inputs:
// duplicate detection recomputes it instead of asking the registry.
func BuildIdentifier(pattern, prefix string, record *Record) string {
	suffix := strings.NewReplacer(
		PlaceholderUUID, record.UUID,
		PlaceholderUUIDShort, record.UUID,
		PlaceholderID, record.ID.String(),
		PlaceholderIDShort, record.ID.String(),
	).Replace(pattern)
	return prefix + "/" + suffix
}

// IdentifierSuffix strips "prefix/" from the identifier.
// An identifier outside the prefix is returned unchanged.
func IdentifierSuffix(prefix, identifier string) string {
	return strings.TrimPrefix(identifier, prefix+"/")
}

// ResolveIdentifierURL returns the public resolver URL for the identifier
func ResolveIdentifierURL(server *RegistryServer, identifier string) string {
	return withTrailingSlash(server.PublicURL) + IdentifierSuffix(server.Prefix, identifier)
}

// ResolveLandingPage returns the page the handle redirects to.
// Without a template the record API URL under nodeURL is used.
func ResolveLandingPage(server *RegistryServer, recordUUID, nodeURL string) string {
	if strings.TrimSpace(server.LandingPageTemplate) != "" {
		return strings.NewReplacer(
			PlaceholderUUID, recordUUID,
			PlaceholderUUIDShort, recordUUID,
		).Replace(server.LandingPageTemplate)
	}
	return withTrailingSlash(nodeURL) + defaultRecordAPIRoute + recordUUID
}

// SubmissionURL returns the registry endpoint the payload for identifier is PUT to
func SubmissionURL(server *RegistryServer, identifier string) string {
	return withTrailingSlash(server.URL) + server.Prefix + "/" + IdentifierSuffix(server.Prefix, identifier)
}

func withTrailingSlash(s string) string {
	if strings.HasSuffix(s, "/") {
		return s
	}
	return s + "/"
}
