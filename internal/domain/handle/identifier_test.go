package handle

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

func TestBuildIdentifier(t *testing.T) {
	id := uuid.MustParse("6f1c3f4e-7c1b-4a55-9a8e-2a3b4c5d6e7f")
	record := &Record{ID: id, UUID: "abc-123"}

	tests := []struct {
		name     string
		pattern  string
		expected string
	}{
		{"short uuid placeholder", "{uuid}", "20.500.1/abc-123"},
		{"double uuid placeholder", "{{uuid}}", "20.500.1/abc-123"},
		{"id placeholder", "rec-{id}", "20.500.1/rec-" + id.String()},
		{"mixed", "{{id}}/{uuid}", "20.500.1/" + id.String() + "/abc-123"},
		{"literal", "fixed", "20.500.1/fixed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, BuildIdentifier(tt.pattern, "20.500.1", record))
		})
	}
}

func TestBuildIdentifier_IsPure(t *testing.T) {
	rapid.Check(t, func(r *rapid.T) {
		pattern := rapid.StringMatching(`[a-z-]{0,5}(\{uuid\}|\{\{uuid\}\}|\{id\})?[a-z-]{0,5}`).Draw(r, "pattern")
		prefix := rapid.StringMatching(`[0-9]{2}\.[0-9]{3}\.[0-9]{1,4}`).Draw(r, "prefix")
		record := &Record{
			ID:   uuid.New(),
			UUID: rapid.StringMatching(`[a-z0-9-]{1,36}`).Draw(r, "uuid"),
		}

		first := BuildIdentifier(pattern, prefix, record)
		second := BuildIdentifier(pattern, prefix, record)

		if first != second {
			r.Fatalf("identifier changed between calls: %q != %q", first, second)
		}
		if IdentifierSuffix(prefix, first) == first {
			r.Fatalf("identifier %q does not start with %q", first, prefix+"/")
		}
	})
}

func TestResolveIdentifierURL(t *testing.T) {
	server := newTestServer()
	assert.Equal(t, "https://hdl.example/abc-123", ResolveIdentifierURL(server, "20.500.1/abc-123"))

	server.PublicURL = "https://hdl.example"
	assert.Equal(t, "https://hdl.example/abc-123", ResolveIdentifierURL(server, "20.500.1/abc-123"))
}

func TestResolveLandingPage(t *testing.T) {
	server := newTestServer()

	t.Run("default record API URL", func(t *testing.T) {
		assert.Equal(t, "https://catalog.example/geonetwork/api/records/abc-123",
			ResolveLandingPage(server, "abc-123", "https://catalog.example/geonetwork/"))
		assert.Equal(t, "https://catalog.example/api/records/abc-123",
			ResolveLandingPage(server, "abc-123", "https://catalog.example"))
	})

	t.Run("template", func(t *testing.T) {
		server.LandingPageTemplate = "https://portal.example/records/{{uuid}}"
		assert.Equal(t, "https://portal.example/records/abc-123",
			ResolveLandingPage(server, "abc-123", "https://catalog.example/"))
	})
}

func TestSubmissionURL(t *testing.T) {
	server := newTestServer()
	assert.Equal(t, "https://h.example/20.500.1/abc-123", SubmissionURL(server, "20.500.1/abc-123"))

	server.URL = "https://h.example/api/handles"
	assert.Equal(t, "https://h.example/api/handles/20.500.1/abc-123", SubmissionURL(server, "20.500.1/abc-123"))
}
