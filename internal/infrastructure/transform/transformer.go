// Package transform embeds handle URLs into metadata records.
//
// Each supported schema has a Rule that knows where an online resource (or identifier)
// carrying the handle lives in that schema. Records in other schemas cannot receive a handle.
package transform

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/beevik/etree"
	"go.uber.org/zap"

	"github.com/catalog/pidreg/internal/domain/handle"
)

// Schema identifiers with built-in rules
const (
	SchemaISO19139      = "iso19139"
	SchemaISO19115Part3 = "iso19115-3.2018"
	SchemaDublinCore    = "dublin-core"
)

// Errors returned by the transformer
var (
	ErrUnsupportedSchema = errors.New("transform: no handle rule for schema")
	ErrInvalidContent    = errors.New("transform: record content is not an XML document")
)

// Rule inserts and reads the handle online resource for one schema
type Rule interface {
	Insert(root *etree.Element, params handle.InsertParams) error
	Extract(root *etree.Element, protocol string) string
}

// Transformer applies schema rules to record content
type Transformer struct {
	mu     sync.RWMutex
	rules  map[string]Rule
	logger *zap.Logger
}

// NewTransformer creates a transformer with the built-in schema rules
func NewTransformer(logger *zap.Logger) *Transformer {
	if logger == nil {
		logger = zap.NewNop()
	}
	t := &Transformer{
		rules:  make(map[string]Rule),
		logger: logger,
	}
	t.Register(SchemaISO19139, iso19139Rule)
	t.Register(SchemaISO19115Part3, iso19115Part3Rule)
	t.Register(SchemaDublinCore, dublinCoreRule{})
	return t
}

// Register adds or replaces the rule for a schema
func (t *Transformer) Register(schemaID string, rule Rule) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.rules[schemaID] = rule
}

// Schemas returns the schemas with a registered rule, sorted
func (t *Transformer) Schemas() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]string, 0, len(t.rules))
	for s := range t.rules {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

// Supports reports whether schemaID has a rule
func (t *Transformer) Supports(schemaID string) bool {
	_, ok := t.rule(schemaID)
	return ok
}

func (t *Transformer) rule(schemaID string) (Rule, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	r, ok := t.rules[schemaID]
	return r, ok
}

// AddIdentifier returns record.Content with the handle online resource inserted or updated
func (t *Transformer) AddIdentifier(ctx context.Context, record *handle.Record, params handle.InsertParams) (string, error) {
	rule, ok := t.rule(record.SchemaID)
	if !ok {
		return "", fmt.Errorf("%w '%s'", ErrUnsupportedSchema, record.SchemaID)
	}
	if params.Protocol == "" {
		params.Protocol = handle.DefaultProtocol
	}

	doc, err := parse(record.Content)
	if err != nil {
		return "", err
	}
	if err := rule.Insert(doc.Root(), params); err != nil {
		return "", fmt.Errorf("transform: failed to insert handle into '%s': %w", record.UUID, err)
	}

	out, err := doc.WriteToString()
	if err != nil {
		return "", fmt.Errorf("transform: failed to serialize record '%s': %w", record.UUID, err)
	}

	t.logger.Debug("Handle inserted into record",
		zap.String("uuid", record.UUID),
		zap.String("schema", record.SchemaID),
		zap.String("handle_url", params.HandleURL),
	)
	return out, nil
}

// ExtractIdentifier returns the handle URL stored in content, or "" if there is none
func (t *Transformer) ExtractIdentifier(schemaID, content string) (string, error) {
	rule, ok := t.rule(schemaID)
	if !ok {
		return "", fmt.Errorf("%w '%s'", ErrUnsupportedSchema, schemaID)
	}
	doc, err := parse(content)
	if err != nil {
		return "", err
	}
	return rule.Extract(doc.Root(), handle.DefaultProtocol), nil
}

func parse(content string) (*etree.Document, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromString(content); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidContent, err)
	}
	if doc.Root() == nil {
		return nil, ErrInvalidContent
	}
	return doc, nil
}

// Ensure Transformer implements handle.ContentTransformer
var _ handle.ContentTransformer = (*Transformer)(nil)
