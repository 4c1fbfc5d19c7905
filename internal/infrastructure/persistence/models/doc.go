// Package models holds the GORM table mappings for registry servers and catalog records.
// Domain types stay free of ORM tags; each model converts to and from its domain type.
package models
