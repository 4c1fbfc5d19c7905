// Package handle contains the Handle PID registration bounded context.
// It decides whether a catalog record may receive a persistent identifier from a
// Handle registry server and builds everything the registry needs to create it.
//
// Key concepts:
//   - RegistryServer: a configured DOI/Handle registry endpoint with credentials and patterns
//   - Record: the catalog record a handle is minted for
//   - Payload: the value set PUT to the Handle REST API
//   - PreconditionChecker: ordered eligibility rules evaluated before any registration
//
// Design Pattern: Ports & Adapters
//   - Ports (RegistryClient, AccessChecker, RecordStore, ContentTransformer, RegistrationGuard)
//     are defined here in the domain layer
//   - Adapters live in the infrastructure layer
//
// Identifiers are recomputed from the server pattern rather than looked up in the
// registry, so BuildIdentifier must stay pure and stable across releases.
package handle
