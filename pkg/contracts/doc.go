// Package contracts holds the wire models of the indexing service and the
// interfaces shared between the client, the synthetic data source and the
// dev server.
//
// Interfaces:
//   - IndexerAPI: the endpoint surface implemented by client.Client
//   - Synthesizer: stand-in data returned when live calls are substituted
package contracts
