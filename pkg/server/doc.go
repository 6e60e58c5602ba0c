// Package server exposes a mocked GraphQL schema over HTTP and WebSocket.
//
// Handler serves queries and mutations on POST (application/json or
// application/graphql) and GET. Subscription operations are served over
// WebSocket using the graphql-transport-ws protocol or the legacy
// subscriptions-transport-ws protocol; each active subscription streams
// freshly synthesized events at a configurable interval.
package server
