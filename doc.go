// Package messagingapi implements the messaging-api service which provides
// realtime direct messaging and notification delivery between customers and
// admins.
//
// The service provides:
//   - Authenticated websocket connections with single-connection presence
//   - Direct message routing with durable persistence before live push
//   - Role-targeted notification fan-out (one row per recipient)
//   - Conversation and notification query endpoints over REST
//   - JWT authentication via JWKS
package messagingapi
