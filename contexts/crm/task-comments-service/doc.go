// Package taskcomments implements the task and comment board inside the crm
// context.
//
// The module owns users, their tasks and the comments authors leave on them,
// plus bearer-token authentication for all of it. Access and refresh tokens
// are signed JWTs; only a digest of the latest refresh token is stored, and
// each refresh redeems it exactly once.
//
// Layering:
// - domain: entities, error kinds, role and ownership rules
// - application: one use case per operation, depending only on ports
// - ports: repository, clock, id, hashing and token boundaries
// - adapters: gorm/postgres and in-memory stores, argon2id and JWT codecs, HTTP handler
// - transport: HTTP DTOs and boundary validation
package taskcomments
