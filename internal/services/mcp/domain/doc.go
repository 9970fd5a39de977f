// Package domain translates MCP tool calls into duel commands.
//
// Each tool pairs an Input struct, whose jsonschema tags become the tool's
// argument schema, with a Result view that MCP clients can render. Handlers
// talk to an app.API, so the same tools run against the gRPC DuelService or
// an in-process service.
package domain
