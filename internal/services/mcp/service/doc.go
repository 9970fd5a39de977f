// Package service wires MCP transports to the duel tools.
//
// It is the transport adapter layer: it runs MCP over stdio or streamable
// HTTP and delegates every tool call to the handlers in the domain package.
package service
