// Package mcpserver provides the Model Context Protocol (MCP) server implementation.
//
// The mcpserver package implements an MCP-compliant server that exposes the
// execution engine as tools. It uses the mark3labs/mcp-go library to handle
// the protocol details and provides execute_code, run_benchmark, and
// list_algorithms as the tool surface.
//
// The server supports both stdio and streamable HTTP transports as selected
// by the application configuration.
//
// Usage:
//
//	server, err := mcpserver.New(cfg, logger, eng)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	err = server.ServeStdio() // or server.ServeHTTP()
package mcpserver
