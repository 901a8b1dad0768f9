// Package main is the entry point for the runbox server.
//
// The runbox server executes untrusted JavaScript in an embedded, isolated
// interpreter and produces step-by-step visualization traces and statistical
// benchmark summaries for its algorithm catalog. The same engine is exposed
// over a REST API and over the Model Context Protocol (stdio or streamable
// HTTP), selected by configuration.
//
// The application uses Uber's fx framework for dependency injection and
// lifecycle management, with zap for structured logging and viper for
// configuration.
package main
