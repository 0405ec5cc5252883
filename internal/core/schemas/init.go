// Package schemas registers the importable entity schemas with the core registry.
// Import this package to ensure all schemas are registered.
package schemas

// This file exists to provide a single import point.
// Each schema file uses init() to register its schema.
