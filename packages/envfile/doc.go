// Package envfile parses configuration files into flat string maps.
//
// It provides functionality for:
//   - Loading .env files (KEY=VALUE lines, comments, quoted values)
//   - Loading flat JSON, YAML, and TOML mappings
//   - Format auto-detection by file extension
//   - Rejecting nested structures (values must be scalars)
package envfile
