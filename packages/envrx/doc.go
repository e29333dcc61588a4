// Package envrx loads environment variables from a configuration file
// and/or a backing store and publishes them into the process environment.
//
// It provides functionality for:
//   - Loading .env, JSON, YAML, and TOML files
//   - Loading every entry of a store collection (MongoDB, Redis, SQL)
//   - Merging both sources, store values winning on collision
//   - Direct key-value CRUD against the store after initialization
package envrx
