// Package store provides uniform key-value access to a backing database
// for environment variables. It supports MongoDB, Redis, SQLite, and
// PostgreSQL behind a single Store interface.
//
// A Store is obtained either from a connection string via Open, in which
// case the store owns the underlying client and Close releases it, or by
// wrapping an existing client (WrapSQL, WrapMongo, WrapRedis), in which
// case the caller keeps ownership and Close is a no-op.
package store
