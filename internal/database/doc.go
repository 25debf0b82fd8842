// Package database provides the SQLite attachment store for the resizer.
//
// It records:
//   - Uploaded originals (path on disk, public URL, dimensions)
//   - Derived sizes per attachment, keyed by size name
//   - Key/value bookkeeping such as the last warm run
//
// Database implements media.MediaStore. The database uses WAL mode so the
// warm command's workers can read concurrently, and initializes its schema
// on open.
package database
