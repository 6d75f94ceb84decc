package badger

// Database Key Namespace Design
// ==============================
//
// BadgerDB is a key-value store, so we use prefixed keys to organize the two
// data types a snapshot decomposes into. This design:
//   - Prevents collisions between metadata and body entries
//   - Enables listing all snapshots with one range scan over the "i:" prefix
//     without touching the (much larger) bodies
//   - Makes the database structure self-documenting
//
// Key Namespace Prefixes:
//
// Data Type           Prefix   Key Format     Value Type
// =========================================================================
// Snapshot Metadata   "i:"     i:<name>       snapshot.Info (JSON)
// Snapshot Body       "b:"     b:<name>       wire-format lines (gzip)
//
// Snapshots are keyed by their user-chosen name rather than their UUID: the
// name is what every store operation addresses, and names are unique per
// store by contract. The UUID travels inside the metadata for cross-store
// identity.
//
// Bodies are stored gzip-compressed. A mount table is highly repetitive text
// (shared option strings, common path prefixes), so compression typically
// shrinks bodies by an order of magnitude.

const (
	// prefixInfo is the key prefix for snapshot metadata (JSON)
	prefixInfo = "i:"

	// prefixBody is the key prefix for snapshot bodies (gzip-compressed
	// wire-format lines)
	prefixBody = "b:"
)

// keyInfo generates the key for a snapshot's metadata.
//
// Format: "i:<name>"
func keyInfo(name string) []byte {
	return []byte(prefixInfo + name)
}

// keyBody generates the key for a snapshot's body.
//
// Format: "b:<name>"
func keyBody(name string) []byte {
	return []byte(prefixBody + name)
}
