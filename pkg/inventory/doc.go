// Package inventory serves the item and user collections.
//
// Items and users live in separate stores with their own id counters.
// Usernames are unique at creation time. Partial updates merge only the
// fields present in the request body; a key sent as null clears an optional
// field.
package inventory
