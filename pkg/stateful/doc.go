// Package stateful provides the in-memory record stores behind the CRUD surfaces.
//
// A Store holds one entity kind (memos, items, users) keyed by an integer id
// that the store assigns itself. It supports:
//
//   - Create with monotonically increasing ids that are never reused
//   - Get, List (insertion order), Update with preserved id, Delete, Clear
//   - Optional unique keys checked at create time (e.g. usernames)
//   - Observer hooks for operation metrics
//
// Core Types:
//
//   - Store: a typed, mutex-guarded collection of records
//   - Record: the constraint every stored entity satisfies
//   - NotFoundError, ConflictError: typed errors carrying HTTP status codes
//
// Thread Safety:
//
// All operations are safe for concurrent use. Each store owns a sync.RWMutex;
// reads proceed concurrently while id allocation, unique-key checks and
// read-modify-write updates are serialized.
//
// Usage:
//
//	users := stateful.New[User]("user",
//	    stateful.WithUnique("username", func(u User) string { return u.Username }),
//	)
//
//	u, err := users.Create(User{Username: "alice", Email: "a@example.com"})
//	u, ok := users.Get(u.ID)
//	all := users.List()
//	u, err = users.Update(u.ID, func(cur User) User { cur.IsActive = false; return cur })
//	u, err = users.Delete(u.ID)
//	n := users.Clear()
package stateful
