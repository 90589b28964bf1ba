// Package cache stores API responses for a short time so that paging back and
// forth through recipes or re-running a command does not hit the backend again.
//
// Two backends share the Store interface:
//   - FileStore keeps one JSON file per entry under ~/.nutriboard/cache/
//   - RedisStore keeps entries in Redis with a native TTL, for shared setups
//
// Keys are SHA256 hashes of the request method, path and sorted query, so the
// same request always maps to the same entry regardless of parameter order.
package cache
