// Package protocol owns the burrow wire format: the fixed 8-byte header,
// the four packet variants, and their payload codecs.
//
// Frame layout (all integers big-endian):
//
//	0      2        4    5         7    8
//	┌──────┬────────┬────┬─────────┬────┬──────────────┐
//	│magic │version │type│ conn id │len │ payload ...  │
//	│BB 50 │ 00 01  │    │         │    │ len bytes    │
//	└──────┴────────┴────┴─────────┴────┴──────────────┘
//
// Ownership boundary:
// - header encode/decode and compatibility checks
// - type tag registry and payload codecs
// - connection id allocation for outbound requests
package protocol
