// Package selector implements the signature selection cache: a fixed size
// table that maps the argument types of a call site to a small function id.
//
// A cache owns one buffer of 16-bit words split into slots of
// 1 + 2*numArgs words:
//
//	query slot                 scratch for the caller's probe/insert signature
//	array slots [numSlots]     filled contiguously from index 1, scanned linearly
//	hash slots  [hashNSlots]   optional overflow region, open addressed (xxhash)
//
// Each stored slot is laid out as
//
//	word 0       fnId & 0xFFE0 | count      (count = number of types, 1..16)
//	words 1..N   type identifier words, Null padded
//	word last    word | (fnId & 0x001F) << 3
//
// so the function id travels inside the slot and a hit needs no second
// lookup. An array slot whose header is Null is empty and ends a scan.
//
// Extension words only use their low 3 bits, which keeps bits 3..7 of the
// last word free for the payload even when a signature fills the slot.
//
// Probes never write to stored slots. Concurrent probes are fine as long as
// no insert runs at the same time; inserts must be serialized by the owner.
package selector
