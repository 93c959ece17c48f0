/*
Package tlvpack packs newline-delimited JSON objects into a compact binary
type-length-value stream.

Object keys are not stored in records. Each distinct key is assigned a
one-byte index on first sight, and the index-to-key dictionary is appended
once, at the end of the file, when the Packer is closed.

Only flat objects are supported: values must be null, booleans, numbers or
strings. Fields holding arrays or nested objects are left out of the record
and reported.

# Binary format

**File**: zero or more records, then exactly one dictionary block.

**Record**: the byte '{', then one pair per packed field in source order,
then the byte '}'.

**Pair**: key index (u8), type tag (u8), then for every type except null a
length (u8) and that many payload bytes.

**Type tags**: 0 null, 1 boolean, 2 integer, 3 real, 4 string, 5 dictionary.

**Payloads**:
 1. Boolean: 1 byte, 0 or 1.
 2. Integer: 8 bytes, int64, little-endian.
 3. Real: 8 bytes, IEEE-754 float64, little-endian.
 4. String: the raw UTF-8 bytes, no terminator.

**Dictionary block**: tag 5, key count (u8), then for every key in
ascending byte order: index (u8), key length (u8), key bytes. The block has
no terminator; it ends at the end of the file.

**Limits**: a file holds at most MaxKeys distinct keys; keys and string
values are at most MaxLen bytes long. Lines that exceed the limits are
rejected as a whole.

**Indices** are assigned in order of first appearance and never change
once a record using them has been written. Keys first seen on a rejected
line are not kept.
*/
package tlvpack
