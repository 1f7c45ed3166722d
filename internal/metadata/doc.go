// Package metadata reads and writes secondary module images.
//
// An image is a msgpack document holding the module name, a table of
// embedded resources and the payload those resources point into. Each
// resource entry is stored in the payload as a little-endian uint32 length
// followed by the bytes; the table records the entry's offset.
package metadata
