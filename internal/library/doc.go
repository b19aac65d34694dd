// Package library reads the externally-owned Calibre-style document library:
// the relational metadata database (books, tags, authors, formats) and the
// separate full-text index database. Both are opened read-only; meetscan
// never writes to the library.
package library
