// Package extract reads data out of source PostgreSQL databases and converts
// result sets into Apache Arrow records for downstream loading. It also
// provides table listing and schema discovery against a source.
package extract
