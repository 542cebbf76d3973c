// Package papers defines the tracked entities: authors, papers and their
// metadata.
//
// Authors are value objects identified by a hash of their normalized name,
// so two spellings of the same person ("R. Munos" and "Remi Munos") are
// different authors. Papers are keyed by the unversioned source id and carry
// a monotonically increasing version in their metadata.
package papers
