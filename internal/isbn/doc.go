// Package isbn converts identifiers between their 10- and 13-character forms.
//
// To13 prefixes "978" and recomputes the mod-10 check digit; To10 strips the
// prefix and recomputes the mod-11 check digit, substituting "X" for 10.
// Thirteen-character values outside the 978 range have no short form and are
// reported with ok=false rather than an error.
package isbn
