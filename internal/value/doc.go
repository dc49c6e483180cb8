// Package value provides the runtime values of the assertion language.
//
// Value is a sealed interface: only the types declared in this package
// implement it. Scalars (None, Bool, Int, Float, Str) are immutable Go
// values; List and Dict are pointers so that mutation through one binding
// is visible through every other binding of the same object.
//
// Formatting follows the conventions test authors already read in failure
// messages: Repr quotes strings with single quotes and spells booleans as
// True/False, so a failed equality prints as
//
//	'abc' != 'abd'
//
// Equal is a deep structural comparison in which numbers compare by value
// across int, float and bool (1 == 1.0 == True).
//
// This package imports nothing internal.
package value
