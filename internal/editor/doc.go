// Package editor holds the text editing model of the compose forms: a
// rune-indexed FieldBuffer and the multi-field Draft built on it.
package editor
