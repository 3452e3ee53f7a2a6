// Package files locates dataset files on disk. Its resolver treats
// filenames as Unicode text rather than byte strings, so a logical name
// matches the stored entry whether the filesystem kept it composed (NFC)
// or decomposed (NFD).
package files
