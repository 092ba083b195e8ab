// Package file provides file-based configuration and prompt storage.
// Configuration lives in a TOML file and prompt templates in
// user-editable text files, both under the arcana config directory.
package file
