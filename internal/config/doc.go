// Package config loads, normalizes, and validates codecbench configuration.
//
// Settings come from a TOML file: the path given on the command line, else ~/.config/codecbench/config.toml,
// else ./codecbench.toml, else built-in defaults. Paths are tilde-expanded and made absolute, and
// CODECBENCH_DATA_DIR overrides the data directory. Every codec instance is declared in its own [codecs.<name>]
// table; the instance name becomes the decoded file name in a dataset.
package config
