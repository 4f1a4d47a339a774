// Package confloader loads layered configuration with koanf.
//
// Sources, lowest priority first:
//
//  1. Defaults (a struct value, encoded through YAML)
//  2. A YAML configuration file
//  3. Environment variables with the SIGTOK_ prefix
//  4. Explicit overrides (flags) via LoadMap
//
// Environment names are matched against the keys known from the earlier
// layers, so SIGTOK_STORAGE_DATA_DIR resolves to storage.data_dir rather
// than storage.data.dir.
//
// Watcher reports changes to configuration files through fsnotify.
package confloader
