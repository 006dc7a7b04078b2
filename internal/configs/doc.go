// Package configs manages the coffer configuration file.
//
// Everything coffer keeps lives in one directory, ~/.coffer by default or
// $COFFER_HOME when set:
//
//	config.toml    settings (this package)
//	store.coffer   the encrypted store
//	audit.jsonl    operation log
//	store-backup_* timestamped backups
//
// # Configuration
//
//	store = "~/.coffer/store.coffer"
//	backup = true
//	debug = false
//
//	[sync]
//	enabled = false
//	download = "rclone copy remote:store.coffer ~/.coffer"
//	upload = "rclone copy ~/.coffer/store.coffer remote:"
//
// EnsureConfig writes the defaults on first use. A leading ~ in store is
// expanded to the home directory.
//
// # Settings
//
// UserCofferSettings is initialized at startup. Call InitSettings again after
// changing COFFER_HOME, as tests do.
package configs
