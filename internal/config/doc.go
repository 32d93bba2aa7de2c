// Package config provides configuration loading and validation for diskavl.
//
// # Configuration File
//
//	storage:
//	  path: tree.avl
//	  syncOnWrite: false
//	  readOnly: false
//	logging:
//	  level: info
//	  format: text
//	  output: stderr
//	backup:
//	  compress: true
//	seed:
//	  records: 1000
//	  min: 0
//	  max: 1000000
//
// Values may reference the environment as ${VAR} or ${VAR:-default}. Keys
// that are absent keep the values of DefaultConfig.
//
// # Environment Overrides
//
// ApplyEnvOverrides applies these variables after the file is loaded:
//
//	DISKAVL_STORAGE_PATH
//	DISKAVL_STORAGE_SYNC_ON_WRITE
//	DISKAVL_LOGGING_LEVEL
//	DISKAVL_LOGGING_FORMAT
//	DISKAVL_LOGGING_OUTPUT
//
// # Validation
//
//	if errs := config.ValidateConfig(cfg); len(errs) > 0 {
//	    for _, err := range errs {
//	        fmt.Println(err)
//	    }
//	}
package config
