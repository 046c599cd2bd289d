package config

import (
	"flag"
)

// ParseFlags parses all configuration flags.
//
// Flags:
//
//	-driver metadata database driver ("sqlite3" or "pgx")
//	-d database DSN (file path for sqlite3, URI for pgx)
//	-f vault file path for the raw ciphertext store
//	-log-level minimum log level ("debug", "info", "warn", "error")
//	-c/-config json file path with configs
func ParseFlags() *StructuredConfig {
	var dbDriver string
	var databaseDSN string
	var vaultFilePath string
	var logLevel string
	var jsonConfigPath string

	flag.StringVar(&dbDriver, "driver", "", "Metadata database driver (sqlite3 or pgx)")
	flag.StringVar(&databaseDSN, "d", "", "Database DSN")
	flag.StringVar(&vaultFilePath, "f", "", "Vault file path")
	flag.StringVar(&logLevel, "log-level", "", "Minimum log level")
	flag.StringVar(&jsonConfigPath, "c", "", "JSON config file path")
	flag.StringVar(&jsonConfigPath, "config", "", "JSON config file path (alias)")

	flag.Parse()

	return &StructuredConfig{
		App: App{
			LogLevel: logLevel,
		},
		Storage: Storage{
			DB: DB{
				Driver: dbDriver,
				DSN:    databaseDSN,
			},
			Vault: Vault{
				FilePath: vaultFilePath,
			},
		},
		JSONFilePath: jsonConfigPath,
	}
}
