package configs

import (
	"log"
	"os"
	"path/filepath"
)

// HomeEnvVar overrides the default coffer directory.
const HomeEnvVar = "COFFER_HOME"

const (
	configFileName = "config.toml"
	storeFileName  = "store.coffer"
	auditFileName  = "audit.jsonl"
)

type UserSettings struct {
	DefaultDir string
	ConfigPath string
	StorePath  string
	AuditPath  string
}

var UserCofferSettings *UserSettings

func init() {
	if err := InitSettings(); err != nil {
		log.Fatalf("error getting home directory: %s", err)
	}
}

// InitSettings resolves the coffer directory, honouring COFFER_HOME.
func InitSettings() error {
	dir := os.Getenv(HomeEnvVar)
	if dir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return err
		}
		dir = filepath.Join(homeDir, ".coffer")
	}

	UserCofferSettings = &UserSettings{
		DefaultDir: dir,
		ConfigPath: filepath.Join(dir, configFileName),
		StorePath:  filepath.Join(dir, storeFileName),
		AuditPath:  filepath.Join(dir, auditFileName),
	}
	return nil
}
