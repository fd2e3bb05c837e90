package constants

import (
	"os"
	"path/filepath"
)

// Environment overriding the directory searched last for config.yaml.
const DefaultHomeEnv string = "CORDIAL_HOME"

// Environment naming an explicit config file.
const ConfigEnv string = "CORDIAL_CONFIG"

// DefaultHome is $CORDIAL_HOME, else ~/.cordial, else /data.
var DefaultHome = defaultHome()

func defaultHome() string {
	if home := os.Getenv(DefaultHomeEnv); home != "" {
		return home
	}
	userHomeDir, err := os.UserHomeDir()
	if err != nil {
		return "/data"
	}
	return filepath.Join(userHomeDir, ".cordial")
}
