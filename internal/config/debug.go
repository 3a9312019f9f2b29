package config

import "os"

func IsDebug() bool {
	return os.Getenv("TASTY_DEBUG") == "1"
}
