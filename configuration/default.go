package configuration

import (
	"os"
	"path/filepath"
)

func Default() Configuration {
	return Configuration{
		Dir:         filepath.Join(os.TempDir(), "colindex", "table"),
		HttpAddr:    "127.0.0.1:8080",
		Compression: "none",
		LogLevel:    "info",
		ShowBanner:  true,
	}
}
