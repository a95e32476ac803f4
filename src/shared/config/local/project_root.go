package local

import (
	"path"
	"runtime"
	"strings"

	"github.com/apex/log"
	"github.com/joho/godotenv"
)

func ProjectRoot() string {
	_, filePath, _, ok := runtime.Caller(0)

	if !ok {
		panic("Failed to call runtime.Caller")
	}

	if !strings.HasSuffix(filePath, "/src/shared/config/local/project_root.go") {
		panic("project_root.go has moved, update the depth below")
	}

	// projectRoot/src/shared/config/local/project_root.go
	for i := 0; i < 5; i++ {
		filePath = path.Dir(filePath)
	}

	return filePath
}

// LoadDotEnv fills in unset env vars from projectRoot/.env, if the file exists.
// Variables that are already set win over the file.
func LoadDotEnv() {
	dotEnvPath := path.Join(ProjectRoot(), ".env")
	if err := godotenv.Load(dotEnvPath); err != nil {
		log.WithField("path", dotEnvPath).
			WithError(err).
			Debug("No .env file loaded")
	}
}
