package testlib

import (
	"os"

	"github.com/onsi/gomega"
	"github.com/veedubyou/stem-remix/src/shared/config/envvar"
)

func SetTestEnv() {
	err := os.Setenv(envvar.ENVIRONMENT, "test")
	gomega.ExpectWithOffset(1, err).NotTo(gomega.HaveOccurred())
}
