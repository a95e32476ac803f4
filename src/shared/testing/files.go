package testlib

import (
	"os"
	"path/filepath"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
)

// FakeAudio is stand-in file content. Nothing in the pipeline decodes audio
// itself, the external tools are replaced by dummies in tests.
var FakeAudio = []byte("RIFF fake wave data")

func WriteFile(path string, content []byte) {
	err := os.MkdirAll(filepath.Dir(path), os.ModePerm)
	gomega.ExpectWithOffset(1, err).NotTo(gomega.HaveOccurred())

	err = os.WriteFile(path, content, 0o644)
	gomega.ExpectWithOffset(1, err).NotTo(gomega.HaveOccurred())
}

func FileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// TempDir makes a scratch directory that is removed when the current test ends
func TempDir() string {
	dir, err := os.MkdirTemp("", "stem-remix-test-")
	gomega.ExpectWithOffset(1, err).NotTo(gomega.HaveOccurred())

	ginkgo.DeferCleanup(func() {
		_ = os.RemoveAll(dir)
	})

	return dir
}
