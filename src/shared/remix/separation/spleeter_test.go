package separation_test

import (
	"context"
	"path/filepath"

	"github.com/cockroachdb/errors"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/veedubyou/stem-remix/src/shared/remix/separation"
	"github.com/veedubyou/stem-remix/src/shared/remix/stem"
	. "github.com/veedubyou/stem-remix/src/shared/testing"
	"github.com/veedubyou/stem-remix/src/shared/testing/dummy"
)

var _ = Describe("Spleeter", func() {
	var (
		workDir    string
		binPath    string
		modelDir   string
		exec       *dummy.Executor
		factory    separation.EngineFactory
		inputPath  string
		outputRoot string
	)

	BeforeEach(func() {
		workDir = TempDir()
		binPath = filepath.Join(workDir, "bin", "spleeter")
		WriteFile(binPath, []byte("#!/bin/sh"))

		modelDir = filepath.Join(workDir, "models")
		inputPath = filepath.Join(workDir, "uploads", "song.mp3")
		outputRoot = filepath.Join(workDir, "output")

		exec = dummy.NewExecutor()
		factory = separation.NewSpleeterFactory(binPath, modelDir, exec)
	})

	It("runs spleeter with the preset's model and the stem file layout", func() {
		engine := ExpectSuccess(factory(context.Background(), stem.FiveStems))
		Expect(engine.Separate(context.Background(), inputPath, outputRoot)).To(Succeed())

		commands := exec.Commands()
		Expect(commands).To(HaveLen(1))
		Expect(commands[0].Name).To(Equal(binPath))
		Expect(commands[0].Args).To(Equal([]string{
			"separate",
			"-p", "spleeter:5stems",
			"-o", outputRoot,
			"-c", "wav",
			"-f", "{filename}/{instrument}.{codec}",
			inputPath,
		}))
		Expect(commands[0].Dir).To(Equal(modelDir))
		Expect(commands[0].Env).To(ContainElement("MODEL_PATH=" + modelDir))
	})

	It("creates the model dir when building", func() {
		_ = ExpectSuccess(factory(context.Background(), stem.TwoStems))
		Expect(filepath.Join(modelDir)).To(BeADirectory())
	})

	It("refuses presets it has no model for", func() {
		_, err := factory(context.Background(), stem.Preset("3stems"))
		Expect(err).To(HaveOccurred())
	})

	It("refuses a missing binary", func() {
		factory = separation.NewSpleeterFactory(filepath.Join(workDir, "nope"), modelDir, exec)
		_, err := factory(context.Background(), stem.FourStems)
		Expect(err).To(HaveOccurred())
	})

	It("reports spleeter's output when it fails", func() {
		exec.Stderr = []byte("tensorflow is unhappy")
		exec.Err = errors.New("exit status 1")

		engine := ExpectSuccess(factory(context.Background(), stem.FourStems))
		err := engine.Separate(context.Background(), inputPath, outputRoot)
		Expect(err).To(MatchError(ContainSubstring("tensorflow is unhappy")))
	})

	It("doesn't start when the context is already cancelled", func() {
		engine := ExpectSuccess(factory(context.Background(), stem.FourStems))

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		Expect(engine.Separate(ctx, inputPath, outputRoot)).NotTo(Succeed())
		Expect(exec.Commands()).To(BeEmpty())
	})
})
