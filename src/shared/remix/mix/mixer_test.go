package mix_test

import (
	"context"

	"github.com/cockroachdb/errors"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	remixerrors "github.com/veedubyou/stem-remix/src/shared/remix/errors"
	"github.com/veedubyou/stem-remix/src/shared/remix/mix"
	. "github.com/veedubyou/stem-remix/src/shared/testing"
	"github.com/veedubyou/stem-remix/src/shared/testing/dummy"
)

var _ = Describe("Mix", func() {
	Describe("FilterGraph", func() {
		It("sums every input without normalizing", func() {
			Expect(mix.FilterGraph(3)).To(Equal("[0:a][1:a][2:a]amix=inputs=3:normalize=0[a]"))
		})

		It("handles a single input", func() {
			Expect(mix.FilterGraph(1)).To(Equal("[0:a]amix=inputs=1:normalize=0[a]"))
		})
	})

	Describe("FFmpegMixer", func() {
		var (
			exec    *dummy.Executor
			invoker mix.Invoker
		)

		BeforeEach(func() {
			exec = dummy.NewExecutor()
			invoker = mix.NewInvoker(mix.NewFFmpegMixer("/usr/bin/ffmpeg", exec))
		})

		It("runs ffmpeg with every input and the output", func() {
			err := invoker.Mix(context.Background(), []string{"a.wav", "b.wav"}, "out.wav")
			Expect(err).NotTo(HaveOccurred())

			commands := exec.Commands()
			Expect(commands).To(HaveLen(1))
			Expect(commands[0].Name).To(Equal("/usr/bin/ffmpeg"))
			Expect(commands[0].Args).To(Equal([]string{
				"-y",
				"-i", "a.wav",
				"-i", "b.wav",
				"-filter_complex", "[0:a][1:a]amix=inputs=2:normalize=0[a]",
				"-map", "[a]",
				"out.wav",
			}))
		})

		It("refuses to mix nothing", func() {
			err := invoker.Mix(context.Background(), nil, "out.wav")
			Expect(errors.Is(err, remixerrors.ErrNoInputs)).To(BeTrue())
			Expect(exec.Commands()).To(BeEmpty())
		})

		It("returns ffmpeg's stderr as is when it fails", func() {
			exec.Stderr = []byte("Invalid data found when processing input\n")
			exec.Err = errors.New("exit status 1")

			err := invoker.Mix(context.Background(), []string{"a.wav"}, "out.wav")
			mixErr := ExpectType[*remixerrors.MixFailedError](err)
			Expect(mixErr.Diagnostic).To(Equal("Invalid data found when processing input\n"))
			Expect(exec.Commands()).To(HaveLen(1))
		})

		It("falls back to the exit error when stderr is empty", func() {
			exec.Err = errors.New("exit status 1")

			err := invoker.Mix(context.Background(), []string{"a.wav"}, "out.wav")
			Expect(ExpectType[*remixerrors.MixFailedError](err).Diagnostic).To(Equal("exit status 1"))
		})
	})

	Describe("Invoker", func() {
		It("classifies any mixer error as a mix failure", func() {
			mixer := dummy.NewMixer()
			mixer.Fail = true
			mixer.Diagnostic = "boom"

			err := mix.NewInvoker(mixer).Mix(context.Background(), []string{"a.wav"}, "out.wav")
			Expect(remixerrors.KindOf(err)).To(Equal(remixerrors.MixFailedKind))
			Expect(err.Error()).To(Equal("FFmpeg mix failed: boom"))
		})
	})
})
