package remix_test

import (
	"bytes"
	"context"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/veedubyou/stem-remix/src/shared/remix"
	remixerrors "github.com/veedubyou/stem-remix/src/shared/remix/errors"
	"github.com/veedubyou/stem-remix/src/shared/remix/mix"
	"github.com/veedubyou/stem-remix/src/shared/remix/request"
	"github.com/veedubyou/stem-remix/src/shared/remix/separation"
	"github.com/veedubyou/stem-remix/src/shared/remix/stem"
	. "github.com/veedubyou/stem-remix/src/shared/testing"
	"github.com/veedubyou/stem-remix/src/shared/testing/dummy"
)

var _ = Describe("Pipeline", func() {
	var (
		uploadDir  string
		outputRoot string
		factory    *dummy.EngineFactory
		mixer      *dummy.Mixer
		policy     stem.SelectionPolicy
		pipeline   remix.Pipeline

		upload remix.Upload
	)

	BeforeEach(func() {
		workDir := TempDir()
		uploadDir = filepath.Join(workDir, "uploads")
		outputRoot = filepath.Join(workDir, "output")

		factory = dummy.NewEngineFactory()
		mixer = dummy.NewMixer()
		policy = stem.DefaultSelectionPolicy()

		upload = remix.Upload{
			FileName: "My Song.mp3",
			Content:  bytes.NewReader(FakeAudio),
		}
	})

	JustBeforeEach(func() {
		cacheManager := separation.NewCacheManager(outputRoot, separation.NewRegistry(factory.Build), separation.NewKeyedMutex())
		pipeline = remix.NewPipeline(uploadDir, cacheManager, mix.NewInvoker(mixer), policy)
	})

	process := func() (remix.Result, error) {
		return pipeline.Process(context.Background(), upload)
	}

	keptInstruments := func() []string {
		calls := mixer.Calls()
		ExpectWithOffset(1, calls).To(HaveLen(1))

		kept := []string{}
		for _, input := range calls[0].Inputs {
			name := filepath.Base(input)
			kept = append(kept, name[:len(name)-len(filepath.Ext(name))])
		}
		return kept
	}

	Describe("Single remove", func() {
		BeforeEach(func() {
			upload.Fields = request.Raw{Instrument: "drums", Action: "remove"}
		})

		It("mixes everything but drums from 4 stems", func() {
			result := ExpectSuccess(process())

			Expect(result.Preset).To(Equal("4"))
			Expect(result.Label).To(Equal("no_drums"))
			Expect(result.Mode).To(Equal("single"))
			Expect(result.Action).To(Equal("remove"))
			Expect(result.Instrument).To(Equal("drums"))
			Expect(result.Removals).To(BeEmpty())
			Expect(result.Kept).To(Equal([]string{"vocals", "bass", "other"}))
			Expect(keptInstruments()).To(Equal([]string{"vocals", "bass", "other"}))
		})

		It("writes the mix next to the stems and points at it", func() {
			result := ExpectSuccess(process())

			Expect(result.FileName).To(Equal("My_Song.mp3"))
			Expect(result.MixName).To(Equal("My_Song_no_drums.wav"))
			Expect(result.MixPath).To(Equal(filepath.Join(outputRoot, "My_Song", "My_Song_no_drums.wav")))
			Expect(result.MixPath).To(BeARegularFile())
			Expect(result.MixURL).To(Equal("/static/output/My_Song/My_Song_no_drums.wav"))
			Expect(result.StemsDir).To(Equal("output/My_Song"))
		})

		It("removes the upload once stems exist", func() {
			_ = ExpectSuccess(process())

			leftovers, err := filepath.Glob(filepath.Join(uploadDir, "*"))
			Expect(err).NotTo(HaveOccurred())
			Expect(leftovers).To(BeEmpty())
		})
	})

	Describe("Single solo with karaoke", func() {
		BeforeEach(func() {
			upload.Fields = request.Raw{Instrument: "Voice", Action: "solo", Karaoke: true}
		})

		It("uses 2 stems and keeps only vocals", func() {
			result := ExpectSuccess(process())
			Expect(result.Preset).To(Equal("2"))
			Expect(result.Label).To(Equal("solo_vocals"))
			Expect(keptInstruments()).To(Equal([]string{"vocals"}))
			Expect(factory.Engine(stem.TwoStems).Calls()).To(Equal(1))
		})
	})

	Describe("Multi remove", func() {
		BeforeEach(func() {
			upload.Fields = request.Raw{Multi: true, Removals: []string{"piano", "drums"}}
		})

		It("uses 5 stems and removes both", func() {
			result := ExpectSuccess(process())
			Expect(result.Preset).To(Equal("5"))
			Expect(result.Label).To(Equal("no_drums-piano"))
			Expect(result.Mode).To(Equal("multi"))
			Expect(result.Removals).To(Equal([]string{"drums", "piano"}))
			Expect(result.Instrument).To(BeEmpty())
			Expect(keptInstruments()).To(Equal([]string{"vocals", "bass", "other"}))
		})

		It("names the mix the same whatever order removals come in", func() {
			first := ExpectSuccess(process())

			upload.Content = bytes.NewReader(FakeAudio)
			upload.Fields.Removals = []string{"drums", "piano"}
			second := ExpectSuccess(process())

			Expect(second.MixName).To(Equal(first.MixName))
		})
	})

	Describe("Multi remove of vocals alone", func() {
		BeforeEach(func() {
			upload.Fields = request.Raw{Multi: true, Removals: []string{"vocals"}}
		})

		It("uses 4 stems by default", func() {
			result := ExpectSuccess(process())
			Expect(result.Preset).To(Equal("4"))
			Expect(keptInstruments()).To(Equal([]string{"drums", "bass", "other"}))
		})

		Describe("With the fast policy", func() {
			BeforeEach(func() {
				policy.MultiVocalsOnlyPreset = stem.TwoStems
			})

			It("uses 2 stems", func() {
				result := ExpectSuccess(process())
				Expect(result.Preset).To(Equal("2"))
				Expect(keptInstruments()).To(Equal([]string{"accompaniment"}))
			})
		})
	})

	Describe("Piano without a piano stem", func() {
		It("never happens, piano always gets 5 stems", func() {
			upload.Fields = request.Raw{Instrument: "piano", Action: "solo", Karaoke: true}
			result := ExpectSuccess(process())
			Expect(result.Preset).To(Equal("5"))
			Expect(keptInstruments()).To(Equal([]string{"piano"}))
		})
	})

	Describe("A repeated request", func() {
		BeforeEach(func() {
			upload.Fields = request.Raw{Instrument: "bass"}
		})

		It("separates only once", func() {
			_ = ExpectSuccess(process())

			upload.Content = bytes.NewReader(FakeAudio)
			_ = ExpectSuccess(process())

			Expect(factory.TotalCalls()).To(Equal(1))
			Expect(mixer.Calls()).To(HaveLen(2))
		})
	})

	Describe("Concurrent requests for the same file name", func() {
		var (
			entered chan string
			release chan struct{}
		)

		BeforeEach(func() {
			entered = make(chan string, 1)
			release = make(chan struct{})

			factory.Engine(stem.FiveStems).BeforeSeparate = func(inputPath string) {
				entered <- inputPath
				<-release
			}
		})

		It("keeps each request's upload to itself", func() {
			pianoErr := make(chan error, 1)
			go func() {
				defer GinkgoRecover()
				_, err := pipeline.Process(context.Background(), remix.Upload{
					FileName: "song.mp3",
					Content:  bytes.NewReader(FakeAudio),
					Fields:   request.Raw{Instrument: "piano"},
				})
				pianoErr <- err
			}()

			var pianoInput string
			Eventually(entered).Should(Receive(&pianoInput))

			By("finishing a drums request while the piano separation is held", func() {
				result := ExpectSuccess(pipeline.Process(context.Background(), remix.Upload{
					FileName: "song.mp3",
					Content:  bytes.NewReader(FakeAudio),
					Fields:   request.Raw{Instrument: "drums"},
				}))
				Expect(result.Label).To(Equal("no_drums"))
			})

			Expect(pianoInput).To(BeAnExistingFile())
			Expect(filepath.Base(pianoInput)).To(Equal("song.mp3"))

			close(release)
			Eventually(pianoErr).Should(Receive(BeNil()))
			Expect(pianoInput).NotTo(BeAnExistingFile())
		})
	})

	Describe("Validation", func() {
		ItDoesNoWork := func() {
			It("doesn't separate or mix", func() {
				_, _ = process()
				Expect(factory.Builds()).To(Equal(0))
				Expect(mixer.Calls()).To(BeEmpty())
			})
		}

		Describe("Unsupported file", func() {
			BeforeEach(func() {
				upload.FileName = "notes.xyz"
			})

			It("is a validation error", func() {
				_, err := process()
				Expect(remixerrors.ReasonOf(err)).To(Equal(remixerrors.UnsupportedFile))
				Expect(err.Error()).To(Equal("Unsupported file type: .xyz"))
			})

			It("is checked before the form fields", func() {
				upload.Fields = request.Raw{Action: "mute"}
				_, err := process()
				Expect(remixerrors.ReasonOf(err)).To(Equal(remixerrors.UnsupportedFile))
			})

			ItDoesNoWork()
		})

		Describe("Missing file", func() {
			BeforeEach(func() {
				upload.FileName = ""
			})

			It("is a validation error", func() {
				_, err := process()
				Expect(remixerrors.ReasonOf(err)).To(Equal(remixerrors.MissingFile))
			})

			ItDoesNoWork()
		})

		Describe("Invalid action", func() {
			BeforeEach(func() {
				upload.Fields = request.Raw{Action: "mute"}
			})

			It("is a validation error", func() {
				_, err := process()
				Expect(remixerrors.ReasonOf(err)).To(Equal(remixerrors.InvalidAction))
			})

			ItDoesNoWork()
		})

		Describe("Empty multi selection", func() {
			BeforeEach(func() {
				upload.Fields = request.Raw{Multi: true}
			})

			It("is a validation error", func() {
				_, err := process()
				Expect(remixerrors.ReasonOf(err)).To(Equal(remixerrors.EmptyRemovalSet))
			})

			ItDoesNoWork()
		})

		Describe("Removing every stem", func() {
			BeforeEach(func() {
				upload.Fields = request.Raw{Multi: true, Removals: []string{"vocals", "drums", "bass", "other"}}
			})

			It("fails with an empty selection after separating", func() {
				_, err := process()
				Expect(remixerrors.ReasonOf(err)).To(Equal(remixerrors.EmptySelection))
				Expect(factory.TotalCalls()).To(Equal(1))
				Expect(mixer.Calls()).To(BeEmpty())
			})
		})

		Describe("A target the preset can't produce", func() {
			BeforeEach(func() {
				upload.Fields = request.Raw{Instrument: "kazoo"}
			})

			It("fails with stem unavailable", func() {
				_, err := process()
				Expect(remixerrors.ReasonOf(err)).To(Equal(remixerrors.StemUnavailable))
				Expect(mixer.Calls()).To(BeEmpty())
			})
		})

		Describe("An empty target", func() {
			BeforeEach(func() {
				upload.Fields = request.Raw{Instrument: ""}
			})

			It("is not swapped for drums", func() {
				_, err := process()
				Expect(remixerrors.ReasonOf(err)).To(Equal(remixerrors.StemUnavailable))
				Expect(err.Error()).To(Equal("Target stem '' not present in 4stems."))
				Expect(mixer.Calls()).To(BeEmpty())
			})
		})
	})

	Describe("External failures", func() {
		BeforeEach(func() {
			upload.Fields = request.Raw{Instrument: "drums"}
		})

		It("stops at a separation failure", func() {
			factory.Engine(stem.FourStems).Fail = true
			_, err := process()
			Expect(remixerrors.KindOf(err)).To(Equal(remixerrors.SeparationFailedKind))
			Expect(mixer.Calls()).To(BeEmpty())
		})

		It("stops at incomplete separation output", func() {
			factory.Engine(stem.FourStems).SkipStems[stem.Bass] = true
			_, err := process()
			Expect(remixerrors.KindOf(err)).To(Equal(remixerrors.IncompleteSeparationOutputKind))
			Expect(mixer.Calls()).To(BeEmpty())
		})

		It("returns the mixer's failure", func() {
			mixer.Fail = true
			mixer.Diagnostic = "amix: bad input"
			_, err := process()
			Expect(remixerrors.KindOf(err)).To(Equal(remixerrors.MixFailedKind))
			Expect(remixerrors.UserMessage(err)).To(Equal("FFmpeg mix failed: amix: bad input"))
		})
	})
})
