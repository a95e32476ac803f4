package process_test

import (
	"net/http"
	"net/http/httptest"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/veedubyou/stem-remix/src/server/internal/process/errors"
	"github.com/veedubyou/stem-remix/src/server/internal/process/gateway"
	"github.com/veedubyou/stem-remix/src/server/internal/process/usecase"
	"github.com/veedubyou/stem-remix/src/shared/remix"
	"github.com/veedubyou/stem-remix/src/shared/remix/mix"
	"github.com/veedubyou/stem-remix/src/shared/remix/separation"
	"github.com/veedubyou/stem-remix/src/shared/remix/stem"
	. "github.com/veedubyou/stem-remix/src/shared/testing"
	"github.com/veedubyou/stem-remix/src/shared/testing/dummy"
)

var _ = Describe("Process", func() {
	var (
		factory        *dummy.EngineFactory
		mixer          *dummy.Mixer
		processGateway processgateway.Gateway

		form     FormRequestFactory
		response *httptest.ResponseRecorder
	)

	BeforeEach(func() {
		workDir := TempDir()
		factory = dummy.NewEngineFactory()
		mixer = dummy.NewMixer()

		cacheManager := separation.NewCacheManager(
			filepath.Join(workDir, "output"),
			separation.NewRegistry(factory.Build),
			separation.NewKeyedMutex())
		pipeline := remix.NewPipeline(filepath.Join(workDir, "uploads"), cacheManager, mix.NewInvoker(mixer), stem.DefaultSelectionPolicy())
		processGateway = processgateway.NewGateway(processusecase.NewUsecase(pipeline))

		form = FormRequestFactory{
			Method:      "POST",
			Target:      "/process",
			FileName:    "song.mp3",
			FileContent: FakeAudio,
			Fields:      map[string][]string{},
		}
	})

	JustBeforeEach(func() {
		response = httptest.NewRecorder()
		c := PrepareEchoContext(form.MakeFake(), response)
		err := processGateway.Process(c)
		Expect(err).NotTo(HaveOccurred())
	})

	Describe("Single removal", func() {
		BeforeEach(func() {
			form.Fields["instrument"] = []string{"drums"}
			form.Fields["action"] = []string{"remove"}
		})

		It("returns the mix", func() {
			Expect(response.Code).To(Equal(http.StatusOK))

			result := DecodeJSON[map[string]any](response.Body)
			Expect(result["mix_url"]).To(Equal("/static/output/song/song_no_drums.wav"))
			Expect(result["preset"]).To(Equal("4"))
			Expect(result["mode"]).To(Equal("single"))
			Expect(result["instrument"]).To(Equal("drums"))
			Expect(result["stems_dir"]).To(Equal("output/song"))
			Expect(result["file_name"]).To(Equal("song.mp3"))
			Expect(result).NotTo(HaveKey("MixPath"))
		})
	})

	Describe("No instrument field", func() {
		It("removes drums", func() {
			Expect(response.Code).To(Equal(http.StatusOK))

			result := DecodeJSON[map[string]any](response.Body)
			Expect(result["instrument"]).To(Equal("drums"))
			Expect(result["label"]).To(Equal("no_drums"))
		})
	})

	Describe("Empty instrument field", func() {
		BeforeEach(func() {
			form.Fields["instrument"] = []string{""}
		})

		It("is a bad request", func() {
			Expect(response.Code).To(Equal(http.StatusBadRequest))

			apiErr := DecodeJSONError(response.Body)
			Expect(apiErr.Code).To(Equal(string(processerrors.StemUnavailableCode)))
			Expect(apiErr.Msg).To(Equal("Target stem '' not present in 4stems."))
		})
	})

	Describe("Multi removal", func() {
		BeforeEach(func() {
			form.Fields["multi"] = []string{"on"}
			form.Fields["remove_multi"] = []string{"bass", "Drums"}
		})

		It("removes every checked instrument", func() {
			Expect(response.Code).To(Equal(http.StatusOK))

			result := DecodeJSON[map[string]any](response.Body)
			Expect(result["label"]).To(Equal("no_bass-drums"))
			Expect(result["removals"]).To(Equal([]any{"bass", "drums"}))
		})
	})

	Describe("Unsupported file", func() {
		BeforeEach(func() {
			form.FileName = "song.xyz"
		})

		It("is a bad request", func() {
			Expect(response.Code).To(Equal(http.StatusBadRequest))

			apiErr := DecodeJSONError(response.Body)
			Expect(apiErr.Code).To(Equal(string(processerrors.UnsupportedFileCode)))
			Expect(apiErr.Msg).To(Equal("Unsupported file type: .xyz"))
		})
	})

	Describe("No file", func() {
		BeforeEach(func() {
			form.FileName = ""
		})

		It("is a bad request", func() {
			Expect(response.Code).To(Equal(http.StatusBadRequest))
			Expect(DecodeJSONError(response.Body).Code).To(Equal(string(processerrors.MissingFileCode)))
		})
	})

	Describe("Empty multi selection", func() {
		BeforeEach(func() {
			form.Fields["multi"] = []string{"1"}
		})

		It("is a bad request", func() {
			Expect(response.Code).To(Equal(http.StatusBadRequest))

			apiErr := DecodeJSONError(response.Body)
			Expect(apiErr.Code).To(Equal(string(processerrors.EmptyRemovalSetCode)))
			Expect(apiErr.Msg).To(Equal("Choose at least one instrument to remove in multi-removal mode."))
		})
	})

	Describe("Separation failure", func() {
		BeforeEach(func() {
			factory.Engine(stem.FourStems).Fail = true
		})

		It("is a server error", func() {
			Expect(response.Code).To(Equal(http.StatusInternalServerError))

			apiErr := DecodeJSONError(response.Body)
			Expect(apiErr.Code).To(Equal(string(processerrors.SeparationFailedCode)))
			Expect(apiErr.Msg).To(HavePrefix("Spleeter failed (4stems):"))
		})
	})

	Describe("Mix failure", func() {
		BeforeEach(func() {
			mixer.Fail = true
			mixer.Diagnostic = "Output file is empty"
		})

		It("is a server error carrying the mixer's output", func() {
			Expect(response.Code).To(Equal(http.StatusInternalServerError))

			apiErr := DecodeJSONError(response.Body)
			Expect(apiErr.Code).To(Equal(string(processerrors.MixFailedCode)))
			Expect(apiErr.Msg).To(Equal("FFmpeg mix failed: Output file is empty"))
		})
	})
})
