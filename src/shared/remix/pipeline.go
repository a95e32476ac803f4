package remix

import (
	"context"
	"io"
	"os"
	"path"
	"path/filepath"

	"github.com/apex/log"
	"github.com/google/uuid"
	"github.com/veedubyou/stem-remix/src/shared/lib/cerr"
	"github.com/veedubyou/stem-remix/src/shared/remix/compose"
	remixerrors "github.com/veedubyou/stem-remix/src/shared/remix/errors"
	"github.com/veedubyou/stem-remix/src/shared/remix/mix"
	"github.com/veedubyou/stem-remix/src/shared/remix/request"
	"github.com/veedubyou/stem-remix/src/shared/remix/separation"
	"github.com/veedubyou/stem-remix/src/shared/remix/stem"
)

type Pipeline struct {
	uploadDir    string
	cacheManager separation.CacheManager
	mixer        mix.Invoker
	policy       stem.SelectionPolicy
}

func NewPipeline(uploadDir string, cacheManager separation.CacheManager, mixer mix.Invoker, policy stem.SelectionPolicy) Pipeline {
	return Pipeline{
		uploadDir:    uploadDir,
		cacheManager: cacheManager,
		mixer:        mixer,
		policy:       policy,
	}
}

// Process runs one request end to end. Nothing is retried, the first
// failing stage ends the request with its error.
func (p Pipeline) Process(ctx context.Context, upload Upload) (Result, error) {
	fileName, req, err := upload.Validate()
	if err != nil {
		return Result{}, err
	}

	preset := req.Preset(p.policy)
	if err := checkFastPath(req, preset); err != nil {
		return Result{}, err
	}

	logger := log.WithFields(log.Fields{
		"file_name": fileName,
		"mode":      req.Mode(),
		"action":    req.Action(),
		"targets":   req.Targets(),
		"preset":    preset,
	})
	logger.Info("Processing remix request")

	asset, err := p.saveUpload(fileName, upload.Content)
	if err != nil {
		return Result{}, err
	}
	defer removeUploadDir(asset)

	stemSet, err := p.cacheManager.EnsureStems(ctx, asset, preset)
	if err != nil {
		return Result{}, err
	}

	plan, err := compose.Compose(req, stemSet)
	if err != nil {
		return Result{}, err
	}

	mixName := asset.BaseName + "_" + plan.Label + ".wav"
	mixPath := filepath.Join(stemSet.Dir, mixName)

	logger.WithField("keep", plan.Instruments()).Info("Mixing stems")
	if err := p.mixer.Mix(ctx, plan.Paths(), mixPath); err != nil {
		return Result{}, err
	}

	logger.WithField("mix_path", mixPath).Info("Remix finished")

	return Result{
		MixURL:     path.Join(StaticOutputPrefix, asset.BaseName, mixName),
		MixPath:    mixPath,
		MixName:    mixName,
		Label:      plan.Label,
		Preset:     preset.Pretty(),
		Mode:       string(req.Mode()),
		Removals:   removalsOf(req),
		Instrument: instrumentOf(req),
		Action:     string(req.Action()),
		Kept:       instrumentNames(plan.Instruments()),
		StemsDir:   path.Join("output", asset.BaseName),
		FileName:   fileName,
	}, nil
}

// checkFastPath rejects single mode targets a two-way split can't produce.
// The selector only picks 2stems for vocals, so this only trips on a policy change.
func checkFastPath(req request.Request, preset stem.Preset) error {
	if req.Mode() != request.SingleMode || preset != stem.TwoStems {
		return nil
	}

	target := req.Targets()[0]
	if target != stem.Vocals && target != stem.Accompaniment {
		return remixerrors.NewValidationError(remixerrors.StemUnavailable,
			"Fast Karaoke Mode (2-stems) only supports 'vocals' or 'accompaniment'.")
	}

	return nil
}

// saveUpload gives every request its own directory, so requests for the same
// file name never share an upload. The file name itself is kept since the
// engine names the stem directory after it.
func (p Pipeline) saveUpload(fileName string, content io.Reader) (separation.Asset, error) {
	requestDir := filepath.Join(p.uploadDir, uuid.New().String())
	errctx := cerr.Field("upload_dir", requestDir).Field("file_name", fileName)

	if err := os.MkdirAll(requestDir, os.ModePerm); err != nil {
		return separation.Asset{}, errctx.Wrap(err).Error("Failed to create the upload directory")
	}

	uploadPath := filepath.Join(requestDir, fileName)
	file, err := os.Create(uploadPath)
	if err != nil {
		return separation.Asset{}, errctx.Wrap(err).Error("Failed to create the upload file")
	}
	defer file.Close()

	if _, err := io.Copy(file, content); err != nil {
		return separation.Asset{}, errctx.Wrap(err).Error("Failed to write the upload file")
	}

	return separation.NewAsset(uploadPath), nil
}

// removeUploadDir drops the request's upload directory once it is empty.
// An upload kept after a failed separation keeps its directory too.
func removeUploadDir(asset separation.Asset) {
	uploadDir := filepath.Dir(asset.Path)
	err := os.Remove(uploadDir)
	if err != nil && !os.IsNotExist(err) {
		log.WithField("upload_dir", uploadDir).
			WithError(err).
			Debug("Upload directory left on disk")
	}
}
