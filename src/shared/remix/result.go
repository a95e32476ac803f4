package remix

import (
	"github.com/veedubyou/stem-remix/src/shared/remix/request"
	"github.com/veedubyou/stem-remix/src/shared/remix/stem"
)

// StaticOutputPrefix is the URL path the output root is served under
const StaticOutputPrefix = "/static/output"

type Result struct {
	MixURL     string   `json:"mix_url"`
	MixPath    string   `json:"-"`
	MixName    string   `json:"mix_name"`
	Label      string   `json:"label"`
	Preset     string   `json:"preset"`
	Mode       string   `json:"mode"`
	Removals   []string `json:"removals"`
	Instrument string   `json:"instrument,omitempty"`
	Action     string   `json:"action"`
	Kept       []string `json:"kept"`
	StemsDir   string   `json:"stems_dir"`
	FileName   string   `json:"file_name"`
}

func removalsOf(req request.Request) []string {
	removals := []string{}
	if req.Mode() != request.MultiMode {
		return removals
	}

	for _, target := range req.Targets() {
		removals = append(removals, string(target))
	}

	return removals
}

func instrumentOf(req request.Request) string {
	if req.Mode() != request.SingleMode {
		return ""
	}

	return string(req.Targets()[0])
}

func instrumentNames(instruments []stem.Instrument) []string {
	names := make([]string, 0, len(instruments))
	for _, instrument := range instruments {
		names = append(names, string(instrument))
	}

	return names
}
