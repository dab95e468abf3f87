package cli

import (
	"bytes"
	"context"

	"github.com/matzehuels/spancal/pkg/errors"
	"github.com/matzehuels/spancal/pkg/export"
	"github.com/matzehuels/spancal/pkg/layout"
	"github.com/matzehuels/spancal/pkg/render/nodelink"
	"github.com/matzehuels/spancal/pkg/render/physical"
	"github.com/matzehuels/spancal/pkg/store"
)

// Export formats accepted by the export command and the HTTP API.
const (
	formatGeneric   = "generic"
	formatSpanright = "spanright"
	formatURL       = "url"
)

const (
	contentJSON = "application/json"
	contentText = "text/plain; charset=utf-8"
	contentSVG  = "image/svg+xml"
	contentDOT  = "text/vnd.graphviz"
)

// document is a rendered artifact of a stored run.
type document struct {
	body        []byte
	contentType string
}

// exportDocument renders run in one of the export formats.
func exportDocument(run *store.Run, format string) (document, error) {
	switch format {
	case formatGeneric:
		doc, err := export.BuildConfig(run.Monitors, run.Results, run.CreatedAt)
		if err != nil {
			return document{}, err
		}
		return jsonDocument(doc)
	case formatSpanright, formatURL:
		l, err := export.Spanright(run.Monitors, run.Results)
		if err != nil {
			return document{}, err
		}
		if format == formatSpanright {
			return jsonDocument(l)
		}
		u, err := export.URL(l)
		if err != nil {
			return document{}, err
		}
		return document{body: []byte(u + "\n"), contentType: contentText}, nil
	default:
		return document{}, errors.New(errors.ErrCodeUnsupported,
			"unknown export format %q (want %s, %s or %s)", format, formatGeneric, formatSpanright, formatURL)
	}
}

func jsonDocument(v any) (document, error) {
	var buf bytes.Buffer
	if err := export.WriteJSON(v, &buf); err != nil {
		return document{}, err
	}
	return document{body: buf.Bytes(), contentType: contentJSON}, nil
}

// treeDocument renders the calibration tree, as Graphviz source when dot is
// set and as SVG otherwise.
func treeDocument(ctx context.Context, run *store.Run, detailed, dot bool) (document, error) {
	src := nodelink.ToDOT(run.Monitors, run.Results, nodelink.Options{Detailed: detailed})
	if dot {
		return document{body: []byte(src), contentType: contentDOT}, nil
	}
	svg, err := nodelink.RenderSVG(ctx, src)
	if err != nil {
		return document{}, err
	}
	return document{body: svg, contentType: contentSVG}, nil
}

// layoutDocument draws the reconstructed physical layout.
func layoutDocument(run *store.Run, fit bool) (document, error) {
	ps, err := layout.Reconstruct(run.Monitors, run.Results)
	if err != nil {
		return document{}, err
	}
	opt := physical.WithCanvas()
	if fit {
		opt = physical.WithFit()
	}
	return document{body: physical.RenderSVG(run.Monitors, ps, opt), contentType: contentSVG}, nil
}
