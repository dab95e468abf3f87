package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"github.com/matzehuels/spancal/pkg/errors"
	"github.com/matzehuels/spancal/pkg/export"
	"github.com/matzehuels/spancal/pkg/store"
)

const twoMonitorFixture = `
[[monitor]]
device_name = '\\.\DISPLAY1'
friendly_name = "Left"
primary = true
resolution_x = 1920
resolution_y = 1080
width_mm = 509
height_mm = 286

[[monitor]]
device_name = '\\.\DISPLAY2'
friendly_name = "Right"
resolution_x = 1920
resolution_y = 1080
position_x = 1920
width_mm = 509
height_mm = 286
`

// workspace writes a fixture and a config storing runs in a sqlite file
// inside a temp dir, and returns the dir and config path.
func workspace(t *testing.T) (dir, config string) {
	t.Helper()
	dir = t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	writeFile(t, dir, "monitors.toml", twoMonitorFixture)
	config = writeFile(t, dir, "config.toml", `
monitors = "monitors.toml"

[store]
backend = "sqlite"
path = "runs.db"
`)
	return dir, config
}

func execute(t *testing.T, args ...string) error {
	t.Helper()
	root := New(io.Discard, LogInfo).RootCommand()
	root.SetArgs(args)
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	return root.ExecuteContext(context.Background())
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return string(data)
}

func TestRootCommandRegistersCommands(t *testing.T) {
	root := New(io.Discard, LogInfo).RootCommand()
	for _, name := range []string{"monitors", "plan", "calibrate", "layout", "export", "render", "runs", "serve", "completion"} {
		if cmd, _, err := root.Find([]string{name}); err != nil || cmd.Name() != name {
			t.Errorf("command %q not registered", name)
		}
	}
	for _, flag := range []string{"config", "monitors", "store"} {
		if root.PersistentFlags().Lookup(flag) == nil {
			t.Errorf("persistent flag --%s missing", flag)
		}
	}
}

func TestCalibrateScriptedEndToEnd(t *testing.T) {
	dir, config := workspace(t)
	script := writeFile(t, dir, "script.toml", "# accept the initial lines of every pass\n")
	generic := filepath.Join(dir, "calibration.json")

	if err := execute(t, "--config", config, "calibrate", "--script", script, "-o", generic); err != nil {
		t.Fatalf("calibrate: %v", err)
	}
	if doc := readFile(t, generic); !strings.Contains(doc, `"version": 1`) || !strings.Contains(doc, `"boundTo": 0`) {
		t.Errorf("generic export missing fields:\n%s", doc)
	}

	s, err := store.OpenSQLite(context.Background(), filepath.Join(dir, "runs.db"))
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	runs, err := s.List(context.Background())
	s.Close()
	if err != nil || len(runs) != 1 || runs[0].Pairs != 1 {
		t.Fatalf("stored runs = %+v, %v; want one run with one pair", runs, err)
	}

	urlFile := filepath.Join(dir, "layout.url")
	if err := execute(t, "--config", config, "export", runs[0].ID, "--format", "url", "-o", urlFile); err != nil {
		t.Fatalf("export: %v", err)
	}
	if got := readFile(t, urlFile); !strings.HasPrefix(got, export.SpanrightBaseURL) {
		t.Errorf("url export = %q", got)
	}

	layoutSVG := filepath.Join(dir, "layout.svg")
	if err := execute(t, "--config", config, "render", "--type", "layout", "--fit", "-o", layoutSVG); err != nil {
		t.Fatalf("render layout: %v", err)
	}
	if got := readFile(t, layoutSVG); !strings.Contains(got, `id="monitor-1"`) {
		t.Errorf("layout SVG missing monitor-1")
	}

	treeDOT := filepath.Join(dir, "tree.dot")
	if err := execute(t, "--config", config, "render", "latest", "-o", treeDOT); err != nil {
		t.Fatalf("render tree: %v", err)
	}
	if got := readFile(t, treeDOT); !strings.Contains(got, `"m1" -> "m0"`) {
		t.Errorf("tree DOT missing binding edge:\n%s", got)
	}
}

func TestCalibrateCancelledStoresNothing(t *testing.T) {
	dir, config := workspace(t)
	script := writeFile(t, dir, "cancel.toml", "[[pass]]\n[[pass.action]]\nkind = \"cancel\"\n")

	if err := execute(t, "--config", config, "calibrate", "--script", script); err != nil {
		t.Fatalf("cancelled calibrate should exit cleanly, got %v", err)
	}
	err := execute(t, "--config", config, "layout")
	if !errors.Is(err, errors.ErrCodeRunNotFound) {
		t.Errorf("layout after cancelled run: error = %v, want RUN_NOT_FOUND", err)
	}
}

func TestCommandErrors(t *testing.T) {
	dir, config := workspace(t)

	tests := []struct {
		name string
		args []string
		want errors.Code
	}{
		{"no fixture", []string{"--config", writeFile(t, dir, "empty.toml", ""), "monitors"}, errors.ErrCodeInvalidInput},
		{"missing fixture", []string{"--config", config, "--monitors", filepath.Join(dir, "nope.toml"), "plan"}, errors.ErrCodeNotFound},
		{"unknown store", []string{"--config", config, "--store", "etcd", "runs"}, errors.ErrCodeUnsupported},
		{"null store has no runs", []string{"--config", config, "--store", "none", "export"}, errors.ErrCodeRunNotFound},
		{"bad run id", []string{"--config", config, "layout", "../etc"}, errors.ErrCodeInvalidInput},
		{"bad render type", []string{"--config", config, "render", "--type", "pie"}, errors.ErrCodeInvalidInput},
		{"layout as dot", []string{"--config", config, "render", "--type", "layout", "-o", "x.dot"}, errors.ErrCodeUnsupported},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := execute(t, tt.args...); !errors.Is(err, tt.want) {
				t.Errorf("error = %v, want %s", err, tt.want)
			}
		})
	}
}

func TestLoadRun(t *testing.T) {
	s, run := storedRun(t)
	ctx := context.Background()

	for _, args := range [][]string{nil, {latestRun}, {run.ID}} {
		got, err := loadRun(ctx, s, args)
		if err != nil || got.ID != run.ID {
			t.Errorf("loadRun(%v) = %v, %v; want run %s", args, got, err, run.ID)
		}
	}
	if _, err := loadRun(ctx, s, []string{"a/b"}); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("loadRun(a/b) error = %v, want INVALID_INPUT", err)
	}
	if _, err := loadRun(ctx, s, []string{"missing"}); !errors.Is(err, errors.ErrCodeRunNotFound) {
		t.Errorf("loadRun(missing) error = %v, want RUN_NOT_FOUND", err)
	}
}

func TestExportDocument(t *testing.T) {
	_, run := storedRun(t)

	tests := []struct {
		format      string
		contentType string
		prefix      string
	}{
		{formatGeneric, contentJSON, "{"},
		{formatSpanright, contentJSON, "{"},
		{formatURL, contentText, export.SpanrightBaseURL},
	}
	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			doc, err := exportDocument(run, tt.format)
			if err != nil {
				t.Fatalf("exportDocument: %v", err)
			}
			if doc.contentType != tt.contentType || !strings.HasPrefix(string(doc.body), tt.prefix) {
				t.Errorf("document = %s %.60q", doc.contentType, doc.body)
			}
		})
	}

	if _, err := exportDocument(run, "csv"); !errors.Is(err, errors.ErrCodeUnsupported) {
		t.Errorf("unknown format error = %v, want UNSUPPORTED", err)
	}
}

func TestRenderOptsResolve(t *testing.T) {
	tests := []struct {
		opts       renderOpts
		wantOutput string
		wantErr    errors.Code
	}{
		{renderOpts{vizType: vizTree}, "tree.svg", ""},
		{renderOpts{vizType: vizLayout}, "layout.svg", ""},
		{renderOpts{vizType: vizTree, output: "t.gv"}, "t.gv", ""},
		{renderOpts{vizType: vizLayout, output: "l.DOT"}, "", errors.ErrCodeUnsupported},
		{renderOpts{vizType: "heatmap"}, "", errors.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		o := tt.opts
		err := o.resolve()
		if errors.GetCode(err) != tt.wantErr {
			t.Errorf("resolve(%+v) error = %v, want %q", tt.opts, err, tt.wantErr)
			continue
		}
		if err == nil && o.output != tt.wantOutput {
			t.Errorf("resolve(%+v) output = %q, want %q", tt.opts, o.output, tt.wantOutput)
		}
	}
}

func TestCompleteRunIDs(t *testing.T) {
	dir, config := workspace(t)
	script := writeFile(t, dir, "script.toml", "")
	if err := execute(t, "--config", config, "calibrate", "--script", script); err != nil {
		t.Fatalf("calibrate: %v", err)
	}

	c := New(io.Discard, LogInfo)
	c.configPath = config
	cmd := &cobra.Command{}
	cmd.SetContext(context.Background())

	ids, directive := c.completeRunIDs(cmd, nil, "")
	if directive != cobra.ShellCompDirectiveNoFileComp {
		t.Errorf("directive = %v, want NoFileComp", directive)
	}
	if len(ids) != 2 || !strings.HasPrefix(ids[0], latestRun+"\t") {
		t.Errorf("completions = %q, want latest plus one run", ids)
	}

	if ids, _ := c.completeRunIDs(cmd, []string{"x"}, ""); ids != nil {
		t.Errorf("second argument completions = %q, want none", ids)
	}
}
