package api_test

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"assfontui/internal/api"
	"assfontui/internal/config"
	"assfontui/internal/engine"
	"assfontui/internal/logging"
	"assfontui/internal/portfile"
	"assfontui/internal/testsupport"
)

type recordingExecutor struct {
	calls int
	args  []string
}

func (r *recordingExecutor) Run(_ context.Context, _ string, args []string) (engine.Result, error) {
	r.calls++
	r.args = args
	return engine.Result{Stdout: []byte("subset complete")}, nil
}

func newService(t *testing.T) (*api.Service, *config.Environment, *recordingExecutor) {
	t.Helper()
	env := testsupport.NewEnvironment(t)
	exec := &recordingExecutor{}
	svc := api.NewService(env, api.WithInvoker(engine.New(env.EngineBinary, engine.WithExecutor(exec))))
	return svc, env, exec
}

func TestLoadConfigWithoutSelection(t *testing.T) {
	svc, _, _ := newService(t)
	res := svc.LoadConfig("  ")
	if res.Error != api.MsgNoConfigSelected {
		t.Fatalf("unexpected error %q", res.Error)
	}
	if res.Config.SubsetBackend != string(config.DefaultBackend) || res.Config.ServerPort != config.DefaultPort {
		t.Fatalf("expected defaults, got %+v", res.Config)
	}
}

func TestLoadConfigUsesPersistedPortForDefaults(t *testing.T) {
	svc, _, _ := newService(t)
	if !svc.Registry().Write(9001) {
		t.Fatal("seed port")
	}
	if got := svc.LoadConfig("").Config.ServerPort; got != 9001 {
		t.Fatalf("expected persisted port, got %d", got)
	}
	if got := svc.Defaults().Config.ServerPort; got != 9001 {
		t.Fatalf("expected persisted port in defaults, got %d", got)
	}
}

func TestLoadConfigCorruptFile(t *testing.T) {
	svc, env, _ := newService(t)
	path := filepath.Join(env.WorkDir, "bad.json")
	testsupport.WriteFile(t, path, "{not json")

	res := svc.LoadConfig(path)
	if !strings.HasPrefix(res.Error, "failed to load configuration") {
		t.Fatalf("unexpected error %q", res.Error)
	}
	if res.Config.Debug || len(res.Config.InputPaths) != 0 {
		t.Fatalf("expected defaults, got %+v", res.Config)
	}
}

func TestSaveThenLoadConfig(t *testing.T) {
	svc, env, _ := newService(t)
	sub := testsupport.WriteSubtitle(t, env.WorkDir, "ep.ass")
	resolvedSub, err := filepath.EvalSymlinks(sub)
	if err != nil {
		t.Fatalf("EvalSymlinks: %v", err)
	}

	msg := svc.SaveConfig(api.SaveRequest{
		Dir:      `"` + env.WorkDir + `"`,
		Filename: "preset",
		Config: api.ConfigFields{
			InputPaths:        []string{resolvedSub},
			SubsetBackend:     "HarfBuzzSubset",
			SourceHanEllipsis: true,
			Debug:             true,
			ServerPort:        8500,
		},
	})
	if !strings.HasPrefix(msg, "configuration saved to: ") || !strings.HasSuffix(msg, "preset.json") {
		t.Fatalf("unexpected save message %q", msg)
	}

	res := svc.LoadConfig(strings.TrimPrefix(msg, "configuration saved to: "))
	if res.Error != "" {
		t.Fatalf("unexpected load error %q", res.Error)
	}
	if res.Config.SubsetBackend != "HarfBuzzSubset" || !res.Config.Debug || res.Config.ServerPort != 8500 {
		t.Fatalf("round trip mismatch: %+v", res.Config)
	}
	if len(res.Config.InputPaths) != 1 || res.Config.InputPaths[0] != resolvedSub {
		t.Fatalf("unexpected inputs %v", res.Config.InputPaths)
	}
}

func TestSaveConfigInvalidDirectory(t *testing.T) {
	svc, env, _ := newService(t)
	msg := svc.SaveConfig(api.SaveRequest{Dir: filepath.Join(env.WorkDir, "missing")})
	if !strings.Contains(msg, "path is not a valid directory") {
		t.Fatalf("unexpected message %q", msg)
	}
}

func TestRunReportsAndSpawnsOnlyWithInputs(t *testing.T) {
	svc, env, exec := newService(t)

	if text := svc.Run(context.Background(), api.RunRequest{}); text != engine.NoInputsMessage {
		t.Fatalf("unexpected text %q", text)
	}
	if exec.calls != 0 {
		t.Fatal("executor must not run without inputs")
	}

	sub := testsupport.WriteSubtitle(t, env.WorkDir, "ep.ass")
	res := svc.Execute(context.Background(), api.RunRequest{InputPaths: []string{sub}, SubsetBackend: "PyFontTools", SourceHanEllipsis: true})
	if !res.Success || !strings.Contains(res.Text, "subset complete") || res.RunID == "" {
		t.Fatalf("unexpected result %+v", res)
	}
	if exec.calls != 1 {
		t.Fatalf("expected one executor call, got %d", exec.calls)
	}
}

func TestSavePortTexts(t *testing.T) {
	svc, _, _ := newService(t)
	cases := map[string]string{
		"abc":   api.MsgPortInvalid,
		"":      api.MsgPortInvalid,
		"80":    "port must be between 1024 and 65535",
		"65536": "port must be between 1024 and 65535",
		" 8080": "port saved: 8080 (takes effect on next launch)",
	}
	for input, want := range cases {
		if got := svc.SavePort(input); got != want {
			t.Errorf("SavePort(%q) = %q, want %q", input, got, want)
		}
	}
	if port, ok := svc.Registry().Read(); !ok || port != 8080 {
		t.Fatalf("registry = %d, %v", port, ok)
	}
}

func TestStorePortReportsWriteFailure(t *testing.T) {
	env := testsupport.NewEnvironment(t)
	blocker := filepath.Join(env.WorkDir, "blocker")
	testsupport.WriteFile(t, blocker, "not a directory")
	svc := api.NewService(env, api.WithRegistry(portfile.New(filepath.Join(blocker, "WebUI_Port.txt"))))

	message, ok := svc.StorePort("8123")
	if ok || message != "failed to save port 8123; see the log for details" {
		t.Fatalf("StorePort = %q, %v", message, ok)
	}
	if message, ok := svc.StorePort("80"); ok || !strings.Contains(message, "between") {
		t.Fatalf("StorePort(80) = %q, %v", message, ok)
	}
}

func TestReadLog(t *testing.T) {
	svc, env, _ := newService(t)
	if got := svc.ReadLog(); got != api.MsgNoLogContent {
		t.Fatalf("unexpected empty log text %q", got)
	}

	logger, err := logging.New(logging.Options{FilePath: env.LogFile, Console: &strings.Builder{}})
	if err != nil {
		t.Fatalf("logging.New: %v", err)
	}
	logger.Info("hello log view")
	if got := svc.ReadLog(); !strings.Contains(got, "INFO hello log view") {
		t.Fatalf("unexpected log text %q", got)
	}
}
