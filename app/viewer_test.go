package app

import (
	"os"
	"testing"

	"github.com/spf13/afero"
)

//Headless wiring of the viewer, everything but GL
func TestNewViewer(t *testing.T) {
	fs := afero.NewMemMapFs()
	afero.WriteFile(fs, "/tuning.toml", []byte("power = 8\n"), 0644)

	cfg := DefaultViewerConfig()
	cfg.TuningFile = "/tuning.toml"
	cfg.Rings, cfg.Segments = 12, 16

	v, err := NewViewer(cfg, fs)
	if err != nil {
		t.Fatalf("NewViewer failed: %s", err)
	}
	if v.Body.Params().Power != 8 {
		t.Errorf("Tuning file not used: %+v", v.Body.Params())
	}

	v.Source.SetCursor(float64(cfg.Width)/2+3, float64(cfg.Height)/2+2)
	v.Source.SetPressed(true)
	for i := 0; i < 5; i++ {
		if err := v.Driver.Step(1.0 / 60.0); err != nil {
			t.Fatalf("Step failed: %s", err)
		}
	}

	if staged, _ := v.Publisher.Stats(); staged == 0 {
		t.Errorf("Deforming body should publish to the GL stage")
	}
	if f, _ := v.Hand.Finger(0); !f.Pressed || f.Pressure <= 0 {
		t.Errorf("Cursor contact should press finger 0, got %+v", f)
	}

	v.Actuator.Step()
	if v.Actuator.Peak() <= 0 {
		t.Errorf("Actuator should respond to the pressed finger")
	}

	v.Source.SetPressed(false)
	v.Driver.Step(1.0 / 60.0)
	if f, _ := v.Hand.Finger(0); f.Pressed {
		t.Errorf("Finger should lift with the button")
	}
}

func TestNewViewerBadTuning(t *testing.T) {
	cfg := DefaultViewerConfig()
	cfg.TuningFile = "/missing.toml"
	if _, err := NewViewer(cfg, afero.NewMemMapFs()); err == nil {
		t.Errorf("Missing tuning file should fail")
	}
}

//Opens a window, only with a display: ELASTIC_VIEWER=1 go test ./app
func TestRenderElasticGL(t *testing.T) {
	if os.Getenv("ELASTIC_VIEWER") == "" {
		t.Skip("set ELASTIC_VIEWER to open the viewer")
	}
	if err := RenderElasticGL(DefaultViewerConfig()); err != nil {
		t.Errorf("Viewer failed: %s", err)
	}
}
