package app

//Manages the Elastic Scene Routine - window, simulation and tuning wiring
import (
	"runtime"
	"time"

	"diesel.com/elastic/config"
	"diesel.com/elastic/elastic"
	"diesel.com/elastic/geometry"
	"diesel.com/elastic/haptic"
	"diesel.com/elastic/pointer"
	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/glfw/v3.2/glfw"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
)

//MaxFrameTime caps a single step after a stall (window drag, breakpoint)
const MaxFrameTime = 1.0 / 3.0

//ActuatorRate is the haptic update rate, one step per swapped frame at vsync
const ActuatorRate = 60

var log = logrus.StandardLogger().WithField("component", "app")

//ViewerConfig is the host setup. Tuning lives in the config file at
//TuningFile, watched while the viewer runs.
type ViewerConfig struct {
	Width      int
	Height     int
	Title      string
	TuningFile string  //Optional toml/yaml/json file
	Radius     float32 //Sphere radius
	Rings      int
	Segments   int
	Fingers    int
}

func DefaultViewerConfig() *ViewerConfig {
	return &ViewerConfig{
		Width:    1280,
		Height:   800,
		Title:    "Diesel Elastic Surface",
		Radius:   1,
		Rings:    32,
		Segments: 48,
		Fingers:  haptic.DefaultFingers,
	}
}

//Viewer wires the simulation to the window
type Viewer struct {
	Config    *ViewerConfig
	Body      *elastic.Body
	Driver    *elastic.Driver
	Tuner     *config.Tuner
	Hand      *haptic.Hand
	Actuator  *haptic.Actuator
	Source    *pointer.Source
	Publisher *GLPublisher
	Context   *DieselContext
}

//NewViewer builds everything but the GL side
func NewViewer(cfg *ViewerConfig, fs afero.Fs) (*Viewer, error) {
	tuner, err := config.Open(fs, cfg.TuningFile)
	if err != nil {
		return nil, err
	}

	v := &Viewer{
		Config:    cfg,
		Tuner:     tuner,
		Hand:      haptic.NewHand(cfg.Fingers),
		Publisher: &GLPublisher{},
	}
	body, err := elastic.New(geometry.UVSphere(cfg.Radius, cfg.Rings, cfg.Segments), tuner.Params(),
		elastic.WithPublisher(v.Publisher),
		elastic.WithPressureSink(v.Hand))
	if err != nil {
		return nil, errors.Wrap(err, "create elastic body")
	}
	v.Body = body
	v.Actuator = haptic.NewActuator(v.Hand, ActuatorRate, 8, 1)
	v.Source = pointer.NewSource(pointer.DefaultCamera(cfg.Width, cfg.Height), body)
	v.Driver = elastic.NewDriver(body, v.Source)
	return v, nil
}

//RenderElasticGL opens the window and runs until it is closed
func RenderElasticGL(cfg *ViewerConfig) error {
	viewer, err := NewViewer(cfg, afero.NewOsFs())
	if err != nil {
		return err
	}

	//Need to Lock Thread for all OpenGL Context Calls
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	window, err := InitGLFW(&AppWindow{cfg.Width, cfg.Height, cfg.Title})
	if err != nil {
		return err
	}
	defer glfw.Terminate()

	dsl, err := InitOpenGL(viewer.Body.Committed())
	if err != nil {
		return errors.Wrap(err, "init OpenGL")
	}
	dsl.Window = window
	viewer.Context = dsl
	viewer.bindInput(window)

	viewer.Tuner.Watch()
	return viewer.Run()
}

func (v *Viewer) bindInput(w *glfw.Window) {
	w.SetKeyCallback(v.processInput)
	w.SetMouseButtonCallback(func(w *glfw.Window, button glfw.MouseButton, action glfw.Action, mods glfw.ModifierKey) {
		if button == glfw.MouseButtonLeft {
			v.Source.SetPressed(action != glfw.Release)
		}
	})
	w.SetCursorPosCallback(func(w *glfw.Window, x float64, y float64) {
		v.Source.SetCursor(x, y)
	})
	w.SetSizeCallback(func(w *glfw.Window, width int, height int) {
		v.Source.SetViewport(width, height)
	})
	w.SetFramebufferSizeCallback(func(w *glfw.Window, width int, height int) {
		gl.Viewport(0, 0, int32(width), int32(height))
	})
}

//Run is the frame loop. It must run on the thread that owns the GL context.
func (v *Viewer) Run() error {
	last := time.Now()
	for !v.Context.Window.ShouldClose() {
		now := time.Now()
		dt := now.Sub(last).Seconds()
		last = now
		if dt > MaxFrameTime {
			dt = MaxFrameTime
		}

		glfw.PollEvents()
		if _, err := v.Tuner.Apply(v.Body); err != nil {
			log.WithError(err).Error("tuning rejected")
		}
		if err := v.Driver.Step(float32(dt)); err != nil {
			log.WithError(err).Error("simulation step failed")
			return err
		}
		if _, err := v.Publisher.Upload(v.Context); err != nil {
			log.WithError(err).Error("vertex upload failed")
			return err
		}

		v.Actuator.Step()

		cam := v.Source.Camera()
		Draw(v.Context, v.Body.Transform().Matrix(), cam.View(), cam.Projection(), float32(v.Actuator.Peak()))
		v.Context.Window.SwapBuffers()
	}
	return nil
}

//Tuning keys, shift lowers the value
var tuningKeys = map[glfw.Key]struct {
	name string
	step float32
}{
	glfw.KeyE: {elastic.KeyElasticity, 1},
	glfw.KeyP: {elastic.KeyPower, 1},
	glfw.KeyD: {elastic.KeyDamping, 0.5},
	glfw.KeyA: {elastic.KeyAttenuation, 1},
}

func (v *Viewer) processInput(w *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
	if action == glfw.Release {
		return
	}
	if key == glfw.KeyEscape {
		w.SetShouldClose(true)
		return
	}
	if key == glfw.KeyTab {
		v.logStatus()
		return
	}

	tk, ok := tuningKeys[key]
	if !ok {
		return
	}
	step := tk.step
	if mods&glfw.ModShift != 0 {
		step = -step
	}
	if err := v.Tuner.Nudge(tk.name, step); err != nil {
		log.WithError(err).Warn("tuning key ignored")
		return
	}
	value, _ := v.Tuner.Params().Get(tk.name)
	log.WithFields(logrus.Fields{"param": tk.name, "value": value}).Info("tuning changed")
}

func (v *Viewer) logStatus() {
	staged, dropped := v.Publisher.Stats()
	p := v.Body.Params()
	log.WithFields(logrus.Fields{
		"time":        v.Driver.Timer.T,
		"frames":      v.Driver.Frames,
		"state":       v.Body.State().String(),
		"pressure":    v.Hand.Max(),
		"actuator":    v.Actuator.Peak(),
		"published":   staged,
		"dropped":     dropped,
		"elasticity":  p.Elasticity,
		"power":       p.Power,
		"damping":     p.Damping,
		"attenuation": p.Attenuation,
	}).Info("simulation status")
}
