package elastic

import (
	"sort"

	"diesel.com/elastic/geometry"
	V "diesel.com/elastic/vector"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

//State of the surface after the last tick
type State int

const (
	Settled State = iota
	Deforming
)

func (s State) String() string {
	switch s {
	case Settled:
		return "settled"
	case Deforming:
		return "deforming"
	}
	return "unknown"
}

//Body is a deformable closed surface. Vertices are displaced by contacts,
//pulled back to their rest positions by a spring, damped and integrated once
//per tick. The vertex count never changes after New.
//
//A Body is not safe for concurrent use; it belongs to the frame thread.
type Body struct {
	rest       []V.Vec32 //Authored positions, never written
	positions  []V.Vec32
	velocities []V.Vec32
	normals    []V.Vec32
	indices    []uint32
	uvs        []V.Vec2
	count      int
	restRefSqr float32 //|rest[0]|^2, assumes a sphere centered at the local origin

	params    Params
	transform Transform
	frameTime float32
	state     State

	held map[int]int //Contact id -> nearest vertex of the last ApplyContact

	committed *geometry.Mesh
	collider  *geometry.Collider

	publisher Publisher
	sink      PressureSink
	log       *logrus.Entry
}

//Option configures a Body in New
type Option func(*Body) error

//WithTransform places the body in world space
func WithTransform(t Transform) Option {
	return func(b *Body) error {
		return b.SetTransform(t)
	}
}

//WithPublisher receives every committed snapshot
func WithPublisher(p Publisher) Option {
	return func(b *Body) error {
		b.publisher = p
		return nil
	}
}

//WithPressureSink receives the pressure signal of every contact
func WithPressureSink(s PressureSink) Option {
	return func(b *Body) error {
		b.sink = s
		return nil
	}
}

func WithLogger(log *logrus.Entry) Option {
	return func(b *Body) error {
		if log != nil {
			b.log = log
		}
		return nil
	}
}

//New builds a Body from an authored mesh. Positions, normals, indices and uvs
//are copied; velocities start at zero.
func New(mesh *geometry.Mesh, params Params, opts ...Option) (*Body, error) {
	if mesh == nil || len(mesh.Vertexes) == 0 {
		return nil, errors.WithStack(ErrEmptyMesh)
	}
	src := mesh.Clone()
	if len(src.Normals) == 0 {
		src.RecalculateNormals()
	}
	if err := src.Validate(); err != nil {
		return nil, errors.Wrapf(ErrBufferMismatch, "%v", err)
	}
	if err := params.Validate(); err != nil {
		return nil, err
	}

	n := len(src.Vertexes)
	b := &Body{
		rest:       src.Vertexes,
		positions:  make([]V.Vec32, n),
		velocities: make([]V.Vec32, n),
		normals:    src.Normals,
		indices:    src.Indices,
		uvs:        src.UVs,
		count:      n,
		restRefSqr: V.SqrLength(src.Vertexes[0]),
		transform:  IdentityTransform(),
		held:       make(map[int]int),
		log:        logrus.StandardLogger().WithField("component", "elastic"),
	}
	copy(b.positions, b.rest)

	for _, opt := range opts {
		if err := opt(b); err != nil {
			return nil, err
		}
	}
	if err := b.SetParams(params); err != nil {
		return nil, err
	}

	//Initial snapshot is the authored shape, nothing is published until the
	//surface deforms
	b.committed = src.Clone()
	if len(b.committed.Tangents) != n {
		b.committed.RecalculateTangents()
	}
	b.committed.RecalculateBounds()
	b.collider = geometry.NewCollider(b.committed)

	b.log.WithFields(logrus.Fields{
		"vertices":  n,
		"triangles": len(b.indices) / 3,
	}).Debug("elastic body created")
	return b, nil
}

//SetParams validates and clamps p before it takes effect
func (b *Body) SetParams(p Params) error {
	if err := p.Validate(); err != nil {
		return err
	}
	if changed := p.Clamp(); len(changed) > 0 {
		b.log.WithField("params", changed).Warn("tuning values clamped into range")
	}
	b.params = p
	return nil
}

func (b *Body) Params() Params {
	return b.params
}

func (b *Body) SetTransform(t Transform) error {
	if t.localToWorld.Det() == 0 {
		return errors.WithStack(ErrSingularTransform)
	}
	b.transform = t
	return nil
}

func (b *Body) Transform() Transform {
	return b.transform
}

//SetFrameTime sets the duration contacts are integrated over until the next
//Tick. The frame driver calls it before resolving contacts.
func (b *Body) SetFrameTime(dt float32) error {
	if err := checkStep(dt); err != nil {
		return err
	}
	b.frameTime = dt
	return nil
}

func (b *Body) FrameTime() float32 {
	return b.frameTime
}

func (b *Body) VertexCount() int {
	return b.count
}

func (b *Body) Position(i int) V.Vec32 {
	return b.positions[i]
}

func (b *Body) RestPosition(i int) V.Vec32 {
	return b.rest[i]
}

func (b *Body) Velocity(i int) V.Vec32 {
	return b.velocities[i]
}

func (b *Body) Normal(i int) V.Vec32 {
	return b.normals[i]
}

//Positions copies the current local space positions into dst
func (b *Body) Positions(dst []V.Vec32) []V.Vec32 {
	return append(dst[:0], b.positions...)
}

func (b *Body) RestReferenceSqrMagnitude() float32 {
	return b.restRefSqr
}

func (b *Body) State() State {
	return b.state
}

//Deformed reports whether the last tick moved the surface
func (b *Body) Deformed() bool {
	return b.state == Deforming
}

//Committed is the last published snapshot, or the authored shape before the
//first commit. It must not be modified.
func (b *Body) Committed() *geometry.Mesh {
	return b.committed
}

func (b *Body) Collider() *geometry.Collider {
	return b.collider
}

//Held lists the contact ids currently held, ascending
func (b *Body) Held() []int {
	ids := make([]int, 0, len(b.held))
	for id := range b.held {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

func (b *Body) checkBuffers() error {
	n := b.count
	if len(b.rest) != n || len(b.positions) != n || len(b.velocities) != n || len(b.normals) != n {
		return errors.Wrapf(ErrBufferMismatch, "rest %d, positions %d, velocities %d, normals %d, expected %d",
			len(b.rest), len(b.positions), len(b.velocities), len(b.normals), n)
	}
	return nil
}

func (b *Body) setState(s State) {
	if s == b.state {
		return
	}
	b.log.WithFields(logrus.Fields{
		"from": b.state.String(),
		"to":   s.String(),
	}).Debug("surface state changed")
	b.state = s
}
