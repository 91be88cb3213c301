package app

import (
	"diesel.com/elastic/geometry"
	"diesel.com/elastic/utils"
)

//GLPublisher stages committed snapshots for the GL thread. Publish never
//touches GL, Upload runs between the simulation step and Draw.
type GLPublisher struct {
	stage utils.VertexStage
}

func (p *GLPublisher) Publish(mesh *geometry.Mesh, collider *geometry.Collider) error {
	p.stage.Stage(mesh.Vertexes, mesh.Normals)
	return nil
}

//Upload copies the newest snapshot into the VBO, if there is one
func (p *GLPublisher) Upload(dsl *DieselContext) (bool, error) {
	data, ok, err := p.stage.Pack(dsl.packed)
	if err != nil || !ok {
		return false, err
	}
	dsl.packed = data
	if err := UploadVertices(dsl, data); err != nil {
		return false, err
	}
	return true, nil
}

func (p *GLPublisher) Stats() (int, int) {
	return p.stage.Stats()
}
