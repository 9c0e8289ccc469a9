package world

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"walkcore/internal/physics"
)

// Kind tags what a level shape is for.
type Kind int

const (
	// KindSolid blocks the player.
	KindSolid Kind = iota
	// KindWalkable blocks the player and marks a surface the VR teleport
	// can target.
	KindWalkable
	// KindPickup is drawn but never collides.
	KindPickup
)

var kindNames = map[Kind]string{
	KindSolid:    "solid",
	KindWalkable: "walkable",
	KindPickup:   "pickup",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Collidable reports whether shapes of this kind go into the spatial index.
func (k Kind) Collidable() bool {
	return k == KindSolid || k == KindWalkable
}

// Teleportable reports whether a teleport may land on surfaces of this kind.
func (k Kind) Teleportable() bool {
	return k == KindWalkable
}

// KindOf returns the kind a triangle was tagged with when its shape was
// triangulated. Untagged triangles are solid.
func KindOf(tag uint8) Kind {
	return Kind(tag)
}

// Tag labels every triangle with k.
func (k Kind) Tag(tris []physics.Triangle) []physics.Triangle {
	for i := range tris {
		tris[i].Tag = uint8(k)
	}
	return tris
}

func ParseKind(s string) (Kind, error) {
	if s == "" {
		return KindSolid, nil
	}
	for k, name := range kindNames {
		if name == s {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown kind %q", s)
}

func (k *Kind) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := ParseKind(s)
	if err != nil {
		return fmt.Errorf("line %d: %w", value.Line, err)
	}
	*k = parsed
	return nil
}

func (k Kind) MarshalYAML() (interface{}, error) {
	return k.String(), nil
}
