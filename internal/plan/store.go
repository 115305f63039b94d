package plan

// Store holds the canonical object list and polyline of the plan being
// edited. It is owned by a single event loop and is not safe for concurrent
// use.
type Store struct {
	objects  []PlacedObject
	polyline []Vertex
	ids      IDGenerator
}

// StoreOption customizes a Store during construction.
type StoreOption func(*Store)

// WithIDGenerator overrides the generator used by AddObject.
func WithIDGenerator(gen IDGenerator) StoreOption {
	return func(s *Store) {
		if gen != nil {
			s.ids = gen
		}
	}
}

// NewStore builds an empty store.
func NewStore(opts ...StoreOption) *Store {
	s := &Store{ids: NewCounterGenerator()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// AddObject appends a new object of the given sign type at the coordinate
// and returns its generated ID.
func (s *Store) AddObject(signType string, lat, lng float64) string {
	id := s.ids.NextID()
	for s.indexOf(id) >= 0 {
		id = s.ids.NextID()
	}
	s.objects = append(s.objects, PlacedObject{
		ID:     id,
		Type:   signType,
		Lat:    lat,
		Lng:    lng,
		Rotate: DefaultRotate,
		Scale:  DefaultScale,
	})
	return id
}

// UpdatePosition moves an object. Unknown IDs are ignored.
func (s *Store) UpdatePosition(id string, lat, lng float64) bool {
	idx := s.indexOf(id)
	if idx < 0 || !finite(lat, lng) {
		return false
	}
	s.objects[idx].Lat = lat
	s.objects[idx].Lng = lng
	return true
}

// UpdateRotation sets an object's rotation, clamped into [0,360].
func (s *Store) UpdateRotation(id string, degrees float64) bool {
	idx := s.indexOf(id)
	if idx < 0 || !finite(degrees) {
		return false
	}
	s.objects[idx].Rotate = ClampRotate(degrees)
	return true
}

// UpdateScale sets an object's scale, clamped into [0.5,2].
func (s *Store) UpdateScale(id string, factor float64) bool {
	idx := s.indexOf(id)
	if idx < 0 || !finite(factor) {
		return false
	}
	s.objects[idx].Scale = ClampScale(factor)
	return true
}

// DeleteObject removes an object. Unknown IDs are ignored.
func (s *Store) DeleteObject(id string) bool {
	idx := s.indexOf(id)
	if idx < 0 {
		return false
	}
	s.objects = append(s.objects[:idx], s.objects[idx+1:]...)
	return true
}

// AppendVertex extends the lane-closure polyline.
func (s *Store) AppendVertex(lat, lng float64) {
	s.polyline = append(s.polyline, NewVertex(lat, lng))
}

// Object returns a copy of the object with the given ID.
func (s *Store) Object(id string) (PlacedObject, bool) {
	idx := s.indexOf(id)
	if idx < 0 {
		return PlacedObject{}, false
	}
	return s.objects[idx], true
}

// Objects returns a snapshot of the placed objects in insertion order.
func (s *Store) Objects() []PlacedObject {
	out := make([]PlacedObject, len(s.objects))
	copy(out, s.objects)
	return out
}

// Polyline returns a snapshot of the polyline vertices.
func (s *Store) Polyline() []Vertex {
	out := make([]Vertex, len(s.polyline))
	copy(out, s.polyline)
	return out
}

// Len returns the number of placed objects.
func (s *Store) Len() int {
	return len(s.objects)
}

// Serialize returns the current plan document.
func (s *Store) Serialize() Plan {
	return Plan{
		Version:  Version,
		Objects:  s.Objects(),
		Polyline: s.Polyline(),
	}
}

// Deserialize strictly decodes data and, only if it is valid, replaces the
// whole store with it. On error the store is left untouched.
func (s *Store) Deserialize(data []byte) error {
	p, err := Decode(data)
	if err != nil {
		return err
	}
	s.Replace(p)
	return nil
}

// Replace swaps in the objects and polyline of p together.
func (s *Store) Replace(p Plan) {
	next := p.Clone()
	objects := next.Objects
	if objects == nil {
		objects = []PlacedObject{}
	}
	polyline := next.Polyline
	if polyline == nil {
		polyline = []Vertex{}
	}
	s.objects, s.polyline = objects, polyline
}

func (s *Store) indexOf(id string) int {
	for i := range s.objects {
		if s.objects[i].ID == id {
			return i
		}
	}
	return -1
}
