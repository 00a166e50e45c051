// Package projection maps galactic longitude/latitude onto a flat whole-sky
// map. The PROJ-backed implementation lives in the mollweide subpackage so
// that consumers of the interface do not link the C library.
package projection

// Projector maps spherical coordinates in radians to planar map coordinates
type Projector interface {
	// Forward projects a longitude/latitude pair given in radians
	Forward(lon, lat float64) (x, y float64, err error)
	// Extent returns the half width and half height of the projected sphere
	Extent() (maxX, maxY float64)
	Close()
}
