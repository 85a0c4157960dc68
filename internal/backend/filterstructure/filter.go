package filterstructure

import (
	"image"

	"github.com/jo-hoe/filterapi/internal/apperror"
)

// Filter defines the interface for all image filters
type Filter interface {
	Name() string
	// Apply returns a new image; the input is never modified
	Apply(img image.Image) (image.Image, error)
	// Params returns the parameter set reported to clients, nil when the filter has none
	Params() any
}

// CustomParams is a user supplied parameter set bound from a request form
type CustomParams interface {
	Validate() error
	Filter() Filter
}

// Families group filters for the capability listing
const (
	FamilyEdges = "bordas"
	FamilyBlur  = "blur"
)

// Levels lists the accepted preset levels
var Levels = []int{1, 2, 3}

// Descriptor describes one entry of the filter catalog
type Descriptor struct {
	Name              string
	Family            string
	Description       string
	CustomDescription string
	Presets           [3]Filter
	// NewCustomParams returns a parameter set filled with defaults.
	// Nil means the filter has no custom endpoint.
	NewCustomParams func() CustomParams
}

// Preset resolves a level in 1..3 to its concrete filter
func (d *Descriptor) Preset(level int) (Filter, error) {
	if level < 1 || level > len(d.Presets) {
		return nil, apperror.InvalidParameter("nivel", level, "deve ser 1, 2 ou 3")
	}
	return d.Presets[level-1], nil
}

// SupportsCustom reports whether the filter accepts custom parameters
func (d *Descriptor) SupportsCustom() bool {
	return d.NewCustomParams != nil
}
