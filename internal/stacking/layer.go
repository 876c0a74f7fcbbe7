package stacking

// Layer is a coarse Z-order category derived from window attributes.
// Layers are ordered low to high.
type Layer int

const (
	// LayerIgnore marks windows that are placed through their transient
	// chain and never by a layer scan.
	LayerIgnore Layer = iota
	LayerDesktop
	LayerBelow
	LayerNormal
	LayerAbove
	LayerFullscreen
	LayerOnTop

	layerCount
)

var layerNames = [...]string{
	LayerIgnore:     "ignore",
	LayerDesktop:    "desktop",
	LayerBelow:      "below",
	LayerNormal:     "normal",
	LayerAbove:      "above",
	LayerFullscreen: "fullscreen",
	LayerOnTop:      "ontop",
}

func (l Layer) String() string {
	if l < 0 || l >= layerCount {
		return "unknown"
	}
	return layerNames[l]
}

// Classify maps window attributes to a stacking layer. User-set flags take
// precedence over the transient relationship, which in turn takes
// precedence over the window type.
func Classify(a Attributes) Layer {
	switch {
	case a.OnTop:
		return LayerOnTop
	case a.Fullscreen:
		return LayerFullscreen
	case a.Above:
		return LayerAbove
	case a.Below:
		return LayerBelow
	case a.TransientFor != None:
		return LayerIgnore
	case a.Type == TypeDesktop:
		return LayerDesktop
	}
	return LayerNormal
}
