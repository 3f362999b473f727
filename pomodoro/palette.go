package pomodoro

// Palette colours the timer banner. Status is the label shown next to the clock.
type Palette struct {
	Background string
	Foreground string
	Status     string
}

// Work phases draw from the active set, breaks from the passive one
var (
	activePalettes = []Palette{
		{"#DE5D83", "#F1E8DF", "Blush D'Amour"},
		{"#222036", "#81EB49", "Feeling Kiwi 🥝"},
		{"#EC275F", "#FFDCDC", "Cherry Blossom"},
		{"#FFC627", "#8C1D40", "Forks Up! 🔱"},
		{"#7EF9FF", "#0B06F6", "Electric Blue"},
		{"#471808", "#F18427", "Chocolate Rush"},
	}

	passivePalettes = []Palette{
		{"#3293B3", "#B5EAE0", "See me @ Navagio"},
		{"#C4C5C9", "#575965", "Shhhh..."},
		{"#565864", "#F9FBFA", "Midnight Badger 🦡"},
		{"#8196E5", "#F2F4FF", "Dreaming..."},
		{"#F0F1F5", "#51386F", "Succinct Violet"},
	}
)

// ActivePalettes returns a copy of the work-phase palettes
func ActivePalettes() []Palette {
	return append([]Palette(nil), activePalettes...)
}

// PassivePalettes returns a copy of the break palettes
func PassivePalettes() []Palette {
	return append([]Palette(nil), passivePalettes...)
}

func findPalette(set []Palette, status string) (Palette, bool) {
	for _, p := range set {
		if p.Status == status {
			return p, true
		}
	}
	return Palette{}, false
}
