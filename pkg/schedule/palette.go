package schedule

var palette = []string{
	"#fb7185", // rose
	"#e879f9", // fuchsia
	"#eab308", // yellow
	"#C38F63", // saddle brown
	"#84cc16", // lime
	"#D35A5A", // firebrick
	"#A03333", // maroon
	"#A0A033", // olive
	"#33A033", // green
	"#33A0A0", // teal
	"#2E5A88", // navy
	"#6D5ACF", // indigo
	"#CBC3E3", // purple
	"#FF9933", // orange
	"#FFCC99", // peach
}

func PaletteLength() int {
	return len(palette)
}

// ColorForResource picks the display color of a resource row. Indexes wrap around the palette.
func ColorForResource(index int) string {
	n := len(palette)
	return palette[((index%n)+n)%n]
}
