package tilemap

// Layer is the per-zoom view handed to the rendering collaborator: the
// server-confirmed tiles, the provisional candidate tiles, and the display
// color of the zoom level's pane. Each tile converts to its geographic
// rectangle via tile.Coord.Bound.
type Layer struct {
	Zoom       int
	Color      string
	Fetched    *TileSet
	Candidates *TileSet
}

// Layers assembles one layer per configured zoom level from the fetched and
// candidate stores. Colors are assigned by zoom list position and cycle when
// fewer colors than zoom levels are configured.
func Layers(fetched, candidates *TileStore, zoomLevels []int, colors []string) []Layer {
	layers := make([]Layer, 0, len(zoomLevels))
	for i, zoom := range zoomLevels {
		color := ""
		if len(colors) > 0 {
			color = colors[i%len(colors)]
		}
		layers = append(layers, Layer{
			Zoom:       zoom,
			Color:      color,
			Fetched:    fetched.Get(zoom),
			Candidates: candidates.Get(zoom),
		})
	}
	return layers
}
