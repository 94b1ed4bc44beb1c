package dataset

// Colors of the Open AI Tanzania building footprint classes. Buildings are
// labelled by construction state: complete, incomplete or foundation.
var (
	tanzaniaBackground = RGB{0, 0, 0}
	tanzaniaComplete   = RGB{50, 200, 50}
	tanzaniaIncomplete = RGB{200, 200, 50}
	tanzaniaFoundation = RGB{200, 50, 50}
)

// Tanzania builds the glossary of the Open AI Tanzania challenge dataset:
// high-resolution aerial images of Zanzibar with geo-referenced building
// footprints, preprocessed into squared tiles of the given size.
func Tanzania(imageSize int) *Dataset {
	d := &Dataset{Name: "tanzania", ImageSize: imageSize}
	d.addLabel(0, "background", tanzaniaBackground, true)
	d.addLabel(1, "complete", tanzaniaComplete, true)
	d.addLabel(2, "incomplete", tanzaniaIncomplete, true)
	d.addLabel(3, "foundation", tanzaniaFoundation, true)
	return d
}
