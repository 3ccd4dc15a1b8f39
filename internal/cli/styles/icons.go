package styles

// Nerd Font icons (requires a Nerd Font to display correctly)
const (
	IconGlobe    = "\uf0ac" // web origin
	IconLocation = "\uf041" // map marker
	IconCheck    = "\uf00c" // check
	IconX        = "\uf00d" // x
	IconWarning  = "\uf071" // warning
	IconDatabase = "\uf1c0" // database
	IconTrash    = "\uf1f8" // trash
)
