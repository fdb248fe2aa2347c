package menu

// TrayRenderer is a Renderer that also exposes the module container surface
// for the reactive bindings.
type TrayRenderer interface {
	Renderer
	Surface() Surface
}

// NewTrayRenderer returns the platform tray renderer: systray-backed where
// available, otherwise a headless stub.
func NewTrayRenderer() TrayRenderer {
	return newTrayRenderer()
}
