package protocol

const (
	// CommandMenuGet requests the currently rendered menu structure.
	CommandMenuGet = "menu.get"
	// CommandBarShow forces the module container visible.
	CommandBarShow = "bar.show"
	// CommandBarHide forces the module container hidden.
	CommandBarHide = "bar.hide"
	// CommandBarReload tears the menu module down and rebuilds it from the
	// configuration on disk.
	CommandBarReload = "bar.reload"
	// CommandBarQuit stops the bar process.
	CommandBarQuit = "bar.quit"
)

// Request is the control payload sent by clients to a running bar.
type Request struct {
	Token   string `json:"token"`
	Command string `json:"command"`
}

// Response is the reply emitted by the bar.
type Response struct {
	Error  string      `json:"error,omitempty"`
	Status string      `json:"status,omitempty"`
	Module string      `json:"module,omitempty"`
	Slots  []SlotState `json:"slots,omitempty"`
}

// SlotState reports one placement region's rendered structure.
type SlotState struct {
	Slot    string       `json:"slot"`
	Entries []EntryState `json:"entries,omitempty"`
}

// EntryState reports one top-level entry and its application labels.
type EntryState struct {
	Label        string   `json:"label"`
	Custom       bool     `json:"custom,omitempty"`
	Applications []string `json:"applications,omitempty"`
}
