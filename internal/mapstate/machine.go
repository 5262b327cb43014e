package mapstate

// Basemap styles the map client can render.
const (
	BasemapSatellite = "satellite"
	BasemapStreets   = "streets"
	BasemapOutdoors  = "outdoors"
	BasemapDark      = "dark"
)

// ValidBasemap reports whether name is one of the selectable styles.
func ValidBasemap(name string) bool {
	switch name {
	case BasemapSatellite, BasemapStreets, BasemapOutdoors, BasemapDark:
		return true
	}
	return false
}

// Mode is the surveyor-visible interaction mode of the map.
type Mode string

const (
	ModeIdle            Mode = "idle"
	ModePopupOpen       Mode = "popup_open"
	ModeAddPointPending Mode = "add_point_pending"
)

// State is one surveyor's map interaction state. The popup and the armed
// add-point crosshair are tracked separately: opening a popup while add-point
// is armed suspends the crosshair rather than cancelling it, so closing the
// popup drops back to add-point mode.
type State struct {
	PopupAssignmentID string     `json:"popup_assignment_id,omitempty"`
	PopupCompleted    bool       `json:"popup_completed,omitempty"`
	AddPointArmed     bool       `json:"add_point_armed"`
	Center            [2]float64 `json:"center"`
	Zoom              float64    `json:"zoom"`
	Basemap           string     `json:"basemap"`
}

// Mode derives the interaction mode; an open popup takes precedence over an
// armed crosshair.
func (s State) Mode() Mode {
	switch {
	case s.PopupAssignmentID != "":
		return ModePopupOpen
	case s.AddPointArmed:
		return ModeAddPointPending
	default:
		return ModeIdle
	}
}

// CreatePointRequest is the side effect of confirming an armed add-point: the
// client must create a feature and assignment at these coordinates. They are
// the map center at confirmation time, not the click location.
type CreatePointRequest struct {
	Lng float64 `json:"lng"`
	Lat float64 `json:"lat"`
}

// Event is one map interaction.
type Event interface {
	isEvent()
}

// FeatureClick is a tap on an interactive feature.
type FeatureClick struct {
	AssignmentID string
	Completed    bool
}

// MapClick is a tap on empty map.
type MapClick struct{}

// ToggleAddPoint flips the add-point control.
type ToggleAddPoint struct{}

// Pan is any camera movement, including zoom.
type Pan struct {
	Center [2]float64
	Zoom   float64
}

// SetBasemap switches the background style.
type SetBasemap struct {
	Basemap string
}

func (FeatureClick) isEvent()   {}
func (MapClick) isEvent()       {}
func (ToggleAddPoint) isEvent() {}
func (Pan) isEvent()            {}
func (SetBasemap) isEvent()     {}

// Transition applies one event and returns the next state, plus a create-point
// request when the event confirms an armed add-point. Rules:
//   - clicking a feature opens its popup
//   - clicking empty map closes an open popup; with add-point armed and no
//     popup in the way it instead emits the create request and disarms
//   - toggling the add-point control arms or disarms the crosshair and closes
//     any open popup
//   - panning closes an open popup but leaves the crosshair armed
//   - basemap selection never touches interaction state
func Transition(s State, ev Event) (State, *CreatePointRequest) {
	switch e := ev.(type) {
	case FeatureClick:
		s.PopupAssignmentID = e.AssignmentID
		s.PopupCompleted = e.Completed
		return s, nil

	case MapClick:
		if s.PopupAssignmentID != "" {
			s.PopupAssignmentID = ""
			s.PopupCompleted = false
			return s, nil
		}
		if s.AddPointArmed {
			s.AddPointArmed = false
			return s, &CreatePointRequest{Lng: s.Center[0], Lat: s.Center[1]}
		}
		return s, nil

	case ToggleAddPoint:
		s.AddPointArmed = !s.AddPointArmed
		s.PopupAssignmentID = ""
		s.PopupCompleted = false
		return s, nil

	case Pan:
		s.Center = e.Center
		if e.Zoom != 0 {
			s.Zoom = e.Zoom
		}
		s.PopupAssignmentID = ""
		s.PopupCompleted = false
		return s, nil

	case SetBasemap:
		if ValidBasemap(e.Basemap) {
			s.Basemap = e.Basemap
		}
		return s, nil
	}

	return s, nil
}
