package navtree

// ToggleAction is the effect a click on a folder has on its expansion.
type ToggleAction string

const (
	ActionNone   ToggleAction = "none"
	ActionToggle ToggleAction = "toggle"
	ActionOpen   ToggleAction = "open"
)

// DecideToggle applies the folder click policy.
//
// A folder with its own page acts like a link while inactive: clicking the
// label opens it (and navigates), clicking the disclosure arrow only toggles.
// Once active, any click toggles. A folder without a page always toggles,
// except when it is already active.
func DecideToggle(hasOwnPage, active, clickedOnDisclosureControl bool) ToggleAction {
	if hasOwnPage {
		if active || clickedOnDisclosureControl {
			return ActionToggle
		}
		return ActionOpen
	}
	if active {
		return ActionNone
	}
	return ActionToggle
}

// ClickResult reports what a folder click did.
type ClickResult struct {
	Action   ToggleAction `json:"action"`
	Expanded bool         `json:"expanded"`
	// Navigate is the route the router should move to, empty when the click
	// only changed expansion.
	Navigate string `json:"navigate,omitempty"`
}

// Toggle applies the click policy to route and returns the outcome. The
// current expansion is read with Resolve, so an unseen route toggles away
// from the configured default.
func (s *Store) Toggle(route string, defaultCollapsed, hasOwnPage, active, clickedOnDisclosureControl bool) ClickResult {
	open := s.Resolve(route, defaultCollapsed)
	res := ClickResult{Action: DecideToggle(hasOwnPage, active, clickedOnDisclosureControl), Expanded: open}

	switch res.Action {
	case ActionToggle:
		res.Expanded = !open
		s.Set(route, res.Expanded)
	case ActionOpen:
		res.Expanded = true
		s.Set(route, true)
	}
	if hasOwnPage && !clickedOnDisclosureControl {
		res.Navigate = route
	}
	return res
}
