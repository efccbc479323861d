package model

import "github.com/google/uuid"

// NewID returns a fresh random identifier with an optional readable prefix,
// e.g. NewID("ctrl") → "ctrl-6f1c…".
func NewID(prefix string) string {
	id := uuid.NewString()
	if prefix == "" {
		return id
	}
	return prefix + "-" + id
}

// Sample returns a small but complete model: an organisation directing a
// team and an automated controller, which jointly command one actuator. It
// backs `stampgraph init` and doubles as a fixture.
func Sample() Model {
	var (
		org       = NewID("ctrl")
		crew      = NewID("ctrl")
		autopilot = NewID("ctrl")
		actuator  = NewID("comp")
		captain   = NewID("mem")
		officer   = NewID("mem")
		cruise    = NewID("ctx")
	)

	return Model{
		Controllers: []Controller{
			{ID: org, Name: "Operations Centre", Kind: KindOrganisation},
			{
				ID:   crew,
				Name: "Flight Crew",
				Kind: KindTeam,
				Members: []Member{
					{ID: captain, Name: "Captain", Rank: "Pilot in Command"},
					{ID: officer, Name: "First Officer", Rank: "Co-pilot"},
				},
				Contexts: []Context{{
					ID:    cruise,
					Name:  "Cruise",
					Roles: map[string]string{captain: "Monitoring", officer: "Pilot Flying"},
				}},
			},
			{ID: autopilot, Name: "Autopilot", Kind: KindSoftware},
		},
		Components: []Component{{ID: actuator, Name: "Elevator Actuator"}},
		ControlPaths: []ControlPath{
			{ID: NewID("cp"), SourceID: org, TargetID: crew, Actions: []string{"Dispatch"}},
			{ID: NewID("cp"), SourceID: crew, TargetID: autopilot, Actions: []string{"Engage", "Set altitude"}},
			{ID: NewID("cp"), SourceID: crew, TargetID: actuator, Actions: []string{"Manual pitch"}},
			{ID: NewID("cp"), SourceID: autopilot, TargetID: actuator, Actions: []string{"Pitch command"}},
		},
		FeedbackPaths: []FeedbackPath{
			{ID: NewID("fb"), SourceID: actuator, TargetID: autopilot, Feedback: []string{"Surface position"}},
			{ID: NewID("fb"), SourceID: autopilot, TargetID: crew, Feedback: []string{"Mode annunciation"}},
			{ID: NewID("fb"), SourceID: crew, TargetID: org, Feedback: []string{"Position report"}, Missing: true},
		},
		CommunicationPaths: []CommunicationPath{
			{ID: NewID("com"), SourceID: crew, TargetID: crew, SourceMemberID: captain, TargetMemberID: officer, Description: "Crew coordination"},
		},
		ActiveContexts: map[string]string{crew: cruise},
	}
}
