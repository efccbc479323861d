package model

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	sgerrors "github.com/airvair/stampgraph/pkg/errors"
)

// validate is a singleton validator instance.
var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks the structural integrity of a model:
//   - every entity and path has a non-empty, well-formed id
//   - ids are unique across controllers and components, and within each path list
//   - controller kinds are known, member ids are unique within a team
//   - active contexts name a context that exists on the team
//
// Dangling path endpoints are deliberately not reported here; see
// [Model.DanglingReferences].
func Validate(m Model) error {
	if err := validate.Struct(m); err != nil {
		return sgerrors.Wrap(sgerrors.ErrCodeInvalidModel, formatValidationError(err), "model failed validation")
	}

	nodes := make(map[string]string, len(m.Controllers)+len(m.Components))
	claim := func(id, what string) error {
		if err := sgerrors.ValidateID(id); err != nil {
			return err
		}
		if prev, ok := nodes[id]; ok {
			return sgerrors.New(sgerrors.ErrCodeInvalidModel, "duplicate id %q (%s and %s)", id, prev, what)
		}
		nodes[id] = what
		return nil
	}

	for _, c := range m.Controllers {
		if err := claim(c.ID, "controller"); err != nil {
			return err
		}
		if !c.Kind.Valid() {
			return sgerrors.New(sgerrors.ErrCodeInvalidModel, "controller %q has invalid kind %d", c.ID, int(c.Kind))
		}
		if err := validateTeam(c); err != nil {
			return err
		}
	}
	for _, c := range m.Components {
		if err := claim(c.ID, "component"); err != nil {
			return err
		}
	}

	if err := uniquePathIDs("control path", len(m.ControlPaths), func(i int) string { return m.ControlPaths[i].ID }); err != nil {
		return err
	}
	if err := uniquePathIDs("feedback path", len(m.FeedbackPaths), func(i int) string { return m.FeedbackPaths[i].ID }); err != nil {
		return err
	}
	if err := uniquePathIDs("communication path", len(m.CommunicationPaths), func(i int) string { return m.CommunicationPaths[i].ID }); err != nil {
		return err
	}
	if err := uniquePathIDs("failure path", len(m.FailurePaths), func(i int) string { return m.FailurePaths[i].ID }); err != nil {
		return err
	}

	for teamID, ctxID := range m.ActiveContexts {
		if ctxID == "" {
			continue
		}
		team, ok := findController(m, teamID)
		if !ok {
			return sgerrors.New(sgerrors.ErrCodeInvalidModel, "active context set for unknown controller %q", teamID)
		}
		if _, ok := team.Context(ctxID); !ok {
			return sgerrors.New(sgerrors.ErrCodeInvalidModel, "controller %q has no context %q", teamID, ctxID)
		}
	}
	return nil
}

func validateTeam(c Controller) error {
	seen := make(map[string]bool, len(c.Members))
	for _, mem := range c.Members {
		if err := sgerrors.ValidateID(mem.ID); err != nil {
			return err
		}
		if seen[mem.ID] {
			return sgerrors.New(sgerrors.ErrCodeInvalidModel, "controller %q has duplicate member %q", c.ID, mem.ID)
		}
		seen[mem.ID] = true
	}
	ctxSeen := make(map[string]bool, len(c.Contexts))
	for _, ctx := range c.Contexts {
		if ctxSeen[ctx.ID] {
			return sgerrors.New(sgerrors.ErrCodeInvalidModel, "controller %q has duplicate context %q", c.ID, ctx.ID)
		}
		ctxSeen[ctx.ID] = true
	}
	return nil
}

func uniquePathIDs(what string, n int, id func(int) string) error {
	seen := make(map[string]bool, n)
	for i := 0; i < n; i++ {
		pid := id(i)
		if err := sgerrors.ValidateID(pid); err != nil {
			return err
		}
		if seen[pid] {
			return sgerrors.New(sgerrors.ErrCodeInvalidModel, "duplicate %s id %q", what, pid)
		}
		seen[pid] = true
	}
	return nil
}

func findController(m Model, id string) (Controller, bool) {
	for _, c := range m.Controllers {
		if c.ID == id {
			return c, true
		}
	}
	return Controller{}, false
}

// formatValidationError flattens validator field errors into one error.
func formatValidationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s: failed %q", fe.Namespace(), fe.Tag()))
	}
	return errors.New(strings.Join(msgs, "; "))
}
