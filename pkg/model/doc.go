// Package model defines the safety-model entities that feed the control-structure
// diagram: controllers (with optional team members and operating contexts),
// controlled components, and the control, feedback, communication and failure
// paths between them.
//
// # Overview
//
// A [Model] is the complete, in-memory input of one diagram computation. It is
// a plain value: the graph builder reads it and never mutates it, so callers can
// rebuild the diagram after every edit without copying.
//
// # Loading
//
// Models are usually kept as JSON documents, but YAML and TOML are accepted too:
//
//	m, err := model.Load("plant.yaml")
//	if err != nil {
//	    return err
//	}
//	if err := model.Validate(m); err != nil {
//	    return err
//	}
//
// [Validate] rejects structurally broken models (missing ids, duplicates,
// unknown controller kinds). References from paths to entities that do not
// exist are not errors; [Model.DanglingReferences] lists them so callers can
// warn while still drawing the rest of the diagram.
package model
