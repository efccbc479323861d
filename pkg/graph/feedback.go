package graph

import "github.com/airvair/stampgraph/pkg/model"

// feedbackStructure groups feedback paths for handle assignment. A feedback
// path is a bypass when its controller sits above the reporting node in the
// control hierarchy without being its direct controller.
type feedbackStructure struct {
	outDirect map[string][]int
	outBypass map[string][]int
	in        map[string][]int
}

func newFeedbackStructure(paths []model.FeedbackPath, control *structure, known func(string) bool) *feedbackStructure {
	f := &feedbackStructure{
		outDirect: map[string][]int{},
		outBypass: map[string][]int{},
		in:        map[string][]int{},
	}
	for i, p := range paths {
		if known(p.SourceID) {
			usable := control.usable(p.SourceID, p.TargetID, known)
			if usable && control.reaches(p.TargetID, p.SourceID) && !control.isDirectChild(p.TargetID, p.SourceID) {
				f.outBypass[p.SourceID] = append(f.outBypass[p.SourceID], i)
			} else {
				f.outDirect[p.SourceID] = append(f.outDirect[p.SourceID], i)
			}
		}
		if known(p.TargetID) {
			f.in[p.TargetID] = append(f.in[p.TargetID], i)
		}
	}
	return f
}
