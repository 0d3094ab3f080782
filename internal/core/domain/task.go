package domain

import "slices"

// Task is the declaration a node hands to the host engine.
// The engine decides when to rebuild from this declaration alone, so Inputs must cover
// every file the command reads.
type Task struct {
	Name        InternedString
	Command     []string
	Environment map[string]string
	WorkingDir  InternedString
	Inputs      []InternedString
	Output      InternedString

	// CaptureStdout keeps stdout out of the log; it still reaches the caller's writer.
	CaptureStdout bool
}

// InputPaths returns the declared inputs as plain strings, in declaration order.
func (t *Task) InputPaths() []string {
	out := make([]string, len(t.Inputs))
	for i, in := range t.Inputs {
		out[i] = in.String()
	}
	return out
}

// DeclareInputs interns paths in order, dropping empty entries and repeats.
// The first occurrence of a path keeps its position.
func DeclareInputs(paths ...[]string) []InternedString {
	var out []InternedString
	seen := make(map[InternedString]bool)
	for _, group := range paths {
		for _, p := range group {
			if p == "" {
				continue
			}
			is := NewInternedString(p)
			if seen[is] {
				continue
			}
			seen[is] = true
			out = append(out, is)
		}
	}
	return slices.Clip(out)
}
