package lineitem

// Intents records, per line index, the field the user most recently edited.
// The zero value is ready to use.
type Intents struct {
	byLine map[int]Field
}

// IntentsFrom builds a tracker from a snapshot, dropping untracked fields.
func IntentsFrom(m map[int]Field) Intents {
	var in Intents
	for i, f := range m {
		in.MarkEdited(i, f)
	}

	return in
}

// MarkEdited records f as the ground-truth field for line i. Edits to
// fields other than quantity, price per unit, amount and line total are ignored.
func (in *Intents) MarkEdited(i int, f Field) {
	if !f.Tracked() || i < 0 {
		return
	}

	if in.byLine == nil {
		in.byLine = make(map[int]Field)
	}

	in.byLine[i] = f
}

// IntentFor returns the last edited field for line i, or FieldNone.
func (in Intents) IntentFor(i int) Field {
	return in.byLine[i]
}

// Len returns the number of lines with a recorded intent.
func (in Intents) Len() int {
	return len(in.byLine)
}

// Snapshot returns a copy of the recorded intents.
func (in Intents) Snapshot() map[int]Field {
	out := make(map[int]Field, len(in.byLine))
	for i, f := range in.byLine {
		out[i] = f
	}

	return out
}

// remove drops the intent of line i and shifts later entries down one index
// so each intent stays with its line.
func (in *Intents) remove(i int) {
	if len(in.byLine) == 0 {
		return
	}

	next := make(map[int]Field, len(in.byLine))

	for idx, f := range in.byLine {
		switch {
		case idx < i:
			next[idx] = f
		case idx > i:
			next[idx-1] = f
		}
	}

	in.byLine = next
}

func (in *Intents) reset() {
	in.byLine = nil
}
