package complete

// RotationState drives the rotation-mode completion sub-loop: TAB
// cycles forward through candidates, wrapping to a virtual "original"
// slot one past the end (with a beep), ESC restores the original text
// outright. The session controller owns reading keys and repainting;
// this type only tracks which candidate is showing.
type RotationState struct {
	candidates []string
	original   string
	idx        int // -1 denotes the virtual "original" slot
}

// NewRotation begins a rotation starting at the first candidate.
func NewRotation(candidates []string, original string) *RotationState {
	return &RotationState{candidates: candidates, original: original, idx: 0}
}

// Empty reports whether there were no candidates to rotate through —
// the caller should beep and not enter the sub-loop at all.
func (r *RotationState) Empty() bool { return len(r.candidates) == 0 }

// Current returns the text that should currently be shown in the
// buffer: the candidate at idx, or the original line once wrapped.
func (r *RotationState) Current() string {
	if r.idx < 0 || r.idx >= len(r.candidates) {
		return r.original
	}
	return r.candidates[r.idx]
}

// Advance moves to the next candidate on TAB, wrapping to the virtual
// original slot (reporting wrapped=true so the caller beeps).
func (r *RotationState) Advance() (text string, wrapped bool) {
	r.idx++
	if r.idx >= len(r.candidates) {
		r.idx = -1
		wrapped = true
	}
	return r.Current(), wrapped
}

// Abort restores the pre-completion text, for ESC.
func (r *RotationState) Abort() string { return r.original }

// ListResult is the outcome of applying list mode.
type ListResult struct {
	// Insert is the text to splice into the buffer right after the
	// word the user had already typed — the part of the longest
	// common prefix beyond what was typed, never the whole prefix.
	Insert string
	// Beep is set when the common prefix added nothing new.
	Beep bool
	// ShowGrid is set when there is more than one candidate to list.
	ShowGrid   bool
	Candidates []string
	// AppendChar is the single-candidate append character to apply
	// (0 means none), valid only when len(Candidates) == 1.
	AppendChar rune
}

// ApplyListMode computes the list-mode outcome for the word already
// typed and the candidates the host callback collected. appendChar is
// the session's current completion_append_char (0 if suppressed by
// the callback).
func ApplyListMode(word string, candidates []string, appendChar rune) ListResult {
	res := ListResult{Candidates: candidates}
	if len(candidates) == 0 {
		res.Beep = true
		return res
	}

	prefix := LongestCommonPrefix(candidates)
	if len(prefix) > len(word) {
		res.Insert = prefix[len(word):]
	}
	res.Beep = res.Insert == ""

	if len(candidates) > 1 {
		res.ShowGrid = true
		return res
	}

	res.AppendChar = appendChar
	return res
}
