package ir

import (
	"errors"
	"fmt"
)

// LabelRef identifies a control-flow label created during translation,
// before it is known whether the label will resolve to a forward or backward
// branch target.
type LabelRef uint32

// labelState is Unpinned until the translator reaches the label's definition
// site, at which point it becomes Pinned at a concrete OpPos.
type labelState struct {
	pinned bool
	pos    OpPos
}

// LabelUser records one pending use of a not-yet-pinned label: the
// instruction at user needs its Branch field patched once label is pinned.
type LabelUser struct {
	Label LabelRef
	User  OpPos
}

// ErrBranchOffsetOutOfBounds is a translation error: the computed distance
// between a branch instruction and its target does not fit in a
// BranchOffset (int32).
var ErrBranchOffsetOutOfBounds = errors.New("ir: branch offset out of bounds")

// ErrLabelAlreadyPinned signals a translator bug: Pin was called twice for
// the same label.
var ErrLabelAlreadyPinned = errors.New("ir: label already pinned")

// LabelRegistry tracks every label created during a single function's
// translation, along with the pending (label, patch-site) pairs still
// waiting for their label to pin. Ported from the forward-branch-patching
// design in wasmi's translator (labels.rs): forward offsets are allowed and
// resolved when the label pins; backward offsets (the label already pinned
// at registration time) resolve immediately.
type LabelRegistry struct {
	labels []labelState
	users  []LabelUser
}

// NewLabelRegistry constructs an empty registry.
func NewLabelRegistry() *LabelRegistry { return &LabelRegistry{} }

// NewLabel allocates a fresh, initially unpinned label.
func (r *LabelRegistry) NewLabel() LabelRef {
	r.labels = append(r.labels, labelState{})
	return LabelRef(len(r.labels) - 1)
}

// Pin fixes label to pos. It is an error to pin the same label twice.
func (r *LabelRegistry) Pin(label LabelRef, pos OpPos) error {
	if r.labels[label].pinned {
		return ErrLabelAlreadyPinned
	}
	r.labels[label] = labelState{pinned: true, pos: pos}
	return nil
}

// TraceBranchOffset computes the BranchOffset from src to dst, failing
// translation with ErrBranchOffsetOutOfBounds if the distance doesn't fit in
// an int32.
func TraceBranchOffset(src, dst OpPos) (BranchOffset, error) {
	delta := int64(dst) - int64(src)
	if delta < int64(minInt32) || delta > int64(maxInt32) {
		return 0, fmt.Errorf("%w: %d", ErrBranchOffsetOutOfBounds, delta)
	}
	return BranchOffset(delta), nil
}

const (
	minInt32 = -1 << 31
	maxInt32 = 1<<31 - 1
)

// TryResolveLabel attempts to resolve label from a branch instruction
// beginning at user. If the label is already pinned, it returns the
// resolved BranchOffset immediately (the "backward branch" case). If not yet
// pinned, it registers user as a pending LabelUser and returns ok=false; the
// caller should emit a placeholder offset (0) and rely on ResolvedUsers to
// patch it once the label pins.
func (r *LabelRegistry) TryResolveLabel(label LabelRef, user OpPos) (offset BranchOffset, ok bool, err error) {
	st := r.labels[label]
	if !st.pinned {
		r.users = append(r.users, LabelUser{Label: label, User: user})
		return 0, false, nil
	}
	off, err := TraceBranchOffset(user, st.pos)
	if err != nil {
		return 0, false, err
	}
	return off, true, nil
}

// ResolvedUser pairs a pending patch site with its now-resolved offset, for
// the final rewrite pass once every label in the function has pinned.
type ResolvedUser struct {
	User   OpPos
	Offset BranchOffset
}

// ResolvedUsers returns every pending LabelUser resolved against its (by now
// necessarily pinned) label. Called once translation of a function body
// completes and every control frame has closed.
func (r *LabelRegistry) ResolvedUsers() ([]ResolvedUser, error) {
	out := make([]ResolvedUser, 0, len(r.users))
	for _, u := range r.users {
		st := r.labels[u.Label]
		if !st.pinned {
			return nil, fmt.Errorf("ir: label %d used at %d never pinned", u.Label, u.User)
		}
		off, err := TraceBranchOffset(u.User, st.pos)
		if err != nil {
			return nil, err
		}
		out = append(out, ResolvedUser{User: u.User, Offset: off})
	}
	return out, nil
}
