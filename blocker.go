package xrpanel

import "reflect"

// InteractionBlocker is a set of opaque blocker tokens. While any token is
// registered, pointer routing is suppressed. Tokens must be comparable
// (pointers are typical); others are ignored. Like the rest of xrpanel it is not safe for
// concurrent use.
type InteractionBlocker struct {
	tokens map[any]struct{}
}

// NewInteractionBlocker creates an empty blocker set.
func NewInteractionBlocker() *InteractionBlocker {
	return &InteractionBlocker{tokens: make(map[any]struct{})}
}

// DefaultBlocker is the process-wide blocker set consulted by pickers that
// were not given their own.
var DefaultBlocker = NewInteractionBlocker()

// IsBlocked reports whether any blocker token is registered.
func (b *InteractionBlocker) IsBlocked() bool {
	return len(b.tokens) > 0
}

// AddBlock registers token. Adding the same token twice has no additional
// effect; a nil or non-comparable token is ignored.
func (b *InteractionBlocker) AddBlock(token any) {
	if !validToken(token) {
		return
	}
	if b.tokens == nil {
		b.tokens = make(map[any]struct{})
	}
	b.tokens[token] = struct{}{}
}

// RemoveBlock unregisters token. Removing an absent, nil or non-comparable
// token is a no-op.
func (b *InteractionBlocker) RemoveBlock(token any) {
	if !validToken(token) {
		return
	}
	delete(b.tokens, token)
}

// validToken reports whether token can be used as a map key without
// panicking.
func validToken(token any) bool {
	if token == nil {
		return false
	}
	if !reflect.TypeOf(token).Comparable() {
		return false
	}
	return comparableValue(reflect.ValueOf(token))
}

// comparableValue checks the dynamic values held in interface fields and
// array elements, which the static type cannot vouch for.
func comparableValue(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Interface:
		if v.IsNil() {
			return true
		}
		e := v.Elem()
		return e.Type().Comparable() && comparableValue(e)
	case reflect.Struct:
		for i := 0; i < v.NumField(); i++ {
			if !comparableValue(v.Field(i)) {
				return false
			}
		}
	case reflect.Array:
		for i := 0; i < v.Len(); i++ {
			if !comparableValue(v.Index(i)) {
				return false
			}
		}
	}
	return true
}

// ClearAll removes every token.
func (b *InteractionBlocker) ClearAll() {
	clear(b.tokens)
}

// Len returns the number of registered tokens.
func (b *InteractionBlocker) Len() int {
	return len(b.tokens)
}

// BlockHandle is a scoped block created by Acquire. Release it when the
// blocking UI (a modal, a loading overlay) goes away.
type BlockHandle struct {
	blocker *InteractionBlocker
}

// Acquire registers a fresh token and returns the handle that owns it.
func (b *InteractionBlocker) Acquire() *BlockHandle {
	h := &BlockHandle{blocker: b}
	b.AddBlock(h)
	return h
}

// Release unregisters the handle's token. Safe to call more than once.
func (h *BlockHandle) Release() {
	if h == nil || h.blocker == nil {
		return
	}
	h.blocker.RemoveBlock(h)
	h.blocker = nil
}

// AddBlock registers token on DefaultBlocker.
func AddBlock(token any) { DefaultBlocker.AddBlock(token) }

// RemoveBlock unregisters token from DefaultBlocker.
func RemoveBlock(token any) { DefaultBlocker.RemoveBlock(token) }

// IsBlocked reports whether DefaultBlocker has any token.
func IsBlocked() bool { return DefaultBlocker.IsBlocked() }

// ClearBlocks removes every token from DefaultBlocker.
func ClearBlocks() { DefaultBlocker.ClearAll() }
