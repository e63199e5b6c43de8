package pipeline

import "sync"

// Handle is an opaque, transferable token carrying exclusive ownership of a
// PassManager across an API boundary. Exactly one handle may exist per
// manager at a time, and redeeming a handle consumes it - the single
// transfer happens exactly once.
//
// This is deliberately a consume-on-transfer token, not shared ownership:
// issuing a handle invalidates local use of the manager, and a consumed
// handle can never be redeemed again.
type Handle struct {
	mu       sync.Mutex
	pm       *PassManager
	consumed bool
}

// ToHandle converts the manager into a transferable handle and releases
// local ownership: any further use of the manager fails with
// INVALID_HANDLE until the handle is redeemed.
func (pm *PassManager) ToHandle() (*Handle, error) {
	if pm.detached {
		return nil, newError(CodeInvalidHandle, "pass manager ownership was already released")
	}
	if pm.running {
		return nil, newError(CodeInvalidHandle, "cannot release ownership mid-run")
	}
	pm.detached = true
	return &Handle{pm: pm}, nil
}

// FromHandle redeems a handle, reconstructing an owning PassManager.
// Consuming is destructive: a nil or already-consumed handle fails with
// INVALID_HANDLE, and the same handle cannot be redeemed twice.
func FromHandle(h *Handle) (*PassManager, error) {
	if h == nil {
		return nil, newError(CodeInvalidHandle, "nil handle")
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.consumed || h.pm == nil {
		return nil, newError(CodeInvalidHandle, "handle was already consumed")
	}
	pm := h.pm
	h.pm = nil
	h.consumed = true
	pm.detached = false
	return pm, nil
}

// ReleaseWithoutDestroy detaches the manager from its pipeline tree without
// normal teardown, intentionally leaking it. Test-only escape hatch for
// exercising the ownership boundary; never used by production call paths.
func (pm *PassManager) ReleaseWithoutDestroy() {
	pm.detached = true
	pm.root = nil
}
