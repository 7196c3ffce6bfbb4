// Package secure supplies stack regions from memguard locked buffers.
//
// A LockedAllocator hands out regions that are:
//
//   - Protected from swapping via mlock
//   - Bracketed by guard pages, so an overrun past the region faults
//   - Preceded by memguard's own canary, checked on destruction
//   - Wiped when released
//
// Plug it into a stack with stack.WithAllocator:
//
//	alloc := secure.NewLockedAllocator(0)
//	s, err := stack.New(stack.WithAllocator(alloc))
//
// Call memguard.Purge (or secure.Purge) before the process exits to wipe
// any region still held.
//
// # Platform Behavior
//
// Memory locking behavior varies by platform:
//
//   - Linux: Requires RLIMIT_MEMLOCK to be set appropriately
//   - macOS: Works out of the box
//   - Windows: Uses VirtualLock
//
// memguard panics when it cannot obtain or lock memory. The allocator's
// byte budget is checked first so an exhausted budget is an ordinary error.
package secure
