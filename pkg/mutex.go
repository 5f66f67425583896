package pkg

import "sync"

// HasLocker is satisfied by anything that guards itself with a single
// RWMutex, tables in particular.
type HasLocker interface{ GetLocker() *sync.RWMutex }

// LockWrap runs f while holding the value's write lock.
func LockWrap(v HasLocker, f func()) {
	l := v.GetLocker()
	l.Lock()
	defer l.Unlock()
	f()
}

// RLockWrap runs f while holding the value's read lock.
func RLockWrap(v HasLocker, f func()) {
	l := v.GetLocker()
	l.RLock()
	defer l.RUnlock()
	f()
}
