package bulletin

import "sync"

// keyLock is a set of mutexes identified by string keys. Unused mutexes are released.
type keyLock struct {
	mu    sync.Mutex
	locks map[string]*refMutex
}

type refMutex struct {
	sync.Mutex
	refs int
}

func newKeyLock() *keyLock {
	return &keyLock{locks: make(map[string]*refMutex)}
}

// Lock locks key and returns its unlock function.
func (kl *keyLock) Lock(key string) (unlock func()) {
	kl.mu.Lock()
	m, ok := kl.locks[key]
	if !ok {
		m = new(refMutex)
		kl.locks[key] = m
	}
	m.refs++
	kl.mu.Unlock()

	m.Lock()
	return func() {
		m.Unlock()
		kl.mu.Lock()
		m.refs--
		if m.refs == 0 {
			delete(kl.locks, key)
		}
		kl.mu.Unlock()
	}
}

func reportCardKey(studentID, period, year string) string {
	return "student|" + studentID + "|" + period + "|" + year
}

func classKey(classID, period, year string) string {
	return "class|" + classID + "|" + period + "|" + year
}
