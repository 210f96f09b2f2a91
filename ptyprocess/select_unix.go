//go:build unix

package ptyprocess

import (
	"time"
	"unsafe"

	"golang.org/x/sys/unix"
)

// pollFD waits up to d for fd to become readable (or, if write is true,
// writable), retrying transparently on EINTR. It is the one place the
// select-driven read/write engine actually calls select(2).
func pollFD(fd int, d time.Duration, write bool) (bool, error) {
	deadline := time.Now().Add(d)

	for {
		var set unix.FdSet
		fdZero(&set)
		fdSet(fd, &set)

		remaining := time.Until(deadline)
		if remaining < 0 {
			remaining = 0
		}
		tv := unix.NsecToTimeval(remaining.Nanoseconds())

		var rset, wset *unix.FdSet
		if write {
			wset = &set
		} else {
			rset = &set
		}

		n, err := unix.Select(fd+1, rset, wset, nil, &tv)
		if err == unix.EINTR {
			if time.Now().After(deadline) {
				return false, nil
			}
			continue
		}
		if err != nil {
			return false, err
		}
		return n > 0 && fdIsSet(fd, &set), nil
	}
}

func fdZero(set *unix.FdSet) {
	for i := range set.Bits {
		set.Bits[i] = 0
	}
}

func fdSet(fd int, set *unix.FdSet) {
	bitsPerWord := int(unsafe.Sizeof(set.Bits[0]) * 8)
	set.Bits[fd/bitsPerWord] |= 1 << uint(fd%bitsPerWord)
}

func fdIsSet(fd int, set *unix.FdSet) bool {
	bitsPerWord := int(unsafe.Sizeof(set.Bits[0]) * 8)
	return set.Bits[fd/bitsPerWord]&(1<<uint(fd%bitsPerWord)) != 0
}
