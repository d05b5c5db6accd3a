package journal

import "time"

func OverloadNow(overload func() time.Time) func() {
	nowRef := now
	now = overload
	return func() { now = nowRef }
}
