package feed

import "time"

// BoostPolicy decides whether a tick simulates a viral spike.
type BoostPolicy interface {
	Boosted(tick uint64, now time.Time) bool
}

// BoostFunc adapts a plain function to BoostPolicy.
type BoostFunc func(tick uint64, now time.Time) bool

func (f BoostFunc) Boosted(tick uint64, now time.Time) bool { return f(tick, now) }

// EveryNthTick boosts every tick whose counter is a multiple of n, including tick 0.
func EveryNthTick(n uint64) BoostPolicy {
	return BoostFunc(func(tick uint64, _ time.Time) bool {
		return n > 0 && tick%n == 0
	})
}

// WallClockMinute boosts every tick generated during a wall-clock minute divisible by m.
func WallClockMinute(m int) BoostPolicy {
	return BoostFunc(func(_ uint64, now time.Time) bool {
		return m > 0 && now.Minute()%m == 0
	})
}

// NeverBoost disables spikes.
func NeverBoost() BoostPolicy {
	return BoostFunc(func(uint64, time.Time) bool { return false })
}
