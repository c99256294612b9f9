package task

// Tier is one of the four fixed urgency buckets the board presents. Tiers
// are a view over meta; the numeric priority slot stays authoritative.
type Tier string

const (
	TierVeryUrgent Tier = "very_urgent"
	TierUrgent     Tier = "urgent"
	TierMedium     Tier = "medium"
	TierLow        Tier = "low"
)

// TierCapacity is the maximum number of uncompleted tasks per tier row.
const TierCapacity = 5

// Tiers lists the tiers in fill order.
var Tiers = []Tier{TierVeryUrgent, TierUrgent, TierMedium, TierLow}

// ParseTier returns the tier named by s, or false for anything else.
func ParseTier(s string) (Tier, bool) {
	switch Tier(s) {
	case TierVeryUrgent, TierUrgent, TierMedium, TierLow:
		return Tier(s), true
	default:
		return "", false
	}
}

// TierOf reads the presentation tier from the task's meta, defaulting to low.
func (t *Task) TierOf() Tier {
	if raw, ok := t.meta["priority"].(string); ok {
		if tier, ok := ParseTier(raw); ok {
			return tier
		}
	}
	return TierLow
}

// PositionOf reads the 1..5 in-row rank from the task's meta, or 0 when unset.
func (t *Task) PositionOf() int {
	switch v := t.meta["position"].(type) {
	case int:
		return v
	case float64: // JSON numbers decode as float64
		return int(v)
	default:
		return 0
	}
}

// NextTier returns the first tier, in fill order, with fewer than
// TierCapacity uncompleted members. Falls back to low when every row is full.
func NextTier(uncompletedPerTier map[Tier]int) Tier {
	for _, tier := range Tiers {
		if uncompletedPerTier[tier] < TierCapacity {
			return tier
		}
	}
	return TierLow
}
