package task

// NextFreeSlot returns the lowest positive priority not present in taken.
// taken need not be sorted or deduplicated.
func NextFreeSlot(taken []int) int {
	used := make(map[int]bool, len(taken))
	for _, p := range taken {
		if p > 0 {
			used[p] = true
		}
	}
	for slot := 1; ; slot++ {
		if !used[slot] {
			return slot
		}
	}
}
