package matchmaking

// pairing is two full teams of queue entries.
type pairing struct {
	teams [2][]*QueueEntry
}

func (p pairing) entryIDs() []uint {
	var ids []uint
	for _, t := range p.teams {
		for _, e := range t {
			ids = append(ids, e.ID)
		}
	}
	return ids
}

// bucketize groups entries by team size and modes, keeping queue order
// inside each bucket and ordering buckets by their oldest entry.
func bucketize(entries []QueueEntry) [][]*QueueEntry {
	index := map[bucketKey]int{}
	var out [][]*QueueEntry
	for i := range entries {
		e := &entries[i]
		k := e.key()
		pos, ok := index[k]
		if !ok {
			pos = len(out)
			index[k] = pos
			out = append(out, nil)
		}
		out[pos] = append(out[pos], e)
	}
	return out
}

// formPairings packs entries into pairs of teams of teamSize players.
// Older entries are preferred, but an entry that cannot be completed is
// passed over so it does not hold back the rest of the bucket.
func formPairings(entries []*QueueEntry, teamSize int) []pairing {
	var out []pairing
	remaining := entries
	for {
		pr, ok := packTwoTeams(remaining, teamSize)
		if !ok {
			return out
		}
		out = append(out, pr)

		used := map[uint]bool{}
		for _, id := range pr.entryIDs() {
			used[id] = true
		}
		next := make([]*QueueEntry, 0, len(remaining))
		for _, e := range remaining {
			if !used[e.ID] {
				next = append(next, e)
			}
		}
		remaining = next
	}
}

// packTwoTeams searches entries in queue order, trying to place each one
// before skipping it. Whether the teams can still be completed from entry i
// depends only on i and the two fill levels, so failed states are memoized.
func packTwoTeams(entries []*QueueEntry, teamSize int) (pairing, bool) {
	var (
		pr   pairing
		dead = map[[3]int]bool{}
	)
	var search func(i, f0, f1 int) bool
	search = func(i, f0, f1 int) bool {
		if f0 == teamSize && f1 == teamSize {
			return true
		}
		if i == len(entries) {
			return false
		}
		key := [3]int{i, f0, f1}
		if dead[key] {
			return false
		}
		e := entries[i]
		if e.Size > 0 && e.Size <= teamSize {
			fills := [2]int{f0, f1}
			for t := 0; t < 2; t++ {
				// both teams empty or equally filled: the second try mirrors the first
				if t == 1 && f0 == f1 {
					break
				}
				if fills[t]+e.Size > teamSize {
					continue
				}
				pr.teams[t] = append(pr.teams[t], e)
				nf := fills
				nf[t] += e.Size
				if search(i+1, nf[0], nf[1]) {
					return true
				}
				pr.teams[t] = pr.teams[t][:len(pr.teams[t])-1]
			}
		}
		if search(i+1, f0, f1) {
			return true
		}
		dead[key] = true
		return false
	}
	if !search(0, 0, 0) {
		return pairing{}, false
	}
	return pr, true
}
