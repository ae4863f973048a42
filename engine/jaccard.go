package engine

// jaccard returns |a ∩ b| / |a ∪ b| over two string sets, defined as 1.0 when
// both are empty (nothing to disagree on).
func jaccard(a, b []string) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 1.0
	}
	setA := toSet(a)
	setB := toSet(b)
	union := map[string]bool{}
	inter := 0
	for k := range setA {
		union[k] = true
		if setB[k] {
			inter++
		}
	}
	for k := range setB {
		union[k] = true
	}
	if len(union) == 0 {
		return 1.0
	}
	return float64(inter) / float64(len(union))
}

func toSet(items []string) map[string]bool {
	set := make(map[string]bool, len(items))
	for _, it := range items {
		set[it] = true
	}
	return set
}

func stringSliceEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
