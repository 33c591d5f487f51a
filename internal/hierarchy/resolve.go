package hierarchy

import (
	"slices"

	"github.com/starford/jot/internal/models"
)

// Resolve orders the wanted notes for nested display. Tree positions come
// first (once per parent path), then linked notes no true root reaches with
// generation -1, then notes without any relation with generation 0. The last
// two segments are sorted by id. Every wanted id appears at least once.
func Resolve(f *Forest, wanted []int64) []models.DisplayNode {
	want := make(map[int64]struct{}, len(wanted))
	for _, id := range wanted {
		want[id] = struct{}{}
	}

	var out []models.DisplayNode
	placed := make(map[int64]struct{})
	for _, dn := range f.Flatten() {
		if _, ok := want[dn.ID]; !ok {
			continue
		}
		placed[dn.ID] = struct{}{}
		out = append(out, dn)
	}

	var circular []int64
	for id := range f.Linked {
		if _, ok := placed[id]; ok {
			continue
		}
		if _, ok := want[id]; ok {
			circular = append(circular, id)
		}
	}
	slices.Sort(circular)
	for _, id := range circular {
		placed[id] = struct{}{}
		out = append(out, models.DisplayNode{ID: id, Generation: models.GenerationCircular})
	}

	var free []int64
	for id := range want {
		if _, ok := placed[id]; !ok {
			free = append(free, id)
		}
	}
	slices.Sort(free)
	for _, id := range free {
		out = append(out, models.DisplayNode{ID: id})
	}

	for i := range out {
		out[i].Position = i
	}
	return out
}

// Flat keeps the given order and forces every note to generation 0.
func Flat(ids []int64) []models.DisplayNode {
	out := make([]models.DisplayNode, len(ids))
	for i, id := range ids {
		out[i] = models.DisplayNode{ID: id, Position: i}
	}
	return out
}

// Order dispatches on mode. A nil forest is treated as one without edges.
func Order(mode models.Mode, f *Forest, wanted []int64) []models.DisplayNode {
	if mode == models.ModeFlat {
		return Flat(wanted)
	}
	if f == nil {
		f = &Forest{}
	}
	return Resolve(f, wanted)
}
