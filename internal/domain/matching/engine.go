package matching

import (
	"sort"

	"lion-connect-backend/internal/domain"
)

// Suggest returns every candidate sharing at least one skill with requesterSkills.
// Candidates with the requester's own id are skipped. Results are ordered by
// descending overlap size, then ascending candidate id; matching skills are
// sorted by name. Skill names compare case-sensitively.
func Suggest(requesterID int64, requesterSkills []string, candidates []domain.UserWithSkills) []domain.Suggestion {
	own := make(map[string]struct{}, len(requesterSkills))
	for _, s := range requesterSkills {
		own[s] = struct{}{}
	}

	suggestions := make([]domain.Suggestion, 0)
	if len(own) == 0 {
		return suggestions
	}

	for _, c := range candidates {
		if c.ID == requesterID {
			continue
		}
		shared := Intersect(own, c.Skills)
		if len(shared) == 0 {
			continue
		}
		suggestions = append(suggestions, domain.Suggestion{
			User:           c.UserSummary,
			MatchingSkills: shared,
		})
	}

	sort.SliceStable(suggestions, func(i, j int) bool {
		li, lj := len(suggestions[i].MatchingSkills), len(suggestions[j].MatchingSkills)
		if li != lj {
			return li > lj
		}
		return suggestions[i].User.ID < suggestions[j].User.ID
	})

	return suggestions
}

// Intersect returns the distinct members of other that are present in set, sorted.
func Intersect(set map[string]struct{}, other []string) []string {
	seen := make(map[string]struct{}, len(other))
	out := make([]string, 0)
	for _, s := range other {
		if _, ok := set[s]; !ok {
			continue
		}
		if _, dup := seen[s]; dup {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}
