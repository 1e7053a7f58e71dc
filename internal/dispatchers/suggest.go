package dispatchers

import (
	"sort"
	"strings"

	"github.com/footprint-tools/switchboard/internal/command"
)

const defaultSuggestionsCount = 3

// levenshtein calculates the edit distance between two strings, ignoring case.
func levenshtein(a, b string) int {
	ra := []rune(strings.ToLower(a))
	rb := []rune(strings.ToLower(b))

	if len(ra) == 0 {
		return len(rb)
	}
	if len(rb) == 0 {
		return len(ra)
	}

	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			curr[j] = min(
				prev[j]+1,      // deletion
				curr[j-1]+1,    // insertion
				prev[j-1]+cost, // substitution
			)
		}
		prev, curr = curr, prev
	}

	return prev[len(rb)]
}

type suggestion struct {
	name     string
	distance int
}

// FindSimilarCommands returns up to maxResults names among candidates (and
// their aliases) within a small edit distance of input, closest first.
func FindSimilarCommands(input string, candidates []*command.Descriptor, maxResults int) []string {
	if len(candidates) == 0 || maxResults <= 0 {
		return nil
	}

	const maxDistance = 3

	best := make(map[string]int)
	consider := func(name string) {
		dist := levenshtein(input, name)
		if dist > maxDistance || dist == 0 {
			return
		}
		if d, ok := best[name]; !ok || dist < d {
			best[name] = dist
		}
	}
	for _, c := range candidates {
		consider(c.Name())
		for _, alias := range c.Aliases() {
			consider(alias)
		}
	}

	suggestions := make([]suggestion, 0, len(best))
	for name, dist := range best {
		suggestions = append(suggestions, suggestion{name: name, distance: dist})
	}

	// Sort by distance (ascending), then alphabetically for stability
	sort.Slice(suggestions, func(i, j int) bool {
		if suggestions[i].distance != suggestions[j].distance {
			return suggestions[i].distance < suggestions[j].distance
		}
		return suggestions[i].name < suggestions[j].name
	})

	if len(suggestions) > maxResults {
		suggestions = suggestions[:maxResults]
	}

	result := make([]string, len(suggestions))
	for i, s := range suggestions {
		result[i] = s.name
	}
	return result
}

// CollectAllCommands returns the full path of every descriptor under roots,
// depth first.
func CollectAllCommands(reg *command.Registry, roots []*command.Descriptor) []string {
	var commands []string
	for _, d := range roots {
		commands = append(commands, reg.Path(d))
		commands = append(commands, CollectAllCommands(reg, reg.Children(d))...)
	}
	return commands
}
