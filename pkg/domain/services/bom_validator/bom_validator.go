package bom_validator

import (
	"errors"
	"fmt"
	"strings"

	"github.com/vsinha/bomcost/pkg/domain/entities"
)

// ErrInvalidRequest is wrapped by every ValidationError
var ErrInvalidRequest = errors.New("invalid BOM request")

// ValidationError collects every structural problem found before computation
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	if len(e.Problems) == 1 {
		return fmt.Sprintf("%s: %s", ErrInvalidRequest, e.Problems[0])
	}
	return fmt.Sprintf("%s: %d problems: %s", ErrInvalidRequest, len(e.Problems), strings.Join(e.Problems, "; "))
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidRequest
}

// AsError returns nil when problems is empty, a *ValidationError otherwise
func AsError(problems []string) error {
	if len(problems) == 0 {
		return nil
	}
	return &ValidationError{Problems: problems}
}

// AssemblyLink is a parent/child edge between named assemblies, as found in
// flat scenario files before the tree is assembled
type AssemblyLink struct {
	Parent string
	Child  string
}

// ValidationResult contains the results of assembly graph validation
type ValidationResult struct {
	HasCycles      bool
	CyclePaths     [][]string
	DuplicateLinks []AssemblyLink
	SharedChildren []string
	Errors         []string
}

// ValidateAssemblyLinks checks a flat parent/child edge list for cycles,
// duplicate edges and children claimed by more than one parent
func ValidateAssemblyLinks(links []AssemblyLink) *ValidationResult {
	result := &ValidationResult{
		CyclePaths:     make([][]string, 0),
		DuplicateLinks: make([]AssemblyLink, 0),
		SharedChildren: make([]string, 0),
		Errors:         make([]string, 0),
	}

	adjacency, order := buildAdjacencyMap(links)

	cycles := detectCycles(adjacency, order)
	result.HasCycles = len(cycles) > 0
	result.CyclePaths = cycles

	result.DuplicateLinks = detectDuplicateLinks(links)
	result.SharedChildren = detectSharedChildren(links)

	if result.HasCycles {
		for _, cycle := range result.CyclePaths {
			result.Errors = append(result.Errors, fmt.Sprintf("assembly cycle detected: %s", strings.Join(cycle, " -> ")))
		}
	}
	if len(result.DuplicateLinks) > 0 {
		result.Errors = append(result.Errors, fmt.Sprintf("found %d duplicate assembly links", len(result.DuplicateLinks)))
	}
	for _, child := range result.SharedChildren {
		result.Errors = append(result.Errors, fmt.Sprintf("assembly %s has more than one parent", child))
	}

	return result
}

// buildAdjacencyMap creates parent -> children relationships, remembering
// first-seen parent order so cycle reports are deterministic
func buildAdjacencyMap(links []AssemblyLink) (map[string][]string, []string) {
	adjacency := make(map[string][]string)
	order := make([]string, 0)

	for _, link := range links {
		children, exists := adjacency[link.Parent]
		if !exists {
			order = append(order, link.Parent)
		}

		found := false
		for _, child := range children {
			if child == link.Child {
				found = true
				break
			}
		}
		if !found {
			adjacency[link.Parent] = append(children, link.Child)
		}
	}

	return adjacency, order
}

// detectCycles uses DFS to find cycles in the assembly graph
func detectCycles(adjacency map[string][]string, order []string) [][]string {
	visited := make(map[string]bool)
	onPath := make(map[string]bool)
	cycles := make([][]string, 0)

	for _, parent := range order {
		if !visited[parent] {
			dfsDetectCycle(parent, adjacency, visited, onPath, nil, &cycles)
		}
	}

	return cycles
}

func dfsDetectCycle(
	current string,
	adjacency map[string][]string,
	visited map[string]bool,
	onPath map[string]bool,
	path []string,
	cycles *[][]string,
) {
	visited[current] = true
	onPath[current] = true
	path = append(path, current)

	for _, child := range adjacency[current] {
		if !visited[child] {
			dfsDetectCycle(child, adjacency, visited, onPath, path, cycles)
		} else if onPath[child] {
			for i, name := range path {
				if name == child {
					cycle := make([]string, 0, len(path)-i+1)
					cycle = append(cycle, path[i:]...)
					cycle = append(cycle, child)
					*cycles = append(*cycles, cycle)
					break
				}
			}
		}
	}

	onPath[current] = false
}

func detectDuplicateLinks(links []AssemblyLink) []AssemblyLink {
	seen := make(map[AssemblyLink]bool)
	duplicates := make([]AssemblyLink, 0)

	for _, link := range links {
		if seen[link] {
			duplicates = append(duplicates, link)
		} else {
			seen[link] = true
		}
	}

	return duplicates
}

func detectSharedChildren(links []AssemblyLink) []string {
	parentOf := make(map[string]string)
	reported := make(map[string]bool)
	shared := make([]string, 0)

	for _, link := range links {
		parent, exists := parentOf[link.Child]
		if !exists {
			parentOf[link.Child] = link.Parent
			continue
		}
		if parent != link.Parent && !reported[link.Child] {
			reported[link.Child] = true
			shared = append(shared, link.Child)
		}
	}

	return shared
}

// ValidateTree builds the arena for the root assemblies and checks every
// assembly and item in it. The tree is nil when the structure itself is
// unusable (cycle, shared or nil node).
func ValidateTree(roots []*entities.Assembly) (*entities.BOMTree, []string) {
	problems := make([]string, 0)

	if len(roots) == 0 {
		return nil, append(problems, "at least one assembly is required")
	}

	tree, err := entities.NewBOMTree(roots)
	if err != nil {
		return nil, append(problems, err.Error())
	}

	for i := 0; i < tree.Len(); i++ {
		assembly := tree.Node(i).Assembly
		if err := assembly.Validate(); err != nil {
			problems = append(problems, err.Error())
		}
		for j := range assembly.Items {
			if err := assembly.Items[j].Validate(); err != nil {
				problems = append(problems, fmt.Sprintf("assembly %s: %s", assembly.Name, err.Error()))
			}
		}
	}

	return tree, problems
}

// ValidateSuppliers checks each supplier and rejects duplicate ids
func ValidateSuppliers(suppliers []entities.Supplier) []string {
	problems := make([]string, 0)
	seen := make(map[entities.SupplierID]bool, len(suppliers))

	for i := range suppliers {
		if err := suppliers[i].Validate(); err != nil {
			problems = append(problems, err.Error())
			continue
		}
		if seen[suppliers[i].ID] {
			problems = append(problems, fmt.Sprintf("duplicate supplier id: %s", suppliers[i].ID))
			continue
		}
		seen[suppliers[i].ID] = true
	}

	return problems
}
