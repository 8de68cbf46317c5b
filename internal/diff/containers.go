package diff

import (
	"sort"

	"github.com/afrugalpenguin/cosmos-mapper/internal/model"
)

// compareContainers implements the container diff in SPEC_FULL.md §4.5: a
// set-difference on schema keys.
func compareContainers(baseline, current *model.AnalysisResult, result *Result) {
	var changes []ContainerChange
	for id := range current.Schemas {
		if _, ok := baseline.Schemas[id]; !ok {
			changes = append(changes, ContainerChange{Container: id, Kind: ContainerAdded, Breaking: false, Impact: ImpactInfo})
		}
	}
	for id := range baseline.Schemas {
		if _, ok := current.Schemas[id]; !ok {
			changes = append(changes, ContainerChange{Container: id, Kind: ContainerRemoved, Breaking: true, Impact: ImpactCritical})
		}
	}

	sort.Slice(changes, func(i, j int) bool {
		a, b := changes[i], changes[j]
		if a.Container.Database != b.Container.Database {
			return a.Container.Database < b.Container.Database
		}
		if a.Container.Name != b.Container.Name {
			return a.Container.Name < b.Container.Name
		}
		return a.Kind < b.Kind
	})
	result.ContainerChanges = changes
}
