package diff

import (
	"sort"

	"github.com/afrugalpenguin/cosmos-mapper/internal/model"
)

// compareProperties implements the per-container property diff in
// SPEC_FULL.md §4.5, run once per container present in both baseline and
// current.
func compareProperties(baseline, current *model.AnalysisResult, result *Result) {
	var changes []PropertyChange

	for id, currSchema := range current.Schemas {
		baseSchema, ok := baseline.Schemas[id]
		if !ok {
			continue // whole container is new; already reported as CONTAINER_ADDED
		}
		changes = append(changes, comparePropertySet(id, baseSchema, currSchema)...)
	}

	sort.Slice(changes, func(i, j int) bool {
		a, b := changes[i], changes[j]
		if a.Container.Database != b.Container.Database {
			return a.Container.Database < b.Container.Database
		}
		if a.Container.Name != b.Container.Name {
			return a.Container.Name < b.Container.Name
		}
		if a.Path != b.Path {
			return a.Path < b.Path
		}
		return a.Kind < b.Kind
	})
	result.PropertyChanges = changes
}

func comparePropertySet(id model.ContainerIdentity, base, curr *model.ContainerSchema) []PropertyChange {
	var changes []PropertyChange

	for path, currRec := range curr.Properties {
		baseRec, ok := base.Properties[path]
		if !ok {
			changes = append(changes, PropertyChange{Container: id, Path: path, Kind: PropertyAdded, Impact: ImpactInfo})
			continue
		}
		changes = append(changes, comparePropertyRecord(id, path, baseRec, currRec)...)
	}
	for path := range base.Properties {
		if _, ok := curr.Properties[path]; !ok {
			changes = append(changes, PropertyChange{Container: id, Path: path, Kind: PropertyRemoved, Breaking: true, Impact: ImpactCritical})
		}
	}
	return changes
}

func comparePropertyRecord(id model.ContainerIdentity, path string, base, curr *model.PropertyRecord) []PropertyChange {
	var changes []PropertyChange

	if !sameTypeSet(base.Types, curr.Types) {
		narrowing := curr.Types.IsStrictSubsetOf(base.Types)
		changes = append(changes, PropertyChange{
			Container: id, Path: path, Kind: TypeChanged, Breaking: narrowing,
			Impact: impactFor(narrowing, false), Detail: "observed type set changed",
		})
	}

	optionalityEmitted := false
	if base.IsRequired != curr.IsRequired {
		breaking := base.IsRequired && !curr.IsRequired
		changes = append(changes, PropertyChange{
			Container: id, Path: path, Kind: OptionalityChanged, Breaking: breaking,
			Impact: impactFor(breaking, false), Detail: "required-ness changed",
		})
		optionalityEmitted = true
	}

	if diffAbs(curr.Frequency, base.Frequency) > 0.10 {
		breaking := curr.Frequency < base.Frequency-0.5
		changes = append(changes, PropertyChange{
			Container: id, Path: path, Kind: FrequencyChanged, Breaking: breaking,
			Impact: impactFor(breaking, false), Detail: "populated frequency changed by more than 10 points",
		})
	}

	if !optionalityEmitted && base.Optionality != curr.Optionality {
		changes = append(changes, PropertyChange{
			Container: id, Path: path, Kind: OptionalityChanged, Impact: ImpactInfo, Detail: "optionality label changed",
		})
	}

	if base.IsEnum != curr.IsEnum || !sameStrings(base.EnumValues, curr.EnumValues) {
		changes = append(changes, PropertyChange{Container: id, Path: path, Kind: EnumValuesChanged, Impact: ImpactInfo})
	}

	if base.IsComputed != curr.IsComputed || base.ComputedPattern != curr.ComputedPattern {
		changes = append(changes, PropertyChange{Container: id, Path: path, Kind: ComputedChanged, Impact: ImpactInfo})
	}

	return changes
}

func impactFor(breaking, isRemoval bool) Impact {
	switch {
	case isRemoval:
		return ImpactCritical
	case breaking:
		return ImpactWarning
	default:
		return ImpactInfo
	}
}

func sameTypeSet(a, b *model.TagSet) bool {
	as, bs := a.Sorted(), b.Sorted()
	if len(as) != len(bs) {
		return false
	}
	for i := range as {
		if as[i] != bs[i] {
			return false
		}
	}
	return true
}

func sameStrings(a, b []string) bool {
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

func diffAbs(a, b float64) float64 {
	d := a - b
	if d < 0 {
		return -d
	}
	return d
}
