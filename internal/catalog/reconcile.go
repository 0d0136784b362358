package catalog

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"

	"github.com/tphakala/nutridri/internal/dri"
	"github.com/tphakala/nutridri/internal/errors"
	"github.com/tphakala/nutridri/internal/logger"
	"github.com/tphakala/nutridri/internal/units"
)

// Ambiguity records a DRI name that matched several catalog entries by
// substring with no override to pick one. Every listed entry was tagged.
type Ambiguity struct {
	Name string
	IDs  []int
}

// Report summarizes a reconciliation run for review.
type Report struct {
	Overridden  []string    // names placed by the override table
	Synthesized []string    // names that got a new catalog entry
	Ambiguous   []Ambiguity // names tagged onto more than one entry
}

// Reconciler attaches DRI nutrient names and units to catalog entries.
type Reconciler struct {
	Units     *units.Table
	UnitMap   dri.UnitMap
	Seeds     []Seed
	Overrides []Override
	Logger    logger.Logger
}

// NewReconciler returns a reconciler using the fatty acid seeds and the
// curated override table.
func NewReconciler(table *units.Table, unitMap dri.UnitMap, log logger.Logger) *Reconciler {
	if log == nil {
		log = GetLogger()
	}
	return &Reconciler{
		Units:     table,
		UnitMap:   unitMap,
		Seeds:     FattyAcidSeeds,
		Overrides: Overrides,
		Logger:    log,
	}
}

// reconcileState tracks which entry positions belong to which DRI name.
type reconcileState struct {
	cat    *Catalog
	folded []string       // folded native names by position
	claims map[int]string // position -> DRI name
	fold   cases.Caser
}

// Reconcile returns a copy of base with seeds applied, every name in names
// attached to at least one entry, and native units resolved. Override names
// are placed first so generic matching cannot claim their entries.
func (r *Reconciler) Reconcile(base *Catalog, names []string) (*Catalog, *Report, error) {
	st := &reconcileState{
		cat:    base.Clone(),
		claims: make(map[int]string),
		fold:   cases.Fold(),
	}
	report := &Report{}

	r.applySeeds(st)

	st.folded = make([]string, st.cat.Len())
	for i := range st.cat.entries {
		st.folded[i] = st.fold.String(st.cat.entries[i].NativeName)
	}

	overrides := make(map[string]int, len(r.Overrides))
	for _, o := range r.Overrides {
		overrides[o.Name] = o.Position
	}

	ordered := make([]string, 0, len(names))
	for _, name := range names {
		if _, ok := overrides[name]; ok {
			ordered = append(ordered, name)
		}
	}
	for _, name := range names {
		if _, ok := overrides[name]; !ok {
			ordered = append(ordered, name)
		}
	}

	seeded := make(map[string]bool, len(r.Seeds))
	for _, s := range r.Seeds {
		seeded[s.Name] = true
	}

	for _, name := range ordered {
		if seeded[name] {
			continue
		}
		unitText, ok := r.UnitMap[name]
		if !ok {
			return nil, nil, errors.Newf("DRI nutrient %q has no entry in the unit map", name).
				Category(errors.CategoryBuildInput).
				Context("nutrient", name).
				Build()
		}
		unit := r.Units.Resolve(unitText)
		if !unit.Resolved {
			r.Logger.Warn("DRI unit not in unit table, keeping text",
				logger.String("nutrient", name),
				logger.String("unit", unitText))
		}

		candidates := st.candidates(name)
		if len(candidates) == 0 {
			r.synthesize(st, name, unit)
			report.Synthesized = append(report.Synthesized, name)
			continue
		}

		if pos, ok := overrides[name]; ok {
			if pos >= 0 && pos < st.cat.Len() {
				st.tag(pos, name, unit)
				report.Overridden = append(report.Overridden, name)
				continue
			}
			r.Logger.Warn("override position outside catalog, falling back to substring match",
				logger.String("nutrient", name),
				logger.Int("position", pos),
				logger.Int("catalog_size", st.cat.Len()))
		}

		var free []int
		for _, pos := range candidates {
			if owner, claimed := st.claims[pos]; !claimed || owner == name {
				free = append(free, pos)
			}
		}
		if len(free) == 0 {
			r.Logger.Warn("all substring matches already claimed, adding new entry",
				logger.String("nutrient", name),
				logger.Int("candidates", len(candidates)))
			r.synthesize(st, name, unit)
			report.Synthesized = append(report.Synthesized, name)
			continue
		}

		for _, pos := range free {
			st.tag(pos, name, unit)
		}
		if len(free) > 1 {
			ids := make([]int, len(free))
			for i, pos := range free {
				ids[i] = st.cat.entries[pos].ID
			}
			report.Ambiguous = append(report.Ambiguous, Ambiguity{Name: name, IDs: ids})
			r.Logger.Info("ambiguous nutrient match, review the catalog output",
				logger.String("nutrient", name),
				logger.String("ids", fmt.Sprint(ids)))
		}
	}

	for i := range st.cat.entries {
		e := &st.cat.entries[i]
		if !e.NativeUnit.Resolved {
			e.NativeUnit = r.Units.ResolveNative(e.NativeUnit.Text)
		}
	}

	r.Logger.Debug("reconciliation complete",
		logger.Int("names", len(names)),
		logger.Int("overridden", len(report.Overridden)),
		logger.Int("synthesized", len(report.Synthesized)),
		logger.Int("ambiguous", len(report.Ambiguous)),
		logger.Int("catalog_size", st.cat.Len()))

	return st.cat, report, nil
}

// applySeeds tags seed positions, appending an entry when the catalog is too short.
func (r *Reconciler) applySeeds(st *reconcileState) {
	for _, s := range r.Seeds {
		unit := units.Code(s.UnitCode)
		if s.Position >= 0 && s.Position < st.cat.Len() {
			st.tag(s.Position, s.Name, unit)
			continue
		}
		pos := st.cat.appendNew(Entry{NIHName: s.Name, NIHUnit: unit})
		st.claims[pos] = s.Name
		r.Logger.Debug("seed position beyond catalog, appended",
			logger.String("nutrient", s.Name),
			logger.Int("position", s.Position),
			logger.Int("id", st.cat.entries[pos].ID))
	}
}

func (r *Reconciler) synthesize(st *reconcileState, name string, unit units.Ref) {
	pos := st.cat.appendNew(Entry{NIHName: name, NIHUnit: unit})
	st.folded = append(st.folded, "")
	st.claims[pos] = name
	r.Logger.Debug("no catalog match, added entry",
		logger.String("nutrient", name),
		logger.Int("id", st.cat.entries[pos].ID))
}

// candidates returns positions whose native name contains name, ignoring case.
func (st *reconcileState) candidates(name string) []int {
	needle := st.fold.String(name)
	var out []int
	for pos, folded := range st.folded {
		if folded != "" && strings.Contains(folded, needle) {
			out = append(out, pos)
		}
	}
	return out
}

func (st *reconcileState) tag(pos int, name string, unit units.Ref) {
	e := &st.cat.entries[pos]
	e.NIHName = name
	e.NIHUnit = unit
	st.claims[pos] = name
}
