package probe

import (
	"context"
	"math/rand/v2"

	"github.com/okian/olympicsnav/internal/domain/types"
)

// Probability knobs for random states, in percent.
const (
	pickSpecific   = 70
	multiWithAll   = 15
	maxMultiValues = 3
)

// optionSource is the part of Client the generator needs.
type optionSource interface {
	Options(ctx context.Context, season, sport types.Selection) (types.OptionSet, error)
}

// generator builds random filter states that only use offered options, the
// way a user clicking through the dropdowns would.
type generator struct {
	rnd   *rand.Rand
	src   optionSource
	cache map[[2]types.Selection]types.OptionSet
}

func newGenerator(seed uint64, src optionSource) *generator {
	return &generator{
		rnd:   rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		src:   src,
		cache: make(map[[2]types.Selection]types.OptionSet),
	}
}

func (g *generator) options(ctx context.Context, season, sport types.Selection) (types.OptionSet, error) {
	key := [2]types.Selection{season, sport}
	if o, ok := g.cache[key]; ok {
		return o, nil
	}
	o, err := g.src.Options(ctx, season, sport)
	if err != nil {
		return types.OptionSet{}, err
	}
	g.cache[key] = o
	return o, nil
}

// pick returns All or, with probability pickSpecific, a random offered value.
func (g *generator) pick(list types.OptionList) types.Selection {
	vals := list.Values()
	if len(vals) == 0 || g.rnd.IntN(100) >= pickSpecific {
		return types.All()
	}
	return types.Only(vals[g.rnd.IntN(len(vals))])
}

// pickMany returns All or a few random values, sometimes alongside All.
func (g *generator) pickMany(list types.OptionList) types.MultiSelection {
	vals := list.Values()
	if len(vals) == 0 || g.rnd.IntN(100) >= pickSpecific {
		return types.AllOf()
	}
	n := 1 + g.rnd.IntN(min(maxMultiValues, len(vals)))
	picked := make([]string, 0, n)
	for _, i := range g.rnd.Perm(len(vals))[:n] {
		picked = append(picked, vals[i])
	}
	m := types.AnyOf(picked...)
	if g.rnd.IntN(100) < multiWithAll {
		m = m.WithAll()
	}
	return m
}

// next returns one random state. Season and sport are chosen first and the
// event comes from the list offered for them.
func (g *generator) next(ctx context.Context) (types.FilterState, error) {
	top, err := g.options(ctx, types.All(), types.All())
	if err != nil {
		return types.FilterState{}, err
	}
	season := g.pick(top.Seasons)
	bySeason, err := g.options(ctx, season, types.All())
	if err != nil {
		return types.FilterState{}, err
	}
	sport := g.pick(bySeason.Sports)
	bySport, err := g.options(ctx, season, sport)
	if err != nil {
		return types.FilterState{}, err
	}
	return types.DefaultState().
		WithSeason(season).
		WithSport(sport).
		WithEvent(g.pick(bySport.Events)).
		WithCountries(g.pickMany(top.Countries)).
		WithMedals(g.pickMany(top.Medals)).
		WithYear(g.pick(top.Years)), nil
}
