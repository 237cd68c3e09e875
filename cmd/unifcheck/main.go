// Command unifcheck exercises the CORE's unification engine on a fixed set
// of hand-built scenarios and reports the outcome of each, grounded on the
// teacher's cmd/typecheck/main.go (a sequence of named test functions driven
// from main) and cmd/ailang/main.go's fatih/color-based pass/fail coloring.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/fatih/color"

	"github.com/dominik-muc/unif/internal/diagnostics"
	"github.com/dominik-muc/unif/internal/ids"
	"github.com/dominik-muc/unif/internal/kinds"
	"github.com/dominik-muc/unif/internal/scope"
	"github.com/dominik-muc/unif/internal/sessioncfg"
	"github.com/dominik-muc/unif/internal/tyvar"
	"github.com/dominik-muc/unif/internal/types"
)

var (
	green = color.New(color.FgGreen).SprintFunc()
	red   = color.New(color.FgRed).SprintFunc()
	bold  = color.New(color.Bold).SprintFunc()
)

func main() {
	cfgPath := flag.String("config", "", "path to a session config YAML file (optional)")
	flag.Parse()

	cfg := sessioncfg.Default()
	if *cfgPath != "" {
		loaded, err := sessioncfg.Load(*cfgPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, red(err.Error()))
			os.Exit(1)
		}
		cfg = loaded
	}

	fmt.Println(bold("unifcheck — CORE unification scenarios"))
	fmt.Println("=======================================")

	scenarios := []struct {
		name string
		run  func(*session) bool
	}{
		{"fresh uvar views as itself until set", scenarioFreshUVar},
		{"occurs check rejects infinite types", scenarioOccursCheck},
		{"row unification is permutation-insensitive", scenarioRowPermutation},
		{"scope escape is rejected", scenarioScopeEscape},
		{"pure arrow unifies under alpha-renamed parameter", scenarioAlphaRenamedArrow},
	}

	failures := 0
	for _, sc := range scenarios {
		s := newSession(cfg)
		ok := runScenario(s, sc.name, sc.run)
		if !ok {
			failures++
		}
	}

	fmt.Println()
	if failures == 0 {
		fmt.Println(green(fmt.Sprintf("all %d scenarios passed", len(scenarios))))
		return
	}
	fmt.Println(red(fmt.Sprintf("%d of %d scenarios failed", failures, len(scenarios))))
	os.Exit(1)
}

// session bundles one fresh, disjoint set of CORE stores — exactly the unit
// of isolation spec.md §5 describes ("one session = one set of disjoint
// mutable stores").
type session struct {
	supply *ids.Supply
	ks     *kinds.Store
	ts     *types.Store
	scope  *scope.Scope
	b      *types.Builtins
	ch     *diagnostics.Channel
}

func newSession(cfg *sessioncfg.Config) *session {
	supply := ids.NewSupply()
	ks := kinds.NewStore(supply)
	ts := types.NewStore(supply, ks)
	sc := scope.Initial()
	for i := 0; i < cfg.InitialLevel; i++ {
		sc = sc.IncrLevel()
	}
	sc, b := types.NewBuiltins(supply, sc)
	ch := diagnostics.NewChannel()
	ch.Policy = cfg.Apply
	return &session{supply: supply, ks: ks, ts: ts, scope: sc, b: b, ch: ch}
}

func runScenario(s *session, name string, run func(*session) bool) bool {
	defer func() {
		if r := recover(); r != nil {
			if abort, ok := r.(diagnostics.AbortSignal); ok {
				fmt.Printf("%s %s: %s\n", red("FAIL"), name, abort.Error())
				return
			}
			panic(r)
		}
	}()
	ok := run(s)
	if ok {
		fmt.Printf("%s %s\n", green("PASS"), name)
	} else {
		fmt.Printf("%s %s\n", red("FAIL"), name)
		for _, d := range s.ch.All() {
			fmt.Printf("    %s\n", d)
		}
	}
	return ok
}

func scenarioFreshUVar(s *session) bool {
	u := s.ts.FreshUVar(kinds.Type, s.scope)
	before := s.ts.View(u)
	if _, ok := before.(*types.TUVar); !ok {
		return false
	}
	return s.ts.Unify(s.ch, "scenario", s.scope, u, s.b.Int())
}

func scenarioOccursCheck(s *session) bool {
	u := s.ts.FreshUVar(kinds.Type, s.scope)
	wrapped := &types.TApp{Fn: s.b.Int(), Arg: u}
	ok := s.ts.Unify(s.ch, "scenario", s.scope, u, wrapped)
	return !ok && s.ch.HasError()
}

func scenarioRowPermutation(s *session) bool {
	_, e1 := s.scope.AddNamed(s.supply, "e1", kinds.Effect)
	_, e2 := s.scope.AddNamed(s.supply, "e2", kinds.Effect)
	rowA := types.ConsEff([]*tyvar.Var{e1, e2}, types.REClosed{})
	rowB := types.ConsEff([]*tyvar.Var{e2, e1}, types.REClosed{})
	return s.ts.Unify(s.ch, "scenario", s.scope, rowA, rowB)
}

func scenarioScopeEscape(s *session) bool {
	outer := s.scope
	u := s.ts.FreshUVar(kinds.Type, outer)
	inner := outer.IncrLevel()
	_, rigid := inner.AddNamed(s.supply, "r", kinds.Type)
	ok := s.ts.Unify(s.ch, "scenario", inner, u, &types.TVar{V: rigid})
	return !ok && s.ch.HasError()
}

func scenarioAlphaRenamedArrow(s *session) bool {
	pa := tyvar.New(s.supply, "a", kinds.Type, s.scope.Level())
	pb := tyvar.New(s.supply, "b", kinds.Type, s.scope.Level())
	arrow1 := &types.TPureArrow{
		Param: &types.Scheme{Params: []types.SchemeParam{{Name: types.Anonymous(), V: pa}}, Body: &types.TVar{V: pa}},
		Ret:   s.b.Int(),
	}
	arrow2 := &types.TPureArrow{
		Param: &types.Scheme{Params: []types.SchemeParam{{Name: types.Anonymous(), V: pb}}, Body: &types.TVar{V: pb}},
		Ret:   s.b.Int(),
	}
	return s.ts.Unify(s.ch, "scenario", s.scope, arrow1, arrow2)
}
