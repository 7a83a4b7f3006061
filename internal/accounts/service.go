package accounts

import (
	"cmp"
	"slices"
	"strings"

	"github.com/agnivade/levenshtein"

	"github.com/gncx-dev/gncx/internal/diag"
	"github.com/gncx-dev/gncx/internal/ledger"
	"github.com/gncx-dev/gncx/internal/model"
)

// Graph provides lookup over a book's accounts. Parent/child relations are
// derived from ParentID on each call rather than stored.
type Graph struct {
	accounts []*Account
	byID     map[string]*Account
	diags    *diag.Recorder
}

// NewGraph indexes accounts by ID. A later account with an already seen ID
// replaces the earlier one in place and is reported to diags.
func NewGraph(accounts []*Account, diags *diag.Recorder) *Graph {
	g := &Graph{byID: make(map[string]*Account, len(accounts)), diags: diags}
	for _, a := range accounts {
		g.add(a)
	}
	return g
}

func (g *Graph) add(a *Account) {
	if _, dup := g.byID[a.ID]; dup {
		g.diags.Warn(diag.KindDuplicate, a.ID, "account %q defined more than once, keeping the last definition", a.Name)
		for i, old := range g.accounts {
			if old.ID == a.ID {
				g.accounts[i] = a
			}
		}
	} else {
		g.accounts = append(g.accounts, a)
	}
	g.byID[a.ID] = a
}

// All returns all accounts in book order.
func (g *Graph) All() []*Account {
	return g.accounts
}

// Get returns an account by ID.
func (g *Graph) Get(id string) (*Account, bool) {
	a, ok := g.byID[id]
	return a, ok
}

// Exists reports whether an account ID exists.
func (g *Graph) Exists(id string) bool {
	_, ok := g.byID[id]
	return ok
}

// Type returns the type of an account.
func (g *Graph) Type(id string) (model.AccountType, bool) {
	a, ok := g.byID[id]
	if !ok {
		return "", false
	}
	return a.Type, true
}

// ByType returns all accounts of the given type.
func (g *Graph) ByType(accountType model.AccountType) []*Account {
	var result []*Account
	for _, a := range g.accounts {
		if a.Type == accountType {
			result = append(result, a)
		}
	}
	return result
}

// Children returns the direct children of an account.
func (g *Graph) Children(id string) []*Account {
	var result []*Account
	for _, a := range g.accounts {
		if a.ParentID == id && a.ID != id {
			result = append(result, a)
		}
	}
	return result
}

// TopLevel returns the accounts without a parent.
func (g *Graph) TopLevel() []*Account {
	return g.Children("")
}

// Root returns the ROOT account. Books written without one have none.
func (g *Graph) Root() (*Account, bool) {
	for _, a := range g.accounts {
		if a.Type == model.AccountTypeRoot && a.IsTopLevel() {
			return a, true
		}
	}
	return nil, false
}

// FullName returns the colon-separated path of an account, e.g.
// "Assets:Current Assets:Checking". The ROOT account is not part of the path.
func (g *Graph) FullName(id string) string {
	var parts []string
	seen := make(map[string]bool)
	for a, ok := g.byID[id]; ok && !seen[a.ID]; a, ok = g.byID[a.ParentID] {
		seen[a.ID] = true
		if a.Type == model.AccountTypeRoot {
			break
		}
		parts = append(parts, a.Name)
	}
	slices.Reverse(parts)
	return strings.Join(parts, ":")
}

// Match is an account found by FindByName.
type Match struct {
	Account  *Account
	FullName string
	Distance int
}

// FindByName returns the accounts whose name or full name is within
// maxDistance edits of name, closest first. Comparison ignores case.
func (g *Graph) FindByName(name string, maxDistance int) []Match {
	want := strings.ToLower(strings.TrimSpace(name))
	var matches []Match
	for _, a := range g.accounts {
		if a.Type == model.AccountTypeRoot {
			continue
		}
		full := g.FullName(a.ID)
		d := min(
			levenshtein.ComputeDistance(want, strings.ToLower(a.Name)),
			levenshtein.ComputeDistance(want, strings.ToLower(full)),
		)
		if d <= maxDistance {
			matches = append(matches, Match{Account: a, FullName: full, Distance: d})
		}
	}
	slices.SortStableFunc(matches, func(x, y Match) int {
		if c := cmp.Compare(x.Distance, y.Distance); c != 0 {
			return c
		}
		return cmp.Compare(x.FullName, y.FullName)
	})
	return matches
}

// AddTransactionSplit indexes a split under its account. It reports false when
// the split's account is unknown. Both an unknown account and a replaced
// duplicate split are recorded as diagnostics.
func (g *Graph) AddTransactionSplit(s *ledger.Split) bool {
	a, ok := g.byID[s.AccountID]
	if !ok {
		g.diags.Warn(diag.KindUnresolved, s.ID, "split references unknown account %q", s.AccountID)
		return false
	}
	if a.AddTransactionSplit(s) {
		g.diags.Warn(diag.KindDuplicate, s.ID, "split registered twice on account %q, replaced earlier object", a.Name)
	}
	return true
}
