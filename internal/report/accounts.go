package report

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/tree"

	"github.com/gncx-dev/gncx/internal/accounts"
	"github.com/gncx-dev/gncx/internal/model"
)

// TreeOptions controls WriteAccountTree.
type TreeOptions struct {
	ShowHidden bool
	Places     int32
}

var (
	typeStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#fab387"))
	balanceStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#bac2de"))
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#7f849c"))
)

// WriteAccountTree renders the account hierarchy with each account's type
// and balance. Accounts outside the root's subtree are listed at top level.
func WriteAccountTree(w io.Writer, g *accounts.Graph, opts TreeOptions) error {
	title := "Accounts"
	var top []*accounts.Account
	for _, a := range g.TopLevel() {
		if a.Type == model.AccountTypeRoot {
			top = append(top, g.Children(a.ID)...)
			continue
		}
		top = append(top, a)
	}

	t := tree.Root(title).Enumerator(tree.RoundedEnumerator).EnumeratorStyle(mutedStyle)
	seen := make(map[string]bool)
	for _, a := range top {
		if node := accountNode(g, a, opts, seen); node != nil {
			t.Child(node)
		}
	}
	_, err := fmt.Fprintln(w, t.String())
	return err
}

func accountNode(g *accounts.Graph, a *accounts.Account, opts TreeOptions, seen map[string]bool) *tree.Tree {
	if seen[a.ID] || (a.Hidden && !opts.ShowHidden) {
		return nil
	}
	seen[a.ID] = true

	label := a.Name + " " + typeStyle.Render(string(a.Type))
	if a.Placeholder {
		label += " " + mutedStyle.Render("placeholder")
	} else {
		label += " " + balanceStyle.Render(a.Balance().StringFixed(opts.Places))
		if !a.Commodity.IsZero() {
			label += " " + mutedStyle.Render(a.Commodity.String())
		}
	}

	node := tree.Root(label).Enumerator(tree.RoundedEnumerator).EnumeratorStyle(mutedStyle)
	for _, c := range g.Children(a.ID) {
		if child := accountNode(g, c, opts, seen); child != nil {
			node.Child(child)
		}
	}
	return node
}
