package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/docnav/internal/navtree"
)

var treeCmd = &cobra.Command{
	Use:   "tree [path]",
	Short: "Print the sidebar as it renders for a path",
	Long: `Loads the docs and prints the navigation tree a visitor arriving at path
would see, starting from an empty tree state. The path may carry a locale
prefix or suffix and an #anchor.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runTree,
}

func init() {
	treeCmd.Flags().String("view", string(navtree.ViewDesktop), "sidebar view: desktop or mobile")
	treeCmd.Flags().Bool("json", false, "print the rendered nodes as JSON")
	treeCmd.Flags().StringSlice("anchor", nil, "slug of a heading reported active (repeatable)")
	rootCmd.AddCommand(treeCmd)
}

func runTree(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	src, err := newDocsSource(cfg)
	if err != nil {
		return err
	}

	rawPath := "/"
	if len(args) == 1 {
		rawPath = args[0]
	}
	route, tag := src.locales.Resolve(rawPath)
	st, err := src.loader.Load(tag)
	if err != nil {
		return err
	}

	viewFlag, _ := cmd.Flags().GetString("view")
	view := navtree.ParseView(viewFlag)
	if string(view) != viewFlag {
		return fmt.Errorf("unknown view %q: want desktop or mobile", viewFlag)
	}
	anchors, _ := cmd.Flags().GetStringSlice("anchor")
	var active navtree.ActiveAnchors
	if len(anchors) > 0 {
		active = navtree.ActiveAnchorsOf(anchors...)
	}

	nodes := st.Dirs.Pruned
	if view == navtree.ViewMobile {
		nodes = st.Dirs.Full
	}
	renderer := navtree.NewRenderer(navtree.NewStore(), src.nav)
	rendered := renderer.RenderView(view, nodes, st.Frame(route, active))

	out := cmd.OutOrStdout()
	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(rendered)
	}
	printTree(out, rendered, 0)
	return nil
}

// printTree writes one line per node. Folders show [+] when closed and
// [-] when open; the active node is starred and the folders above it are
// marked with a tilde.
func printTree(w io.Writer, nodes []*navtree.RenderedNode, depth int) {
	indent := strings.Repeat("  ", depth)
	for _, n := range nodes {
		marker := "   "
		if n.Folder {
			marker = "[+]"
			if n.Open {
				marker = "[-]"
			}
		}
		active := ""
		switch {
		case n.Active:
			active = " *"
		case n.Ancestor:
			active = " ~"
		}
		fmt.Fprintf(w, "%s%s %s (%s)%s\n", indent, marker, n.Title, n.Link, active)

		if n.Anchors != nil {
			for i, a := range n.Anchors.Entries {
				cur := " "
				if i == n.Anchors.ActiveIndex {
					cur = ">"
				}
				fmt.Fprintf(w, "%s    %s #%s %s\n", indent, cur, a.Slug, a.Text)
			}
		}
		printTree(w, n.Children, depth+1)
	}
}
