package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"hrgraph/internal/graph"
	"hrgraph/internal/render"
	"hrgraph/internal/search"

	"github.com/spf13/cobra"
)

var (
	weighted     bool
	toCompany    bool
	selectID     string
	exportFormat string
	exportKind   string
	exportOut    string
	exportQuery  string
	exportTitle  string
	exportZoom   float64
	exportSubset []string
	exportLimit  int
)

func init() {
	pathCmd.Flags().BoolVar(&weighted, "weighted", false, "Minimise the sum of 1/weight instead of the hop count")
	pathCmd.Flags().BoolVar(&toCompany, "company", false, "Treat the second argument as a company name query")

	searchCmd.Flags().StringVar(&selectID, "select", "", "Focus this node id instead of the first match")

	exportCmd.Flags().StringVar(&exportFormat, "format", "csv", "Output format: csv, dot, mermaid or html")
	exportCmd.Flags().StringVar(&exportKind, "kind", "nodes", "CSV content (nodes or edges) or Mermaid content (nodes or companies)")
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "Output file (default stdout)")
	exportCmd.Flags().StringVar(&exportQuery, "query", "", "Search query highlighted in the HTML page")
	exportCmd.Flags().StringVar(&exportTitle, "title", "", "HTML page title")
	exportCmd.Flags().Float64Var(&exportZoom, "zoom", 1, "Zoom level used for label level-of-detail")
	exportCmd.Flags().StringSliceVar(&exportSubset, "ids", nil, "Export only these node ids (CSV)")
	exportCmd.Flags().IntVar(&exportLimit, "limit", 15, "Number of companies in the Mermaid company overview")
}

var loadCmd = &cobra.Command{
	Use:   "load [file|dir...]",
	Short: "Load node and edge files (or directories of them) into the local database",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		sess, err := openSession(ctx, cmd)
		if err != nil {
			return err
		}
		defer sess.Close()

		for _, path := range args {
			sum, err := sess.loadPath(ctx, path, "")
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			log.Infow("file loaded", "path", path, "nodes", sum.Nodes, "edges", sum.Edges)
		}

		g := sess.state.Graph()
		fmt.Fprintf(cmd.OutOrStdout(), "✅ Graph has %d nodes and %d edges. Database: %s\n", len(g.Nodes), len(g.Edges), sess.cfg.Storage.DB)
		return nil
	},
}

var sampleCmd = &cobra.Command{
	Use:   "sample",
	Short: "Load the bundled demo dataset",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		sess, err := openSession(ctx, cmd)
		if err != nil {
			return err
		}
		defer sess.Close()

		sum, err := sess.state.LoadSample(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✅ Sample loaded: %d nodes, %d edges.\n", sum.Nodes, sum.Edges)
		return nil
	},
}

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search people and companies (initial consonants supported)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		sess, err := openSession(ctx, cmd)
		if err != nil {
			return err
		}
		defer sess.Close()

		v := sess.state.Search(args[0])
		if selectID != "" {
			if v, err = sess.state.Select(selectID); err != nil {
				return err
			}
		}
		printView(cmd.OutOrStdout(), v)
		return nil
	},
}

var pathCmd = &cobra.Command{
	Use:   "path <source-id> <target-id|company>",
	Short: "Find a relationship path between two nodes",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		sess, err := openSession(ctx, cmd)
		if err != nil {
			return err
		}
		defer sess.Close()

		useWeighted := sess.cfg.View.WeightedPath
		if cmd.Flags().Changed("weighted") {
			useWeighted = weighted
		}

		var p *graph.Path
		if toCompany {
			res, err := sess.state.PathToCompany(args[0], args[1], useWeighted)
			if err != nil {
				return err
			}
			p = res.Path
		} else if p, err = sess.state.FindPath(args[0], args[1], useWeighted); err != nil {
			return err
		}
		printPath(cmd.OutOrStdout(), sess.state.Graph(), p)
		return nil
	},
}

var spouseCmd = &cobra.Command{
	Use:   "spouse <person-id>",
	Short: "List companies connected through a person's spouses",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		sess, err := openSession(ctx, cmd)
		if err != nil {
			return err
		}
		defer sess.Close()

		res, err := sess.state.SpouseCompanies(args[0])
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if len(res.Spouses) == 0 {
			fmt.Fprintln(out, "No spouse relations.")
			return nil
		}
		for _, s := range res.Spouses {
			fmt.Fprintf(out, "💑 %s (%s)\n", s.Label, s.ID)
		}
		fmt.Fprintf(out, "Companies: %s\n", strings.Join(res.Companies, ", "))
		return nil
	},
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the graph as CSV, Graphviz DOT, Mermaid or a standalone HTML page",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		sess, err := openSession(ctx, cmd)
		if err != nil {
			return err
		}
		defer sess.Close()

		if exportOut == "" {
			return writeExport(sess, cmd.OutOrStdout())
		}
		f, err := os.Create(exportOut)
		if err != nil {
			return err
		}
		return writeAndClose(f, func(w io.Writer) error {
			return writeExport(sess, w)
		})
	},
}

// writeAndClose runs write against wc and closes it, reporting the first
// error of the two.
func writeAndClose(wc io.WriteCloser, write func(io.Writer) error) error {
	err := write(wc)
	if cerr := wc.Close(); err == nil && cerr != nil {
		err = fmt.Errorf("failed to close output: %w", cerr)
	}
	return err
}

func writeExport(sess *session, w io.Writer) error {
	switch exportFormat {
	case "csv":
		if exportKind == "edges" {
			return sess.state.ExportEdgesCSV(w, exportSubset...)
		}
		return sess.state.ExportNodesCSV(w, exportSubset...)
	case "dot":
		return sess.state.ExportDOT(w)
	case "mermaid":
		if exportKind == "companies" {
			return sess.state.ExportCompanyMermaid(w, exportLimit)
		}
		return sess.state.ExportMermaid(w)
	case "html":
		if exportQuery != "" {
			sess.state.Search(exportQuery)
		}
		return render.WriteHTML(w, exportTitle, sess.state.Scene(exportZoom))
	default:
		return fmt.Errorf("unknown export format %q", exportFormat)
	}
}

var importsCmd = &cobra.Command{
	Use:   "imports",
	Short: "Show the import log",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		sess, err := openSession(ctx, cmd)
		if err != nil {
			return err
		}
		defer sess.Close()

		imports, err := sess.state.Imports(ctx)
		if err != nil {
			return err
		}
		for _, imp := range imports {
			fmt.Fprintf(cmd.OutOrStdout(), "%s  %-5s %5d rows  %s  %s\n",
				imp.ImportedAt.Local().Format("2006-01-02 15:04:05"), imp.Kind, imp.Rows, imp.Source, imp.ID)
		}
		return nil
	},
}

func printView(w io.Writer, v search.View) {
	switch v.Mode {
	case search.ModeCleared:
		fmt.Fprintln(w, "Empty query.")
	case search.ModeNoResult:
		fmt.Fprintf(w, "No results for %q.\n", v.Query)
	case search.ModeCandidates:
		fmt.Fprintf(w, "Several matches for %q, pick one with --select:\n", v.Query)
		for _, n := range v.Companies {
			fmt.Fprintf(w, "  🏢 %s (%s)\n", n.Label, n.ID)
		}
		for _, n := range v.Persons {
			fmt.Fprintf(w, "  👤 %s (%s)\n", n.Label, n.ID)
		}
	case search.ModeCompany:
		c := v.Company
		fmt.Fprintf(w, "🏢 %s: %d employees\n", v.Focus.Label, len(c.Employees))
		if len(c.SpouseLinked) > 0 {
			fmt.Fprintf(w, "   spouse linked: %s\n", strings.Join(c.SpouseLinked, ", "))
		}
		printCounts(w, "departments", c.Departments)
		printCounts(w, "titles", c.Titles)
	case search.ModePerson:
		p := v.Person
		fmt.Fprintf(w, "👤 %s (%s)\n", v.Focus.Label, v.Focus.ID)
		fmt.Fprintf(w, "   company: %s\n   department: %s\n   title: %s\n",
			orDash(p.Company), orDash(p.Department), orDash(p.Title))
		if len(p.RelativeCompanies) > 0 {
			fmt.Fprintf(w, "   relatives' companies: %s\n", strings.Join(p.RelativeCompanies, ", "))
		}
	}
}

func printCounts(w io.Writer, name string, counts []search.Count) {
	parts := make([]string, 0, len(counts))
	for _, c := range counts {
		parts = append(parts, fmt.Sprintf("%s %d", c.Name, c.Count))
	}
	fmt.Fprintf(w, "   %s: %s\n", name, strings.Join(parts, ", "))
}

func printPath(w io.Writer, g *graph.Graph, p *graph.Path) {
	labels := make([]string, 0, len(p.Nodes))
	for _, id := range p.Nodes {
		label := id
		if n := g.Node(id); n != nil {
			label = n.Label
		}
		labels = append(labels, label)
	}
	fmt.Fprintf(w, "%s\n", strings.Join(labels, " → "))
	for _, e := range p.Edges {
		fmt.Fprintf(w, "   %s -[%s]- %s\n", e.Source, e.Relation, e.Target)
	}
	fmt.Fprintf(w, "%d hops, cost %.2f\n", p.Hops(), p.Cost)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
