package cmd

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/ayden94/caro-kann-docs/internal/config"
	"github.com/ayden94/caro-kann-docs/internal/content"
	"github.com/ayden94/caro-kann-docs/internal/i18n"
	"github.com/ayden94/caro-kann-docs/internal/logging"
	"github.com/ayden94/caro-kann-docs/internal/pagemap"
	"github.com/ayden94/caro-kann-docs/internal/site"
	"github.com/spf13/cobra"
)

var (
	routesLocale string
	routesOutput string
)

var routesCmd = &cobra.Command{
	Use:     "routes",
	Aliases: []string{"r"},
	Short:   "List documentation pages",
	Long: `List the pages of the navigation in reading order with their URL in each
locale, and whether a page file exists for it.

Examples:
  carodocs routes                 # Every locale
  carodocs routes --locale ko     # Korean only
  carodocs routes --output yaml`,
	Args: cobra.NoArgs,
	RunE: runRoutes,
}

func init() {
	rootCmd.AddCommand(routesCmd)

	routesCmd.Flags().StringVar(&routesLocale, "locale", "", "Only list this locale")
	addOutputFlag(routesCmd, &routesOutput)
}

// RouteInfo describes one page in one locale.
type RouteInfo struct {
	Locale    string `json:"locale" yaml:"locale"`
	Route     string `json:"route" yaml:"route"`
	URL       string `json:"url" yaml:"url"`
	Title     string `json:"title" yaml:"title"`
	Section   string `json:"section,omitempty" yaml:"section,omitempty"`
	Available bool   `json:"available" yaml:"available"`
}

func runRoutes(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	routes, err := listRoutes(cmd, cfg, routesLocale)
	if err != nil {
		return err
	}

	tr, err := i18n.New(cfg.I18n.DefaultLocale)
	if err != nil {
		return err
	}

	return writeOutput(cmd.OutOrStdout(), routesOutput, routes, func(w io.Writer) error {
		return printRoutes(w, routes, tr)
	})
}

func listRoutes(cmd *cobra.Command, cfg *config.Config, only string) ([]RouteInfo, error) {
	locales, err := cfg.LocaleConfig()
	if err != nil {
		return nil, err
	}

	selected := locales.Locales()
	if only != "" {
		loc, ok := locales.Match(only)
		if !ok {
			return nil, fmt.Errorf("locale %q is not one of %v", only, locales.Locales())
		}
		selected = []string{loc}
	}

	nav, err := pagemap.LoadFile(cfg.Site.NavigationFile)
	if err != nil {
		return nil, err
	}

	fsys, _ := content.Source(cfg.Content.Dir)
	store := content.NewStore(fsys, locales.Locales(), logging.NewNop())
	if err := store.Load(commandContext(cmd)); err != nil {
		return nil, err
	}

	var routes []RouteInfo
	for _, loc := range selected {
		for _, e := range nav.Flatten() {
			info := RouteInfo{
				Locale: loc,
				Route:  e.Route,
				URL:    site.LocalePath(loc, e.Route),
				Title:  site.DisplayTitle(e, loc),
			}
			if parent := e.Parent(); parent != nil {
				info.Section = site.DisplayTitle(parent, loc)
			}
			if _, err := store.Page(loc, e.Route); err == nil {
				info.Available = true
			}
			routes = append(routes, info)
		}
	}
	return routes, nil
}

// printRoutes writes the routes as a table followed by the number of
// available pages per locale, worded in that locale.
func printRoutes(w io.Writer, routes []RouteInfo, tr *i18n.Translator) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "LOCALE\tURL\tTITLE\tSECTION\tPAGE")

	var order []string
	available := map[string]int{}
	for _, r := range routes {
		if _, seen := available[r.Locale]; !seen {
			order = append(order, r.Locale)
			available[r.Locale] = 0
		}
		page := "ok"
		if r.Available {
			available[r.Locale]++
		} else {
			page = "missing"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", r.Locale, r.URL, r.Title, r.Section, page)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	for _, loc := range order {
		if _, err := fmt.Fprintf(w, "%s: %s\n", loc, tr.TCount(loc, i18n.PageCount, available[loc])); err != nil {
			return err
		}
	}
	return nil
}
