package cmd

import (
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/ayden94/caro-kann-docs/internal/locale"
	"github.com/ayden94/caro-kann-docs/internal/validation"
	"github.com/spf13/cobra"
)

var (
	resolveCookie         string
	resolveAcceptLanguage string
	resolveOutput         string
)

var resolveCmd = &cobra.Command{
	Use:   "resolve <path>",
	Short: "Show how a request path is routed",
	Long: `Show what the locale middleware does with a request: pass it through
or redirect it, and which locale was chosen from which signal.

Examples:
  carodocs resolve /guides/create-a-store
  carodocs resolve / --accept-language "ko-KR,ko;q=0.9"
  carodocs resolve /middlewares --cookie en --output json`,
	Args: cobra.ExactArgs(1),
	RunE: runResolve,
}

func init() {
	rootCmd.AddCommand(resolveCmd)

	resolveCmd.Flags().StringVar(&resolveCookie, "cookie", "", "Value of the locale cookie")
	resolveCmd.Flags().StringVar(&resolveAcceptLanguage, "accept-language", "", "Accept-Language header")
	addOutputFlag(resolveCmd, &resolveOutput)
}

// ResolveResult is the outcome printed by the resolve command.
type ResolveResult struct {
	Path     string `json:"path" yaml:"path"`
	Excluded bool   `json:"excluded" yaml:"excluded"`
	Redirect bool   `json:"redirect" yaml:"redirect"`
	Status   int    `json:"status,omitempty" yaml:"status,omitempty"`
	Location string `json:"location,omitempty" yaml:"location,omitempty"`
	Locale   string `json:"locale,omitempty" yaml:"locale,omitempty"`
	Source   string `json:"source,omitempty" yaml:"source,omitempty"`
	State    string `json:"state,omitempty" yaml:"state,omitempty"`
}

func runResolve(cmd *cobra.Command, args []string) error {
	if err := validation.ValidateRequestPath(args[0]); err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	locales, err := cfg.LocaleConfig()
	if err != nil {
		return err
	}

	result := resolvePath(locales, args[0], resolveCookie, resolveAcceptLanguage)
	return writeOutput(cmd.OutOrStdout(), resolveOutput, result, func(w io.Writer) error {
		return printResolveResult(w, result)
	})
}

// resolvePath runs the same checks the middleware chain runs for a request.
func resolvePath(cfg locale.Config, target, cookie, acceptLanguage string) ResolveResult {
	path, query, _ := strings.Cut(target, "?")
	escaped := path
	if u, err := url.Parse(target); err == nil {
		path, escaped, query = u.Path, u.EscapedPath(), u.RawQuery
	}
	result := ResolveResult{Path: target}

	if locale.NewExcluder(cfg.ExcludedPrefixes()...).Excluded(path) {
		result.Excluded = true
		return result
	}

	d := locale.NewResolver(cfg).Resolve(locale.Request{
		Path:           escaped,
		RawQuery:       query,
		Cookie:         cookie,
		AcceptLanguage: acceptLanguage,
	})

	result.Redirect = d.Redirect
	result.Location = d.Location
	result.Locale = d.Locale
	result.Source = string(d.Source)
	result.State = d.State.String()
	if d.Redirect {
		result.Status = cfg.RedirectStatus()
	}
	return result
}

func printResolveResult(w io.Writer, r ResolveResult) error {
	var err error
	switch {
	case r.Excluded:
		_, err = fmt.Fprintf(w, "%s: excluded, passed through unchanged\n", r.Path)
	case r.Redirect:
		_, err = fmt.Fprintf(w, "%s: %d redirect to %s (locale %s from %s)\n", r.Path, r.Status, r.Location, r.Locale, r.Source)
	default:
		_, err = fmt.Fprintf(w, "%s: passed through (locale %s from %s)\n", r.Path, r.Locale, r.Source)
	}
	return err
}
