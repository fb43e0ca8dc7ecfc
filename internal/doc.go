// Package internal holds the packages behind the carodocs documentation
// server.
//
// # Package Organization
//
//   - locale: supported locales, Accept-Language matching and the redirect
//     middleware that gives every documentation URL a locale prefix
//   - config: configuration loading and validation
//   - content: markdown pages per locale, rendered and held in memory
//   - pagemap: the navigation tree and reading order
//   - metadata: per-locale document head metadata
//   - i18n: translated interface strings
//   - site: the page layout around rendered markdown
//   - security, middleware: headers, origin checks and the handler chain
//   - watcher, websocket: live reload while editing content
//   - server: routes and lifecycle
//
// # Request Flow
//
// A request passes request logging, then the security headers, then the
// locale resolver. Paths under an excluded prefix (/api, /assets, /_docs,
// /favicon.ico) skip the resolver. Paths without a supported locale prefix
// are redirected to /<locale><path>; prefixed paths reach the page handler.
package internal
