// internal is internal packages for isdown.
//
// The packages are layered. scheme probes the host, store keeps the history,
// uptime aggregates it, and report renders the aggregate. monitor runs them as one check cycle.
//
// The isdownerr package and the testutil package are used by the other packages.
package internal
