// Package viz renders run summaries, ledgers and ephemeris plots for the
// terminal with lipgloss and asciigraph.
package viz
