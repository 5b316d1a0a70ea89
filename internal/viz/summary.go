package viz

import (
	"bytes"
	"fmt"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/san-kum/sgp4check/internal/crosscheck"
	"github.com/san-kum/sgp4check/internal/sgp4"
	"github.com/san-kum/sgp4check/internal/storage"
)

// RenderRun renders a run's header and per-satellite table.
func RenderRun(meta storage.RunMetadata) string {
	var b strings.Builder

	b.WriteString(HeaderStyle.Render(fmt.Sprintf("%s run", meta.RunMode)))
	b.WriteString("\n")
	fmt.Fprintf(&b, "%s %s  %s %s  %s %s\n",
		MetricLabel.Render("ops"), MetricValue.Render(meta.Ops),
		MetricLabel.Render("gravity"), MetricValue.Render(meta.Gravity),
		MetricLabel.Render("input"), MetricValue.Render(meta.InputTime))
	fmt.Fprintf(&b, "%s %s\n", MetricLabel.Render("catalog"), meta.Catalog)
	fmt.Fprintf(&b, "%s %s\n\n", MetricLabel.Render("verification"), meta.Verification)

	b.WriteString(RenderSatellites(meta.Satellites))

	ok := meta.Records - meta.Skipped - meta.Failed
	frac := 0.0
	if meta.Records > 0 {
		frac = float64(ok) / float64(meta.Records)
	}
	fmt.Fprintf(&b, "\n%s %s  %s  %s  %s\n",
		ProgressBar(frac, 20),
		StatusOK.Render(fmt.Sprintf("%d ok", ok)),
		StatusWarn.Render(fmt.Sprintf("%d skipped", meta.Skipped)),
		StatusFailed.Render(fmt.Sprintf("%d failed", meta.Failed)),
		Subtle.Render(fmt.Sprintf("of %d records", meta.Records)))
	if meta.ID != "" {
		fmt.Fprintf(&b, "%s %s\n", MetricLabel.Render("run id"), meta.ID)
	}
	return b.String()
}

// RenderSatellites renders one row per satellite.
func RenderSatellites(sats []storage.SatelliteSummary) string {
	var buf bytes.Buffer
	w := tabwriter.NewWriter(&buf, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SATNUM\tSAMPLES\tGRID\tMIN ALT\tDRIFT\tSTATUS")

	for _, sat := range sats {
		status := "ok"
		if sat.ErrorCode > 0 {
			status = fmt.Sprintf("error %d at %.2f: %s", sat.ErrorCode, sat.ErrorOffset, sgp4.ErrorText(sat.ErrorCode))
		}
		fmt.Fprintf(w, "%s\t%d\t%.1f..%.1f/%.1f\t%s\t%s\t%s\n",
			sat.Satnum,
			sat.Samples,
			sat.Start, sat.Stop, sat.Step,
			metric(sat.Metrics, "min_altitude_km", "%.1f km"),
			metric(sat.Metrics, "energy_drift", "%.2e"),
			status,
		)
	}
	w.Flush()
	return buf.String()
}

func metric(m map[string]float64, name, format string) string {
	v, ok := m[name]
	if !ok {
		return "-"
	}
	return fmt.Sprintf(format, v)
}

// RenderRuns renders the ledger, oldest first.
func RenderRuns(runs []storage.RunMetadata) string {
	var buf bytes.Buffer
	w := tabwriter.NewWriter(&buf, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tMODE\tTIME\tOPS\tGRAVITY\tRECORDS\tSKIPPED\tFAILED\tCATALOG")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%d\t%d\t%d\t%s\n",
			run.ID,
			run.RunMode,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Ops,
			run.Gravity,
			run.Records,
			run.Skipped,
			run.Failed,
			run.Catalog,
		)
	}
	w.Flush()
	return buf.String()
}

// RenderCrosscheck renders the reports worst position difference first.
func RenderCrosscheck(reports []crosscheck.Report) string {
	sorted := make([]crosscheck.Report, len(reports))
	copy(sorted, reports)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].MaxPosKm > sorted[j].MaxPosKm
	})

	var buf bytes.Buffer
	w := tabwriter.NewWriter(&buf, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SATNUM\tSAMPLES\tMAX DR (km)\tMAX DV (km/s)\tAT (min)\tNOTE")
	for _, r := range sorted {
		note := ""
		if r.Err != nil {
			note = r.Err.Error()
		}
		fmt.Fprintf(w, "%s\t%d\t%.6f\t%.9f\t%.2f\t%s\n", r.Satnum, r.Samples, r.MaxPosKm, r.MaxVelKmS, r.WorstAt, note)
	}
	w.Flush()
	return buf.String()
}
