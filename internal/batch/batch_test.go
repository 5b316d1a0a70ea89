package batch_test

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/sgp4check/internal/batch"
	"github.com/san-kum/sgp4check/internal/config"
	"github.com/san-kum/sgp4check/internal/export"
	"github.com/san-kum/sgp4check/internal/scenario"
	"github.com/san-kum/sgp4check/internal/schedule"
	"github.com/san-kum/sgp4check/internal/sgp4"
	"github.com/san-kum/sgp4check/internal/sim"
	"github.com/san-kum/sgp4check/internal/storage"
)

const (
	jan1 = "1 00005U 58002B   24001.00000000  .00000023  00000-0  28098-4 0  4753"
	jan2 = "2 00005  34.2682 348.7242 1859667 331.7664  19.3264 10.82419157413667     0.00      1440.0        360.00"
	jun1 = "1 00011U 59001A   24153.00000000  .00000023  00000-0  28098-4 0  4753"
	jun2 = "2 00011  34.2682 348.7242 1859667 331.7664  19.3264 10.82419157413667     0.00      1440.0        360.00"
)

func writeCatalog(dir string, lines ...string) string {
	path := filepath.Join(dir, "catalog.tle")
	Expect(os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0644)).To(Succeed())
	return path
}

// blocks splits a verification log into satellite blocks keyed in order.
func blocks(path string) ([]string, map[string][]float64) {
	data, err := os.ReadFile(path)
	Expect(err).NotTo(HaveOccurred())

	var order []string
	offsets := map[string][]float64{}
	current := ""
	for _, line := range strings.Split(strings.TrimSpace(string(data)), "\n") {
		if strings.HasSuffix(line, " xx") {
			current = strings.TrimSuffix(line, " xx")
			order = append(order, current)
			continue
		}
		v, err := strconv.ParseFloat(strings.Fields(line)[0], 64)
		Expect(err).NotTo(HaveOccurred())
		offsets[current] = append(offsets[current], v)
	}
	return order, offsets
}

func readEphemeris(path string) *export.Ephemeris {
	f, err := os.Open(path)
	Expect(err).NotTo(HaveOccurred())
	defer f.Close()
	eph, err := export.ReadEphemeris(f)
	Expect(err).NotTo(HaveOccurred())
	return eph
}

var _ = Describe("Batch", func() {
	var (
		dir  string
		logs *bytes.Buffer
		log  *slog.Logger
		rc   config.RunConfig
	)

	BeforeEach(func() {
		dir = GinkgoT().TempDir()
		logs = &bytes.Buffer{}
		log = slog.New(slog.NewTextHandler(logs, nil))
		rc = config.DefaultRunConfig()
	})

	Context("verification run with an interposed comment", func() {
		var summary *batch.Summary

		BeforeEach(func() {
			cat := writeCatalog(dir, "# vanguard epochs", jan1, jan2, "# second record follows", jun1, jun2)
			var err error
			summary, err = batch.New(batch.Config{Run: rc, Catalog: cat, OutDir: dir, Log: log}).Run(context.Background())
			Expect(err).NotTo(HaveOccurred())
		})

		It("processes both records in file order", func() {
			Expect(summary.Records).To(Equal(2))
			Expect(summary.Skipped).To(BeZero())
			Expect(summary.Failed).To(BeZero())
			Expect(summary.Satellites).To(HaveLen(2))
			Expect(summary.Satellites[0].Satnum).To(Equal("00005"))
			Expect(summary.Satellites[1].Satnum).To(Equal("00011"))
		})

		It("writes one ephemeris file per record", func() {
			matches, err := filepath.Glob(filepath.Join(dir, "*.e"))
			Expect(err).NotTo(HaveOccurred())
			Expect(matches).To(ConsistOf(filepath.Join(dir, "00005.e"), filepath.Join(dir, "00011.e")))

			a := readEphemeris(filepath.Join(dir, "00005.e"))
			Expect(a.Points).To(HaveLen(5))
			Expect(a.Epoch.Year).To(Equal(2024))
			Expect(a.Epoch.Month).To(Equal(1))
			Expect(a.Epoch.Day).To(Equal(1))
			Expect(a.Points[4].Seconds).To(Equal(1440.0 * 60))

			b := readEphemeris(filepath.Join(dir, "00011.e"))
			Expect(b.Points).To(HaveLen(5))
			Expect(b.Epoch.Month).To(Equal(6))
			Expect(b.Epoch.Day).To(Equal(1))
		})

		It("writes monotonic blocks in catalog order", func() {
			Expect(summary.Verification).To(Equal(filepath.Join(dir, "sgp4ver.out")))
			order, offsets := blocks(summary.Verification)
			Expect(order).To(Equal([]string{"00005", "00011"}))
			for _, satnum := range order {
				Expect(offsets[satnum]).To(Equal([]float64{0, 360, 720, 1080, 1440}))
			}
		})

		It("logs nothing above info", func() {
			Expect(logs.String()).NotTo(ContainSubstring("level=WARN"))
			Expect(logs.String()).NotTo(ContainSubstring("level=ERROR"))
		})
	})

	It("stops only the failing satellite on a propagator error", func() {
		cat := writeCatalog(dir, jan1, jan2, jun1, jun2)
		prop := sim.PropagatorFunc(func(sat *sgp4.Satellite, tsince float64) (sgp4.StateVector, int) {
			if sat.Satnum == "00005" && tsince >= 720 {
				sat.Error = 6
				return sgp4.StateVector{}, 6
			}
			return sgp4.Propagate(sat, tsince)
		})

		summary, err := batch.New(batch.Config{Run: rc, Catalog: cat, OutDir: dir, Log: log, Propagator: prop}).Run(context.Background())
		Expect(err).NotTo(HaveOccurred())

		Expect(summary.Failed).To(Equal(1))
		Expect(summary.Satellites[0].ErrorCode).To(Equal(6))
		Expect(summary.Satellites[0].ErrorOffset).To(Equal(720.0))
		Expect(summary.Satellites[0].Samples).To(Equal(2))
		Expect(summary.Satellites[1].Samples).To(Equal(5))
		Expect(strings.Count(logs.String(), "level=ERROR")).To(Equal(1))

		Expect(readEphemeris(filepath.Join(dir, "00005.e")).Points).To(HaveLen(2))
		_, offsets := blocks(summary.Verification)
		Expect(offsets["00005"]).To(Equal([]float64{0, 360}))
	})

	It("skips records that cannot be parsed or scheduled", func() {
		noWindow := jun2[:69]
		cat := writeCatalog(dir, jan1, "2 00005 garbage", jan1, jan2, jun1, noWindow)

		summary, err := batch.New(batch.Config{Run: rc, Catalog: cat, OutDir: dir, Log: log}).Run(context.Background())
		Expect(err).NotTo(HaveOccurred())
		Expect(summary.Records).To(Equal(3))
		Expect(summary.Skipped).To(Equal(2))
		Expect(summary.Satellites).To(HaveLen(1))
		Expect(strings.Count(logs.String(), "record skipped")).To(Equal(2))
	})

	It("uses the fixed grid in catalog-compare runs", func() {
		rc.Run = config.CatalogCompare
		rc.Ops = sgp4.OpsAFSPC
		cat := writeCatalog(dir, jan1, jan2)

		summary, err := batch.New(batch.Config{Run: rc, Catalog: cat, OutDir: dir}).Run(context.Background())
		Expect(err).NotTo(HaveOccurred())
		Expect(filepath.Base(summary.Verification)).To(Equal("sgp4all.out"))

		_, offsets := blocks(summary.Verification)
		got := offsets["00005"]
		Expect(got).To(HaveLen(290))
		Expect(got[0]).To(Equal(0.0))
		Expect(got[1]).To(Equal(-1440.0))
		Expect(got[len(got)-1]).To(Equal(1440.0))
	})

	It("applies a manual grid to every satellite", func() {
		rc.Run = config.Manual
		rc.InputTime = config.MinutesSinceEpoch
		cat := writeCatalog(dir, jan1, jan2[:69], jun1, jun2[:69])

		summary, err := batch.New(batch.Config{
			Run:     rc,
			Catalog: cat,
			OutDir:  dir,
			Manual:  schedule.MinutesInput(schedule.Grid{Start: 0, Stop: 100, Step: 30}),
		}).Run(context.Background())
		Expect(err).NotTo(HaveOccurred())
		Expect(filepath.Base(summary.Verification)).To(Equal("sgp4man.out"))

		_, offsets := blocks(summary.Verification)
		Expect(offsets["00005"]).To(Equal([]float64{0, 30, 60, 90, 100}))
		Expect(offsets["00011"]).To(Equal([]float64{0, 30, 60, 90, 100}))
	})

	It("appends the scenario after the catalog and records the run", func() {
		cat := writeCatalog(dir, jan1, jan2)
		sc, err := scenario.GetPreset("molniya")
		Expect(err).NotTo(HaveOccurred())
		ledger := storage.New(filepath.Join(dir, "runs"))

		summary, err := batch.New(batch.Config{Run: rc, Catalog: cat, OutDir: dir, Scenario: sc, Ledger: ledger}).Run(context.Background())
		Expect(err).NotTo(HaveOccurred())
		Expect(summary.Scenario).NotTo(BeNil())
		Expect(summary.Scenario.Samples()).To(Equal(25))

		order, _ := blocks(summary.Verification)
		Expect(order).To(Equal([]string{"00005", "08195"}))

		Expect(summary.RunID).NotTo(BeEmpty())
		meta, err := ledger.Load(summary.RunID)
		Expect(err).NotTo(HaveOccurred())
		Expect(meta.Scenario).To(Equal("molniya"))
		Expect(meta.Satellites).To(HaveLen(1))
		Expect(meta.Satellites[0].Metrics).To(HaveKey("energy_drift"))
	})

	It("fails when the catalog cannot be opened", func() {
		_, err := batch.New(batch.Config{Run: rc, Catalog: filepath.Join(dir, "missing.tle"), OutDir: dir}).Run(context.Background())
		Expect(err).To(HaveOccurred())
	})
})
