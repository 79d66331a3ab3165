package main

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pkordes/gas-calc/internal/domain"
	"github.com/pkordes/gas-calc/internal/export"
	"github.com/pkordes/gas-calc/internal/logging"
	"github.com/pkordes/gas-calc/internal/repo"
	"github.com/pkordes/gas-calc/internal/service"
)

type options struct {
	price    string
	eff      string
	people   string
	segs     []string
	state    string
	clear    bool
	reset    bool
	share    bool
	shareCmd string
	asJSON   bool
	logLevel string
}

func newRootCmd(out, errOut io.Writer) *cobra.Command {
	var o options

	cmd := &cobra.Command{
		Use:   "gascalc",
		Short: "Fuel cost calculator for a trip made of segments",
		Long: `gascalc totals the distance of the included segments, converts it to
liters with --eff (km per liter) and prices it with --price (yen per liter).
The cost is split by the largest participant count among included segments,
or by --people when given.

With --state the trip is read from and saved back to a JSON file, so
segments can be added over several runs.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), cmd, o, out, errOut)
		},
	}

	f := cmd.Flags()
	f.StringVar(&o.price, "price", "", "Fuel price in yen per liter (e.g. 160)")
	f.StringVar(&o.eff, "eff", "", "Efficiency in km per liter (e.g. 16)")
	f.StringVar(&o.people, "people", "", "Split the cost between this many people (\"\" = per-segment counts)")
	f.StringArrayVar(&o.segs, "seg", nil, "Segment as km=80,people=2 or start=100,end=145.5,date=5/12[,off] (repeatable)")
	f.StringVar(&o.state, "state", "", "Load and save the trip in this .json file")
	f.BoolVar(&o.clear, "clear", false, "Remove all saved segments before adding --seg ones")
	f.BoolVar(&o.reset, "reset", false, "Start from an empty trip, discarding the saved one")
	f.BoolVar(&o.share, "share", false, "Share the summary text after printing")
	f.StringVar(&o.shareCmd, "share-cmd", "", "Program that receives the share text on stdin (e.g. pbcopy); stdout when empty")
	f.BoolVar(&o.asJSON, "json", false, "Print the result as JSON")
	f.StringVar(&o.logLevel, "log-level", "warn", "Log level: debug, info, warn, error")

	cmd.SetOut(out)
	cmd.SetErr(errOut)
	return cmd
}

func run(ctx context.Context, cmd *cobra.Command, o options, out, errOut io.Writer) error {
	log := logging.New(errOut, logging.FormatText, o.logLevel)

	patches := make([]domain.SegmentPatch, 0, len(o.segs))
	for _, s := range o.segs {
		p, err := parseSeg(s)
		if err != nil {
			return err
		}
		patches = append(patches, p)
	}

	store, key, err := openState(o.state)
	if err != nil {
		return err
	}
	trips := service.NewTripService(store, service.TripServiceOptions{Key: key, Logger: log})

	if o.reset {
		if _, err := trips.Reset(ctx); err != nil {
			return err
		}
	}
	flags := cmd.Flags()
	if flags.Changed("price") {
		if _, err := trips.SetUnitPrice(ctx, o.price); err != nil {
			return err
		}
	}
	if flags.Changed("eff") {
		if _, err := trips.SetEfficiency(ctx, o.eff); err != nil {
			return err
		}
	}
	if flags.Changed("people") {
		if _, err := trips.SetParticipants(ctx, o.people); err != nil {
			return err
		}
	}
	if o.clear {
		if _, err := trips.ClearSegments(ctx); err != nil {
			return err
		}
	}
	if err := addSegments(ctx, trips, patches); err != nil {
		return err
	}

	c, err := trips.Current(ctx)
	if err != nil {
		return err
	}
	if o.asJSON {
		if err := printJSON(out, c); err != nil {
			return err
		}
	} else {
		printCLI(out, c)
	}

	if o.share {
		fmt.Fprintln(out)
		exports := service.NewExportService(trips, log)
		exports.Share(ctx, export.FallbackSharer{
			Primary:  export.CommandSharer{Command: o.shareCmd},
			Fallback: export.WriterSharer{W: out, Notify: errOut},
		})
	}
	return nil
}

// openState picks the snapshot store: a file when --state is set, otherwise
// memory that lives only for this run.
func openState(path string) (repo.SnapshotRepo, string, error) {
	if path == "" {
		return repo.NewMemorySnapshotRepo(), domain.SnapshotKey, nil
	}
	dir, base := filepath.Split(path)
	if !strings.HasSuffix(base, ".json") || base == ".json" {
		return nil, "", fmt.Errorf("--state %q: must name a .json file", path)
	}
	if dir == "" {
		dir = "."
	}
	return repo.NewFileSnapshotRepo(dir), strings.TrimSuffix(base, ".json"), nil
}

// addSegments applies each patch as a new segment. The first one fills the
// lone empty segment a fresh trip starts with instead of appending after it.
func addSegments(ctx context.Context, trips *service.TripService, patches []domain.SegmentPatch) error {
	for i, p := range patches {
		if i == 0 {
			cur, err := trips.Current(ctx)
			if err != nil {
				return err
			}
			if segs := cur.Trip.Segments; len(segs) == 1 && isEmptySegment(segs[0]) {
				if _, err := trips.UpdateSegment(ctx, segs[0].ID, p); err != nil {
					return err
				}
				continue
			}
		}
		if _, err := trips.AddSegment(ctx, p); err != nil {
			return err
		}
	}
	return nil
}

func isEmptySegment(s domain.Segment) bool {
	return s.DistanceKm == nil && s.StartOdometer == nil && s.EndOdometer == nil
}
