// Command uomctl checks a unit catalog kept in a YAML file: it validates the
// conversion graph, resolves and applies conversions, and runs the full data
// health report over units, packaging and price tiers.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	catalogapp "github.com/erp/uom/internal/application/catalog"
	healthapp "github.com/erp/uom/internal/application/health"
	pricingapp "github.com/erp/uom/internal/application/pricing"
	uomapp "github.com/erp/uom/internal/application/uom"
	"github.com/erp/uom/internal/domain/shared/valueobject"
	"github.com/erp/uom/internal/domain/uom"
	"github.com/erp/uom/internal/infrastructure/logger"
	"github.com/erp/uom/internal/infrastructure/persistence/memstore"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// errNotOK makes the process exit with status 1 without printing an error
var errNotOK = errors.New("report has failures")

func main() {
	if err := newRootCmd().Execute(); err != nil {
		if !errors.Is(err, errNotOK) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(1)
	}
}

type options struct {
	file                string
	output              string
	logLevel            string
	noSynthesize        bool
	maxDepth            int
	perCategoryWarnings bool
	tierIntervals       bool
}

// services is the engine wired over one loaded file
type services struct {
	catalog   *uomapp.CatalogService
	packaging *catalogapp.PackagingService
	tiers     *pricingapp.TierService
	health    *healthapp.DataHealthService
	file      uom.Snapshot // units and conversions as listed, repeats included
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:           "uomctl",
		Short:         "Validate and query a unit-of-measure catalog file",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	flags := root.PersistentFlags()
	flags.StringVarP(&opts.file, "file", "f", "", "catalog YAML file")
	flags.StringVarP(&opts.output, "output", "o", "text", "output format: text or json")
	flags.StringVar(&opts.logLevel, "log-level", "warn", "log level for engine messages on stderr")
	flags.BoolVar(&opts.noSynthesize, "no-synthesize", false, "do not derive arcs from factor_to_base")
	flags.IntVar(&opts.maxDepth, "max-depth", 0, "maximum hops for a resolution, 0 for no limit")
	flags.BoolVar(&opts.perCategoryWarnings, "per-category-warnings", false, "warn for every category without a base unit")
	flags.BoolVar(&opts.tierIntervals, "tier-intervals", false, "report overlaps and gaps between price tiers")
	_ = root.MarkPersistentFlagRequired("file")

	root.AddCommand(
		newValidateCmd(opts),
		newResolveCmd(opts),
		newConvertCmd(opts),
		newHealthCmd(opts),
	)
	return root
}

func newValidateCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check units and conversions for structural and semantic errors",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			svc, err := opts.open(ctx, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			report := svc.catalog.ValidateSnapshot(ctx, svc.file)
			if err := opts.print(cmd.OutOrStdout(), report, func(w io.Writer) { printValidation(w, report) }); err != nil {
				return err
			}
			if !report.OK {
				return errNotOK
			}
			return nil
		},
	}
}

func newResolveCmd(opts *options) *cobra.Command {
	var from, to string
	cmd := &cobra.Command{
		Use:   "resolve",
		Short: "Print the factor and path from one unit to another",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			fromCode, toCode, err := parsePair(from, to)
			if err != nil {
				return err
			}
			svc, err := opts.open(ctx, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			res, err := svc.catalog.Resolve(ctx, fromCode, toCode)
			if err != nil {
				return err
			}
			out := resolveOutput{From: fromCode.String(), To: toCode.String(), Factor: res.Factor, Path: codes(res.Path)}
			return opts.print(cmd.OutOrStdout(), out, func(w io.Writer) {
				fmt.Fprintf(w, "1 %s = %s %s\n", out.From, out.Factor, out.To)
				fmt.Fprintf(w, "path: %s\n", strings.Join(out.Path, " -> "))
			})
		},
	}
	cmd.Flags().StringVar(&from, "from", "", "source unit")
	cmd.Flags().StringVar(&to, "to", "", "target unit")
	_ = cmd.MarkFlagRequired("from")
	_ = cmd.MarkFlagRequired("to")
	return cmd
}

func newConvertCmd(opts *options) *cobra.Command {
	var from, to, qty string
	cmd := &cobra.Command{
		Use:   "convert",
		Short: "Convert a quantity, rounded to the target unit's decimals",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			quantity, err := decimal.NewFromString(qty)
			if err != nil {
				return fmt.Errorf("invalid quantity %q", qty)
			}
			fromCode, toCode, err := parsePair(from, to)
			if err != nil {
				return err
			}
			svc, err := opts.open(ctx, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			converted, err := svc.catalog.Convert(ctx, quantity, fromCode, toCode)
			if err != nil {
				return err
			}
			out := convertOutput{Quantity: quantity, From: fromCode.String(), Converted: converted, To: toCode.String()}
			return opts.print(cmd.OutOrStdout(), out, func(w io.Writer) {
				fmt.Fprintf(w, "%s %s = %s %s\n", out.Quantity, out.From, out.Converted, out.To)
			})
		},
	}
	cmd.Flags().StringVar(&from, "from", "", "source unit")
	cmd.Flags().StringVar(&to, "to", "", "target unit")
	cmd.Flags().StringVar(&qty, "qty", "1", "quantity in the source unit")
	_ = cmd.MarkFlagRequired("from")
	_ = cmd.MarkFlagRequired("to")
	return cmd
}

func newHealthCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Run the data health checklist over units, packaging and price tiers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			svc, err := opts.open(ctx, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			report, err := svc.health.Run(ctx)
			if err != nil {
				return err
			}
			if err := opts.print(cmd.OutOrStdout(), report, func(w io.Writer) { printHealth(w, report) }); err != nil {
				return err
			}
			if !report.OK() {
				return errNotOK
			}
			return nil
		},
	}
}

// open loads the catalog file into a fresh in-memory store and wires the
// services over it
func (o *options) open(ctx context.Context, stderr io.Writer) (*services, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	log, err := o.newLogger(stderr)
	if err != nil {
		return nil, err
	}

	file, err := readCatalogFile(o.file)
	if err != nil {
		return nil, err
	}
	store := memstore.New()
	snapshot, err := file.load(ctx, store)
	if err != nil {
		return nil, err
	}

	catalogSvc := uomapp.NewCatalogService(store, nil, uomapp.ServiceOptions{
		Graph:     uom.GraphOptions{SynthesizeBaseEdges: !o.noSynthesize, MaxDepth: o.maxDepth},
		Validator: uom.ValidatorOptions{PerCategoryBaseWarnings: o.perCategoryWarnings},
	}, log)
	packagingSvc := catalogapp.NewPackagingService(store.Products(), store.Packaging(), catalogSvc, log)
	tierSvc := pricingapp.NewTierService(store.Tiers(), pricingapp.Options{ReportIntervals: o.tierIntervals}, log)
	return &services{
		catalog:   catalogSvc,
		packaging: packagingSvc,
		tiers:     tierSvc,
		health:    healthapp.NewDataHealthService(catalogSvc, packagingSvc, tierSvc, log),
		file:      snapshot,
	}, nil
}

func (o *options) newLogger(stderr io.Writer) (*zap.Logger, error) {
	if stderr != os.Stderr {
		// Output captured by a caller; keep engine messages out of it
		return zap.NewNop(), nil
	}
	return logger.New(&logger.Config{Level: o.logLevel, Format: "console", Output: "stderr"})
}

func (o *options) print(w io.Writer, v any, text func(io.Writer)) error {
	switch o.output {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case "text", "":
		text(w)
		return nil
	default:
		return fmt.Errorf("unknown output format %q", o.output)
	}
}

type resolveOutput struct {
	From   string          `json:"from"`
	To     string          `json:"to"`
	Factor decimal.Decimal `json:"factor"`
	Path   []string        `json:"path"`
}

type convertOutput struct {
	Quantity  decimal.Decimal `json:"quantity"`
	From      string          `json:"from"`
	Converted decimal.Decimal `json:"converted"`
	To        string          `json:"to"`
}

func printValidation(w io.Writer, report uom.ValidationReport) {
	for _, e := range report.Errors {
		fmt.Fprintf(w, "ERROR   %s\n", e)
	}
	for _, warn := range report.Warnings {
		fmt.Fprintf(w, "WARNING %s\n", warn)
	}
	status := "OK"
	if !report.OK {
		status = "FAILED"
	}
	fmt.Fprintf(w, "%s: %d errors, %d warnings\n", status, len(report.Errors), len(report.Warnings))
}

func printHealth(w io.Writer, report *healthapp.DataHealthReport) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, f := range report.Findings {
		mark := "ok"
		if !f.OK {
			mark = "FAIL"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", mark, f.Group, f.Label, f.Detail)
	}
	_ = tw.Flush()
	fmt.Fprintf(w, "%d ok, %d failed\n", report.OKCount, report.FailCount)
}

func parsePair(rawFrom, rawTo string) (valueobject.UnitCode, valueobject.UnitCode, error) {
	from, err := valueobject.NewUnitCode(rawFrom)
	if err != nil {
		return "", "", fmt.Errorf("--from: %w", err)
	}
	to, err := valueobject.NewUnitCode(rawTo)
	if err != nil {
		return "", "", fmt.Errorf("--to: %w", err)
	}
	return from, to, nil
}

func codes(path []valueobject.UnitCode) []string {
	out := make([]string, len(path))
	for i, c := range path {
		out[i] = c.String()
	}
	return out
}
