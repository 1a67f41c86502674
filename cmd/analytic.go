package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/inference-sim/mdc-sim/sim/analytic"
)

// writeReferences prints the closed-form references for l, u, c.
func writeReferences(w io.Writer, l, u float64, c int) error {
	var refs []analytic.Reference
	if c == 1 {
		ref, err := analytic.MD1(l, u)
		if err != nil {
			return err
		}
		refs = append(refs, ref)
	}
	mmc, err := analytic.MMc(l, u, c)
	if err != nil {
		return err
	}
	refs = append(refs, mmc)
	if c > 1 {
		mdc, err := analytic.MDc(l, u, c)
		if err != nil {
			return err
		}
		refs = append(refs, mdc)
	}

	for _, ref := range refs {
		kind := "exact"
		if !ref.Exact {
			kind = "approximate"
		}
		if _, err := fmt.Fprintf(w, "%s (%s): utilization %.3f", ref.Model, kind, ref.Utilization); err != nil {
			return err
		}
		if !ref.Stable {
			_, err = fmt.Fprintf(w, ", unstable\n")
		} else {
			_, err = fmt.Fprintf(w, ", Wq %.4f, W %.4f, Lq %.4f, P(wait = 0) %.3f\n",
				ref.MeanWait, ref.MeanCompletion, ref.MeanQueueDepth, ref.PWaitZero)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// analyticCmd prints closed-form steady-state references without simulating
var analyticCmd = &cobra.Command{
	Use:   "analytic [config.yaml]",
	Short: "Print closed-form M/D/1, M/M/c and M/D/c references",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		setupLogging()

		var doc RunDoc
		if len(args) > 0 {
			var err error
			if doc, err = LoadRunDoc(args[0]); err != nil {
				logrus.Fatalf("Invalid configuration: %v", err)
			}
		}
		doc = doc.Overlay(flagOverrides(cmd))
		switch {
		case doc.L == nil:
			logrus.Fatalf("wrong/missing parameter \"l\"")
		case doc.U == nil:
			logrus.Fatalf("wrong/missing parameter \"u\"")
		case doc.C == nil:
			logrus.Fatalf("wrong/missing parameter \"c\"")
		}
		if err := writeReferences(os.Stdout, *doc.L, *doc.U, *doc.C); err != nil {
			logrus.Fatalf("%v", err)
		}
	},
}

func init() {
	analyticCmd.Flags().Float64("arrival-rate", 0, "Arrival rate l (jobs per time unit)")
	analyticCmd.Flags().Float64("service-rate", 0, "Service rate u per server")
	analyticCmd.Flags().Int("servers", 0, "Number of servers c")
}
