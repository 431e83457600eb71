package output

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/shopspring/decimal"

	"github.com/mpapenbr/iracelog-gap-analysis/pkg/model"
)

func num(v float64, places int32) string {
	return decimal.NewFromFloat(v).Round(places).StringFixed(places)
}

func optNum(v *float64, places int32) string {
	if v == nil {
		return "-"
	}
	return num(*v, places)
}

//nolint:errcheck // errors are reported by Flush
func writeTable(w io.Writer, rep *model.Report, places int32) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	info := rep.ComparisonInfo
	g := rep.GapResult

	fmt.Fprintf(tw, "A\t%s\n", info.A)
	fmt.Fprintf(tw, "B\t%s\n", info.B)
	fmt.Fprintf(tw, "Reference\t%s\n", info.Reference)
	fmt.Fprintf(tw, "Estimator\t%s\n", info.Estimator)
	fmt.Fprintf(tw, "Points\t%d (native %d/%d)\n", info.Points, info.NativeA, info.NativeB)
	fmt.Fprintf(tw, "Domain\t%s - %s m\n",
		num(info.DomainStart, places), num(info.DomainEnd, places))
	fmt.Fprintln(tw)

	fmt.Fprintln(tw, "CHANNEL\tMIN\tMAX\tMEAN\tSTD")
	for _, ch := range g.ProducedChannels() {
		s := g.Stats[ch]
		marker := ""
		if ch == g.Primary {
			marker = " *"
		}
		fmt.Fprintf(tw, "%s%s\t%s\t%s\t%s\t%s\n", ch, marker,
			num(s.Min, places), num(s.Max, places), num(s.Mean, places), num(s.StdDev, places))
	}
	fmt.Fprintln(tw)

	fmt.Fprintf(tw, "SEGMENT (%s)\tFROM\tTO\tPOINTS\tMEAN\tMIN\tMAX\tSLOPE\tTREND\n", g.Primary)
	for _, s := range rep.SegmentSummaries {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%d\t%s\t%s\t%s\t%s\t%s\n", s.Index+1,
			optNum(s.StartDistance, places), optNum(s.EndDistance, places), s.Count,
			optNum(s.Mean, places), optNum(s.Min, places), optNum(s.Max, places),
			optNum(s.Slope, places), s.Trend)
	}
	fmt.Fprintln(tw)

	fmt.Fprintf(tw, "KEY POINT\tINDEX\tDISTANCE\t%s\n", g.Primary)
	for _, kp := range rep.KeyPoints {
		fmt.Fprintf(tw, "%s\t%d\t%s\t%s\n", kp.Kind, kp.Index,
			num(kp.Distance, places), num(kp.Gap[g.Primary], places))
	}
	return tw.Flush()
}
