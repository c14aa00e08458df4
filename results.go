package regsim

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/aouyang1/go-regsim/metrics"
)

// Results is the outcome of a computed simulation
type Results struct {
	NObs          int            `json:"n_obs"`
	NFeats        int            `json:"n_feats"`
	Bias          float64        `json:"bias"`
	EstimatedBias float64        `json:"estimated_bias"`
	Coef          []float64      `json:"coefficients"`
	EstimatedCoef []float64      `json:"estimated_coefficients"`
	Scores        metrics.Scores `json:"scores"`
}

// NewResults collects the results of a computed state
func NewResults(s *State) *Results {
	r := &Results{
		NObs:          s.NObs,
		NFeats:        s.NFeats,
		Bias:          s.Bias,
		EstimatedBias: s.EstimatedBias(),
		Coef:          copySlice(s.B),
		EstimatedCoef: s.EstimatedCoefficients(),
	}
	if s.Scores != nil {
		r.Scores = *s.Scores
	}
	return r
}

func indentExpand(indent string, growth int) string {
	return strings.Repeat(indent, growth)
}

// TablePrint writes the dimensions, bias, coefficients and scores as indented text
func (r Results) TablePrint(w io.Writer, prefix, indent string) error {
	if _, err := fmt.Fprintf(w, "%s%sSimulation:\n", prefix, indentExpand(indent, 0)); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "%s%sObservations: %d    Features: %d\n",
		prefix, indentExpand(indent, 1), r.NObs, r.NFeats); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "%s%sBias: %.3f    Estimated Bias: %.3f\n",
		prefix, indentExpand(indent, 1), r.Bias, r.EstimatedBias); err != nil {
		return err
	}

	if _, err := fmt.Fprintf(w, "%s%sScores:\n", prefix, indentExpand(indent, 0)); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "%s%sMSE: %.3f    RMSE: %.3f    MAE: %.3f    MAPE: %.3f\n",
		prefix, indentExpand(indent, 1),
		r.Scores.MSE,
		r.Scores.RMSE,
		r.Scores.MAE,
		r.Scores.MAPE,
	); err != nil {
		return err
	}

	if _, err := fmt.Fprintf(w, "%s%sCoefficients:\n", prefix, indentExpand(indent, 0)); err != nil {
		return err
	}
	tbl := tabwriter.NewWriter(w, 0, 0, 1, ' ', tabwriter.AlignRight)
	if _, err := fmt.Fprintf(tbl, "%s%sFeature\tTrue\tEstimated\t\n", prefix, indentExpand(indent, 1)); err != nil {
		return err
	}
	for i, c := range r.Coef {
		est := "..."
		if i < len(r.EstimatedCoef) {
			est = fmt.Sprintf("%.3f", r.EstimatedCoef[i])
		}
		if _, err := fmt.Fprintf(tbl, "%s%sx%d\t%.3f\t%s\t\n",
			prefix, indentExpand(indent, 1), i, c, est); err != nil {
			return err
		}
	}
	return tbl.Flush()
}
