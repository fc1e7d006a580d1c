package dashboard

import (
	"fmt"
	"math"
	"strings"

	"news-pulse/internal/domain"

	"github.com/charmbracelet/lipgloss"
)

var sparkBlocks = []rune("▁▂▃▄▅▆▇█")

// RenderReport prints a forecast the way an operator reads it: the call,
// its confidence, then the recent and daily windows side by side.
func RenderReport(f domain.Forecast) string {
	head := lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render("BTC news sentiment forecast"),
		labelStyle.Render("as of "+f.At.Format("2006-01-02 15:04 MST")),
		"",
		fmt.Sprintf("%s %s", labelStyle.Render("Direction: "), directionStyle(f.Direction).Render(string(f.Direction))),
		fmt.Sprintf("%s %.1f%%", labelStyle.Render("Confidence:"), f.Confidence*100),
		fmt.Sprintf("%s %+.4f", labelStyle.Render("Momentum:  "), f.Momentum),
	)

	windows := lipgloss.JoinHorizontal(lipgloss.Top,
		boxStyle.Render(renderWindow("Last hour", f.Recent)),
		" ",
		boxStyle.Render(renderWindow("Today", f.Daily)),
	)
	return lipgloss.JoinVertical(lipgloss.Left, head, "", windows)
}

func renderWindow(title string, w domain.WindowAnalysis) string {
	lines := []string{
		titleStyle.Render(title),
		fmt.Sprintf("articles   %d", w.TotalArticles),
		fmt.Sprintf("positive   %d", w.Positive),
		fmt.Sprintf("negative   %d", w.Negative),
		fmt.Sprintf("neutral    %d", w.Neutral),
		fmt.Sprintf("avg        %+.4f", w.AvgSentiment),
		fmt.Sprintf("strength   %.4f", w.SentimentStrength),
		fmt.Sprintf("ratio      %+.4f", w.SentimentRatio),
		fmt.Sprintf("volatility %.4f", w.SentimentVolatility),
	}
	if w.ZeroConfidence {
		lines = append(lines, labelStyle.Render("all confidences zero"))
	}
	return strings.Join(lines, "\n")
}

func directionStyle(d domain.Direction) lipgloss.Style {
	switch d {
	case domain.DirectionUp:
		return upStyle
	case domain.DirectionDown:
		return downStyle
	default:
		return neutralStyle
	}
}

// Sparkline draws values between lo and hi as block characters. NaN values
// render as a space.
func Sparkline(values []float64, lo, hi float64) string {
	if hi <= lo {
		hi = lo + 1
	}
	var b strings.Builder
	for _, v := range values {
		if math.IsNaN(v) {
			b.WriteRune(' ')
			continue
		}
		pos := (v - lo) / (hi - lo)
		idx := int(math.Round(pos * float64(len(sparkBlocks)-1)))
		idx = max(0, min(idx, len(sparkBlocks)-1))
		b.WriteRune(sparkBlocks[idx])
	}
	return b.String()
}

// bounds returns the min and max of the non-NaN values.
func bounds(values []float64) (float64, float64) {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, v := range values {
		if math.IsNaN(v) {
			continue
		}
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	if math.IsInf(lo, 1) {
		return 0, 0
	}
	return lo, hi
}
