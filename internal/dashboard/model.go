package dashboard

import (
	"context"
	"fmt"
	"strings"
	"time"

	"news-pulse/internal/domain"
	"news-pulse/internal/ta"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type Pipeline interface {
	Forecast(ctx context.Context) (domain.Forecast, error)
	Series(ctx context.Context, day time.Time) ([]domain.ScoredArticle, error)
}

type PriceHistory interface {
	PricesForDay(ctx context.Context, day time.Time) ([]domain.PricePoint, error)
}

type Services struct {
	Pipeline Pipeline
	Prices   PriceHistory
	Username string
	Refresh  time.Duration
	Now      func() time.Time
}

type snapshotMsg struct {
	forecast domain.Forecast
	series   []domain.ScoredArticle
	prices   []domain.PricePoint
}

type errMsg struct{ err error }

type tickMsg time.Time

// Model is the live sentiment dashboard shown over SSH.
type Model struct {
	svc       Services
	headlines table.Model
	bar       progress.Model

	forecast domain.Forecast
	hourly   []float64
	prices   []float64
	loaded   bool
	err      error

	width  int
	height int
}

func NewModel(svc Services) Model {
	if svc.Refresh <= 0 {
		svc.Refresh = 30 * time.Second
	}
	if svc.Now == nil {
		svc.Now = time.Now
	}
	m := Model{
		svc:       svc,
		headlines: newHeadlineTable(),
		bar:       progress.New(progress.WithDefaultGradient(), progress.WithWidth(30)),
	}
	m.SetSize(100, 32)
	return m
}

func newHeadlineTable() table.Model {
	t := table.New(
		table.WithColumns([]table.Column{
			{Title: "Time", Width: 6},
			{Title: "Source", Width: 16},
			{Title: "Sent", Width: 5},
			{Title: "Conf", Width: 5},
			{Title: "Headline", Width: 60},
		}),
		table.WithFocused(true),
		table.WithHeight(10),
	)
	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)
	return t
}

// SetSize applies the initial terminal size from the SSH pty.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.headlines.SetWidth(width)
	m.headlines.SetHeight(max(height-22, 5))
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.fetch(), m.tick())
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "r":
			return m, m.fetch()
		}

	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil

	case tickMsg:
		return m, tea.Batch(m.fetch(), m.tick())

	case snapshotMsg:
		m.apply(msg)
		return m, nil

	case errMsg:
		m.err = msg.err
		return m, nil
	}

	var cmd tea.Cmd
	m.headlines, cmd = m.headlines.Update(msg)
	return m, cmd
}

func (m *Model) apply(msg snapshotMsg) {
	m.loaded = true
	m.err = nil
	m.forecast = msg.forecast
	m.hourly = ta.HourlySentiment(msg.series, m.svc.Now())

	m.prices = make([]float64, 0, len(msg.prices))
	for _, p := range msg.prices {
		m.prices = append(m.prices, p.PriceUSD)
	}

	rows := make([]table.Row, 0, len(msg.series))
	for i := len(msg.series) - 1; i >= 0; i-- {
		s := msg.series[i]
		rows = append(rows, table.Row{
			s.PublishedAt.In(m.svc.Now().Location()).Format("15:04"),
			s.Source,
			fmt.Sprintf("%+d", s.Sentiment),
			fmt.Sprintf("%.2f", s.Confidence),
			s.Headline,
		})
	}
	m.headlines.SetRows(rows)
}

func (m Model) View() string {
	var b strings.Builder
	user := m.svc.Username
	if user == "" {
		user = "guest"
	}
	b.WriteString(titleStyle.Render("news-pulse") + labelStyle.Render("  "+user) + "\n\n")

	if m.err != nil {
		b.WriteString(errorStyle.Render("error: "+m.err.Error()) + "\n\n")
	}
	if !m.loaded {
		b.WriteString("loading...\n")
		b.WriteString(helpStyle.Render("q quit"))
		return b.String()
	}

	f := m.forecast
	fmt.Fprintf(&b, "%s %s   %s %+.4f\n",
		labelStyle.Render("Direction"),
		directionStyle(f.Direction).Render(string(f.Direction)),
		labelStyle.Render("Momentum"),
		f.Momentum,
	)
	fmt.Fprintf(&b, "%s %s %.1f%%\n", labelStyle.Render("Confidence"), m.bar.ViewAs(f.Confidence), f.Confidence*100)
	fmt.Fprintf(&b, "%s %d articles, avg %+.3f   %s %d articles, avg %+.3f\n\n",
		labelStyle.Render("Last hour"), f.Recent.TotalArticles, f.Recent.AvgSentiment,
		labelStyle.Render("Today"), f.Daily.TotalArticles, f.Daily.AvgSentiment,
	)

	fmt.Fprintf(&b, "%s %s\n", labelStyle.Render("Sentiment by hour"), Sparkline(m.hourly, -1, 1))
	if len(m.prices) > 0 {
		lo, hi := bounds(m.prices)
		fmt.Fprintf(&b, "%s %s $%.2f (%+.2f%%)\n",
			labelStyle.Render("BTC today        "),
			Sparkline(m.prices, lo, hi),
			m.prices[len(m.prices)-1],
			ta.PercentChange(m.prices),
		)
	}
	b.WriteString("\n")
	b.WriteString(m.headlines.View())
	b.WriteString("\n")
	b.WriteString(helpStyle.Render("r refresh • ↑/↓ scroll • q quit"))
	return b.String()
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(m.svc.Refresh, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m Model) fetch() tea.Cmd {
	svc := m.svc
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if svc.Pipeline == nil {
			return errMsg{err: fmt.Errorf("pipeline unavailable")}
		}
		f, err := svc.Pipeline.Forecast(ctx)
		if err != nil {
			return errMsg{err: err}
		}
		now := svc.Now()
		series, err := svc.Pipeline.Series(ctx, now)
		if err != nil {
			return errMsg{err: err}
		}
		var prices []domain.PricePoint
		if svc.Prices != nil {
			// A missing price history leaves the chart empty.
			prices, _ = svc.Prices.PricesForDay(ctx, now)
		}
		return snapshotMsg{forecast: f, series: series, prices: prices}
	}
}
