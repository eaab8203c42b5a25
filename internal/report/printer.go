package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/wexinc/depsweep/internal/tui/styles"
)

// OutputFormat defines the console output format.
type OutputFormat string

const (
	// OutputFormatText is the default human-readable text output.
	OutputFormatText OutputFormat = "text"
	// OutputFormatJSON writes one JSON object per event.
	OutputFormatJSON OutputFormat = "json"
)

// Totals aggregates the outcome of a run.
type Totals struct {
	Files       int `json:"files"`
	FailedFiles int `json:"failed_files"`
	Installed   int `json:"installed"`
	Skipped     int `json:"skipped"`
	Failed      int `json:"failed"`
}

// Printer renders events to a writer.
type Printer struct {
	w         io.Writer
	format    OutputFormat
	verbose   bool
	startTime time.Time
}

// NewPrinter creates a Printer. A nil writer discards everything.
func NewPrinter(w io.Writer, format OutputFormat, verbose bool) *Printer {
	if format == "" {
		format = OutputFormatText
	}
	return &Printer{
		w:         w,
		format:    format,
		verbose:   verbose,
		startTime: time.Now(),
	}
}

// jsonEvent is the JSON form of an Event.
type jsonEvent struct {
	Timestamp string    `json:"timestamp"`
	Type      EventType `json:"type"`
	File      string    `json:"file,omitempty"`
	Package   string    `json:"package,omitempty"`
	Packages  []string  `json:"packages,omitempty"`
	Message   string    `json:"message,omitempty"`
	Error     string    `json:"error,omitempty"`
}

// HandleEvent renders one event. It is designed to be used as an EventHandler.
func (p *Printer) HandleEvent(event Event) {
	if p.w == nil {
		return
	}
	if p.format == OutputFormatJSON {
		p.writeJSON(event)
		return
	}
	p.writeText(event)
}

func (p *Printer) writeJSON(event Event) {
	je := jsonEvent{
		Timestamp: event.Timestamp.Format(time.RFC3339),
		Type:      event.Type,
		File:      event.File,
		Package:   event.Package,
		Packages:  event.Packages,
		Message:   event.Message,
		Error:     errorStr(event.Err),
	}
	_ = json.NewEncoder(p.w).Encode(je)
}

func (p *Printer) writeText(event Event) {
	pkg := styles.PackageStyle.Render(event.Package)
	file := styles.FileStyle.Render(event.File)

	var message string
	switch event.Type {
	case EventRunStarted:
		if p.verbose {
			message = fmt.Sprintf("%s %s", styles.StatusWorking, event.Message)
		}
	case EventFileStarted:
		message = fmt.Sprintf("%s Scanning %s", styles.StatusWorking, file)
	case EventFileFailed:
		message = fmt.Sprintf("%s Could not process %s: %s", styles.StatusFailed, file,
			styles.ErrorTextStyle.Render(errorStr(event.Err)))
	case EventPackagesPending:
		message = fmt.Sprintf("  %d package(s) to install:\n%s", len(event.Packages), PendingTable(event.Packages))
	case EventNothingToInstall:
		message = fmt.Sprintf("  %s", styles.MutedTextStyle.Render("Nothing to install"))
	case EventPackageInstalling:
		message = fmt.Sprintf("  %s Installing %s", styles.StatusPending, pkg)
	case EventPackageInstalled:
		message = fmt.Sprintf("  %s Installed %s", styles.StatusInstalled, pkg)
	case EventPackageSkipped:
		message = fmt.Sprintf("  %s Skipped %s", styles.StatusSkipped, pkg)
	case EventPackageFailed:
		message = fmt.Sprintf("  %s Failed to install %s: %s", styles.StatusFailed, pkg,
			styles.ErrorTextStyle.Render(errorStr(event.Err)))
	case EventWarning:
		message = fmt.Sprintf("  %s %s", styles.StatusWarning, styles.WarningTextStyle.Render(event.Message))
	case EventRunFinished:
		elapsed := time.Since(p.startTime).Round(time.Millisecond)
		message = fmt.Sprintf("%s %s (%s)", styles.StatusInstalled, event.Message, elapsed)
	default:
		if p.verbose {
			message = fmt.Sprintf("  %s: %s", event.Type, event.Message)
		}
	}

	if message != "" {
		fmt.Fprintln(p.w, message)
	}
}

// PrintSummary prints the run totals.
func (p *Printer) PrintSummary(t Totals) {
	if p.w == nil {
		return
	}
	if p.format == OutputFormatJSON {
		_ = json.NewEncoder(p.w).Encode(struct {
			Type   string `json:"type"`
			Totals Totals `json:"totals"`
		}{Type: "summary", Totals: t})
		return
	}

	fmt.Fprintln(p.w, "")
	fmt.Fprintln(p.w, styles.TitleStyle.Render("Summary"))
	fmt.Fprintln(p.w, SummaryTable(t))
}

// PendingTable renders the packages waiting to be installed.
func PendingTable(pkgs []string) string {
	rows := make([][]string, len(pkgs))
	for i, pkg := range pkgs {
		rows[i] = []string{strconv.Itoa(i + 1), pkg}
	}
	return indent(newTable().Headers("#", "Package").Rows(rows...).String(), "  ")
}

// SummaryTable renders run totals as a two-column table.
func SummaryTable(t Totals) string {
	return newTable().
		Headers("Result", "Count").
		Row("Files processed", strconv.Itoa(t.Files)).
		Row("Files failed", strconv.Itoa(t.FailedFiles)).
		Row("Packages installed", strconv.Itoa(t.Installed)).
		Row("Packages skipped", strconv.Itoa(t.Skipped)).
		Row("Packages failed", strconv.Itoa(t.Failed)).
		String()
}

func newTable() *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(styles.TableBorderStyle).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return styles.TableHeaderStyle
			}
			return styles.TableCellStyle
		})
}

func indent(s, prefix string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = prefix + line
	}
	return strings.Join(lines, "\n")
}

func errorStr(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
