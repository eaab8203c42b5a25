// Package styles provides Lip Gloss styles for depsweep's terminal output.
package styles

import (
	"github.com/charmbracelet/lipgloss"
)

// Color palette.
var (
	Primary     = lipgloss.Color("#7C3AED") // Purple
	Secondary   = lipgloss.Color("#06B6D4") // Cyan
	Success     = lipgloss.Color("#10B981") // Green
	Warning     = lipgloss.Color("#F59E0B") // Amber
	Error       = lipgloss.Color("#EF4444") // Red
	Muted       = lipgloss.Color("#6B7280") // Gray
	MutedLight  = lipgloss.Color("#9CA3AF") // Light Gray
	Foreground  = lipgloss.Color("#F9FAFB") // White
	BorderColor = lipgloss.Color("#374151") // Border Gray
)

// TitleStyle is for section titles such as the run summary.
var TitleStyle = lipgloss.NewStyle().
	Foreground(Foreground).
	Background(Primary).
	Bold(true).
	Padding(0, 1)

// Package status icons.
var (
	// StatusInstalled marks a package that was installed.
	StatusInstalled = lipgloss.NewStyle().
			Foreground(Success).
			Render("✓")

	// StatusPending marks a package that still needs installing.
	StatusPending = lipgloss.NewStyle().
			Foreground(Muted).
			Render("○")

	// StatusWorking marks a package or file being processed.
	StatusWorking = lipgloss.NewStyle().
			Foreground(Secondary).
			Render("→")

	// StatusSkipped marks a package the user declined.
	StatusSkipped = lipgloss.NewStyle().
			Foreground(Warning).
			Render("⊘")

	// StatusFailed marks a failed package or file.
	StatusFailed = lipgloss.NewStyle().
			Foreground(Error).
			Render("✗")

	// StatusWarning marks a non-fatal problem.
	StatusWarning = lipgloss.NewStyle().
			Foreground(Warning).
			Render("!")
)

// BoxStyle is a standard box with border.
var BoxStyle = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(BorderColor).
	Padding(0, 1)

// Text styles.
var (
	// MutedTextStyle is for de-emphasized text.
	MutedTextStyle = lipgloss.NewStyle().
			Foreground(Muted)

	// ErrorTextStyle is for error messages.
	ErrorTextStyle = lipgloss.NewStyle().
			Foreground(Error)

	// SuccessTextStyle is for success messages.
	SuccessTextStyle = lipgloss.NewStyle().
				Foreground(Success)

	// WarningTextStyle is for warning messages.
	WarningTextStyle = lipgloss.NewStyle().
				Foreground(Warning)

	// PackageStyle highlights a package specifier.
	PackageStyle = lipgloss.NewStyle().
			Foreground(Secondary).
			Bold(true)

	// FileStyle highlights a document path.
	FileStyle = lipgloss.NewStyle().
			Foreground(Foreground).
			Bold(true)
)

// Table styles.
var (
	// TableBorderStyle colors table borders.
	TableBorderStyle = lipgloss.NewStyle().
				Foreground(BorderColor)

	// TableHeaderStyle is for table header cells.
	TableHeaderStyle = lipgloss.NewStyle().
				Foreground(Primary).
				Bold(true).
				Padding(0, 1)

	// TableCellStyle is for table body cells.
	TableCellStyle = lipgloss.NewStyle().
			Padding(0, 1)
)

// Prompt styles.
var (
	// PromptStyle is the question text of a confirmation prompt.
	PromptStyle = lipgloss.NewStyle().
			Foreground(Foreground).
			Bold(true)

	// KeyStyle is for keyboard shortcut keys.
	KeyStyle = lipgloss.NewStyle().
			Foreground(Secondary).
			Bold(true)

	// HelpStyle is for help text.
	HelpStyle = lipgloss.NewStyle().
			Foreground(Muted)
)
