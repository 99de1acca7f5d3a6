// Package calculator contributes a pocket calculator widget to the overlay
// slot. Expressions are evaluated through an embedded interpreter behind a
// strict character whitelist, so only arithmetic ever reaches the evaluator.
package calculator

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/traefik/yaegi/interp"
	"go.uber.org/zap"

	"genesisctl/internal/plugin"
)

// exprPattern admits digits, the four operators, parens, dots and spaces.
// Anything else is rejected before evaluation.
var exprPattern = regexp.MustCompile(`^[0-9+\-*/.() ]+$`)

var numberPattern = regexp.MustCompile(`\d+(\.\d+)?`)

// Plugin owns the calculator state and registers its widget.
type Plugin struct {
	mu      sync.Mutex
	visible bool
	expr    string
	result  string

	interp *interp.Interpreter
	log    *zap.Logger
}

// New creates the calculator plugin.
func New(log *zap.Logger) *Plugin {
	if log == nil {
		log = zap.NewNop()
	}
	return &Plugin{
		interp: interp.New(interp.Options{}),
		log:    log,
	}
}

// Manifest implements plugin.Plugin.
func (p *Plugin) Manifest() plugin.Manifest {
	return plugin.Manifest{
		ID:          "builtin.calculator",
		Name:        "Calculator",
		Version:     "1.0.0",
		Description: "Arithmetic expression evaluator",
	}
}

// Init implements plugin.Plugin.
func (p *Plugin) Init(ctx *plugin.Context) error {
	ctx.Events().Subscribe(plugin.TopicToggleCalculator, func(any) { p.Toggle() })
	ctx.RegisterSlot(plugin.OverlaySlot, func(plugin.Props) plugin.Widget { return p })
	return nil
}

// Toggle flips visibility.
func (p *Plugin) Toggle() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.visible = !p.visible
}

// Visible reports whether the widget is shown.
func (p *Plugin) Visible() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.visible
}

// Append adds characters to the pending expression.
func (p *Plugin) Append(s string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.expr += s
	p.result = ""
}

// Backspace removes the last character.
func (p *Plugin) Backspace() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.expr != "" {
		p.expr = p.expr[:len(p.expr)-1]
	}
}

// Clear resets expression and result.
func (p *Plugin) Clear() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.expr = ""
	p.result = ""
}

// Evaluate computes the pending expression and stores the outcome.
func (p *Plugin) Evaluate() {
	p.mu.Lock()
	expr := p.expr
	p.mu.Unlock()

	out, err := p.eval(expr)

	p.mu.Lock()
	defer p.mu.Unlock()
	if err != nil {
		p.result = "Error"
		p.log.Debug("calculator eval rejected", zap.String("expr", expr), zap.Error(err))
		return
	}
	p.result = out
}

func (p *Plugin) eval(expr string) (string, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return "", errors.New("empty expression")
	}
	if !exprPattern.MatchString(expr) {
		return "", fmt.Errorf("disallowed characters in %q", expr)
	}

	v, err := p.interp.Eval(floatify(expr))
	if err != nil {
		return "", err
	}
	f := v.Float()
	return strconv.FormatFloat(f, 'g', 12, 64), nil
}

// floatify rewrites bare integer literals as floats so division behaves the
// way a calculator user expects: 1/2 is 0.5, not 0.
func floatify(expr string) string {
	return numberPattern.ReplaceAllStringFunc(expr, func(n string) string {
		if strings.Contains(n, ".") {
			return n
		}
		return n + ".0"
	})
}

var (
	calcFrame = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(0, 1)
	calcTitle  = lipgloss.NewStyle().Bold(true)
	calcResult = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
)

// View implements plugin.Widget. Hidden widgets render nothing.
func (p *Plugin) View(width, _ int) string {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.visible {
		return ""
	}

	inner := width - 4
	if inner < 16 {
		inner = 16
	}
	var b strings.Builder
	b.WriteString(calcTitle.Render("Calculator"))
	b.WriteString("\n")
	b.WriteString("> " + p.expr)
	if p.result != "" {
		b.WriteString("\n")
		b.WriteString(calcResult.Render("= " + p.result))
	}
	return calcFrame.Width(inner).Render(b.String())
}
