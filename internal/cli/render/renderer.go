package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/agreementchain/agreements/internal/common"
	"github.com/agreementchain/agreements/pkg/actions"
	"github.com/agreementchain/agreements/pkg/feedback"
	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
)

var (
	titleStyle   = color.New(color.FgCyan, color.Bold)
	labelStyle   = color.New(color.FgWhite, color.Bold)
	sectionStyle = color.New(color.FgWhite, color.Bold, color.Underline)
	loadingStyle = color.New(color.FgYellow)
	successStyle = color.New(color.FgGreen)
	failureStyle = color.New(color.FgRed)
	faintStyle   = color.New(color.Faint)
)

// Renderer writes views as tables
type Renderer struct {
	out   io.Writer
	color bool
}

func New(out io.Writer, color bool) *Renderer {
	return &Renderer{out: out, color: color}
}

func (r *Renderer) sprint(c *color.Color, format string, args ...interface{}) string {
	if !r.color {
		return fmt.Sprintf(format, args...)
	}

	return c.Sprintf(format, args...)
}

func (r *Renderer) println(c *color.Color, format string, args ...interface{}) {
	fmt.Fprintln(r.out, r.sprint(c, format, args...))
}

func (r *Renderer) field(label, value string) {
	fmt.Fprintf(r.out, "%s %s\n", r.sprint(labelStyle, "%-14s", label+":"), value)
}

func (r *Renderer) loading(loading bool) {
	if loading {
		r.println(loadingStyle, "Loading... some data could not be read yet")
	}
}

func (r *Renderer) table(header table.Row, rows []table.Row) {
	t := table.NewWriter()
	t.SetOutputMirror(r.out)
	t.SetStyle(table.StyleLight)
	t.Style().Options.DrawBorder = false
	t.Style().Options.SeparateColumns = false
	t.AppendHeader(header)
	t.AppendRows(rows)
	t.Render()
}

func short(addr string) string {
	return common.ShortenAddress(addr, 4)
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}

// Result prints the notification of a write, or the call to sign when it
// was not submitted.
func (r *Renderer) Result(res *actions.Result) {
	if res.Notification != nil {
		r.Notification(*res.Notification)
	}

	if res.Agreement != "" {
		r.field("Agreement", res.Agreement)
	}

	if res.Prepared != nil {
		r.println(sectionStyle, "PREPARED CALL")
		r.field("Method", res.Prepared.Method)
		r.field("To", res.Prepared.To.Hex())
		r.field("Data", res.Prepared.Data.String())
	}
}

func (r *Renderer) Notification(n feedback.Notification) {
	if n.OK() {
		r.println(successStyle, "✅ %s", n.Message)
		if n.TransactionHash != "" {
			r.println(faintStyle, "   tx %s", n.TransactionHash)
		}
		return
	}

	r.println(failureStyle, "❌ %s", n.Message)
}
