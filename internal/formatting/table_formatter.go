package formatting

import (
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"custodian/internal/catalog"
	"custodian/internal/dependency"
	"custodian/internal/lookup"
	pkgstrings "custodian/pkg/strings"
)

// TableFormatter provides rich table output formatting
type TableFormatter struct {
	out io.Writer
}

// FormatLookup prints the resource, then its owner and related services.
func (f *TableFormatter) FormatLookup(resp *lookup.Response) error {
	t := f.createKeyValueTable()
	t.AppendRow(table.Row{"Resource", resp.ID})
	t.AppendRow(table.Row{"Status", statusColor(resp.Status)})
	t.AppendRow(table.Row{"Source", string(resp.Source)})
	appendIf(t, "Type", resp.ResourceType)
	appendIf(t, "Pattern", resp.Pattern)
	if resp.ResourceData != nil {
		for pair := resp.ResourceData.Oldest(); pair != nil; pair = pair.Next() {
			t.AppendRow(table.Row{"  " + pair.Key, truncate(fmt.Sprintf("%v", pair.Value))})
		}
	}
	appendIf(t, "Handler error", resp.HandlerError)
	appendIf(t, "Note", resp.Note)
	appendIf(t, "Lookup ID", resp.LookupID)
	t.Render()

	if resp.OwnerContext != nil {
		f.renderOwner(resp.OwnerContext)
		if len(resp.RelatedServices) == 0 {
			f.formatEmptyMessage("No related services")
			return nil
		}
		rt := f.createTable("SERVICE", "TEAM", "RELATION", "PURPOSE")
		for _, r := range resp.RelatedServices {
			rt.AppendRow(table.Row{r.Name, r.Team, string(r.Relation), r.Purpose})
		}
		rt.Render()
	}
	return nil
}

// FormatOwner prints the owning service of a resource.
func (f *TableFormatter) FormatOwner(resp *lookup.OwnerResponse) error {
	if resp.Owner == nil {
		f.formatEmptyMessage(resp.Error)
		return nil
	}
	t := f.createKeyValueTable()
	t.AppendRow(table.Row{"Resource", resp.ResourceID})
	appendIf(t, "Type", resp.ResourceType)
	t.AppendRow(table.Row{"Pattern", resp.Pattern})
	t.Render()
	f.renderOwner(resp.Owner)
	return nil
}

func (f *TableFormatter) renderOwner(o *lookup.OwnerContext) {
	t := f.createKeyValueTable()
	t.AppendRow(table.Row{"Owner", text.FgHiGreen.Sprint(o.Service)})
	t.AppendRow(table.Row{"Team", o.Team})
	appendIf(t, "Slack", o.SlackChannel)
	appendIf(t, "Pager", o.PagerAlias)
	appendIf(t, "Description", truncate(o.Description))
	appendIf(t, "Logs", o.Observability.LogIndex)
	appendIf(t, "Metrics", o.Observability.MetricsJob)
	appendIf(t, "Dashboard", o.Observability.Dashboard)
	for _, d := range o.Dependencies {
		t.AppendRow(table.Row{"Depends on", describeSpec(d)})
	}
	t.Render()
}

// FormatService prints one catalog record.
func (f *TableFormatter) FormatService(r *catalog.ServiceRecord) error {
	t := f.createKeyValueTable()
	t.AppendRow(table.Row{"Name", text.FgHiGreen.Sprint(r.Name)})
	t.AppendRow(table.Row{"Team", r.Team})
	appendIf(t, "Description", truncate(r.Description))
	appendIf(t, "Slack", r.SlackChannel)
	appendIf(t, "Pager", r.PagerAlias)
	t.Render()

	if len(r.ResourcePatterns) > 0 {
		pt := f.createTable("PATTERN", "TYPE", "HANDLER URL")
		for _, p := range r.ResourcePatterns {
			pt.AppendRow(table.Row{p.Pattern, p.Type, p.HandlerURL})
		}
		pt.Render()
	}
	if len(r.Dependencies) > 0 {
		return f.FormatEdges(r.Name, "dependencies", edgesOf(r))
	}
	return nil
}

// FormatServices prints the service listing.
func (f *TableFormatter) FormatServices(services []lookup.ServiceSummary) error {
	if len(services) == 0 {
		f.formatEmptyMessage("No services found")
		return nil
	}
	t := f.createTable("NAME", "TEAM", "PATTERNS", "DESCRIPTION")
	for _, s := range services {
		t.AppendRow(table.Row{s.Name, s.Team, strings.Join(s.Patterns, ", "), truncate(s.Description)})
	}
	t.AppendFooter(table.Row{"", "", "Total", len(services)})
	t.Render()
	return nil
}

// FormatEdges prints dependency edges.
func (f *TableFormatter) FormatEdges(service, key string, edges []dependency.Edge) error {
	if len(edges) == 0 {
		f.formatEmptyMessage(fmt.Sprintf("%s has no %s", service, key))
		return nil
	}
	t := f.createTable("FROM", "TYPE", "TARGET", "CRITICAL")
	for _, e := range edges {
		critical := ""
		if e.Critical {
			critical = text.FgHiRed.Sprint("yes")
		}
		t.AppendRow(table.Row{e.From, string(e.Type), target(e.DependencySpec), critical})
	}
	t.Render()
	return nil
}

// FormatSync prints what a seed or sync changed.
func (f *TableFormatter) FormatSync(result catalog.SyncResult) error {
	t := f.createTable("CHANGE", "COUNT", "SERVICES")
	t.AppendRow(table.Row{"created", len(result.Created), strings.Join(result.Created, ", ")})
	t.AppendRow(table.Row{"updated", len(result.Updated), strings.Join(result.Updated, ", ")})
	t.AppendRow(table.Row{"unchanged", len(result.Unchanged), strings.Join(result.Unchanged, ", ")})
	t.AppendRow(table.Row{"deleted", len(result.Deleted), strings.Join(result.Deleted, ", ")})
	t.Render()
	return nil
}

// Helper methods

// createTable creates a new table with standard styling
func (f *TableFormatter) createTable(headers ...interface{}) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(f.out)
	t.SetStyle(table.StyleRounded)
	if len(headers) > 0 {
		row := make(table.Row, len(headers))
		for i, h := range headers {
			row[i] = text.FgHiCyan.Sprint(h)
		}
		t.AppendHeader(row)
	}
	return t
}

func (f *TableFormatter) createKeyValueTable() table.Writer {
	t := f.createTable()
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Colors: text.Colors{text.FgHiCyan}},
	})
	return t
}

// formatEmptyMessage formats empty result messages
func (f *TableFormatter) formatEmptyMessage(message string) {
	fmt.Fprintf(f.out, "%s %s\n", text.FgYellow.Sprint("📋"), text.FgYellow.Sprint(message))
}

func appendIf(t table.Writer, key, value string) {
	if value != "" {
		t.AppendRow(table.Row{key, value})
	}
}

func statusColor(status string) string {
	switch status {
	case lookup.StatusNotFound:
		return text.FgYellow.Sprint(status)
	case "failed", "unavailable", "error":
		return text.FgHiRed.Sprint(status)
	default:
		return text.FgHiGreen.Sprint(status)
	}
}

func truncate(s string) string {
	return pkgstrings.TruncateDescription(s, pkgstrings.DefaultDescriptionMaxLen)
}

func target(s catalog.DependencySpec) string {
	switch s.Type {
	case catalog.KindInternal:
		return s.Service
	case catalog.KindDatabase:
		if s.Engine != "" {
			return fmt.Sprintf("%s (%s)", s.Name, s.Engine)
		}
		return s.Name
	case catalog.KindAWS:
		return strings.TrimSpace(fmt.Sprintf("%s %s %s", s.AWSService, s.AWSResourceID, s.AWSRegion))
	default:
		return s.Name
	}
}

func describeSpec(s catalog.DependencySpec) string {
	out := fmt.Sprintf("%s: %s", s.Type, target(s))
	if s.Critical {
		out += " (critical)"
	}
	return out
}

func edgesOf(r *catalog.ServiceRecord) []dependency.Edge {
	specs := r.Dependencies.Specs()
	edges := make([]dependency.Edge, 0, len(specs))
	for _, s := range specs {
		edges = append(edges, dependency.Edge{From: r.Name, DependencySpec: s})
	}
	return edges
}
